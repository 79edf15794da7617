package library

import (
	"context"
	"errors"

	"psn-value/core/logger"
	"psn-value/core/reconcile"
	"psn-value/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SnapshotLister lists archived catalog pages.
type SnapshotLister interface {
	ListSnapshots(ctx context.Context, libraryID uint) ([]Snapshot, error)
}

// Handler handles HTTP requests for libraries.
type Handler struct {
	service   *Service
	runner    *Runner
	snapshots SnapshotLister
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler. snapshots may be nil when object
// storage is disabled.
func NewHandler(service *Service, runner *Runner, snapshots SnapshotLister, logger *zap.Logger) *Handler {
	return &Handler{service: service, runner: runner, snapshots: snapshots, logger: logger}
}

// CreateLibraryRequest is the body of a library creation request.
type CreateLibraryRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RegisterRoutes registers the library routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/libraries")
	group.Get("/", h.HandleListLibraries)
	group.Post("/", h.HandleCreateLibrary)
	group.Get("/:id/titles", h.HandleListTitles)
	group.Get("/:id/jobs", h.HandleJobStatus)
	group.Post("/:id/jobs/:kind", h.HandleTriggerJob)
	group.Get("/:id/snapshots", h.HandleListSnapshots)
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func libraryID(c *fiber.Ctx) (uint, bool) {
	id := utils.ToInt(c.Params("id"))
	if id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// HandleListLibraries lists every library.
// @Summary List Libraries
// @Description List the tracked storefront libraries with their statistics.
// @Tags libraries
// @Produce json
// @Success 200 {array} library.LibrarySummary
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /libraries [get]
func (h *Handler) HandleListLibraries(c *fiber.Ctx) error {
	libs, err := h.service.ListLibraries(c.Context())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Listing libraries failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(libs)
}

// HandleCreateLibrary registers a library.
// @Summary Create Library
// @Description Register a storefront category by name and base query URL.
// @Tags libraries
// @Accept json
// @Produce json
// @Param library body library.CreateLibraryRequest true "Library"
// @Success 201 {object} models.Library
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /libraries [post]
func (h *Handler) HandleCreateLibrary(c *fiber.Ctx) error {
	var req CreateLibraryRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	lib, err := h.service.CreateLibrary(c.Context(), req.Name, req.URL)
	if err != nil {
		logger.WithRayID(h.logger, c).Warn("Library not created", zap.Error(err))
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(lib)
}

// HandleListTitles returns a page of ranked titles.
// @Summary List Titles
// @Description Titles ranked by loyalty value, 40 per page. Free titles and titles with fewer than 50 ratings are hidden.
// @Tags libraries
// @Produce json
// @Param id path int true "Library ID"
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} library.TitlePage
// @Failure 404 {object} map[string]string "Library Not Found"
// @Router /libraries/{id}/titles [get]
func (h *Handler) HandleListTitles(c *fiber.Ctx) error {
	id, ok := libraryID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "invalid library id")
	}

	page, err := h.service.ListTitles(c.Context(), id, utils.ToInt(c.Query("page", "1")))
	if errors.Is(err, reconcile.ErrLibraryNotFound) {
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Listing titles failed", zap.Uint("library_id", id), zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(page)
}

// HandleTriggerJob starts a job for a library.
// @Summary Trigger Job
// @Description Start a sync, weights or thumbnails job. Only one job per library runs at a time.
// @Tags jobs
// @Produce json
// @Param id path int true "Library ID"
// @Param kind path string true "Job kind" Enums(sync, weights, thumbnails)
// @Success 202 {object} library.JobStatus
// @Failure 400 {object} map[string]string "Unknown Job Kind"
// @Failure 404 {object} map[string]string "Library Not Found"
// @Failure 409 {object} map[string]string "Run In Flight"
// @Router /libraries/{id}/jobs/{kind} [post]
func (h *Handler) HandleTriggerJob(c *fiber.Ctx) error {
	id, ok := libraryID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "invalid library id")
	}
	l := logger.WithLibrary(logger.WithRayID(h.logger, c), id)

	status, err := h.runner.Trigger(c.Context(), id, JobKind(c.Params("kind")))
	switch {
	case errors.Is(err, ErrUnknownJobKind):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, reconcile.ErrLibraryNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrRunInFlight):
		l.Warn("Job rejected", zap.Error(err))
		return errorJSON(c, fiber.StatusConflict, err.Error())
	case err != nil:
		l.Error("Job not started", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	l.Info("Job accepted", zap.String("job_id", status.ID), zap.String("kind", string(status.Kind)))
	return c.Status(fiber.StatusAccepted).JSON(status)
}

// HandleJobStatus returns the latest job of a library.
// @Summary Job Status
// @Description Status and summary of the most recent job of a library.
// @Tags jobs
// @Produce json
// @Param id path int true "Library ID"
// @Success 200 {object} library.JobStatus
// @Failure 404 {object} map[string]string "No Job"
// @Router /libraries/{id}/jobs [get]
func (h *Handler) HandleJobStatus(c *fiber.Ctx) error {
	id, ok := libraryID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "invalid library id")
	}

	status, found := h.runner.Status(id)
	if !found {
		return errorJSON(c, fiber.StatusNotFound, "no job has run for this library")
	}
	return c.JSON(status)
}

// HandleListSnapshots lists archived catalog pages.
// @Summary List Catalog Snapshots
// @Description Archived raw catalog pages of a library, newest first. Requires object storage.
// @Tags libraries
// @Produce json
// @Param id path int true "Library ID"
// @Success 200 {array} library.Snapshot
// @Failure 404 {object} map[string]string "Storage Disabled"
// @Router /libraries/{id}/snapshots [get]
func (h *Handler) HandleListSnapshots(c *fiber.Ctx) error {
	id, ok := libraryID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "invalid library id")
	}
	if h.snapshots == nil {
		return errorJSON(c, fiber.StatusNotFound, "object storage is disabled")
	}

	snaps, err := h.snapshots.ListSnapshots(c.Context(), id)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Listing snapshots failed", zap.Uint("library_id", id), zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(snaps)
}
