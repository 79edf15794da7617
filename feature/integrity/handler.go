package integrity

import (
	"errors"

	"psn-value/core/logger"
	"psn-value/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/libraries/:id", h.HandleRecordsCheck)
}

// HandleIntegrityCheck runs the schema and storage checks together.
// @Summary Run All Integrity Checks
// @Description Performs the schema and storage structure checks.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})

	if schemaReport, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schemaReport
	}

	switch missing, err := h.service.CheckStructure(c.Context()); {
	case errors.Is(err, ErrStorageDisabled):
		report["structure"] = map[string]interface{}{"status": "disabled"}
	case err != nil:
		report["structure"] = map[string]interface{}{"status": "error", "error": err.Error()}
	default:
		report["structure"] = map[string]interface{}{"status": "ok", "missing": missing}
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks and optionally fixes the database schema.
// @Summary Check Schema
// @Description Compares the library tables with the models. Optionally migrates missing tables and columns.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Migrate missing tables and columns"
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.Matched && c.Query("fix") == "true" {
		l.Info("Attempting to fix schema")
		if err := h.service.FixSchema(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to fix schema",
				"details": err.Error(),
			})
		}
		if report, err = h.service.CheckSchema(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes the bucket structure.
// @Summary Check Structure
// @Description Checks that the catalog and thumbnails folders exist in the bucket. Optionally creates them.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Fix missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 404 {object} map[string]string "Storage Disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStructure(c.Context())
	if errors.Is(err, ErrStorageDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing folders")
			if err := h.service.FixStructure(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleRecordsCheck reports titles missing a price, rating or value record.
// @Summary Check Title Records
// @Description Lists titles of a library that lack one of their price, rating or value records.
// @Tags integrity
// @Produce json
// @Param id path int true "Library ID"
// @Success 200 {object} checks.RecordsReport "Records Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/libraries/{id} [get]
func (h *Handler) HandleRecordsCheck(c *fiber.Ctx) error {
	id := utils.ToInt(c.Params("id"))
	if id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid library id"})
	}

	report, err := h.service.CheckRecords(c.Context(), uint(id))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Records check failed", zap.Int("library_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
