package reconcile

import (
	"context"
	"fmt"

	"psn-value/core/valuation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecomputeWeights refreshes the library statistics and rewrites the
// weighted rating and value of every stored title without contacting the
// storefront.
func (e *Engine) RecomputeWeights(ctx context.Context, libraryID uint) (*MaintenanceSummary, error) {
	lib, err := e.gateway.Library(ctx, libraryID)
	if err != nil {
		return nil, err
	}

	summary := &MaintenanceSummary{RunID: uuid.NewString(), LibraryID: lib.ID, StartedAt: e.now()}
	l := e.logger.With(zap.Uint("library_id", lib.ID), zap.String("run_id", summary.RunID))

	summary.Mean, summary.StdDev, err = e.refreshStats(ctx, lib.ID)
	if err != nil {
		return nil, err
	}

	titles, err := e.gateway.TitleRatings(ctx, lib.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load title ratings: %w", err)
	}

	for _, t := range titles {
		if err := ctx.Err(); err != nil {
			summary.FinishedAt = e.now()
			return summary, err
		}

		weighted := valuation.Weight(t.RawScore, summary.Mean, summary.StdDev)
		err := e.gateway.Transaction(ctx, func(tx Gateway) error {
			if err := tx.SetWeightedRating(ctx, t.Title, weighted); err != nil {
				return err
			}
			return e.writeValue(ctx, tx, t.Title, tx.UpdateValue)
		})
		if err != nil {
			summary.Failed++
			l.Error("Weighted rating not updated", zap.Uint("title_id", uint(t.Title)), zap.Error(err))
			continue
		}
		summary.Touched++
	}

	summary.FinishedAt = e.now()
	l.Info("Weighted ratings recomputed",
		zap.Int("touched", summary.Touched),
		zap.Int("failed", summary.Failed),
		zap.Float64("mean", summary.Mean),
		zap.Float64("std_dev", summary.StdDev),
	)
	return summary, nil
}

// RefreshThumbnails re-reads the catalog and rewrites the thumbnail of every
// stored title, mirroring it first when a ThumbnailMirror is configured.
func (e *Engine) RefreshThumbnails(ctx context.Context, libraryID uint) (*MaintenanceSummary, error) {
	lib, err := e.gateway.Library(ctx, libraryID)
	if err != nil {
		return nil, err
	}

	summary := &MaintenanceSummary{RunID: uuid.NewString(), LibraryID: lib.ID, StartedAt: e.now()}
	l := e.logger.With(zap.Uint("library_id", lib.ID), zap.String("run_id", summary.RunID))

	page, err := e.fetchCatalog(ctx, lib)
	if err != nil {
		return nil, err
	}

	for _, link := range page.Links {
		if err := ctx.Err(); err != nil {
			summary.FinishedAt = e.now()
			return summary, err
		}

		externalID := link.ExternalID()
		exists, err := e.gateway.TitleExists(ctx, lib.ID, externalID)
		if err != nil {
			summary.Failed++
			l.Error("Thumbnail lookup failed", zap.String("external_id", externalID), zap.Error(err))
			continue
		}
		if !exists {
			continue
		}

		thumb := SelectThumbnail(link.Images, e.cfg.ThumbnailImageType)
		if thumb != nil && e.mirror != nil {
			mirrored, err := e.mirror.MirrorThumbnail(ctx, *lib, externalID, *thumb)
			if err != nil {
				summary.Failed++
				l.Error("Thumbnail not mirrored", zap.String("external_id", externalID), zap.Error(err))
				continue
			}
			thumb = &mirrored
		}

		id, err := e.gateway.InternalID(ctx, lib.ID, externalID)
		if err == nil {
			err = e.gateway.SetThumbnail(ctx, id, thumb)
		}
		if err != nil {
			summary.Failed++
			l.Error("Thumbnail not stored", zap.String("external_id", externalID), zap.Error(err))
			continue
		}
		summary.Touched++
	}

	summary.FinishedAt = e.now()
	l.Info("Thumbnails refreshed", zap.Int("touched", summary.Touched), zap.Int("failed", summary.Failed))
	return summary, nil
}
