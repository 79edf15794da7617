package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"psn-value/core/catalog"
	"psn-value/core/valuation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrCatalogUnavailable wraps failures of the initial catalog fetch.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrLibraryNotFound is returned when the library id is unknown.
	ErrLibraryNotFound = errors.New("library not found")
	// ErrIncompleteDetails is returned when full details lack a price or rating block.
	ErrIncompleteDetails = errors.New("incomplete title details")
)

// Engine reconciles a storefront catalog against a persisted library.
// A single Engine may serve many libraries, but callers must not run two
// syncs for the same library at once.
type Engine struct {
	gateway  Gateway
	fetcher  Fetcher
	cfg      Config
	logger   *zap.Logger
	archiver Archiver
	mirror   ThumbnailMirror
	now      func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithArchiver stores the raw catalog page of every run.
func WithArchiver(a Archiver) Option {
	return func(e *Engine) { e.archiver = a }
}

// WithThumbnailMirror copies thumbnails of new titles through m.
func WithThumbnailMirror(m ThumbnailMirror) Option {
	return func(e *Engine) { e.mirror = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a reconciliation engine.
func NewEngine(gateway Gateway, fetcher Fetcher, cfg Config, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MinimumPrice <= 0 {
		cfg.MinimumPrice = DefaultConfig().MinimumPrice
	}
	e := &Engine{
		gateway: gateway,
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run performs one sync run for the library. Per-title failures are
// recorded in the summary; only catalog, statistics and library errors
// abort the run. A cancelled context stops the run between titles and
// returns the partial summary with the context error.
func (e *Engine) Run(ctx context.Context, libraryID uint) (*RunSummary, error) {
	lib, err := e.gateway.Library(ctx, libraryID)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		RunID:     uuid.NewString(),
		LibraryID: lib.ID,
		StartedAt: e.now(),
	}
	l := e.logger.With(
		zap.Uint("library_id", lib.ID),
		zap.String("library", lib.Name),
		zap.String("run_id", summary.RunID),
	)
	l.Info("Sync run started")

	page, err := e.fetchCatalog(ctx, lib)
	if err != nil {
		return nil, err
	}
	l.Info("Catalog fetched", zap.Int("entries", len(page.Links)), zap.Int("total_results", page.TotalResults))

	if e.archiver != nil {
		if err := e.archiver.ArchiveCatalog(ctx, *lib, summary.RunID, page); err != nil {
			l.Warn("Catalog snapshot not archived", zap.Error(err))
		}
	}

	summary.Mean, summary.StdDev, err = e.refreshStats(ctx, lib.ID)
	if err != nil {
		return nil, err
	}
	l.Info("Library rating statistics updated",
		zap.Float64("mean", summary.Mean),
		zap.Float64("std_dev", summary.StdDev),
	)

	for _, link := range page.Links {
		if err := ctx.Err(); err != nil {
			l.Warn("Sync run cancelled", zap.Int("processed", summary.Total))
			summary.FinishedAt = e.now()
			return summary, err
		}

		outcome := e.processEntry(ctx, l, lib, link, summary)
		summary.record(outcome)
	}

	summary.FinishedAt = e.now()
	if err := e.gateway.SetLastUpdated(ctx, lib.ID, summary.FinishedAt); err != nil {
		return summary, fmt.Errorf("failed to stamp library %d: %w", lib.ID, err)
	}

	l.Info("Sync run finished",
		zap.Int("total", summary.Total),
		zap.Int("skipped", summary.Skipped),
		zap.Int("updated", summary.Updated),
		zap.Int("inserted", summary.Inserted),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return summary, nil
}

func (e *Engine) fetchCatalog(ctx context.Context, lib *LibraryInfo) (*catalog.Catalog, error) {
	total, err := e.fetcher.FetchTotalCount(ctx, lib.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	page, err := e.fetcher.FetchCatalogPage(ctx, lib.URL, total)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return page, nil
}

// refreshStats recomputes and persists the library rating statistics.
func (e *Engine) refreshStats(ctx context.Context, libraryID uint) (float64, float64, error) {
	ratings, err := e.gateway.AllRatings(ctx, libraryID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load ratings: %w", err)
	}

	mean := valuation.Mean(ratings)
	stdDev := valuation.StdDev(ratings)
	if err := e.gateway.SetLibraryStats(ctx, libraryID, mean, stdDev); err != nil {
		return 0, 0, fmt.Errorf("failed to store library statistics: %w", err)
	}
	return mean, stdDev, nil
}

func (e *Engine) processEntry(ctx context.Context, l *zap.Logger, lib *LibraryInfo, link catalog.Link, summary *RunSummary) TitleOutcome {
	out := TitleOutcome{ExternalID: link.ExternalID(), Name: link.Name}
	l = l.With(zap.String("external_id", out.ExternalID))

	if ok, reason := Validate(link, summary.StartedAt); !ok {
		out.Outcome = OutcomeSkipped
		out.Reason = reason
		l.Debug("Catalog entry skipped", zap.String("reason", reason))
		return out
	}

	exists, err := e.gateway.TitleExists(ctx, lib.ID, out.ExternalID)
	if err != nil {
		return e.failed(l, out, err)
	}

	if exists {
		if err := e.updateTitle(ctx, lib, link, summary.Mean, summary.StdDev); err != nil {
			return e.failed(l, out, err)
		}
		out.Outcome = OutcomeUpdated
		l.Debug("Title updated", zap.String("name", link.Name))
		return out
	}

	err = e.insertTitle(ctx, l, lib, link, summary.Mean, summary.StdDev)
	if err != nil {
		out = e.failed(l, out, err)
	} else {
		out.Outcome = OutcomeInserted
		l.Info("Title added", zap.String("name", link.Name))
	}

	// Courtesy delay toward the storefront after every insert attempt.
	_ = sleepContext(ctx, e.cfg.InsertDelay)
	return out
}

func (e *Engine) failed(l *zap.Logger, out TitleOutcome, err error) TitleOutcome {
	out.Outcome = OutcomeFailed
	out.Reason = err.Error()
	l.Error("Catalog entry failed", zap.String("name", out.Name), zap.Error(err))
	return out
}

// ratingInput is the rating and price data read from full details.
type ratingInput struct {
	discounts valuation.Discounts
	raw       float64
	count     int
}

func (e *Engine) readDetails(details *catalog.TitleDetails) (ratingInput, error) {
	if details.DefaultSKU == nil {
		return ratingInput{}, fmt.Errorf("%w: missing default_sku", ErrIncompleteDetails)
	}
	if details.StarRating == nil {
		return ratingInput{}, fmt.Errorf("%w: missing star_rating", ErrIncompleteDetails)
	}
	return ratingInput{
		discounts: valuation.ExtractDiscounts(*details.DefaultSKU),
		raw:       details.StarRating.ScoreValue(e.cfg.DefaultRating),
		count:     details.StarRating.CountValue(e.cfg.DefaultRatingCount),
	}, nil
}

func (e *Engine) updateTitle(ctx context.Context, lib *LibraryInfo, link catalog.Link, mean, stdDev float64) error {
	externalID := link.ExternalID()
	detailsURL, err := e.gateway.DetailsURL(ctx, lib.ID, externalID)
	if err != nil {
		return err
	}

	details, err := e.fetcher.FetchTitleDetails(ctx, detailsURL)
	if err != nil {
		return err
	}
	in, err := e.readDetails(details)
	if err != nil {
		return err
	}

	return e.gateway.Transaction(ctx, func(tx Gateway) error {
		id, err := tx.InternalID(ctx, lib.ID, externalID)
		if err != nil {
			return err
		}
		d := in.discounts
		if err := tx.UpdatePrice(ctx, id, d.Base, d.Standard, d.Loyalty); err != nil {
			return err
		}
		weighted := valuation.Weight(in.raw, mean, stdDev)
		if err := tx.UpdateRating(ctx, id, in.raw, in.count, weighted); err != nil {
			return err
		}
		return e.writeValue(ctx, tx, id, tx.UpdateValue)
	})
}

func (e *Engine) insertTitle(ctx context.Context, l *zap.Logger, lib *LibraryInfo, link catalog.Link, mean, stdDev float64) error {
	details, err := e.fetcher.FetchTitleDetails(ctx, link.URL)
	if err != nil {
		return err
	}
	in, err := e.readDetails(details)
	if err != nil {
		return err
	}

	thumb := SelectThumbnail(link.Images, e.cfg.ThumbnailImageType)

	var id TitleHandle
	err = e.gateway.Transaction(ctx, func(tx Gateway) error {
		var err error
		id, err = tx.InsertTitle(ctx, NewTitle{
			LibraryID:    lib.ID,
			ExternalID:   link.ExternalID(),
			Name:         link.Name,
			DetailsURL:   link.URL,
			ThumbnailURL: thumb,
			AgeRating:    e.cfg.DefaultAgeRating,
		})
		if err != nil {
			return err
		}
		if err := tx.SetAgeRating(ctx, id, details.AgeLimit); err != nil {
			return err
		}
		d := in.discounts
		if err := tx.InsertPrice(ctx, id, d.Base, d.Standard, d.Loyalty); err != nil {
			return err
		}
		weighted := valuation.Weight(in.raw, mean, stdDev)
		if err := tx.InsertRating(ctx, id, in.raw, in.count, weighted); err != nil {
			return err
		}
		return e.writeValue(ctx, tx, id, tx.InsertValue)
	})
	if err != nil {
		return err
	}

	// Mirror only committed titles so a rollback leaves no object behind.
	if thumb != nil && e.mirror != nil {
		mirrored, err := e.mirror.MirrorThumbnail(ctx, *lib, link.ExternalID(), *thumb)
		if err != nil {
			l.Warn("Thumbnail not mirrored, keeping storefront URL", zap.Error(err))
			return nil
		}
		if err := e.gateway.SetThumbnail(ctx, id, &mirrored); err != nil {
			l.Warn("Mirrored thumbnail not recorded, keeping storefront URL", zap.Error(err))
		}
	}
	return nil
}

// writeValue derives both value scores from the stored weighted rating and
// price of a title and hands them to write.
func (e *Engine) writeValue(ctx context.Context, tx Gateway, id TitleHandle, write func(context.Context, TitleHandle, float64, float64) error) error {
	weighted, err := tx.WeightedRating(ctx, id)
	if err != nil {
		return err
	}
	price, err := tx.Price(ctx, id)
	if err != nil {
		return err
	}

	score := valuation.ComputeValue(weighted, valuation.EffectivePrice(price.Base, e.cfg.MinimumPrice))
	discounted := valuation.DiscountedPrice(valuation.Discounts{
		Base:     price.Base,
		Standard: price.StandardDiscount,
		Loyalty:  price.LoyaltyDiscount,
	})
	loyaltyScore := valuation.ComputeValue(weighted, valuation.EffectivePrice(discounted, e.cfg.MinimumPrice))
	return write(ctx, id, score, loyaltyScore)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
