package reconcile

import (
	"context"
	"time"

	"psn-value/core/catalog"
)

// Config holds the named constants of a sync run.
type Config struct {
	// DefaultRating replaces a null or zero raw score.
	DefaultRating float64 `mapstructure:"default_rating" default:"1"`
	// DefaultRatingCount replaces a null or zero rating count.
	DefaultRatingCount int `mapstructure:"default_rating_count" default:"0"`
	// MinimumPrice is the floor applied to prices before valuation.
	MinimumPrice float64 `mapstructure:"minimum_price" default:"1"`
	// ThumbnailImageType is the image type tag of a thumbnail.
	ThumbnailImageType int `mapstructure:"thumbnail_image_type" default:"1"`
	// DefaultAgeRating is stored until full details are known.
	DefaultAgeRating int `mapstructure:"default_age_rating" default:"0"`
	// InsertDelay is the pause after each insert attempt.
	InsertDelay time.Duration `mapstructure:"insert_delay" default:"1s"`
	// LockDir holds the per-library job locks shared by the server and the
	// CLI. Empty means the OS temp directory.
	LockDir string `mapstructure:"lock_dir"`
}

// DefaultConfig returns the configuration used when none is loaded.
func DefaultConfig() Config {
	return Config{
		DefaultRating:      1,
		DefaultRatingCount: 0,
		MinimumPrice:       1,
		ThumbnailImageType: 1,
		DefaultAgeRating:   0,
		InsertDelay:        time.Second,
	}
}

// Fetcher is the storefront client used by the engine.
type Fetcher interface {
	FetchTotalCount(ctx context.Context, libraryURL string) (int, error)
	FetchCatalogPage(ctx context.Context, libraryURL string, count int) (*catalog.Catalog, error)
	FetchTitleDetails(ctx context.Context, detailsURL string) (*catalog.TitleDetails, error)
}

// Archiver stores the raw catalog page of a run.
type Archiver interface {
	ArchiveCatalog(ctx context.Context, library LibraryInfo, runID string, page *catalog.Catalog) error
}

// ThumbnailMirror copies a storefront thumbnail elsewhere and returns the
// URL to store instead.
type ThumbnailMirror interface {
	MirrorThumbnail(ctx context.Context, library LibraryInfo, externalID, sourceURL string) (string, error)
}

// Outcome is the result of processing one catalog entry.
type Outcome string

const (
	// OutcomeSkipped means the entry failed validation.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeUpdated means an existing title was refreshed.
	OutcomeUpdated Outcome = "updated"
	// OutcomeInserted means a new title was stored.
	OutcomeInserted Outcome = "inserted"
	// OutcomeFailed means processing the entry returned an error.
	OutcomeFailed Outcome = "failed"
)

// TitleOutcome records what happened to one catalog entry.
type TitleOutcome struct {
	ExternalID string  `json:"external_id"`
	Name       string  `json:"name"`
	Outcome    Outcome `json:"outcome"`
	// Reason explains skips and failures.
	Reason string `json:"reason,omitempty"`
}

// RunSummary aggregates the outcomes of one run.
type RunSummary struct {
	RunID      string         `json:"run_id"`
	LibraryID  uint           `json:"library_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Mean       float64        `json:"rating_mean"`
	StdDev     float64        `json:"rating_std_dev"`
	Total      int            `json:"total"`
	Skipped    int            `json:"skipped"`
	Updated    int            `json:"updated"`
	Inserted   int            `json:"inserted"`
	Failed     int            `json:"failed"`
	Outcomes   []TitleOutcome `json:"outcomes"`
}

func (s *RunSummary) record(o TitleOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	s.Total++
	switch o.Outcome {
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeInserted:
		s.Inserted++
	case OutcomeFailed:
		s.Failed++
	}
}

// MaintenanceSummary reports a weight recomputation or thumbnail refresh.
type MaintenanceSummary struct {
	RunID      string    `json:"run_id"`
	LibraryID  uint      `json:"library_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Mean       float64   `json:"rating_mean"`
	StdDev     float64   `json:"rating_std_dev"`
	Touched    int       `json:"touched"`
	Failed     int       `json:"failed"`
}
