package reconcile

import (
	"context"
	"time"
)

// TitleHandle identifies a persisted title.
type TitleHandle uint

// LibraryInfo is the part of a library the engine needs.
type LibraryInfo struct {
	ID   uint
	Name string
	URL  string
}

// NewTitle carries the columns of a title row created by a sync run.
type NewTitle struct {
	LibraryID    uint
	ExternalID   string
	Name         string
	DetailsURL   string
	ThumbnailURL *string
	AgeRating    int
}

// TitleRating is a stored raw rating, used when weights are recomputed.
type TitleRating struct {
	Title    TitleHandle
	RawScore float64
}

// Gateway defines every read and write the engine performs against durable
// state. Implementations must be safe to use from one goroutine at a time.
type Gateway interface {
	// LibraryURL returns the base query URL of the library with the given name.
	LibraryURL(ctx context.Context, name string) (string, error)

	// Library loads a library by id. It returns ErrLibraryNotFound if absent.
	Library(ctx context.Context, libraryID uint) (*LibraryInfo, error)

	// TitleExists reports whether externalID is already stored in the library.
	TitleExists(ctx context.Context, libraryID uint, externalID string) (bool, error)

	// InternalID resolves an external id to the persisted title.
	InternalID(ctx context.Context, libraryID uint, externalID string) (TitleHandle, error)

	// DetailsURL returns the stored full-details URL of a title.
	DetailsURL(ctx context.Context, libraryID uint, externalID string) (string, error)

	// InsertTitle creates a title row and returns its handle.
	InsertTitle(ctx context.Context, t NewTitle) (TitleHandle, error)

	// SetAgeRating stores the age rating read from the full details.
	SetAgeRating(ctx context.Context, title TitleHandle, ageRating int) error

	// SetThumbnail replaces the stored thumbnail URL.
	SetThumbnail(ctx context.Context, title TitleHandle, thumbnailURL *string) error

	InsertPrice(ctx context.Context, title TitleHandle, base, standardDiscount, loyaltyDiscount float64) error
	UpdatePrice(ctx context.Context, title TitleHandle, base, standardDiscount, loyaltyDiscount float64) error

	InsertRating(ctx context.Context, title TitleHandle, raw float64, count int, weighted float64) error
	UpdateRating(ctx context.Context, title TitleHandle, raw float64, count int, weighted float64) error

	// SetWeightedRating rewrites only the weighted score of a rating record.
	SetWeightedRating(ctx context.Context, title TitleHandle, weighted float64) error

	InsertValue(ctx context.Context, title TitleHandle, score, loyaltyScore float64) error
	UpdateValue(ctx context.Context, title TitleHandle, score, loyaltyScore float64) error

	// WeightedRating returns the stored weighted score of a title.
	WeightedRating(ctx context.Context, title TitleHandle) (float64, error)

	// Price returns the stored price record of a title.
	Price(ctx context.Context, title TitleHandle) (PriceInfo, error)

	// AllRatings returns every raw rating currently stored for the library.
	AllRatings(ctx context.Context, libraryID uint) ([]float64, error)

	// TitleRatings returns the raw rating of every title in the library.
	TitleRatings(ctx context.Context, libraryID uint) ([]TitleRating, error)

	SetLibraryStats(ctx context.Context, libraryID uint, mean, stdDev float64) error
	SetLastUpdated(ctx context.Context, libraryID uint, at time.Time) error

	// Transaction runs fn against a gateway bound to a single transaction.
	// Returning an error from fn rolls every write back.
	Transaction(ctx context.Context, fn func(tx Gateway) error) error
}

// PriceInfo is a stored price record.
type PriceInfo struct {
	Base             float64
	StandardDiscount float64
	LoyaltyDiscount  float64
}
