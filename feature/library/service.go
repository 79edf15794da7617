package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"psn-value/core/reconcile"
	"psn-value/core/utils"
	"psn-value/feature/library/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// MinListedRatingCount hides titles with too few ratings to be trusted.
	MinListedRatingCount = 50
	// MinListedPrice hides free titles from the listing.
	MinListedPrice = 1.0
	// PageSize is the number of titles per listing page.
	PageSize = 40
	// MaxPage bounds the listing page so the row offset cannot overflow.
	MaxPage = 100000
)

// LibrarySummary is a library as shown by the API.
type LibrarySummary struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	RatingMean   float64    `json:"rating_mean"`
	RatingStdDev float64    `json:"rating_std_dev"`
	LastUpdated  *time.Time `json:"last_updated"`
	TitleCount   int64      `json:"title_count"`
}

// TitleListing is one row of the ranked title listing.
type TitleListing struct {
	ID               uint    `json:"id"`
	ExternalID       string  `json:"external_id"`
	Name             string  `json:"name"`
	ThumbnailURL     *string `json:"thumbnail_url"`
	AgeRating        int     `json:"age_rating"`
	BasePrice        float64 `json:"base_price"`
	StandardDiscount float64 `json:"standard_discount"`
	LoyaltyDiscount  float64 `json:"loyalty_discount"`
	RawScore         float64 `json:"raw_score"`
	RatingCount      int     `json:"rating_count"`
	WeightedScore    float64 `json:"weighted_score"`
	Score            float64 `json:"score"`
	LoyaltyScore     float64 `json:"loyalty_score"`
}

// TitlePage is a page of the ranked title listing.
type TitlePage struct {
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Total    int64          `json:"total"`
	Titles   []TitleListing `json:"titles"`
}

// Service answers read queries about libraries and their titles.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new library service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// ListLibraries returns every library with its title count.
func (s *Service) ListLibraries(ctx context.Context) ([]LibrarySummary, error) {
	var out []LibrarySummary
	err := s.db.WithContext(ctx).Model(&models.Library{}).
		Select("libraries.id, libraries.name, libraries.url, libraries.rating_mean, libraries.rating_std_dev, libraries.last_updated, COUNT(titles.id) AS title_count").
		Joins("LEFT JOIN titles ON titles.library_id = libraries.id").
		Group("libraries.id, libraries.name, libraries.url, libraries.rating_mean, libraries.rating_std_dev, libraries.last_updated").
		Order("libraries.name").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list libraries: %w", err)
	}
	return out, nil
}

// CreateLibrary registers a storefront category under a unique name.
func (s *Service) CreateLibrary(ctx context.Context, name, url string) (*models.Library, error) {
	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)
	if name == "" || url == "" {
		return nil, errors.New("library name and url are required")
	}

	lib := models.Library{Name: name, URL: url}
	if err := s.db.WithContext(ctx).Create(&lib).Error; err != nil {
		return nil, fmt.Errorf("failed to create library %s: %w", name, err)
	}
	s.logger.Info("Library created", zap.Uint("library_id", lib.ID), zap.String("name", name))
	return &lib, nil
}

// ListTitles returns one page of the library's titles ranked by loyalty
// value, leaving out free titles and titles with few ratings. Pages are
// clamped to [1, MaxPage].
func (s *Service) ListTitles(ctx context.Context, libraryID uint, page int) (*TitlePage, error) {
	page = min(max(page, 1), MaxPage)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Library{}).Where("id = ?", libraryID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, reconcile.ErrLibraryNotFound
	}

	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Title{}).
			Joins("JOIN title_prices ON title_prices.title_id = titles.id").
			Joins("JOIN title_ratings ON title_ratings.title_id = titles.id").
			Joins("JOIN title_values ON title_values.title_id = titles.id").
			Where("titles.library_id = ?", libraryID).
			Where("title_ratings.rating_count >= ?", MinListedRatingCount).
			Where("title_prices.base_price >= ?", MinListedPrice)
	}

	result := &TitlePage{Page: page, PageSize: PageSize, Titles: []TitleListing{}}
	if err := base().Count(&result.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count titles: %w", err)
	}

	err := base().
		Select("titles.id, titles.external_id, titles.name, titles.thumbnail_url, titles.age_rating, " +
			"title_prices.base_price, title_prices.standard_discount, title_prices.loyalty_discount, " +
			"title_ratings.raw_score, title_ratings.rating_count, title_ratings.weighted_score, " +
			"title_values.score, title_values.loyalty_score").
		Order("title_values.loyalty_score DESC").
		Order("titles.id").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Scan(&result.Titles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list titles: %w", err)
	}
	return result, nil
}

// FindLibrary resolves a library by numeric id or by name. A numeric ref
// that matches no id is retried as a name.
func (s *Service) FindLibrary(ctx context.Context, ref string) (*models.Library, error) {
	var lib models.Library
	if id := utils.ToInt(ref); id > 0 {
		err := s.db.WithContext(ctx).Where("id = ?", id).Take(&lib).Error
		if err == nil {
			return &lib, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("library %q: %w", ref, err)
		}
	}

	if err := s.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(ref)).Take(&lib).Error; err != nil {
		return nil, fmt.Errorf("library %q: %w", ref, notFound(err, reconcile.ErrLibraryNotFound))
	}
	return &lib, nil
}
