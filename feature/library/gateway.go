package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"psn-value/core/reconcile"
	"psn-value/feature/library/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ reconcile.Gateway = (*Gateway)(nil)

// Gateway implements reconcile.Gateway on top of gorm.
type Gateway struct {
	db *gorm.DB
}

// NewGateway creates a gateway bound to db.
func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

// Migrate creates or updates the tables owned by the library feature.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate library schema: %w", err)
	}
	return nil
}

func (g *Gateway) conn(ctx context.Context) *gorm.DB {
	return g.db.WithContext(ctx)
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func (g *Gateway) LibraryURL(ctx context.Context, name string) (string, error) {
	var lib models.Library
	if err := g.conn(ctx).Select("url").Where("name = ?", name).Take(&lib).Error; err != nil {
		return "", notFound(err, reconcile.ErrLibraryNotFound)
	}
	return lib.URL, nil
}

func (g *Gateway) Library(ctx context.Context, libraryID uint) (*reconcile.LibraryInfo, error) {
	var lib models.Library
	if err := g.conn(ctx).Take(&lib, libraryID).Error; err != nil {
		return nil, notFound(err, reconcile.ErrLibraryNotFound)
	}
	return &reconcile.LibraryInfo{ID: lib.ID, Name: lib.Name, URL: lib.URL}, nil
}

func (g *Gateway) TitleExists(ctx context.Context, libraryID uint, externalID string) (bool, error) {
	var count int64
	err := g.conn(ctx).Model(&models.Title{}).
		Where("library_id = ? AND external_id = ?", libraryID, externalID).
		Count(&count).Error
	return count > 0, err
}

func (g *Gateway) findTitle(ctx context.Context, libraryID uint, externalID, column string) (*models.Title, error) {
	var t models.Title
	err := g.conn(ctx).Select(column).
		Where("library_id = ? AND external_id = ?", libraryID, externalID).
		Take(&t).Error
	if err != nil {
		return nil, fmt.Errorf("title %s: %w", externalID, notFound(err, ErrTitleNotFound))
	}
	return &t, nil
}

func (g *Gateway) InternalID(ctx context.Context, libraryID uint, externalID string) (reconcile.TitleHandle, error) {
	t, err := g.findTitle(ctx, libraryID, externalID, "id")
	if err != nil {
		return 0, err
	}
	return reconcile.TitleHandle(t.ID), nil
}

func (g *Gateway) DetailsURL(ctx context.Context, libraryID uint, externalID string) (string, error) {
	t, err := g.findTitle(ctx, libraryID, externalID, "details_url")
	if err != nil {
		return "", err
	}
	return t.DetailsURL, nil
}

func (g *Gateway) InsertTitle(ctx context.Context, nt reconcile.NewTitle) (reconcile.TitleHandle, error) {
	t := models.Title{
		LibraryID:    nt.LibraryID,
		ExternalID:   nt.ExternalID,
		Name:         nt.Name,
		DetailsURL:   nt.DetailsURL,
		ThumbnailURL: nt.ThumbnailURL,
		AgeRating:    nt.AgeRating,
	}
	if err := g.conn(ctx).Create(&t).Error; err != nil {
		return 0, fmt.Errorf("failed to insert title %s: %w", nt.ExternalID, err)
	}
	return reconcile.TitleHandle(t.ID), nil
}

func (g *Gateway) updateTitle(ctx context.Context, title reconcile.TitleHandle, column string, value any) error {
	return g.conn(ctx).Model(&models.Title{}).Where("id = ?", uint(title)).Update(column, value).Error
}

func (g *Gateway) SetAgeRating(ctx context.Context, title reconcile.TitleHandle, ageRating int) error {
	return g.updateTitle(ctx, title, "age_rating", ageRating)
}

func (g *Gateway) SetThumbnail(ctx context.Context, title reconcile.TitleHandle, thumbnailURL *string) error {
	return g.updateTitle(ctx, title, "thumbnail_url", thumbnailURL)
}

func (g *Gateway) InsertPrice(ctx context.Context, title reconcile.TitleHandle, base, standardDiscount, loyaltyDiscount float64) error {
	return g.conn(ctx).Create(&models.PriceRecord{
		TitleID:          uint(title),
		BasePrice:        base,
		StandardDiscount: standardDiscount,
		LoyaltyDiscount:  loyaltyDiscount,
	}).Error
}

// upsert writes record keyed by its unique title_id, so an update also
// restores a record that went missing.
func (g *Gateway) upsert(ctx context.Context, record any, columns ...string) error {
	return g.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "title_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(record).Error
}

func (g *Gateway) UpdatePrice(ctx context.Context, title reconcile.TitleHandle, base, standardDiscount, loyaltyDiscount float64) error {
	return g.upsert(ctx, &models.PriceRecord{
		TitleID:          uint(title),
		BasePrice:        base,
		StandardDiscount: standardDiscount,
		LoyaltyDiscount:  loyaltyDiscount,
	}, "base_price", "standard_discount", "loyalty_discount")
}

func (g *Gateway) InsertRating(ctx context.Context, title reconcile.TitleHandle, raw float64, count int, weighted float64) error {
	return g.conn(ctx).Create(&models.RatingRecord{
		TitleID:       uint(title),
		RawScore:      raw,
		RatingCount:   count,
		WeightedScore: weighted,
	}).Error
}

func (g *Gateway) UpdateRating(ctx context.Context, title reconcile.TitleHandle, raw float64, count int, weighted float64) error {
	return g.upsert(ctx, &models.RatingRecord{
		TitleID:       uint(title),
		RawScore:      raw,
		RatingCount:   count,
		WeightedScore: weighted,
	}, "raw_score", "rating_count", "weighted_score")
}

func (g *Gateway) SetWeightedRating(ctx context.Context, title reconcile.TitleHandle, weighted float64) error {
	return g.conn(ctx).Model(&models.RatingRecord{}).Where("title_id = ?", uint(title)).
		Update("weighted_score", weighted).Error
}

func (g *Gateway) InsertValue(ctx context.Context, title reconcile.TitleHandle, score, loyaltyScore float64) error {
	return g.conn(ctx).Create(&models.ValueRecord{
		TitleID:      uint(title),
		Score:        score,
		LoyaltyScore: loyaltyScore,
	}).Error
}

func (g *Gateway) UpdateValue(ctx context.Context, title reconcile.TitleHandle, score, loyaltyScore float64) error {
	return g.upsert(ctx, &models.ValueRecord{
		TitleID:      uint(title),
		Score:        score,
		LoyaltyScore: loyaltyScore,
	}, "score", "loyalty_score")
}

func (g *Gateway) WeightedRating(ctx context.Context, title reconcile.TitleHandle) (float64, error) {
	var r models.RatingRecord
	if err := g.conn(ctx).Select("weighted_score").Where("title_id = ?", uint(title)).Take(&r).Error; err != nil {
		return 0, fmt.Errorf("rating of title %d: %w", title, notFound(err, ErrRecordNotFound))
	}
	return r.WeightedScore, nil
}

func (g *Gateway) Price(ctx context.Context, title reconcile.TitleHandle) (reconcile.PriceInfo, error) {
	var p models.PriceRecord
	if err := g.conn(ctx).Where("title_id = ?", uint(title)).Take(&p).Error; err != nil {
		return reconcile.PriceInfo{}, fmt.Errorf("price of title %d: %w", title, notFound(err, ErrRecordNotFound))
	}
	return reconcile.PriceInfo{
		Base:             p.BasePrice,
		StandardDiscount: p.StandardDiscount,
		LoyaltyDiscount:  p.LoyaltyDiscount,
	}, nil
}

func (g *Gateway) ratingsOf(ctx context.Context, libraryID uint) *gorm.DB {
	return g.conn(ctx).Model(&models.RatingRecord{}).
		Joins("JOIN titles ON titles.id = title_ratings.title_id").
		Where("titles.library_id = ?", libraryID)
}

func (g *Gateway) AllRatings(ctx context.Context, libraryID uint) ([]float64, error) {
	var scores []float64
	err := g.ratingsOf(ctx, libraryID).Pluck("title_ratings.raw_score", &scores).Error
	return scores, err
}

func (g *Gateway) TitleRatings(ctx context.Context, libraryID uint) ([]reconcile.TitleRating, error) {
	var rows []struct {
		TitleID  uint
		RawScore float64
	}
	err := g.ratingsOf(ctx, libraryID).
		Select("title_ratings.title_id, title_ratings.raw_score").
		Order("title_ratings.title_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]reconcile.TitleRating, 0, len(rows))
	for _, r := range rows {
		out = append(out, reconcile.TitleRating{Title: reconcile.TitleHandle(r.TitleID), RawScore: r.RawScore})
	}
	return out, nil
}

func (g *Gateway) SetLibraryStats(ctx context.Context, libraryID uint, mean, stdDev float64) error {
	return g.conn(ctx).Model(&models.Library{}).Where("id = ?", libraryID).
		Updates(map[string]any{
			"rating_mean":    mean,
			"rating_std_dev": stdDev,
		}).Error
}

func (g *Gateway) SetLastUpdated(ctx context.Context, libraryID uint, at time.Time) error {
	return g.conn(ctx).Model(&models.Library{}).Where("id = ?", libraryID).
		Update("last_updated", at.UTC()).Error
}

// Transaction runs fn inside a database transaction. The gateway passed to
// fn must not be used after fn returns.
func (g *Gateway) Transaction(ctx context.Context, fn func(tx reconcile.Gateway) error) error {
	return g.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gateway{db: tx})
	})
}
