package checks

import (
	"context"
	"fmt"

	"psn-value/feature/library/models"

	"gorm.io/gorm"
)

// RecordsReport lists titles of a library lacking one of their 1:1 records.
type RecordsReport struct {
	LibraryID     uint     `json:"library_id"`
	Titles        int64    `json:"titles"`
	MissingPrice  []string `json:"missing_price"`
	MissingRating []string `json:"missing_rating"`
	MissingValue  []string `json:"missing_value"`
	Status        string   `json:"status"` // "ok", "error"
}

// CheckRecords finds titles without a price, rating or value record.
func CheckRecords(ctx context.Context, db *gorm.DB, libraryID uint) (*RecordsReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &RecordsReport{LibraryID: libraryID, Status: "ok"}
	if err := db.WithContext(ctx).Model(&models.Title{}).Where("library_id = ?", libraryID).Count(&report.Titles).Error; err != nil {
		return nil, fmt.Errorf("failed to count titles: %w", err)
	}

	for _, rel := range []struct {
		table string
		out   *[]string
	}{
		{"title_prices", &report.MissingPrice},
		{"title_ratings", &report.MissingRating},
		{"title_values", &report.MissingValue},
	} {
		*rel.out = []string{}
		err := db.WithContext(ctx).Model(&models.Title{}).
			Joins(fmt.Sprintf("LEFT JOIN %[1]s ON %[1]s.title_id = titles.id", rel.table)).
			Where("titles.library_id = ?", libraryID).
			Where(rel.table+".id IS NULL").
			Order("titles.external_id").
			Pluck("titles.external_id", rel.out).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", rel.table, err)
		}
		if len(*rel.out) > 0 {
			report.Status = "error"
		}
	}
	return report, nil
}
