package models

import "time"

// Library is a storefront category tracked by the service.
type Library struct {
	ID           uint       `gorm:"column:id;primaryKey" json:"id"`
	Name         string     `gorm:"column:name;size:191;uniqueIndex;not null" json:"name"`
	URL          string     `gorm:"column:url;size:1024;not null" json:"url"`
	RatingMean   float64    `gorm:"column:rating_mean;not null;default:0" json:"rating_mean"`
	RatingStdDev float64    `gorm:"column:rating_std_dev;not null;default:0" json:"rating_std_dev"`
	LastUpdated  *time.Time `gorm:"column:last_updated" json:"last_updated"`
}

// TableName overrides the table name used by Library.
func (Library) TableName() string { return "libraries" }

// Title is one catalog entry stored for a library.
type Title struct {
	ID           uint    `gorm:"column:id;primaryKey" json:"id"`
	LibraryID    uint    `gorm:"column:library_id;not null;uniqueIndex:idx_title_library_external,priority:1" json:"library_id"`
	ExternalID   string  `gorm:"column:external_id;size:191;not null;uniqueIndex:idx_title_library_external,priority:2" json:"external_id"`
	Name         string  `gorm:"column:name;size:512;not null" json:"name"`
	DetailsURL   string  `gorm:"column:details_url;size:1024;not null" json:"details_url"`
	ThumbnailURL *string `gorm:"column:thumbnail_url;size:1024" json:"thumbnail_url"`
	AgeRating    int     `gorm:"column:age_rating;not null;default:0" json:"age_rating"`

	Library *Library      `gorm:"foreignKey:LibraryID;constraint:OnDelete:CASCADE" json:"-"`
	Price   *PriceRecord  `gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE" json:"price,omitempty"`
	Rating  *RatingRecord `gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE" json:"rating,omitempty"`
	Value   *ValueRecord  `gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE" json:"value,omitempty"`
}

// TableName overrides the table name used by Title.
func (Title) TableName() string { return "titles" }

// PriceRecord holds the base price and discount percentages of a title.
type PriceRecord struct {
	ID               uint    `gorm:"column:id;primaryKey" json:"-"`
	TitleID          uint    `gorm:"column:title_id;uniqueIndex;not null" json:"-"`
	BasePrice        float64 `gorm:"column:base_price;not null;default:0" json:"base_price"`
	StandardDiscount float64 `gorm:"column:standard_discount;not null;default:0" json:"standard_discount"`
	LoyaltyDiscount  float64 `gorm:"column:loyalty_discount;not null;default:0" json:"loyalty_discount"`
}

// TableName overrides the table name used by PriceRecord.
func (PriceRecord) TableName() string { return "title_prices" }

// RatingRecord holds the raw and library-normalized rating of a title.
type RatingRecord struct {
	ID            uint    `gorm:"column:id;primaryKey" json:"-"`
	TitleID       uint    `gorm:"column:title_id;uniqueIndex;not null" json:"-"`
	RawScore      float64 `gorm:"column:raw_score;not null" json:"raw_score"`
	RatingCount   int     `gorm:"column:rating_count;not null;default:0" json:"rating_count"`
	WeightedScore float64 `gorm:"column:weighted_score;not null;default:0" json:"weighted_score"`
}

// TableName overrides the table name used by RatingRecord.
func (RatingRecord) TableName() string { return "title_ratings" }

// ValueRecord holds the derived value scores of a title.
type ValueRecord struct {
	ID           uint    `gorm:"column:id;primaryKey" json:"-"`
	TitleID      uint    `gorm:"column:title_id;uniqueIndex;not null" json:"-"`
	Score        float64 `gorm:"column:score;not null;default:0" json:"score"`
	LoyaltyScore float64 `gorm:"column:loyalty_score;not null;default:0" json:"loyalty_score"`
}

// TableName overrides the table name used by ValueRecord.
func (ValueRecord) TableName() string { return "title_values" }

// All lists every model in migration order.
func All() []any {
	return []any{&Library{}, &Title{}, &PriceRecord{}, &RatingRecord{}, &ValueRecord{}}
}
