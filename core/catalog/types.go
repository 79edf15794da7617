package catalog

import (
	"encoding/json"
	"time"

	"psn-value/core/utils"
	"psn-value/core/valuation"
)

// ReleaseDateLayout is the storefront's release_date format.
const ReleaseDateLayout = "2006-01-02T15:04:05Z"

// Catalog is one page of the storefront catalog listing.
type Catalog struct {
	TotalResults int    `json:"total_results"`
	Links        []Link `json:"links"`
}

// Image is an entry of a title's image list.
type Image struct {
	Type int    `json:"type"`
	URL  string `json:"url"`
}

// Link is one catalog entry.
type Link struct {
	// ID is the storefront id. It arrives as a string or a number.
	ID               any      `json:"id"`
	Name             string   `json:"name"`
	URL              string   `json:"url"`
	ReleaseDate      string   `json:"release_date"`
	PlayablePlatform []string `json:"playable_platform,omitempty"`
	Images           []Image  `json:"images,omitempty"`
	// ParentName is kept raw so that a present-but-null key still counts.
	ParentName json.RawMessage `json:"parent_name,omitempty"`
}

// ExternalID returns the storefront id as a string.
func (l Link) ExternalID() string {
	return utils.ToString(l.ID)
}

// HasParent reports whether the entry is a bundle or other derivative.
func (l Link) HasParent() bool {
	return len(l.ParentName) > 0
}

// Released parses the release date and reports whether it is before now.
func (l Link) Released(now time.Time) (bool, error) {
	released, err := time.Parse(ReleaseDateLayout, l.ReleaseDate)
	if err != nil {
		return false, err
	}
	return released.Before(now), nil
}

// StarRating is the rating block of a title's full details. Both fields
// may be null, numbers or numeric strings.
type StarRating struct {
	Score any `json:"score"`
	Total any `json:"total"`
}

// ScoreValue returns the score, or fallback when it is null or zero.
func (s StarRating) ScoreValue(fallback float64) float64 {
	if v := utils.ToFloat(s.Score); v != 0 {
		return v
	}
	return fallback
}

// CountValue returns the rating count, or fallback when it is null or zero.
func (s StarRating) CountValue(fallback int) int {
	if v := utils.ToInt(s.Total); v != 0 {
		return v
	}
	return fallback
}

// TitleDetails is the full-detail payload of a single title.
type TitleDetails struct {
	Name       string                `json:"name"`
	AgeLimit   int                   `json:"age_limit"`
	DefaultSKU *valuation.PriceBlock `json:"default_sku"`
	StarRating *StarRating           `json:"star_rating"`
}
