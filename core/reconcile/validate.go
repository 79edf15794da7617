package reconcile

import (
	"time"

	"psn-value/core/catalog"
)

// Validate decides whether a catalog entry takes part in a run. It returns
// false and a reason for bundles, unreleased titles and unparseable dates.
func Validate(link catalog.Link, now time.Time) (bool, string) {
	if link.HasParent() {
		return false, "derivative of another title"
	}

	released, err := link.Released(now)
	if err != nil {
		return false, "invalid release date: " + link.ReleaseDate
	}
	if !released {
		return false, "not released yet"
	}

	return true, ""
}

// SelectThumbnail returns the URL of the first image tagged imageType, or nil.
func SelectThumbnail(images []catalog.Image, imageType int) *string {
	for _, img := range images {
		if img.Type == imageType {
			url := img.URL
			return &url
		}
	}
	return nil
}
