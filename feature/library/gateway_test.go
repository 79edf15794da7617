package library_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"psn-value/core/reconcile"
	"psn-value/feature/library"
	"psn-value/feature/library/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertFullTitle(t *testing.T, gw *library.Gateway, libraryID uint, externalID string, raw float64) reconcile.TitleHandle {
	t.Helper()
	ctx := context.Background()
	id, err := gw.InsertTitle(ctx, reconcile.NewTitle{
		LibraryID:  libraryID,
		ExternalID: externalID,
		Name:       "Title " + externalID,
		DetailsURL: "https://store.example/details/" + externalID,
	})
	require.NoError(t, err)
	require.NoError(t, gw.InsertPrice(ctx, id, 19.99, 50, 10))
	require.NoError(t, gw.InsertRating(ctx, id, raw, 120, 2.5))
	require.NoError(t, gw.InsertValue(ctx, id, 0.125, 0.3))
	return id
}

func TestGateway_Libraries(t *testing.T) {
	db := newTestDB(t)
	gw := library.NewGateway(db)
	ctx := context.Background()
	lib := seedLibrary(t, db, "ps4-games", "https://store.example/container?size=")

	t.Run("URLByName", func(t *testing.T) {
		url, err := gw.LibraryURL(ctx, "ps4-games")
		require.NoError(t, err)
		assert.Equal(t, lib.URL, url)
	})

	t.Run("ByID", func(t *testing.T) {
		info, err := gw.Library(ctx, lib.ID)
		require.NoError(t, err)
		assert.Equal(t, reconcile.LibraryInfo{ID: lib.ID, Name: "ps4-games", URL: lib.URL}, *info)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := gw.Library(ctx, 999)
		assert.ErrorIs(t, err, reconcile.ErrLibraryNotFound)

		_, err = gw.LibraryURL(ctx, "missing")
		assert.ErrorIs(t, err, reconcile.ErrLibraryNotFound)
	})

	t.Run("StatsAndLastUpdated", func(t *testing.T) {
		at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, gw.SetLibraryStats(ctx, lib.ID, 3.8, 0.4))
		require.NoError(t, gw.SetLastUpdated(ctx, lib.ID, at))

		var stored models.Library
		require.NoError(t, db.First(&stored, lib.ID).Error)
		assert.InDelta(t, 3.8, stored.RatingMean, 1e-9)
		assert.InDelta(t, 0.4, stored.RatingStdDev, 1e-9)
		require.NotNil(t, stored.LastUpdated)
		assert.True(t, at.Equal(*stored.LastUpdated))
	})
}

func TestGateway_TitleRecords(t *testing.T) {
	db := newTestDB(t)
	gw := library.NewGateway(db)
	ctx := context.Background()
	lib := seedLibrary(t, db, "ps4-games", "https://store.example/c?size=")

	id := insertFullTitle(t, gw, lib.ID, "EP1", 4.2)

	exists, err := gw.TitleExists(ctx, lib.ID, "EP1")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := gw.InternalID(ctx, lib.ID, "EP1")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	url, err := gw.DetailsURL(ctx, lib.ID, "EP1")
	require.NoError(t, err)
	assert.Equal(t, "https://store.example/details/EP1", url)

	price, err := gw.Price(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, reconcile.PriceInfo{Base: 19.99, StandardDiscount: 50, LoyaltyDiscount: 10}, price)

	require.NoError(t, gw.SetAgeRating(ctx, id, 18))
	require.NoError(t, gw.SetThumbnail(ctx, id, ptr("https://img/thumb")))
	require.NoError(t, gw.UpdatePrice(ctx, id, 9.99, 0, 0))
	require.NoError(t, gw.UpdateRating(ctx, id, 3.1, 300, 1.7))
	require.NoError(t, gw.UpdateValue(ctx, id, 0.17, 0.17))

	weighted, err := gw.WeightedRating(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, 1.7, weighted, 1e-9)

	require.NoError(t, gw.SetWeightedRating(ctx, id, 4.4))
	weighted, err = gw.WeightedRating(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, 4.4, weighted, 1e-9)

	var title models.Title
	require.NoError(t, db.Preload("Price").Preload("Rating").Preload("Value").First(&title, uint(id)).Error)
	assert.Equal(t, 18, title.AgeRating)
	require.NotNil(t, title.ThumbnailURL)
	assert.Equal(t, "https://img/thumb", *title.ThumbnailURL)
	assert.InDelta(t, 9.99, title.Price.BasePrice, 1e-9)
	assert.Equal(t, 300, title.Rating.RatingCount)
	assert.InDelta(t, 3.1, title.Rating.RawScore, 1e-9)
	assert.InDelta(t, 0.17, title.Value.Score, 1e-9)

	require.NoError(t, gw.SetThumbnail(ctx, id, nil))
	require.NoError(t, db.First(&title, uint(id)).Error)
	assert.Nil(t, title.ThumbnailURL)
}

func TestGateway_ScopedByLibrary(t *testing.T) {
	db := newTestDB(t)
	gw := library.NewGateway(db)
	ctx := context.Background()
	a := seedLibrary(t, db, "a", "https://a?size=")
	b := seedLibrary(t, db, "b", "https://b?size=")

	idA := insertFullTitle(t, gw, a.ID, "SHARED", 4.0)
	idB := insertFullTitle(t, gw, b.ID, "SHARED", 2.0)
	insertFullTitle(t, gw, a.ID, "ONLY-A", 3.0)

	got, err := gw.InternalID(ctx, b.ID, "SHARED")
	require.NoError(t, err)
	assert.Equal(t, idB, got)
	assert.NotEqual(t, idA, idB)

	ratings, err := gw.AllRatings(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []float64{4.0, 3.0}, ratings)

	titleRatings, err := gw.TitleRatings(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []reconcile.TitleRating{{Title: idB, RawScore: 2.0}}, titleRatings)

	_, err = gw.InsertTitle(ctx, reconcile.NewTitle{LibraryID: a.ID, ExternalID: "SHARED", Name: "dup", DetailsURL: "x"})
	assert.Error(t, err, "external id must be unique within a library")
}

func TestGateway_MissingTitle(t *testing.T) {
	db := newTestDB(t)
	gw := library.NewGateway(db)
	ctx := context.Background()
	lib := seedLibrary(t, db, "lib", "https://x?size=")

	exists, err := gw.TitleExists(ctx, lib.ID, "nope")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = gw.InternalID(ctx, lib.ID, "nope")
	assert.ErrorIs(t, err, library.ErrTitleNotFound)

	_, err = gw.DetailsURL(ctx, lib.ID, "nope")
	assert.ErrorIs(t, err, library.ErrTitleNotFound)

	_, err = gw.WeightedRating(ctx, 42)
	assert.ErrorIs(t, err, library.ErrRecordNotFound)

	_, err = gw.Price(ctx, 42)
	assert.ErrorIs(t, err, library.ErrRecordNotFound)
}

func TestGateway_UpdateRestoresMissingRecords(t *testing.T) {
	db := newTestDB(t)
	gw := library.NewGateway(db)
	ctx := context.Background()
	lib := seedLibrary(t, db, "lib", "https://x?size=")

	id, err := gw.InsertTitle(ctx, reconcile.NewTitle{LibraryID: lib.ID, ExternalID: "BARE", Name: "Bare", DetailsURL: "u"})
	require.NoError(t, err)

	_, err = gw.WeightedRating(ctx, id)
	assert.ErrorIs(t, err, library.ErrRecordNotFound)

	require.NoError(t, gw.UpdatePrice(ctx, id, 29.99, 20, 5))
	require.NoError(t, gw.UpdateRating(ctx, id, 4.0, 80, 3.3))
	require.NoError(t, gw.UpdateValue(ctx, id, 0.11, 0.15))

	// A second update must rewrite the same rows.
	require.NoError(t, gw.UpdatePrice(ctx, id, 24.99, 10, 0))
	require.NoError(t, gw.UpdateRating(ctx, id, 4.5, 90, 3.6))
	require.NoError(t, gw.UpdateValue(ctx, id, 0.14, 0.14))

	for _, m := range []any{&models.PriceRecord{}, &models.RatingRecord{}, &models.ValueRecord{}} {
		var count int64
		require.NoError(t, db.Model(m).Where("title_id = ?", uint(id)).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	}

	price, err := gw.Price(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, reconcile.PriceInfo{Base: 24.99, StandardDiscount: 10, LoyaltyDiscount: 0}, price)

	weighted, err := gw.WeightedRating(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, 3.6, weighted, 1e-9)

	var value models.ValueRecord
	require.NoError(t, db.Where("title_id = ?", uint(id)).Take(&value).Error)
	assert.InDelta(t, 0.14, value.Score, 1e-9)
}

func TestGateway_TransactionRollback(t *testing.T) {
	db := newTestDB(t)
	gw := library.NewGateway(db)
	ctx := context.Background()
	lib := seedLibrary(t, db, "lib", "https://x?size=")
	boom := errors.New("boom")

	err := gw.Transaction(ctx, func(tx reconcile.Gateway) error {
		id, err := tx.InsertTitle(ctx, reconcile.NewTitle{LibraryID: lib.ID, ExternalID: "EP9", Name: "n", DetailsURL: "u"})
		if err != nil {
			return err
		}
		if err := tx.InsertPrice(ctx, id, 5, 0, 0); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := gw.TitleExists(ctx, lib.ID, "EP9")
	require.NoError(t, err)
	assert.False(t, exists)

	var prices int64
	require.NoError(t, db.Model(&models.PriceRecord{}).Count(&prices).Error)
	assert.Zero(t, prices)
}
