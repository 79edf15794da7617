package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"psn-value/core/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageJSON = `{
  "total_results": 2,
  "links": [
    {
      "id": "EP0001-CUSA00001_00-GAME000000000001",
      "name": "First Game",
      "url": "https://store.example/details/1",
      "release_date": "2015-03-24T00:00:00Z",
      "playable_platform": ["PS4™"],
      "images": [{"type": 2, "url": "https://img/large"}, {"type": 1, "url": "https://img/thumb"}]
    },
    {
      "id": 100,
      "name": "Bundle",
      "url": "https://store.example/details/100",
      "release_date": "2016-01-01T00:00:00Z",
      "images": [],
      "parent_name": null
    }
  ]
}`

const detailsJSON = `{
  "name": "First Game",
  "age_limit": 16,
  "default_sku": {"price": 1999, "rewards": [{"discount": 50, "bonus_discount": 10}]},
  "star_rating": {"score": "4.38", "total": 1520}
}`

func newStorefront(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.String())
		switch r.URL.Path {
		case "/container":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(pageJSON))
		case "/details/1":
			_, _ = w.Write([]byte(detailsJSON))
		case "/broken":
			_, _ = w.Write([]byte("<html>not json</html>"))
		case "/thumb.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &requested
}

func TestFetchTotalCount(t *testing.T) {
	srv, requested := newStorefront(t)
	c := catalog.NewClient(catalog.Config{TimeoutSeconds: 2, UserAgent: "test"})

	total, err := c.FetchTotalCount(context.Background(), srv.URL+"/container?size=")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"/container?size=0"}, *requested)
}

func TestFetchCatalogPage(t *testing.T) {
	srv, requested := newStorefront(t)
	c := catalog.NewClient(catalog.Config{})

	page, err := c.FetchCatalogPage(context.Background(), srv.URL+"/container?size=", 2)
	require.NoError(t, err)
	require.Len(t, page.Links, 2)
	assert.Equal(t, []string{"/container?size=2"}, *requested)

	first := page.Links[0]
	assert.Equal(t, "EP0001-CUSA00001_00-GAME000000000001", first.ExternalID())
	assert.False(t, first.HasParent())
	released, err := first.Released(time.Now())
	require.NoError(t, err)
	assert.True(t, released)

	bundle := page.Links[1]
	assert.Equal(t, "100", bundle.ExternalID())
	assert.True(t, bundle.HasParent(), "a null parent_name still marks a derivative")
}

func TestFetchTitleDetails(t *testing.T) {
	srv, _ := newStorefront(t)
	c := catalog.NewClient(catalog.Config{})

	details, err := c.FetchTitleDetails(context.Background(), srv.URL+"/details/1")
	require.NoError(t, err)
	assert.Equal(t, 16, details.AgeLimit)
	require.NotNil(t, details.DefaultSKU)
	assert.Equal(t, 1999.0, details.DefaultSKU.Price)
	require.Len(t, details.DefaultSKU.Rewards, 1)
	require.NotNil(t, details.StarRating)
	assert.Equal(t, 4.38, details.StarRating.ScoreValue(1))
	assert.Equal(t, 1520, details.StarRating.CountValue(0))
}

func TestStarRatingDefaults(t *testing.T) {
	empty := catalog.StarRating{}
	assert.Equal(t, 1.0, empty.ScoreValue(1))
	assert.Equal(t, 0, empty.CountValue(0))

	zero := catalog.StarRating{Score: "0", Total: 0}
	assert.Equal(t, 1.0, zero.ScoreValue(1))
	assert.Equal(t, 0, zero.CountValue(0))
}

func TestFetchErrors(t *testing.T) {
	srv, _ := newStorefront(t)
	c := catalog.NewClient(catalog.Config{TimeoutSeconds: 1})
	ctx := context.Background()

	t.Run("Status", func(t *testing.T) {
		_, err := c.FetchTitleDetails(ctx, srv.URL+"/missing")
		var fe *catalog.FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, http.StatusNotFound, fe.StatusCode)
		assert.Equal(t, "details", fe.Op)
	})

	t.Run("Decode", func(t *testing.T) {
		_, err := c.FetchTitleDetails(ctx, srv.URL+"/broken")
		var fe *catalog.FetchError
		require.True(t, errors.As(err, &fe))
		assert.Contains(t, fe.Error(), "decode")
	})

	t.Run("Transport", func(t *testing.T) {
		_, err := c.FetchTotalCount(ctx, "http://127.0.0.1:1/nothing?size=")
		var fe *catalog.FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, 0, fe.StatusCode)
	})
}

func TestFetchImage(t *testing.T) {
	srv, _ := newStorefront(t)
	c := catalog.NewClient(catalog.Config{})

	data, contentType, err := c.FetchImage(context.Background(), srv.URL+"/thumb.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Len(t, data, 4)
}

func TestReleasedFuture(t *testing.T) {
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	link := catalog.Link{ReleaseDate: "2030-01-01T00:00:00Z"}
	released, err := link.Released(now)
	require.NoError(t, err)
	assert.False(t, released)

	_, err = catalog.Link{ReleaseDate: "soon"}.Released(now)
	assert.Error(t, err)
}
