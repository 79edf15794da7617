package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"psn-value/core/catalog"
	"psn-value/core/reconcile"
)

type memTitle struct {
	ID         reconcile.TitleHandle
	LibraryID  uint
	ExternalID string
	Name       string
	DetailsURL string
	Thumbnail  *string
	AgeRating  int
}

type memRating struct {
	Raw      float64
	Count    int
	Weighted float64
}

type memValue struct {
	Score   float64
	Loyalty float64
}

type memLibrary struct {
	reconcile.LibraryInfo
	Mean        float64
	StdDev      float64
	LastUpdated *time.Time
}

type memState struct {
	libraries map[uint]memLibrary
	titles    map[reconcile.TitleHandle]memTitle
	prices    map[reconcile.TitleHandle]reconcile.PriceInfo
	ratings   map[reconcile.TitleHandle]memRating
	values    map[reconcile.TitleHandle]memValue
	nextID    reconcile.TitleHandle
}

func (s memState) clone() memState {
	return memState{
		libraries: maps.Clone(s.libraries),
		titles:    maps.Clone(s.titles),
		prices:    maps.Clone(s.prices),
		ratings:   maps.Clone(s.ratings),
		values:    maps.Clone(s.values),
		nextID:    s.nextID,
	}
}

// memGateway is an in-memory reconcile.Gateway. Transactions snapshot the
// whole state and restore it when fn fails.
type memGateway struct {
	mu    sync.Mutex
	state memState

	// failInsertValue makes InsertValue fail for the given external id.
	failInsertValue map[string]error
	// failUpdatePrice makes UpdatePrice fail for the given external id.
	failUpdatePrice map[string]error
}

func newMemGateway(libs ...reconcile.LibraryInfo) *memGateway {
	g := &memGateway{state: memState{
		libraries: map[uint]memLibrary{},
		titles:    map[reconcile.TitleHandle]memTitle{},
		prices:    map[reconcile.TitleHandle]reconcile.PriceInfo{},
		ratings:   map[reconcile.TitleHandle]memRating{},
		values:    map[reconcile.TitleHandle]memValue{},
		nextID:    1,
	}}
	for _, l := range libs {
		g.state.libraries[l.ID] = memLibrary{LibraryInfo: l}
	}
	return g
}

func (g *memGateway) find(libraryID uint, externalID string) (memTitle, bool) {
	for _, t := range g.state.titles {
		if t.LibraryID == libraryID && t.ExternalID == externalID {
			return t, true
		}
	}
	return memTitle{}, false
}

func (g *memGateway) LibraryURL(_ context.Context, name string) (string, error) {
	for _, l := range g.state.libraries {
		if l.Name == name {
			return l.URL, nil
		}
	}
	return "", reconcile.ErrLibraryNotFound
}

func (g *memGateway) Library(_ context.Context, id uint) (*reconcile.LibraryInfo, error) {
	l, ok := g.state.libraries[id]
	if !ok {
		return nil, reconcile.ErrLibraryNotFound
	}
	info := l.LibraryInfo
	return &info, nil
}

func (g *memGateway) TitleExists(_ context.Context, libraryID uint, externalID string) (bool, error) {
	_, ok := g.find(libraryID, externalID)
	return ok, nil
}

func (g *memGateway) InternalID(_ context.Context, libraryID uint, externalID string) (reconcile.TitleHandle, error) {
	t, ok := g.find(libraryID, externalID)
	if !ok {
		return 0, fmt.Errorf("title %s not found", externalID)
	}
	return t.ID, nil
}

func (g *memGateway) DetailsURL(_ context.Context, libraryID uint, externalID string) (string, error) {
	t, ok := g.find(libraryID, externalID)
	if !ok {
		return "", fmt.Errorf("title %s not found", externalID)
	}
	return t.DetailsURL, nil
}

func (g *memGateway) InsertTitle(_ context.Context, nt reconcile.NewTitle) (reconcile.TitleHandle, error) {
	if _, ok := g.find(nt.LibraryID, nt.ExternalID); ok {
		return 0, errors.New("unique constraint: external id")
	}
	id := g.state.nextID
	g.state.nextID++
	g.state.titles[id] = memTitle{
		ID:         id,
		LibraryID:  nt.LibraryID,
		ExternalID: nt.ExternalID,
		Name:       nt.Name,
		DetailsURL: nt.DetailsURL,
		Thumbnail:  nt.ThumbnailURL,
		AgeRating:  nt.AgeRating,
	}
	return id, nil
}

func (g *memGateway) SetAgeRating(_ context.Context, id reconcile.TitleHandle, age int) error {
	t, ok := g.state.titles[id]
	if !ok {
		return errors.New("no title")
	}
	t.AgeRating = age
	g.state.titles[id] = t
	return nil
}

func (g *memGateway) SetThumbnail(_ context.Context, id reconcile.TitleHandle, thumb *string) error {
	t, ok := g.state.titles[id]
	if !ok {
		return errors.New("no title")
	}
	t.Thumbnail = thumb
	g.state.titles[id] = t
	return nil
}

func (g *memGateway) InsertPrice(_ context.Context, id reconcile.TitleHandle, base, std, loyalty float64) error {
	if _, ok := g.state.prices[id]; ok {
		return errors.New("price exists")
	}
	g.state.prices[id] = reconcile.PriceInfo{Base: base, StandardDiscount: std, LoyaltyDiscount: loyalty}
	return nil
}

func (g *memGateway) UpdatePrice(_ context.Context, id reconcile.TitleHandle, base, std, loyalty float64) error {
	if err := g.failUpdatePrice[g.state.titles[id].ExternalID]; err != nil {
		return err
	}
	g.state.prices[id] = reconcile.PriceInfo{Base: base, StandardDiscount: std, LoyaltyDiscount: loyalty}
	return nil
}

func (g *memGateway) InsertRating(_ context.Context, id reconcile.TitleHandle, raw float64, count int, weighted float64) error {
	if _, ok := g.state.ratings[id]; ok {
		return errors.New("rating exists")
	}
	g.state.ratings[id] = memRating{Raw: raw, Count: count, Weighted: weighted}
	return nil
}

func (g *memGateway) UpdateRating(_ context.Context, id reconcile.TitleHandle, raw float64, count int, weighted float64) error {
	g.state.ratings[id] = memRating{Raw: raw, Count: count, Weighted: weighted}
	return nil
}

func (g *memGateway) SetWeightedRating(_ context.Context, id reconcile.TitleHandle, weighted float64) error {
	r, ok := g.state.ratings[id]
	if !ok {
		return errors.New("no rating")
	}
	r.Weighted = weighted
	g.state.ratings[id] = r
	return nil
}

func (g *memGateway) InsertValue(_ context.Context, id reconcile.TitleHandle, score, loyalty float64) error {
	if err := g.failInsertValue[g.state.titles[id].ExternalID]; err != nil {
		return err
	}
	g.state.values[id] = memValue{Score: score, Loyalty: loyalty}
	return nil
}

func (g *memGateway) UpdateValue(_ context.Context, id reconcile.TitleHandle, score, loyalty float64) error {
	g.state.values[id] = memValue{Score: score, Loyalty: loyalty}
	return nil
}

func (g *memGateway) WeightedRating(_ context.Context, id reconcile.TitleHandle) (float64, error) {
	r, ok := g.state.ratings[id]
	if !ok {
		return 0, errors.New("no rating")
	}
	return r.Weighted, nil
}

func (g *memGateway) Price(_ context.Context, id reconcile.TitleHandle) (reconcile.PriceInfo, error) {
	p, ok := g.state.prices[id]
	if !ok {
		return reconcile.PriceInfo{}, errors.New("no price")
	}
	return p, nil
}

func (g *memGateway) AllRatings(_ context.Context, libraryID uint) ([]float64, error) {
	var out []float64
	for id, r := range g.state.ratings {
		if g.state.titles[id].LibraryID == libraryID {
			out = append(out, r.Raw)
		}
	}
	return out, nil
}

func (g *memGateway) TitleRatings(_ context.Context, libraryID uint) ([]reconcile.TitleRating, error) {
	var out []reconcile.TitleRating
	for id, r := range g.state.ratings {
		if g.state.titles[id].LibraryID == libraryID {
			out = append(out, reconcile.TitleRating{Title: id, RawScore: r.Raw})
		}
	}
	return out, nil
}

func (g *memGateway) SetLibraryStats(_ context.Context, libraryID uint, mean, stdDev float64) error {
	l := g.state.libraries[libraryID]
	l.Mean, l.StdDev = mean, stdDev
	g.state.libraries[libraryID] = l
	return nil
}

func (g *memGateway) SetLastUpdated(_ context.Context, libraryID uint, at time.Time) error {
	l := g.state.libraries[libraryID]
	l.LastUpdated = &at
	g.state.libraries[libraryID] = l
	return nil
}

func (g *memGateway) Transaction(_ context.Context, fn func(tx reconcile.Gateway) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	snapshot := g.state.clone()
	if err := fn(g); err != nil {
		g.state = snapshot
		return err
	}
	return nil
}

func (g *memGateway) title(externalID string) (memTitle, bool) {
	for _, t := range g.state.titles {
		if t.ExternalID == externalID {
			return t, true
		}
	}
	return memTitle{}, false
}

// fakeFetcher serves a fixed catalog and details keyed by URL.
type fakeFetcher struct {
	page       *catalog.Catalog
	details    map[string]*catalog.TitleDetails
	detailErrs map[string]error
	countErr   error
	requested  []string
}

func (f *fakeFetcher) FetchTotalCount(_ context.Context, _ string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.page.Links), nil
}

func (f *fakeFetcher) FetchCatalogPage(_ context.Context, _ string, count int) (*catalog.Catalog, error) {
	page := *f.page
	page.TotalResults = count
	return &page, nil
}

func (f *fakeFetcher) FetchTitleDetails(_ context.Context, url string) (*catalog.TitleDetails, error) {
	f.requested = append(f.requested, url)
	if err := f.detailErrs[url]; err != nil {
		return nil, err
	}
	d, ok := f.details[url]
	if !ok {
		return nil, &catalog.FetchError{Op: "details", URL: url, StatusCode: 404, Err: errors.New("Not Found")}
	}
	return d, nil
}
