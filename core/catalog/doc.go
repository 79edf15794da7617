// Package catalog is the HTTP client for the storefront catalog API.
//
// It knows the shape of the JSON the storefront returns and nothing about
// persistence or scoring. Every failure (transport, non-2xx status, invalid
// JSON) is reported as a *FetchError so callers can decide whether the
// failure is fatal for a whole run or only for one title.
//
// # Endpoints
//
// A library is addressed by a base query URL that ends with the page size
// parameter. The client appends the size:
//
//   - FetchTotalCount: GET <base>0, reads total_results.
//   - FetchCatalogPage: GET <base><count>, decodes the links list.
//   - FetchTitleDetails: GET <details url>, decodes price and rating blocks.
//
// # Usage
//
//	c := catalog.NewClient(cfg.Catalog)
//	total, err := c.FetchTotalCount(ctx, lib.URL)
//	page, err := c.FetchCatalogPage(ctx, lib.URL, total)
package catalog
