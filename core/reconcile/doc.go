// Package reconcile synchronizes a storefront catalog with a persisted
// library and keeps every title's price, rating and value records current.
//
// # Architecture
//
// The package consists of three parts:
//
// 1. Engine: walks the fetched catalog once per run, validates each entry
//    and either refreshes an existing title or inserts a new one.
//
// 2. Gateway: the persistence interface. The engine never builds queries
//    itself; the gorm implementation lives in feature/library and tests use
//    an in-memory fake.
//
// 3. Fetcher: the storefront client (core/catalog).
//
// # Sync Run
//
//  1. Fetch the total count, then one catalog page sized to it.
//  2. Recompute mean and standard deviation of all stored ratings and
//     persist them on the library.
//  3. For each entry: skip bundles and unreleased titles, then update or
//     insert. The three records of a title are written in one transaction.
//     Inserts are followed by a short courtesy delay.
//  4. Stamp the library's last update time.
//
// A failure while processing one entry is logged, recorded as
// OutcomeFailed in the RunSummary, and the run moves on. Only failures of
// the catalog fetch, the statistics step or the library lookup abort a run.
//
// The engine does not guard against concurrent runs of the same library;
// the job runner in feature/library does.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(gateway, catalog.NewClient(cfg.Catalog), cfg.Sync, logger)
//	summary, err := engine.Run(ctx, libraryID)
package reconcile
