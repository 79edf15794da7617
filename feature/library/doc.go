// Package library persists storefront libraries and exposes them over HTTP.
//
// It owns the gorm models and the Gateway that implements
// reconcile.Gateway, the Runner that starts sync, weights and thumbnails
// jobs with at most one in-flight job per library, the ObjectStore that
// mirrors thumbnails and archives catalog pages, and the read-side Service
// behind the /libraries routes.
//
// # Routes
//
//	GET  /libraries
//	POST /libraries
//	GET  /libraries/:id/titles?page=N
//	GET  /libraries/:id/jobs
//	POST /libraries/:id/jobs/:kind
//	GET  /libraries/:id/snapshots
package library
