// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header.
//   - rayid: Tags every request with a ray id, stored in the context locals
//     and echoed in the X-Ray-ID response header for tracing.
//
// The start command registers rayid first so every log line of a request
// carries the same id.
package middleware
