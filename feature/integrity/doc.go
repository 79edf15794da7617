// Package integrity checks that persisted library data is consistent.
//
// # Checks
//
//   - Schema: every library table and column exists (fixable by migration).
//   - Records: every title of a library has its price, rating and value record.
//   - Structure: the object store holds the catalog and thumbnails folders
//     (fixable by creating marker objects). Skipped when storage is disabled.
package integrity
