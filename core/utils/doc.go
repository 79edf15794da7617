// Package utils provides common utility functions for the psn-value application.
// It holds lenient type conversions used when decoding storefront JSON, where
// the same field may arrive as a number, a numeric string or null.
package utils
