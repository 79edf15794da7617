// Package models defines the gorm models persisted by the library feature.
package models
