// Package database handles database connections.
//
// It provides a wrapper around GORM to configure MySQL (production) or
// SQLite (local runs and tests) connections from the application's
// configuration. Schema creation belongs to the feature that owns the
// tables; see feature/library.Migrate.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
