package checks

import (
	"fmt"

	"psn-value/feature/library/models"

	"gorm.io/gorm"
)

// SchemaReport is the result of comparing the database with the models.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
}

// TableReport lists what one table is missing.
type TableReport struct {
	Exists         bool     `json:"exists"`
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema verifies every library table and column exists, using the
// gorm models as the source of truth.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{Matched: true, Tables: make(map[string]TableReport)}
	migrator := db.Migrator()

	for _, model := range models.All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		tbl := TableReport{MissingColumns: []string{}, Status: "ok"}
		tbl.Exists = migrator.HasTable(model)
		if !tbl.Exists {
			tbl.Status = "error"
			report.Matched = false
			report.Tables[table] = tbl
			continue
		}

		for _, field := range stmt.Schema.Fields {
			if field.DBName == "" || field.IgnoreMigration {
				continue
			}
			if !migrator.HasColumn(model, field.DBName) {
				tbl.MissingColumns = append(tbl.MissingColumns, field.DBName)
			}
		}
		if len(tbl.MissingColumns) > 0 {
			tbl.Status = "error"
			report.Matched = false
		}
		report.Tables[table] = tbl
	}
	return report, nil
}

// FixSchema creates missing tables and columns.
func FixSchema(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
