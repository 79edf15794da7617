package library_test

import (
	"strconv"
	"testing"

	"psn-value/core/database"
	"psn-value/feature/library"
	"psn-value/feature/library/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a migrated in-memory sqlite database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, library.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// setupMockDB creates a mock GORM DB speaking the mysql dialect.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func seedLibrary(t *testing.T, db *gorm.DB, name, url string) *models.Library {
	t.Helper()
	lib := &models.Library{Name: name, URL: url}
	require.NoError(t, db.Create(lib).Error)
	return lib
}

func ptr[T any](v T) *T { return &v }

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
