package integrity

import (
	"context"
	"errors"

	"psn-value/core/storage"
	"psn-value/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrStorageDisabled is returned by storage checks when no client is configured.
var ErrStorageDisabled = errors.New("object storage is disabled")

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new integrity service. client may be nil when
// object storage is disabled.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		logger: logger,
		db:     db,
	}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckStructure(ctx, s.client, s.bucket)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	if s.client == nil {
		return ErrStorageDisabled
	}
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckSchema compares the database schema with the library models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}

// FixSchema migrates the library tables.
func (s *Service) FixSchema() error {
	return checks.FixSchema(s.db)
}

// CheckRecords reports titles of a library missing a 1:1 record.
func (s *Service) CheckRecords(ctx context.Context, libraryID uint) (*checks.RecordsReport, error) {
	return checks.CheckRecords(ctx, s.db, libraryID)
}
