package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"psn-value/core/catalog"
	"psn-value/core/config"
	"psn-value/core/database"
	"psn-value/core/logger"
	"psn-value/core/reconcile"
	"psn-value/core/storage"
	"psn-value/feature/library"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application holds the wired components shared by every command.
type application struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	gateway *library.Gateway
	service *library.Service
	engine  *reconcile.Engine
	store   *library.ObjectStore
	// objects is nil when object storage is disabled.
	objects storage.Client
}

// bootstrap loads configuration and connects every dependency.
func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(l)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := library.Migrate(db); err != nil {
			return nil, err
		}
	}

	a := &application{
		cfg:     cfg,
		log:     l,
		db:      db,
		gateway: library.NewGateway(db),
		service: library.NewService(db, l),
	}

	fetcher := catalog.NewClient(cfg.Catalog)
	var opts []reconcile.Option
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}

		bucketCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Storage.TimeoutSeconds)*time.Second)
		defer cancel()
		if err := storage.EnsureBucket(bucketCtx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}

		a.objects = client
		a.store = library.NewObjectStore(client, cfg.Storage, fetcher)
		opts = append(opts, reconcile.WithArchiver(a.store), reconcile.WithThumbnailMirror(a.store))
		l.Info("Object storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	a.engine = reconcile.NewEngine(a.gateway, fetcher, cfg.Sync, l, opts...)
	return a, nil
}

// newRunner creates a job runner holding per-library locks in lockDir,
// falling back to the configured directory and then the OS temp directory.
func (a *application) newRunner(l *zap.Logger, lockDir string) (*library.Runner, error) {
	if lockDir == "" {
		lockDir = a.cfg.Sync.LockDir
	}
	if lockDir == "" {
		lockDir = os.TempDir()
	}
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	return library.NewRunner(a.engine, a.gateway, l, library.WithLockDir(lockDir)), nil
}

// snapshots returns the snapshot lister, or a nil interface when storage is off.
func (a *application) snapshots() library.SnapshotLister {
	if a.store == nil {
		return nil
	}
	return a.store
}

func (a *application) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}
