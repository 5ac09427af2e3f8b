package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"job-tracker/internal/config"
	"job-tracker/internal/database/migration"
	dbpostgres "job-tracker/internal/database/postgres"
	"job-tracker/internal/database/seeder"
	"job-tracker/internal/infrastructure/blob"
	"job-tracker/internal/infrastructure/cache"
)

// Container owns the process-wide connections.
type Container struct {
	Config config.Config
	Logger *log.Logger
	DB     *dbpostgres.Pool
	Redis  *cache.Redis
	Blobs  blob.Store

	// LocalBlobDir is set when blobs are served by this process.
	LocalBlobDir string

	closers []io.Closer
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := &Container{Config: cfg, Logger: logger}

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	c.DB = db
	c.closers = append(c.closers, db)

	migrator := migration.Runner{Dir: cfg.App.MigrationsDir, Logger: logger}
	if err := migrator.Run(ctx, db.SQLDB()); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if cfg.App.SeedDemo {
		seeds := seeder.Runner{Seeders: seeder.Defaults(), Logger: logger}
		if err := seeds.Run(ctx, db); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	c.Redis = cache.NewRedis(cfg.Redis, logger)
	c.closers = append(c.closers, c.Redis)

	if err := c.openBlobStore(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

func (c *Container) openBlobStore(ctx context.Context) error {
	switch c.Config.Blob.Backend {
	case config.BlobBackendGCS:
		s, err := blob.NewGCSStore(ctx, c.Config.Blob.GCSBucket, c.Config.Blob.PublicBaseURL, c.Logger)
		if err != nil {
			return fmt.Errorf("open gcs bucket: %w", err)
		}
		c.Blobs = s
		c.closers = append(c.closers, s)
	default:
		s, err := blob.NewLocalStore(c.Config.Blob.LocalDir, c.Config.Blob.PublicBaseURL)
		if err != nil {
			return fmt.Errorf("open local blob dir: %w", err)
		}
		c.Blobs = s
		c.LocalBlobDir = s.Root()
	}
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}
