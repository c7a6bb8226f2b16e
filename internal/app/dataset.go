// Package app wires configuration to dataset sources and reloading for the
// vacciprofile commands.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"vacciprofile/data"
	"vacciprofile/internal/blob"
	"vacciprofile/internal/config"
	"vacciprofile/internal/dataset"
	"vacciprofile/internal/infra/snapshot/postgres"
	"vacciprofile/internal/infra/snapshot/sqlite"
)

// Dataset is an opened catalogue source.
type Dataset struct {
	Source dataset.Source
	// Root is the directory behind an fs source, empty for other drivers.
	Root   string
	closer func() error
}

// Close releases database handles held by the source.
func (d Dataset) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer()
}

// OpenDataset opens the source selected by cfg.Driver.
func OpenDataset(ctx context.Context, cfg config.DatasetConfig) (Dataset, error) {
	switch cfg.Driver {
	case config.DriverFS, config.DriverS3, config.DriverMemory:
		opts := blob.Options{Driver: blob.Driver(cfg.Driver), Root: cfg.Root}
		switch cfg.Driver {
		case config.DriverS3:
			opts.S3 = blob.S3Config{
				Bucket:          cfg.S3.Bucket,
				Region:          cfg.S3.Region,
				Endpoint:        cfg.S3.Endpoint,
				PathStyle:       cfg.S3.PathStyle,
				AccessKeyID:     cfg.S3.AccessKeyID,
				SecretAccessKey: cfg.S3.SecretAccessKey,
			}
		case config.DriverMemory:
			objects, err := data.Objects()
			if err != nil {
				return Dataset{}, fmt.Errorf("bundled dataset: %w", err)
			}
			opts.Objects = objects
		}
		r, err := blob.Open(ctx, opts)
		if err != nil {
			return Dataset{}, fmt.Errorf("open %s dataset: %w", cfg.Driver, err)
		}
		d := Dataset{Source: dataset.BlobSource{Reader: r, Prefix: cfg.Prefix}}
		if root, ok := blob.LocalRoot(r); ok {
			d.Root = root
		}
		return d, nil
	case config.DriverSQLite:
		t, err := sqlite.Open(cfg.SQLitePath, cfg.Table)
		if err != nil {
			return Dataset{}, err
		}
		return Dataset{Source: t, closer: t.Close}, nil
	case config.DriverPostgres:
		t, err := postgres.Open(ctx, cfg.PostgresDSN, cfg.Table)
		if err != nil {
			return Dataset{}, err
		}
		return Dataset{Source: t, closer: t.Close}, nil
	default:
		return Dataset{}, fmt.Errorf("unknown dataset driver %q", cfg.Driver)
	}
}

// ErrNotWatchable is returned when reloading is requested for a source that
// offers neither a directory nor a fingerprint.
var ErrNotWatchable = errors.New("dataset source cannot be watched")

// Watch keeps holder current until ctx is cancelled: fs sources are watched
// for file events, other sources are polled by fingerprint.
func Watch(ctx context.Context, d Dataset, cfg config.DatasetConfig, loader *dataset.Loader, holder *dataset.Holder, logger *zap.Logger) error {
	reloader := dataset.NewReloader(loader, holder, logger, 0)
	if d.Root != "" {
		return reloader.WatchDir(ctx, d.Root)
	}
	fp, ok := d.Source.(dataset.Fingerprinter)
	if !ok {
		return ErrNotWatchable
	}
	return reloader.Poll(ctx, fp, cfg.PollInterval)
}
