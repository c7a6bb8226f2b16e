package dataset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vacciprofile/internal/catalog"
	"vacciprofile/internal/observability"
	"vacciprofile/pkg/domain"
)

// Loader fetches and decodes every collection into a catalogue.
type Loader struct {
	source   Source
	logger   *zap.Logger
	recorder observability.Recorder
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the loader's logger.
func WithLogger(l *zap.Logger) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder for load operations.
func WithRecorder(r observability.Recorder) LoaderOption {
	return func(ld *Loader) {
		if r != nil {
			ld.recorder = r
		}
	}
}

// NewLoader returns a loader reading from src.
func NewLoader(src Source, opts ...LoaderOption) *Loader {
	ld := &Loader{source: src, logger: zap.NewNop(), recorder: observability.NopRecorder{}}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load fetches the collections concurrently and builds a catalogue. The
// scientific-name vocabulary is optional; the other three are required.
func (ld *Loader) Load(ctx context.Context) (*catalog.Catalog, error) {
	start := time.Now()
	c, err := ld.load(ctx)
	ld.recorder.Observe(ctx, "dataset_load", err == nil, time.Since(start))
	if err != nil {
		ld.logger.Warn("dataset load failed", zap.Error(err))
		return nil, err
	}
	m, v, vx := c.Counts()
	ld.logger.Info("dataset loaded",
		zap.Int("manufacturers", m),
		zap.Int("viruses", v),
		zap.Int("vaccines", vx),
		zap.Int("scientific_names", len(c.ScientificNames())),
		zap.Duration("elapsed", time.Since(start)))
	return c, nil
}

func (ld *Loader) load(ctx context.Context) (*catalog.Catalog, error) {
	var (
		manufacturers []domain.Manufacturer
		viruses       []domain.Virus
		vaccines      []domain.Vaccine
		names         []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := ld.source.Fetch(gctx, BucketManufacturers)
		if err != nil {
			return err
		}
		manufacturers, err = DecodeManufacturers(b)
		return err
	})
	g.Go(func() error {
		b, err := ld.source.Fetch(gctx, BucketViruses)
		if err != nil {
			return err
		}
		viruses, err = DecodeViruses(b)
		return err
	})
	g.Go(func() error {
		b, err := ld.source.Fetch(gctx, BucketVaccines)
		if err != nil {
			return err
		}
		vaccines, err = DecodeVaccines(b)
		return err
	})
	g.Go(func() error {
		b, err := ld.source.Fetch(gctx, BucketScientificNames)
		if errors.Is(err, ErrMissingBucket) {
			ld.logger.Debug("no scientific names collection; emphasis disabled")
			return nil
		}
		if err != nil {
			return err
		}
		names, err = DecodeScientificNames(b)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return catalog.New(manufacturers, viruses, vaccines, names), nil
}
