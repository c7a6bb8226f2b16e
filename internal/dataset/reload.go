package dataset

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"vacciprofile/internal/catalog"
)

// Holder publishes the current catalogue. Sessions capture the catalogue
// when they start, so a swap only affects sessions created afterwards.
type Holder struct {
	current atomic.Pointer[catalog.Catalog]
}

// NewHolder returns a holder publishing c.
func NewHolder(c *catalog.Catalog) *Holder {
	h := &Holder{}
	h.current.Store(c)
	return h
}

// Catalog returns the current catalogue.
func (h *Holder) Catalog() *catalog.Catalog { return h.current.Load() }

// Replace publishes c.
func (h *Holder) Replace(c *catalog.Catalog) { h.current.Store(c) }

// Reloader refreshes a Holder from a Loader.
type Reloader struct {
	loader   *Loader
	holder   *Holder
	logger   *zap.Logger
	debounce time.Duration
}

// maxWaitFactor bounds how long a steady stream of events can postpone a
// reload, as a multiple of the debounce.
const maxWaitFactor = 4

// NewReloader returns a reloader. Bursts of file events closer together than
// debounce trigger a single reload, which fires no later than four debounce
// periods after the first event of the burst.
func NewReloader(loader *Loader, holder *Holder, logger *zap.Logger, debounce time.Duration) *Reloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Reloader{loader: loader, holder: holder, logger: logger, debounce: debounce}
}

// Reload loads a fresh catalogue and publishes it. On failure the previous
// catalogue stays in place.
func (r *Reloader) Reload(ctx context.Context) error {
	c, err := r.loader.Load(ctx)
	if err != nil {
		r.logger.Error("reload failed, keeping previous catalogue", zap.Error(err))
		return err
	}
	r.holder.Replace(c)
	r.logger.Info("catalogue reloaded")
	return nil
}

// WatchDir reloads whenever a JSON file in dir changes. It blocks until ctx
// is cancelled.
func (r *Reloader) WatchDir(ctx context.Context, dir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	r.logger.Info("watching dataset directory", zap.String("dir", dir))

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			r.logger.Debug("dataset file changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			now := time.Now()
			if pending.IsZero() {
				pending = now
			}
			delay := nextDelay(now.Sub(pending), r.debounce)
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("dataset watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			pending = time.Time{}
			_ = r.Reload(ctx)
		}
	}
}

// nextDelay returns the debounce delay after an event that arrives elapsed
// after the first pending one, capped so the reload is not starved.
func nextDelay(elapsed, debounce time.Duration) time.Duration {
	remaining := maxWaitFactor*debounce - elapsed
	if remaining < 0 {
		return 0
	}
	return min(debounce, remaining)
}

func relevant(ev fsnotify.Event) bool {
	if !strings.HasSuffix(ev.Name, ".json") {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}

// Poll checks fp every interval and reloads when the fingerprint changes. It
// serves sources that cannot be watched, such as S3 buckets. It blocks until
// ctx is cancelled.
func (r *Reloader) Poll(ctx context.Context, fp Fingerprinter, interval time.Duration) error {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	last, err := fp.Fingerprint(ctx)
	if err != nil {
		r.logger.Warn("initial dataset fingerprint failed", zap.Error(err))
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			cur, err := fp.Fingerprint(ctx)
			if err != nil {
				r.logger.Warn("dataset fingerprint failed", zap.Error(err))
				continue
			}
			if cur == last {
				continue
			}
			if r.Reload(ctx) == nil {
				last = cur
			}
		}
	}
}
