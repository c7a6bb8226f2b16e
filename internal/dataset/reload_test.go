package dataset_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"vacciprofile/internal/blob"
	"vacciprofile/internal/dataset"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeDataset(t *testing.T, dir string, objs map[string]string) {
	t.Helper()
	for key, body := range objs {
		path := filepath.Join(dir, filepath.FromSlash(key))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
}

func fsReloader(t *testing.T) (*dataset.Reloader, *dataset.Holder, dataset.BlobSource, string) {
	t.Helper()
	dir := t.TempDir()
	writeDataset(t, dir, fullObjects())
	reader, err := blob.NewFilesystem(dir)
	require.NoError(t, err)
	src := dataset.BlobSource{Reader: reader, Prefix: "catalog/"}
	ld := dataset.NewLoader(src)
	c, err := ld.Load(context.Background())
	require.NoError(t, err)
	holder := dataset.NewHolder(c)
	return dataset.NewReloader(ld, holder, nil, 20*time.Millisecond), holder, src, dir
}

const threeManufacturers = `[
  {"manufacturerId": 1, "name": "Pfizer"},
  {"manufacturerId": 2, "name": "Moderna"},
  {"manufacturerId": 3, "name": "Novavax"}
]`

func manufacturerCount(h *dataset.Holder) int {
	m, _, _ := h.Catalog().Counts()
	return m
}

func TestReloadKeepsPreviousCatalogOnFailure(t *testing.T) {
	r, holder, _, dir := fsReloader(t)
	before := holder.Catalog()

	writeDataset(t, dir, map[string]string{"catalog/vaccines.json": `not json`})
	require.Error(t, r.Reload(context.Background()))
	assert.Same(t, before, holder.Catalog())

	writeDataset(t, dir, map[string]string{"catalog/vaccines.json": `[]`})
	require.NoError(t, r.Reload(context.Background()))
	assert.NotSame(t, before, holder.Catalog())
}

func TestWatchDirReloadsOnChange(t *testing.T) {
	r, holder, _, dir := fsReloader(t)
	require.Equal(t, 2, manufacturerCount(holder))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.WatchDir(ctx, filepath.Join(dir, "catalog")) }()

	assert.Eventually(t, func() bool {
		writeDataset(t, dir, map[string]string{"catalog/manufacturers.json": threeManufacturers})
		return manufacturerCount(holder) == 3
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

// writeContinuously rewrites key every interval until the returned stop
// function is called.
func writeContinuously(t *testing.T, dir, key, body string, interval time.Duration) (stop func()) {
	t.Helper()
	quit := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-quit:
				return
			case <-tick.C:
				_ = os.WriteFile(filepath.Join(dir, filepath.FromSlash(key)), []byte(body), 0o644)
			}
		}
	}()
	return func() {
		close(quit)
		<-finished
	}
}

func TestWatchDirReloadsDespiteContinuousWrites(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, fullObjects())
	reader, err := blob.NewFilesystem(dir)
	require.NoError(t, err)
	ld := dataset.NewLoader(dataset.BlobSource{Reader: reader, Prefix: "catalog/"})
	c, err := ld.Load(context.Background())
	require.NoError(t, err)
	holder := dataset.NewHolder(c)
	// Writes land every 20ms, well inside the 100ms debounce.
	r := dataset.NewReloader(ld, holder, nil, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.WatchDir(ctx, filepath.Join(dir, "catalog")) }()

	stop := writeContinuously(t, dir, "catalog/manufacturers.json", threeManufacturers, 20*time.Millisecond)
	assert.Eventually(t, func() bool { return manufacturerCount(holder) == 3 }, 3*time.Second, 20*time.Millisecond)
	stop()

	cancel()
	require.NoError(t, <-done)
}

func TestWatchDirMissingDirectory(t *testing.T) {
	r, _, _, dir := fsReloader(t)
	err := r.WatchDir(context.Background(), filepath.Join(dir, "absent"))
	assert.Error(t, err)
}

func TestPollReloadsWhenFingerprintChanges(t *testing.T) {
	r, holder, src, dir := fsReloader(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Poll(ctx, src, 10*time.Millisecond) }()

	// Each write differs so a change lands after the poller's baseline.
	round := 0
	assert.Eventually(t, func() bool {
		round++
		body := fmt.Sprintf(`[{"manufacturerId": 1, "name": "Pfizer", "description": "rev %d"}, {"manufacturerId": 2}, {"manufacturerId": 3}]`, round)
		writeDataset(t, dir, map[string]string{"catalog/manufacturers.json": body})
		return manufacturerCount(holder) == 3
	}, 5*time.Second, 30*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
