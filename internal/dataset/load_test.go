package dataset_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"vacciprofile/internal/blob"
	"vacciprofile/internal/dataset"
)

func memorySource(objects map[string]string) dataset.BlobSource {
	raw := make(map[string][]byte, len(objects))
	for k, v := range objects {
		raw[k] = []byte(v)
	}
	return dataset.BlobSource{Reader: blob.NewMemory(raw), Prefix: "catalog/"}
}

func fullObjects() map[string]string {
	return map[string]string{
		"catalog/manufacturers.json":   manufacturersJSON,
		"catalog/viruses.json":         virusesJSON,
		"catalog/vaccines.json":        vaccinesJSON,
		"catalog/scientificNames.json": `["SARS-CoV-2"]`,
	}
}

type countingRecorder struct {
	ok, failed int
}

func (c *countingRecorder) Observe(_ context.Context, _ string, success bool, _ time.Duration) {
	if success {
		c.ok++
		return
	}
	c.failed++
}

func TestLoadBuildsCatalog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	rec := &countingRecorder{}
	ld := dataset.NewLoader(memorySource(fullObjects()), dataset.WithLogger(zap.New(core)), dataset.WithRecorder(rec))

	c, err := ld.Load(context.Background())
	require.NoError(t, err)

	m, v, vx := c.Counts()
	assert.Equal(t, []int{2, 2, 1}, []int{m, v, vx})
	assert.Equal(t, []string{"SARS-CoV-2"}, c.ScientificNames())

	vaccine, err := c.VaccineByID("100")
	require.NoError(t, err)
	virus, err := c.VirusByVaccine(vaccine)
	require.NoError(t, err)
	assert.Equal(t, "SARS-CoV-2", virus.Name)

	assert.Equal(t, 1, logs.FilterMessage("dataset loaded").Len())
	assert.Equal(t, 1, rec.ok)
}

func TestLoadWithoutScientificNames(t *testing.T) {
	objs := fullObjects()
	delete(objs, "catalog/scientificNames.json")

	c, err := dataset.NewLoader(memorySource(objs)).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, c.ScientificNames())
}

func TestLoadFailsOnMissingOrMalformedCollection(t *testing.T) {
	missing := fullObjects()
	delete(missing, "catalog/vaccines.json")
	rec := &countingRecorder{}
	_, err := dataset.NewLoader(memorySource(missing), dataset.WithRecorder(rec)).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrMissingBucket)
	assert.Equal(t, 1, rec.failed)

	broken := fullObjects()
	broken["catalog/viruses.json"] = `{"oops": true}`
	_, err = dataset.NewLoader(memorySource(broken)).Load(context.Background())
	assert.ErrorIs(t, err, dataset.ErrMalformed)
}

type failingSource struct{ err error }

func (f failingSource) Fetch(context.Context, string) ([]byte, error) { return nil, f.err }

func TestLoadPropagatesSourceErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := dataset.NewLoader(failingSource{err: boom}).Load(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestBlobSourceFingerprint(t *testing.T) {
	objs := fullObjects()
	delete(objs, "catalog/scientificNames.json")
	src := memorySource(objs)

	fp, err := src.Fingerprint(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, `^[^|]*\|[^|]*\|[^|]*\|-$`, fp)
	assert.Equal(t, "catalog/viruses.json", src.Key(dataset.BucketViruses))
	assert.Equal(t, []string{"manufacturers", "viruses", "vaccines", "scientificNames"}, dataset.Buckets())
}
