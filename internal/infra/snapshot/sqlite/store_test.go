package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	sqldocs "vacciprofile/docs/schema/sql"
	"vacciprofile/internal/dataset"
)

func seed(t *testing.T, rows map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	defer func() { _ = db.Close() }()
	if _, err := db.Exec(sqldocs.SQLite); err != nil {
		t.Fatalf("create: %v", err)
	}
	for bucket, payload := range rows {
		if _, err := db.Exec(`INSERT INTO catalog (bucket, payload) VALUES (?, ?)`, bucket, []byte(payload)); err != nil {
			t.Fatalf("insert %s: %v", bucket, err)
		}
	}
	return path
}

func TestOpenLoadsCatalog(t *testing.T) {
	path := seed(t, map[string]string{
		"manufacturers":   `[{"manufacturerId": 1, "name": "Pfizer"}]`,
		"viruses":         `[{"virusId": 2, "name": "RSV", "vaccines": [{"vaccineId": 3}]}]`,
		"vaccines":        `[{"vaccineId": 3, "virusId": 2, "manufacturerId": 1, "name": "Abrysvo"}]`,
		"scientificNames": `["Pneumoviridae"]`,
	})
	src, err := Open(path, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = src.Close() }()

	c, err := dataset.NewLoader(src).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	vx, err := c.VaccineByName("Abrysvo")
	if err != nil || vx.ManufacturerID != "1" {
		t.Fatalf("unexpected vaccine %+v %v", vx, err)
	}
}

func TestFetchMissingBucketAndReadOnly(t *testing.T) {
	path := seed(t, map[string]string{"viruses": `[]`})
	src, err := Open(path, "catalog")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = src.Close() }()
	ctx := context.Background()

	if _, err := src.Fetch(ctx, "vaccines"); !errors.Is(err, dataset.ErrMissingBucket) {
		t.Fatalf("expected missing bucket, got %v", err)
	}
	if b, err := src.Fetch(ctx, "viruses"); err != nil || string(b) != "[]" {
		t.Fatalf("fetch viruses: %q %v", b, err)
	}
	if _, err := src.DB().Exec(`INSERT INTO catalog (bucket, payload) VALUES ('x', 'y')`); err == nil {
		t.Fatalf("expected read-only connection to reject writes")
	}
}

func TestFingerprintTracksRows(t *testing.T) {
	path := seed(t, map[string]string{"viruses": `[]`})
	src, err := Open(path, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = src.Close() }()
	ctx := context.Background()

	before, err := src.Fingerprint(ctx)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	writer, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	if _, err := writer.Exec(`UPDATE catalog SET payload = ? WHERE bucket = 'viruses'`, []byte(`[{"virusId": 1}]`)); err != nil {
		t.Fatalf("update: %v", err)
	}
	_ = writer.Close()
	after, err := src.Fingerprint(ctx)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if before == after {
		t.Fatalf("expected fingerprint to change")
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.db"), ""); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := seed(t, nil)
	if _, err := Open(path, "catalog; DROP TABLE catalog"); err == nil {
		t.Fatalf("expected invalid table name error")
	}
}
