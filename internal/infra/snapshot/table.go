// Package snapshot reads catalogue collections from a SQL table holding one
// JSON document per bucket. The table is never written.
package snapshot

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"

	"vacciprofile/internal/dataset"
)

// DefaultTable is the table consulted when none is configured.
const DefaultTable = "catalog"

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Table is a read-only view of a (bucket, payload) table.
type Table struct {
	db          *sql.DB
	name        string
	placeholder string
}

// NewTable validates the table name and returns a view over it. placeholder
// is the driver's first bind parameter, "?" or "$1".
func NewTable(db *sql.DB, name, placeholder string) (Table, error) {
	if name == "" {
		name = DefaultTable
	}
	if !identifier.MatchString(name) {
		return Table{}, fmt.Errorf("invalid snapshot table name %q", name)
	}
	return Table{db: db, name: name, placeholder: placeholder}, nil
}

// Fetch implements dataset.Source.
func (t Table) Fetch(ctx context.Context, bucket string) ([]byte, error) {
	var payload []byte
	q := fmt.Sprintf(`SELECT payload FROM %s WHERE bucket = %s`, t.name, t.placeholder)
	err := t.db.QueryRowContext(ctx, q, bucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", bucket, dataset.ErrMissingBucket)
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", bucket, err)
	}
	return payload, nil
}

// Fingerprint implements dataset.Fingerprinter by hashing every row.
func (t Table) Fingerprint(ctx context.Context) (string, error) {
	rows, err := t.db.QueryContext(ctx, fmt.Sprintf(`SELECT bucket, payload FROM %s ORDER BY bucket`, t.name))
	if err != nil {
		return "", fmt.Errorf("select snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()
	h := sha256.New()
	for rows.Next() {
		var (
			bucket  string
			payload []byte
		)
		if err := rows.Scan(&bucket, &payload); err != nil {
			return "", fmt.Errorf("scan: %w", err)
		}
		fmt.Fprintf(h, "%s:%d:", bucket, len(payload))
		h.Write(payload)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DB exposes the underlying handle.
func (t Table) DB() *sql.DB { return t.db }

// Close releases the database handle.
func (t Table) Close() error { return t.db.Close() }
