// Package sqlite opens a catalogue snapshot stored in a SQLite file.
package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"vacciprofile/internal/infra/snapshot"
)

// Open opens path read-only and returns a source over table.
func Open(path, table string) (snapshot.Table, error) {
	if path == "" {
		path = "vacciprofile.db"
	}
	if _, err := os.Stat(path); err != nil {
		return snapshot.Table{}, fmt.Errorf("sqlite snapshot: %w", err)
	}
	dsn := (&url.URL{Scheme: "file", Opaque: path, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return snapshot.Table{}, fmt.Errorf("open sqlite: %w", err)
	}
	t, err := snapshot.NewTable(db, table, "?")
	if err != nil {
		_ = db.Close()
		return snapshot.Table{}, err
	}
	return t, nil
}
