// Package postgres opens a catalogue snapshot stored in Postgres.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"vacciprofile/internal/infra/snapshot"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/vacciprofile?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Open connects to dsn, verifies the connection and returns a source over
// table. Only SELECT statements are issued; append
// default_transaction_read_only=on to the DSN to have the server enforce it.
func Open(ctx context.Context, dsn, table string) (snapshot.Table, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return snapshot.Table{}, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return snapshot.Table{}, fmt.Errorf("ping postgres: %w", err)
	}
	t, err := snapshot.NewTable(db, table, "$1")
	if err != nil {
		_ = db.Close()
		return snapshot.Table{}, err
	}
	return t, nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
