// Package sqldocs exposes the catalogue snapshot DDL from the docs tree.
package sqldocs

import (
	_ "embed"
	"strings"
)

// SQLite contains the snapshot table DDL for SQLite.
//
//go:embed sqlite.sql
var SQLite string

// Postgres contains the snapshot table DDL for Postgres.
//
//go:embed postgres.sql
var Postgres string

// ForTable rewrites a DDL bundle to target a table other than "catalog".
func ForTable(ddl, table string) string {
	if table == "" || table == "catalog" {
		return ddl
	}
	return strings.Replace(ddl, "EXISTS catalog (", "EXISTS "+table+" (", 1)
}
