// Package testutil provides a stub database/sql driver serving a catalogue
// snapshot table for postgres source tests.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// StubConn answers the two queries a snapshot source issues.
type StubConn struct {
	mu        sync.Mutex
	Payloads  map[string][]byte
	Queries   []string
	FailPing  bool
	FailQuery bool
}

// NewStubDB registers a sql.DB backed by an in-memory stub connection.
func NewStubDB(payloads map[string][]byte) (*sql.DB, *StubConn) {
	conn := &StubConn{Payloads: payloads}
	if conn.Payloads == nil {
		conn.Payloads = make(map[string][]byte)
	}
	name := fmt.Sprintf("stubpg%d", time.Now().UnixNano())
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

// Set replaces one bucket's payload.
func (c *StubConn) Set(bucket string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Payloads[bucket] = payload
}

// Statements returns the queries seen so far.
func (c *StubConn) Statements() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.Queries...)
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return d.conn, nil
}

// Prepare implements driver.Conn.
func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) { return nil, fmt.Errorf("read-only stub") }

// Ping implements driver.Pinger.
func (c *StubConn) Ping(_ context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

// QueryContext implements driver.QueryerContext.
func (c *StubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Queries = append(c.Queries, query)
	if c.FailQuery {
		return nil, fmt.Errorf("query fail")
	}
	norm := strings.ToUpper(strings.Join(strings.Fields(query), " "))
	switch {
	case strings.HasPrefix(norm, "SELECT PAYLOAD FROM") && strings.Contains(norm, "WHERE BUCKET = $1"):
		if len(args) != 1 {
			return nil, fmt.Errorf("expected one arg, got %d", len(args))
		}
		bucket, _ := args[0].Value.(string)
		rows := &stubRows{cols: []string{"payload"}}
		if p, ok := c.Payloads[bucket]; ok {
			rows.data = [][]driver.Value{{append([]byte(nil), p...)}}
		}
		return rows, nil
	case strings.HasPrefix(norm, "SELECT BUCKET, PAYLOAD FROM"):
		buckets := make([]string, 0, len(c.Payloads))
		for b := range c.Payloads {
			buckets = append(buckets, b)
		}
		sort.Strings(buckets)
		rows := &stubRows{cols: []string{"bucket", "payload"}}
		for _, b := range buckets {
			rows.data = append(rows.data, []driver.Value{b, append([]byte(nil), c.Payloads[b]...)})
		}
		return rows, nil
	}
	return nil, fmt.Errorf("unsupported query: %s", query)
}

type stubRows struct {
	cols []string
	data [][]driver.Value
	pos  int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}
