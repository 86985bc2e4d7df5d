package store

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/roach88/invgen/internal/config"
	"github.com/roach88/invgen/internal/engine"
	"github.com/roach88/invgen/internal/inv"
	"github.com/roach88/invgen/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// runEngine runs a small trace and returns the result under runID. P
// reports z == x + y + 1 and Q reports k == 1; withC adds an alternating
// c to P, which reports c one of { 0, 1 }.
func runEngine(t *testing.T, runID string, settings *config.Settings, withC bool) *engine.Result {
	t.Helper()
	b := testutil.NewTraceBuilder()
	p := b.Point("P").Var("x", "int").Var("y", "int").Var("z", "int")
	if withC {
		p.Var("c", "int")
	}
	for i := int64(0); i < 6; i++ {
		s := b.Sample("P").Int("x", i).Int("y", i*i).Int("z", i+i*i+1)
		if withC {
			s.Int("c", i%2)
		}
	}
	b.Point("Q").Var("k", "int")
	b.Sample("Q").Int("k", 1)

	e := engine.New(settings,
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithCounters(&inv.Counters{}),
		engine.WithRunIDGenerator(engine.NewFixedGenerator(runID)))
	res, err := e.Run(context.Background(), b.Trace(t))
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	return res
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue any
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("failed to scan column info: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func getTableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?", table)
	if err != nil {
		t.Fatalf("failed to get indexes for %q: %v", table, err)
	}
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan index name: %v", err)
		}
		indexes = append(indexes, name)
	}
	return indexes
}
