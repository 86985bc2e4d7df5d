package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/invgen/internal/config"
	"github.com/roach88/invgen/internal/inv"
)

// Run is a stored engine run.
type Run struct {
	Seq   int64
	ID    string
	Trace string

	Settings *config.Settings

	Points      int
	Samples     int64
	Occurrences int64
	Reported    int
	Discarded   int
	Falsified   int
	Suppressed  int
}

// Invariant is a stored invariant. DiscardReason is empty for reported ones.
type Invariant struct {
	RunID         string
	Ordinal       int
	Point         string
	Kind          inv.Kind
	Vars          string
	Formula       string
	Repr          string
	Probability   float64
	NumSamples    int
	NumModified   int
	DiscardReason string
}

// IsDiscarded reports whether a filter vetoed the invariant.
func (i Invariant) IsDiscarded() bool {
	return i.DiscardReason != ""
}

const runColumns = `seq, id, trace, settings, points, samples, occurrences, reported, discarded, falsified, suppressed`

const invariantColumns = `run_id, ordinal, point, kind, vars, formula, repr, probability, num_samples, num_modified, discard_reason`

// ListRuns returns every run in insertion order.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// LatestRun retrieves the most recently written run.
// Returns sql.ErrNoRows if the store is empty.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq DESC LIMIT 1`)
	return scanRun(row)
}

// ReadInvariants returns a run's invariants in reported order, discarded
// ones included.
func (s *Store) ReadInvariants(ctx context.Context, runID string) ([]Invariant, error) {
	return s.queryInvariants(ctx, `
		SELECT `+invariantColumns+`
		FROM invariants
		WHERE run_id = ?
		ORDER BY ordinal ASC
	`, runID)
}

// ReadInvariantsByKind returns a run's invariants of one kind.
func (s *Store) ReadInvariantsByKind(ctx context.Context, runID string, kind inv.Kind) ([]Invariant, error) {
	return s.queryInvariants(ctx, `
		SELECT `+invariantColumns+`
		FROM invariants
		WHERE run_id = ? AND kind = ?
		ORDER BY ordinal ASC
	`, runID, string(kind))
}

func (s *Store) queryInvariants(ctx context.Context, query string, args ...any) ([]Invariant, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query invariants: %w", err)
	}
	defer rows.Close()

	invs := []Invariant{}
	for rows.Next() {
		var i Invariant
		var kind string
		if err := rows.Scan(
			&i.RunID, &i.Ordinal, &i.Point, &kind, &i.Vars, &i.Formula, &i.Repr,
			&i.Probability, &i.NumSamples, &i.NumModified, &i.DiscardReason,
		); err != nil {
			return nil, fmt.Errorf("scan invariant: %w", err)
		}
		i.Kind = inv.Kind(kind)
		invs = append(invs, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invariants: %w", err)
	}
	return invs, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var settingsJSON string
	err := sc.Scan(
		&r.Seq, &r.ID, &r.Trace, &settingsJSON, &r.Points, &r.Samples, &r.Occurrences,
		&r.Reported, &r.Discarded, &r.Falsified, &r.Suppressed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return r, err
	}
	if err != nil {
		return r, fmt.Errorf("scan run: %w", err)
	}
	if r.Settings, err = unmarshalSettings(settingsJSON); err != nil {
		return r, err
	}
	return r, nil
}
