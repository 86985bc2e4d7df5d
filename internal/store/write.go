package store

import (
	"context"
	"fmt"

	"github.com/roach88/invgen/internal/config"
	"github.com/roach88/invgen/internal/engine"
	"github.com/roach88/invgen/internal/inv"
)

// WriteRun records an engine result, its reported invariants and its
// discarded ones in a single transaction.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the same run ID
// twice keeps the first record and reports inserted=false.
//
// trace names the input (usually its path); settings are the ones the
// engine ran with.
func (s *Store) WriteRun(ctx context.Context, res *engine.Result, trace string, settings *config.Settings) (inserted bool, err error) {
	settingsJSON, err := marshalSettings(settings)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	reported, discarded := res.Reported(), res.Discarded()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, trace, settings, points, samples, occurrences, reported, discarded, falsified, suppressed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		res.RunID,
		trace,
		settingsJSON,
		len(res.Points),
		res.Samples,
		res.Occurrences,
		len(reported),
		len(discarded),
		res.Falsified,
		res.Suppressed,
	)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write run: rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO invariants
		(run_id, ordinal, point, kind, vars, formula, repr, probability, num_samples, num_modified, discard_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return false, fmt.Errorf("write run: prepare: %w", err)
	}
	defer stmt.Close()

	ordinal := 0
	for _, p := range res.Points {
		for _, group := range [][]inv.Invariant{p.Reported, p.Discarded} {
			for _, i := range group {
				if _, err := stmt.ExecContext(ctx,
					res.RunID,
					ordinal,
					p.Point,
					string(i.Kind()),
					i.Slice().VarNames(),
					i.Format(),
					i.Repr(),
					i.JustifiedProbability(),
					i.NumSamples(),
					i.NumModified(),
					i.DiscardReason(),
				); err != nil {
					return false, fmt.Errorf("write run: invariant %d: %w", ordinal, err)
				}
				ordinal++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write run: commit: %w", err)
	}
	return true, nil
}

// DeleteRun removes a run and its invariants. Deleting an unknown run is
// not an error.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}
