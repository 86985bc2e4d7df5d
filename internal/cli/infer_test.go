package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/invgen/internal/store"
	"github.com/roach88/invgen/internal/testutil"
)

func TestInfer_Text(t *testing.T) {
	path := writeLinearTrace(t, t.TempDir())

	out, errOut, err := execute(t, "infer", path)
	require.NoError(t, err)

	assert.Contains(t, out, "P  (6 samples)\nz == x + y\n")
	assert.Contains(t, out, ": 1 points, 6 samples, 1 reported, 3 falsified, 0 suppressed")
	assert.NotContains(t, out, "(stored)")
	assert.Contains(t, errOut, "inference complete")
}

func TestInfer_JSON(t *testing.T) {
	path := writeLinearTrace(t, t.TempDir())

	out, _, err := execute(t, "--format", "json", "infer", path)
	require.NoError(t, err)

	var result InferResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, int64(6), result.Samples)
	assert.Equal(t, 3, result.Falsified)
	require.Len(t, result.Points, 1)
	require.Len(t, result.Points[0].Reported, 1)

	got := result.Points[0].Reported[0]
	assert.Equal(t, "LinearTernary", string(got.Kind))
	assert.Equal(t, "z == x + y", got.Formula)
	assert.Equal(t, 6, got.NumSamples)
	assert.Empty(t, result.Points[0].Discarded)
}

func TestInfer_ShowDiscarded(t *testing.T) {
	path := writeLinearTrace(t, t.TempDir())

	out, _, err := execute(t, "--set", "filter.enough_samples.min_modified=10", "infer", path, "--show-discarded")
	require.NoError(t, err)
	assert.Contains(t, out, "[discarded] z == x + y  (not enough modified samples (6 < 10))")
	assert.Contains(t, out, "0 reported")

	// Without the flag, discarded invariants stay hidden
	out, _, err = execute(t, "--set", "filter.enough_samples.min_modified=10", "infer", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "[discarded]")
}

func TestInfer_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeLinearTrace(t, dir)
	cfg := writeFile(t, dir, "invgen.yaml", "inv:\n  linear_ternary:\n    enabled: false\n")

	out, _, err := execute(t, "--config", cfg, "infer", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "z == x + y")
	assert.Contains(t, out, "0 reported")
}

func TestInfer_StoresRun(t *testing.T) {
	dir := t.TempDir()
	path := writeLinearTrace(t, dir)
	dbPath := filepath.Join(dir, "invgen.db")

	opts := &InferOptions{
		RootOptions:    &RootOptions{Format: "text"},
		Database:       dbPath,
		RunIDGenerator: testutil.NewFixedRunIDGenerator("run-stored"),
	}
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(context.Background())

	require.NoError(t, runInfer(opts, path, cmd))
	assert.Contains(t, out.String(), "Run run-stored: ")
	assert.Contains(t, out.String(), "(stored)")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.ReadRun(context.Background(), "run-stored")
	require.NoError(t, err)
	assert.Equal(t, path, run.Trace)
	assert.Equal(t, 1, run.Reported)

	// Storing the same run ID twice is an error, not a silent no-op
	err = runInfer(opts, path, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "already stored")
}

func TestInfer_Errors(t *testing.T) {
	dir := t.TempDir()
	syntax := writeFile(t, dir, "syntax.trace", "ppt P\n  var x int\nbogus line\n")
	malformed := writeFile(t, dir, "malformed.trace", "ppt P\n  var x int\nsample P\n  x abc\n")
	good := writeLinearTrace(t, dir)

	tests := []struct {
		name     string
		args     []string
		exitCode int
		output   string
	}{
		{"missing trace", []string{"infer", filepath.Join(dir, "none.trace")}, ExitCommandError, "Error [E005]"},
		{"syntax error", []string{"infer", syntax}, ExitFailure, "Error [E201]"},
		{"malformed value", []string{"infer", malformed}, ExitFailure, "Error [E202]"},
		{"unknown switch", []string{"--set", "inv.nope=1", "infer", good}, ExitCommandError, "Error [E002]"},
		{"bad switch value", []string{"--set", "inv.oneof.size=many", "infer", good}, ExitCommandError, "BAD_VALUE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.Contains(t, out, tt.output)
		})
	}
}

func TestInfer_IngestErrorJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "malformed.trace", "ppt P\n  var x int\nsample P\n  x abc\n")

	out, _, err := execute(t, "--format", "json", "infer", path)
	require.Error(t, err)

	resp := decodeData(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeIngestFailed, resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "PARSE_FAILED", details["code"])
	assert.Equal(t, "P", details["point"])
	assert.Equal(t, float64(4), details["line"])
}

func TestInferResult_String(t *testing.T) {
	r := InferResult{
		RunID:   "r1",
		Samples: 3,
		Points: []InferPoint{
			{Point: "A", Samples: 2, Reported: []InferInvariant{{Formula: "x == 1"}}},
			{Point: "B", Samples: 1, Discarded: []InferInvariant{{Formula: "y == 2", DiscardReason: "why"}}},
		},
		showDiscarded: true,
	}
	lines := strings.Split(r.String(), "\n")
	assert.Equal(t, []string{
		"===========================================================================",
		"A  (2 samples)",
		"x == 1",
		"===========================================================================",
		"B  (1 samples)",
		"[discarded] y == 2  (why)",
		"",
		"Run r1: 2 points, 3 samples, 1 reported, 0 falsified, 0 suppressed",
	}, lines)
}
