package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/invgen/internal/testutil"
)

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// decodeData unmarshals the data payload of a JSON CLI response.
func decodeData(t *testing.T, out string, v any) CLIResponse {
	t.Helper()
	var raw struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), "output: %s", out)
	if v != nil {
		require.NoError(t, json.Unmarshal(raw.Data, v))
	}
	return raw.CLIResponse
}

// writeLinearTrace writes a trace whose point P satisfies z == x + y
// with y == x*x, and returns its path.
func writeLinearTrace(t *testing.T, dir string) string {
	t.Helper()
	b := testutil.NewTraceBuilder()
	b.Point("P").Var("x", "int").Var("y", "int").Var("z", "int")
	for i := int64(0); i < 6; i++ {
		b.Sample("P").Int("x", i).Int("y", i*i).Int("z", i+i*i)
	}
	return writeFile(t, dir, "linear.trace", b.String())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
