package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/invgen/internal/config"
	"github.com/roach88/invgen/internal/engine"
	"github.com/roach88/invgen/internal/inv"
	"github.com/roach88/invgen/internal/store"
	"github.com/roach88/invgen/internal/trace"
)

// InferOptions holds flags for the infer command.
type InferOptions struct {
	*RootOptions
	Database      string
	ShowDiscarded bool

	// RunIDGenerator allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDGenerator engine.RunIDGenerator
}

// InferResult is the output of the infer command.
type InferResult struct {
	RunID       string       `json:"run_id"`
	Samples     int64        `json:"samples"`
	Occurrences int64        `json:"occurrences"`
	Falsified   int          `json:"falsified"`
	Suppressed  int          `json:"suppressed"`
	Points      []InferPoint `json:"points"`
	Stored      bool         `json:"stored"`

	showDiscarded bool
}

// InferPoint lists what one program point reported.
type InferPoint struct {
	Point     string           `json:"point"`
	Samples   int              `json:"samples"`
	Reported  []InferInvariant `json:"reported"`
	Discarded []InferInvariant `json:"discarded,omitempty"`
}

// InferInvariant is one reportable or discarded invariant.
type InferInvariant struct {
	Kind          inv.Kind `json:"kind"`
	Formula       string   `json:"formula"`
	Probability   float64  `json:"probability"`
	NumSamples    int      `json:"num_samples"`
	DiscardReason string   `json:"discard_reason,omitempty"`
}

// String renders the result the way it is printed in text mode.
func (r InferResult) String() string {
	var sb strings.Builder
	for _, p := range r.Points {
		fmt.Fprintln(&sb, "===========================================================================")
		fmt.Fprintf(&sb, "%s  (%d samples)\n", p.Point, p.Samples)
		for _, i := range p.Reported {
			fmt.Fprintln(&sb, i.Formula)
		}
		if r.showDiscarded {
			for _, i := range p.Discarded {
				fmt.Fprintf(&sb, "[discarded] %s  (%s)\n", i.Formula, i.DiscardReason)
			}
		}
	}
	reported := 0
	for _, p := range r.Points {
		reported += len(p.Reported)
	}
	fmt.Fprintf(&sb, "\nRun %s: %d points, %d samples, %d reported, %d falsified, %d suppressed",
		r.RunID, len(r.Points), r.Samples, reported, r.Falsified, r.Suppressed)
	if r.Stored {
		sb.WriteString(" (stored)")
	}
	return sb.String()
}

// NewInferCommand creates the infer command.
func NewInferCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "infer <trace>",
		Short: "Infer invariants from a trace",
		Long: `Infer likely invariants from a sample trace.

Every program point declared in the trace is instantiated with candidate
invariants over its variables. Samples falsify candidates; the survivors
that are justified within inv.probability_limit and pass the filters are
printed, grouped by program point.

With --db, the run and its invariants are stored for later reporting.

Examples:
  invgen infer ./stack.trace
  invgen infer ./stack.trace --db ./invgen.db --show-discarded
  invgen infer ./stack.trace --set inv.oneof.size=3 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfer(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database to store the run in")
	cmd.Flags().BoolVar(&opts.ShowDiscarded, "show-discarded", false, "also print invariants a filter discarded")

	return cmd
}

func runInfer(opts *InferOptions, tracePath string, cmd *cobra.Command) error {
	formatter := opts.Formatter(cmd)

	settings, err := opts.Settings()
	if err != nil {
		return settingsError(formatter, err)
	}

	if _, err := os.Stat(tracePath); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("trace not found: %s", tracePath), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("trace not found: %s", tracePath))
	}
	tr, err := trace.ReadFile(tracePath)
	if err != nil {
		_ = formatter.Error(ErrCodeTraceSyntax, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to read trace", err)
	}
	formatter.VerboseLog("Read %d program point(s) and %d sample(s) from %s", len(tr.Points), len(tr.Samples), tracePath)

	engOpts := []engine.Option{engine.WithLogger(opts.Logger(cmd.ErrOrStderr()))}
	if opts.RunIDGenerator != nil {
		engOpts = append(engOpts, engine.WithRunIDGenerator(opts.RunIDGenerator))
	}
	eng := engine.New(settings, engOpts...)

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := eng.Run(ctx, tr)
	if err != nil {
		var ie *engine.IngestError
		if errors.As(err, &ie) {
			_ = formatter.Error(ErrCodeIngestFailed, err.Error(), map[string]any{
				"code":  ie.Code,
				"point": ie.Point,
				"line":  ie.Line,
			})
			return WrapExitError(ExitFailure, "inference failed", err)
		}
		return WrapExitError(ExitFailure, "inference interrupted", err)
	}

	result := buildInferResult(res, opts.ShowDiscarded)

	if opts.Database != "" {
		if err := storeRun(ctx, opts.Database, res, tracePath, settings); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to store run", err)
		}
		result.Stored = true
		formatter.VerboseLog("Stored run %s in %s", res.RunID, opts.Database)
	}

	return formatter.Success(result)
}

func storeRun(ctx context.Context, path string, res *engine.Result, tracePath string, settings *config.Settings) error {
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	inserted, err := st.WriteRun(ctx, res, tracePath, settings)
	if err != nil {
		return err
	}
	if !inserted {
		return fmt.Errorf("run %s already stored", res.RunID)
	}
	return nil
}

func buildInferResult(res *engine.Result, showDiscarded bool) InferResult {
	result := InferResult{
		RunID:         res.RunID,
		Samples:       res.Samples,
		Occurrences:   res.Occurrences,
		Falsified:     res.Falsified,
		Suppressed:    res.Suppressed,
		Points:        make([]InferPoint, 0, len(res.Points)),
		showDiscarded: showDiscarded,
	}
	for _, p := range res.Points {
		ip := InferPoint{
			Point:    p.Point,
			Samples:  p.Samples,
			Reported: make([]InferInvariant, 0, len(p.Reported)),
		}
		for _, i := range p.Reported {
			ip.Reported = append(ip.Reported, inferInvariant(i))
		}
		if showDiscarded {
			for _, i := range p.Discarded {
				ip.Discarded = append(ip.Discarded, inferInvariant(i))
			}
		}
		result.Points = append(result.Points, ip)
	}
	return result
}

func inferInvariant(i inv.Invariant) InferInvariant {
	return InferInvariant{
		Kind:          i.Kind(),
		Formula:       i.Format(),
		Probability:   i.JustifiedProbability(),
		NumSamples:    i.NumSamples(),
		DiscardReason: i.DiscardReason(),
	}
}
