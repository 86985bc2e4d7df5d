package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/invgen/internal/config"
	"github.com/roach88/invgen/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database      string
	ShowDiscarded bool
}

// RunSummary is one stored run in a listing.
type RunSummary struct {
	ID         string `json:"id"`
	Trace      string `json:"trace"`
	Points     int    `json:"points"`
	Samples    int64  `json:"samples"`
	Reported   int    `json:"reported"`
	Discarded  int    `json:"discarded"`
	Falsified  int    `json:"falsified"`
	Suppressed int    `json:"suppressed"`
}

// RunList is the output of report with no run ID.
type RunList struct {
	Runs []RunSummary `json:"runs"`
}

// String renders the listing the way it is printed in text mode.
func (l RunList) String() string {
	if len(l.Runs) == 0 {
		return "No runs stored."
	}
	var sb strings.Builder
	for i, r := range l.Runs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s  %s  points=%d samples=%d reported=%d discarded=%d falsified=%d suppressed=%d",
			r.ID, r.Trace, r.Points, r.Samples, r.Reported, r.Discarded, r.Falsified, r.Suppressed)
	}
	return sb.String()
}

// RunReport is the output of report for one run.
type RunReport struct {
	Run        RunSummary        `json:"run"`
	Settings   map[string]string `json:"settings"`
	Invariants []StoredInvariant `json:"invariants"`
}

// StoredInvariant is one invariant of a stored run.
type StoredInvariant struct {
	Point         string  `json:"point"`
	Kind          string  `json:"kind"`
	Formula       string  `json:"formula"`
	Probability   float64 `json:"probability"`
	NumSamples    int     `json:"num_samples"`
	DiscardReason string  `json:"discard_reason,omitempty"`
}

// String renders the report the way it is printed in text mode.
func (r RunReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Run %s (%s)\n", r.Run.ID, r.Run.Trace)
	point := ""
	for _, i := range r.Invariants {
		if i.Point != point {
			point = i.Point
			fmt.Fprintln(&sb, "===========================================================================")
			fmt.Fprintln(&sb, point)
		}
		if i.DiscardReason != "" {
			fmt.Fprintf(&sb, "[discarded] %s  (%s)\n", i.Formula, i.DiscardReason)
			continue
		}
		fmt.Fprintln(&sb, i.Formula)
	}
	fmt.Fprintf(&sb, "\n%d reported, %d discarded, %d falsified, %d suppressed",
		r.Run.Reported, r.Run.Discarded, r.Run.Falsified, r.Run.Suppressed)
	return sb.String()
}

// RunDiffReport is the output of report with two run IDs.
type RunDiffReport struct {
	From    string            `json:"from"`
	To      string            `json:"to"`
	Added   []StoredInvariant `json:"added"`
	Removed []StoredInvariant `json:"removed"`
}

// String renders the diff the way it is printed in text mode.
func (d RunDiffReport) String() string {
	if len(d.Added) == 0 && len(d.Removed) == 0 {
		return fmt.Sprintf("Runs %s and %s report the same invariants.", d.From, d.To)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s", d.From, d.To)
	for _, i := range d.Removed {
		fmt.Fprintf(&sb, "\n- %s: %s", i.Point, i.Formula)
	}
	for _, i := range d.Added {
		fmt.Fprintf(&sb, "\n+ %s: %s", i.Point, i.Formula)
	}
	return sb.String()
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report [run-id [other-run-id]]",
		Short: "Show stored inference runs",
		Long: `Show runs stored by "invgen infer --db".

With no run ID, lists every stored run. With one, prints the invariants
that run reported; "latest" names the most recent run. With two, prints
the reported invariants added and removed between them.

Examples:
  invgen report --db ./invgen.db
  invgen report --db ./invgen.db latest --show-discarded
  invgen report --db ./invgen.db <run-a> <run-b>`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().BoolVar(&opts.ShowDiscarded, "show-discarded", false, "include invariants a filter discarded")

	return cmd
}

func runReport(opts *ReportOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.Formatter(cmd)
	ctx := context.Background()

	// Opening would create a missing database
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	switch len(args) {
	case 0:
		return listRuns(ctx, st, formatter)
	case 1:
		return showRun(ctx, st, args[0], opts.ShowDiscarded, formatter)
	default:
		return diffRuns(ctx, st, args[0], args[1], formatter)
	}
}

func listRuns(ctx context.Context, st *store.Store, f *OutputFormatter) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	list := RunList{Runs: make([]RunSummary, 0, len(runs))}
	for _, r := range runs {
		list.Runs = append(list.Runs, summarize(r))
	}
	return f.Success(list)
}

func showRun(ctx context.Context, st *store.Store, id string, showDiscarded bool, f *OutputFormatter) error {
	run, err := readRun(ctx, st, id, f)
	if err != nil {
		return err
	}
	invs, err := st.ReadInvariants(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read invariants", err)
	}

	report := RunReport{
		Run:        summarize(run),
		Settings:   make(map[string]string),
		Invariants: make([]StoredInvariant, 0, len(invs)),
	}
	for _, sw := range config.Switches() {
		report.Settings[sw.Name] = run.Settings.Format(sw.Name)
	}
	for _, i := range invs {
		if i.IsDiscarded() && !showDiscarded {
			continue
		}
		report.Invariants = append(report.Invariants, storedInvariant(i))
	}
	return f.Success(report)
}

func diffRuns(ctx context.Context, st *store.Store, from, to string, f *OutputFormatter) error {
	a, err := readRun(ctx, st, from, f)
	if err != nil {
		return err
	}
	b, err := readRun(ctx, st, to, f)
	if err != nil {
		return err
	}
	d, err := st.DiffRuns(ctx, a.ID, b.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to diff runs", err)
	}

	report := RunDiffReport{
		From:    d.From,
		To:      d.To,
		Added:   make([]StoredInvariant, 0, len(d.Added)),
		Removed: make([]StoredInvariant, 0, len(d.Removed)),
	}
	for _, i := range d.Added {
		report.Added = append(report.Added, storedInvariant(i))
	}
	for _, i := range d.Removed {
		report.Removed = append(report.Removed, storedInvariant(i))
	}
	return f.Success(report)
}

// readRun resolves "latest" and reports a missing run.
func readRun(ctx context.Context, st *store.Store, id string, f *OutputFormatter) (store.Run, error) {
	var run store.Run
	var err error
	if id == "latest" {
		run, err = st.LatestRun(ctx)
	} else {
		run, err = st.ReadRun(ctx, id)
	}
	if errors.Is(err, sql.ErrNoRows) {
		_ = f.Error(ErrCodeNotFound, fmt.Sprintf("run not found: %s", id), nil)
		return run, NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", id))
	}
	if err != nil {
		return run, WrapExitError(ExitCommandError, "failed to read run", err)
	}
	return run, nil
}

func summarize(r store.Run) RunSummary {
	return RunSummary{
		ID:         r.ID,
		Trace:      r.Trace,
		Points:     r.Points,
		Samples:    r.Samples,
		Reported:   r.Reported,
		Discarded:  r.Discarded,
		Falsified:  r.Falsified,
		Suppressed: r.Suppressed,
	}
}

func storedInvariant(i store.Invariant) StoredInvariant {
	return StoredInvariant{
		Point:         i.Point,
		Kind:          string(i.Kind),
		Formula:       i.Formula,
		Probability:   i.Probability,
		NumSamples:    i.NumSamples,
		DiscardReason: i.DiscardReason,
	}
}
