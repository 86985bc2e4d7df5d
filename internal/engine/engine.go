package engine

import (
	"context"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/invgen/internal/config"
	"github.com/roach88/invgen/internal/filter"
	"github.com/roach88/invgen/internal/inv"
	"github.com/roach88/invgen/internal/proglang"
	"github.com/roach88/invgen/internal/trace"
)

// Engine runs inference over traces. It reads its settings once at
// construction and never mutates them.
//
// Thread-safety model:
//   - Run(): safe to call from several goroutines; each run has its own
//     point states and clock
//   - NewPoint(): safe from any goroutine; the returned PointState is not
type Engine struct {
	settings *config.Settings
	registry *proglang.Registry
	factory  *inv.Factory
	pipeline *filter.Pipeline
	counters *inv.Counters
	runIDs   RunIDGenerator
	logger   *slog.Logger
	limit    float64
	workers  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry sets the type registry. Default: a new registry with the
// proglang.list_types switch applied.
func WithRegistry(r *proglang.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCounters sets the counters suppression is reported to. Default:
// inv.DefaultCounters.
func WithCounters(c *inv.Counters) Option {
	return func(e *Engine) { e.counters = c }
}

// WithRunIDGenerator sets the run ID source. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) { e.runIDs = g }
}

// WithFunctionRegistry sets the functions pairwise invariants may apply.
// Default: inv.BuiltinFunctions().
func WithFunctionRegistry(r *inv.FunctionRegistry) Option {
	return func(e *Engine) { e.factory.Functions = r }
}

// WithPipeline replaces the filter pipeline built from settings.
func WithPipeline(p *filter.Pipeline) Option {
	return func(e *Engine) { e.pipeline = p }
}

// New creates an engine. Nil settings means config.Defaults().
func New(settings *config.Settings, opts ...Option) *Engine {
	if settings == nil {
		settings = config.Defaults()
	}
	e := &Engine{
		settings: settings,
		factory:  &inv.Factory{Config: InvConfig(settings), Functions: inv.BuiltinFunctions()},
		pipeline: filter.FromSettings(settings),
		counters: inv.DefaultCounters,
		runIDs:   UUIDv7Generator{},
		logger:   slog.Default(),
		limit:    settings.Float(config.ProbabilityLimit),
		workers:  settings.Int(config.EngineWorkers),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = proglang.NewRegistry(
			proglang.WithListTypes(settings.Strings(config.ProglangListTypes)...),
			proglang.WithLogger(e.logger),
		)
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e
}

// InvConfig maps the family switches onto an inv.Config.
func InvConfig(s *config.Settings) inv.Config {
	return inv.Config{
		OneOfEnabled:         s.Bool(config.OneOfEnabled),
		OneOfSize:            s.Int(config.OneOfSize),
		PairwiseEnabled:      s.Bool(config.PairwiseFunctionEnabled),
		PairwiseFunctions:    s.Strings(config.PairwiseFunctionFunctions),
		LinearTernaryEnabled: s.Bool(config.LinearTernaryEnabled),
		MinTriples:           s.Int(config.LinearTernaryMinTriples),
	}
}

// Registry returns the engine's type registry.
func (e *Engine) Registry() *proglang.Registry { return e.registry }

// Settings returns the engine's settings. Callers must not mutate them.
func (e *Engine) Settings() *config.Settings { return e.settings }

// Result is the outcome of one run.
type Result struct {
	RunID string

	// Points is ordered by point name.
	Points []*PointResult

	// Samples is the number of sample blocks; Occurrences weighs each
	// by its count.
	Samples     int64
	Occurrences int64

	Falsified  int
	Suppressed int
}

// Reported returns every reported invariant across points.
func (r *Result) Reported() []inv.Invariant {
	var all []inv.Invariant
	for _, p := range r.Points {
		all = append(all, p.Reported...)
	}
	return all
}

// Discarded returns every invariant a filter vetoed, across points.
func (r *Result) Discarded() []inv.Invariant {
	var all []inv.Invariant
	for _, p := range r.Points {
		all = append(all, p.Discarded...)
	}
	return all
}

// PointResult is the outcome for one program point.
type PointResult struct {
	Point   string
	Samples int

	// Reported are the active, justified invariants no filter vetoed.
	Reported []inv.Invariant

	// Discarded were active and justified but vetoed; each carries its
	// discard reason.
	Discarded []inv.Invariant

	Falsified  int
	Suppressed int

	// State gives access to the surviving slices, e.g. for
	// FindAllLinearTernary.
	State *PointState
}

// Run ingests every sample of tr and returns the reportable invariants.
// Points are processed in parallel; the first error cancels the others.
func (e *Engine) Run(ctx context.Context, tr *trace.Trace) (*Result, error) {
	runID := e.runIDs.Generate()
	clock := NewClock()
	logger := e.logger.With("run_id", runID)

	byPoint := make(map[string][]*trace.Sample, len(tr.Points))
	for _, s := range tr.Samples {
		byPoint[s.Point] = append(byPoint[s.Point], s)
	}

	results := make([]*PointResult, len(tr.Points))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, decl := range tr.Points {
		g.Go(func() error {
			ps, err := e.NewPoint(decl)
			if err != nil {
				return err
			}
			for _, s := range byPoint[decl.Name] {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := ps.Ingest(s); err != nil {
					return err
				}
				seq := clock.Tick(s.Count)
				ps.logger.Debug("ingested sample", "seq", seq, "line", s.Line)
			}
			results[i] = e.report(ps)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Point < results[j].Point })
	res := &Result{
		RunID:       runID,
		Points:      results,
		Samples:     clock.Samples(),
		Occurrences: clock.Occurrences(),
	}
	reported := 0
	for _, p := range results {
		res.Falsified += p.Falsified
		res.Suppressed += p.Suppressed
		reported += len(p.Reported)
	}

	logger.Info("inference complete",
		"points", len(results),
		"samples", res.Samples,
		"reported", reported,
		"falsified", res.Falsified,
		"suppressed", res.Suppressed)
	return res, nil
}

func (e *Engine) report(ps *PointState) *PointResult {
	all := ps.Invariants()
	kept, discarded := e.pipeline.Apply(all, e.limit)
	pr := &PointResult{
		Point:      ps.Point.Name,
		Samples:    ps.Samples(),
		Reported:   kept,
		Discarded:  discarded,
		Falsified:  ps.Prune(),
		Suppressed: ps.Suppressed,
		State:      ps,
	}
	ps.logger.Debug("point complete",
		"reported", len(kept),
		"discarded", len(discarded),
		"falsified", pr.Falsified)
	return pr
}
