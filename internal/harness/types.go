package harness

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every assertion held, or the run
	// failed with the expected error.
	Pass bool `json:"pass"`

	RunID string `json:"run_id"`

	// Error is the ingest error code the run failed with, if any.
	Error string `json:"error,omitempty"`

	Samples    int64 `json:"samples"`
	Falsified  int   `json:"falsified"`
	Suppressed int   `json:"suppressed"`

	// Points holds what each program point reported, ordered by name.
	Points []PointResult `json:"points"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// PointResult is what one program point reported.
type PointResult struct {
	Point     string               `json:"point"`
	Samples   int                  `json:"samples"`
	Reported  []string             `json:"reported"`
	Discarded []DiscardedInvariant `json:"discarded,omitempty"`
}

// DiscardedInvariant is an invariant a filter vetoed.
type DiscardedInvariant struct {
	Formula string `json:"formula"`
	Reason  string `json:"reason"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Points: []PointResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Point returns the result for the named point.
func (r *Result) Point(name string) (PointResult, bool) {
	for _, p := range r.Points {
		if p.Point == name {
			return p, true
		}
	}
	return PointResult{}, false
}

// ReportedCount is the number of reported invariants across points.
func (r *Result) ReportedCount() int {
	n := 0
	for _, p := range r.Points {
		n += len(p.Reported)
	}
	return n
}
