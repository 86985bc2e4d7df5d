package testutil

// FixedRunIDGenerator returns the same run ID every time.
//
// Unlike engine.FixedGenerator, which returns IDs in sequence and panics
// when exhausted, this generator can back any number of runs. Scenario
// runs use it so repeated runs produce byte-identical output.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator returning id. An empty id
// means "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate implements engine.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
