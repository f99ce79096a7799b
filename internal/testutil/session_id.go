package testutil

// FixedSessionGenerator returns the same session ID every time.
//
// Golden traces embed the session ID, so tests that compare them need one
// that does not change between runs.
//
// Stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	id string
}

// NewFixedSessionGenerator creates a generator for id.
// If id is empty, Generate() returns "test-session-default".
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = "test-session-default"
	}
	return &FixedSessionGenerator{id: id}
}

// Generate returns the fixed session ID.
// Implements engine.IDGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}
