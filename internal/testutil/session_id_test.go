package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/calcbrain/internal/engine"
)

var _ engine.IDGenerator = (*FixedSessionGenerator)(nil)

func TestFixedSessionGenerator(t *testing.T) {
	g := NewFixedSessionGenerator("golden-session")
	for i := 0; i < 3; i++ {
		assert.Equal(t, "golden-session", g.Generate())
	}
}

func TestFixedSessionGenerator_Default(t *testing.T) {
	assert.Equal(t, "test-session-default", NewFixedSessionGenerator("").Generate())
}
