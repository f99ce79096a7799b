package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock_Sequence(t *testing.T) {
	c := NewDeterministicClock()
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}

func TestDeterministicClock_ResetRepeatsSequence(t *testing.T) {
	c := NewDeterministicClock()

	first := []int64{c.Next(), c.Next(), c.Next()}
	c.Reset()
	second := []int64{c.Next(), c.Next(), c.Next()}

	assert.Equal(t, first, second)
	assert.Equal(t, []int64{1, 2, 3}, second)
}
