package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{10, "10"},
		{2.5, "2.5"},
		{-1, "-1"},
		{0.1 + 0.2, "0.30000000000000004"},
		{1e21, "1e+21"},
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.in))
		})
	}
}

func TestParseNumber_RoundTrip(t *testing.T) {
	for _, f := range []float64{0, 1, -7.25, 1.0 / 3.0, math.MaxFloat64, math.SmallestNonzeroFloat64, math.Inf(1), math.Inf(-1), math.NaN()} {
		got, err := ParseNumber(FormatNumber(f))
		require.NoError(t, err)
		assert.True(t, SameNumber(f, got), "round trip of %v gave %v", f, got)
	}
}

func TestParseNumber_Invalid(t *testing.T) {
	_, err := ParseNumber("12..3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parse number "12..3"`)
}

func TestSameNumber(t *testing.T) {
	assert.True(t, SameNumber(math.NaN(), math.NaN()))
	assert.True(t, SameNumber(2, 2))
	assert.False(t, SameNumber(2, math.NaN()))
	assert.False(t, SameNumber(1, 2))
}
