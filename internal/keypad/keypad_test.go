package keypad

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/calcbrain/internal/engine"
	"github.com/roach88/calcbrain/internal/operation"
)

func newDisplay(opts ...engine.Option) *Display {
	return New(engine.New(opts...))
}

func TestDisplay_StartsAtZero(t *testing.T) {
	d := newDisplay()
	assert.Equal(t, "0", d.Text())
	assert.False(t, d.Typing())
}

func TestDisplay_DigitsConcatenate(t *testing.T) {
	d := newDisplay()
	d.PressDigit("1")
	d.PressDigit("2")
	d.PressDigit(".")
	d.PressDigit("5")
	assert.Equal(t, "12.5", d.Text())
	assert.True(t, d.Typing())
	assert.Equal(t, 12.5, d.Value())
}

func TestDisplay_SecondDecimalPointIgnored(t *testing.T) {
	d := newDisplay()
	d.PressDigit("1")
	d.PressDigit(".")
	d.PressDigit(".")
	d.PressDigit("2")
	assert.Equal(t, "1.2", d.Text())
}

func TestDisplay_LeadingDecimalPoint(t *testing.T) {
	d := newDisplay()
	d.PressDigit(".")
	d.PressDigit("5")
	assert.Equal(t, "0.5", d.Text())
}

func TestDisplay_AddAndEquals(t *testing.T) {
	d := newDisplay()
	require.NoError(t, d.PressAll([]string{"1", "2", "+", "3", "="}))
	assert.Equal(t, "15", d.Text())
	assert.False(t, d.Typing())
}

func TestDisplay_Chaining(t *testing.T) {
	d := newDisplay()
	require.NoError(t, d.PressAll([]string{"5", "+", "3", "+", "2", "="}))
	assert.Equal(t, "10", d.Text())
}

func TestDisplay_OperatorKeepsTypedNumberShown(t *testing.T) {
	// Arming clears the accumulator, so the display keeps the typed number.
	d := newDisplay()
	require.NoError(t, d.PressAll([]string{"7", "×"}))
	assert.Equal(t, "7", d.Text())
	assert.False(t, d.Typing())

	// The next digit starts a fresh number.
	d.PressDigit("6")
	assert.Equal(t, "6", d.Text())
	require.NoError(t, d.Press("="))
	assert.Equal(t, "42", d.Text())
}

func TestDisplay_RepeatedEqualsKeepsResult(t *testing.T) {
	d := newDisplay()
	require.NoError(t, d.PressAll([]string{"2", "×", "4", "=", "=", "="}))
	assert.Equal(t, "8", d.Text())
}

func TestDisplay_DivideByZeroShowsError(t *testing.T) {
	d := newDisplay()
	err := d.PressAll([]string{"1", "÷", "0", "="})
	require.Error(t, err)
	assert.True(t, engine.IsDivideByZero(err))
	assert.Equal(t, ErrorText, d.Text())
	assert.True(t, d.Failed())

	// A digit after an error starts fresh.
	d.PressDigit("4")
	assert.Equal(t, "4", d.Text())
	assert.False(t, d.Failed())
}

func TestDisplay_DivideByZeroIEEE(t *testing.T) {
	d := newDisplay(engine.WithDivisionPolicy(operation.DivisionIEEE))
	require.NoError(t, d.PressAll([]string{"1", "÷", "0", "="}))
	assert.Equal(t, "+Inf", d.Text())
}

func TestDisplay_Clear(t *testing.T) {
	brain := engine.New()
	d := New(brain)
	require.NoError(t, d.PressAll([]string{"9", "+", "1", "AC"}))
	assert.Equal(t, "0", d.Text())
	assert.Equal(t, engine.StateEmpty, brain.State())
}

func TestDisplay_UnknownKeyIsNoOp(t *testing.T) {
	d := newDisplay()
	require.NoError(t, d.PressAll([]string{"3", "%"}))
	assert.Equal(t, "3", d.Text())
}

func TestDisplay_WorksWithLockedEngine(t *testing.T) {
	d := New(engine.NewLocked(engine.New()))
	require.NoError(t, d.PressAll([]string{"8", "−", "5", "="}))
	assert.Equal(t, "3", d.Text())
}

func TestIsDigitKey(t *testing.T) {
	for _, key := range []string{"0", "5", "9", "."} {
		assert.True(t, IsDigitKey(key), key)
	}
	for _, key := range []string{"", "12", "+", "a", "AC"} {
		assert.False(t, IsDigitKey(key), key)
	}
}

func TestDisplay_Refresh(t *testing.T) {
	brain := engine.New()
	brain.SetOperand(12)

	d := New(brain)
	assert.Equal(t, "0", d.Text())
	d.Refresh()
	assert.Equal(t, "12", d.Text())

	d.PressDigit("3")
	d.Refresh()
	assert.Equal(t, "3", d.Text())
}

func TestDisplay_OverflowingNumberReadsAsInfinity(t *testing.T) {
	d := newDisplay(engine.WithDivisionPolicy(operation.DivisionIEEE))

	// 1e309 is past the largest float64.
	keys := strings.Split("1"+strings.Repeat("0", 309), "")
	require.NoError(t, d.PressAll(keys))
	assert.True(t, math.IsInf(d.Value(), 1))

	require.NoError(t, d.PressAll([]string{"+", "1", "="}))
	assert.Equal(t, "+Inf", d.Text())

	d.Clear()
	require.NoError(t, d.PressAll(append([]string{"0", "−"}, keys...)))
	require.NoError(t, d.PressAll([]string{"="}))
	assert.Equal(t, "-Inf", d.Text())
}

func TestDisplay_ErrorTextReadsAsZero(t *testing.T) {
	d := newDisplay()
	require.Error(t, d.PressAll([]string{"1", "÷", "0", "="}))
	assert.Equal(t, ErrorText, d.Text())
	assert.Equal(t, 0.0, d.Value())
}
