// Package keypad is the input surface in front of the engine.
//
// A Display collects typed digits into a number, hands it to the Brain when
// an operator key is pressed, and shows the Brain's result afterwards.
package keypad

import (
	"errors"
	"strconv"
	"strings"

	"github.com/roach88/calcbrain/internal/ir"
)

// Brain is the engine contract the keypad drives.
// Implemented by engine.Engine, engine.Locked and session.Session.
type Brain interface {
	SetOperand(v float64)
	PerformOperation(symbol string) error
	Result() (float64, bool)
	Reset()
}

// Display texts that are not numbers.
const (
	Zero      = "0"
	ErrorText = "Error"
)

// Key names for the clear key. Both are accepted by Press.
const (
	KeyAllClear = "AC"
	KeyClear    = "C"
)

const decimalPoint = "."

// Display is the calculator's screen and digit-entry state.
type Display struct {
	brain  Brain
	text   string
	typing bool
	failed bool
}

// New creates a display showing 0.
func New(brain Brain) *Display {
	return &Display{brain: brain, text: Zero}
}

// Text returns what the display shows.
func (d *Display) Text() string { return d.text }

// Typing reports whether a number is being entered.
func (d *Display) Typing() bool { return d.typing }

// Failed reports whether the last operation was rejected.
func (d *Display) Failed() bool { return d.failed }

// Value returns the display as a number. The Error display reads as 0.
// A typed number too large for float64 reads as ±Inf, too small as 0.
func (d *Display) Value() float64 {
	v, err := strconv.ParseFloat(d.text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return v
}

// PressDigit appends a digit (0-9) or the decimal point to the number
// being typed, or starts a new number.
// A second decimal point in the same number is ignored.
func (d *Display) PressDigit(digit string) {
	if d.typing {
		if digit == decimalPoint && strings.Contains(d.text, decimalPoint) {
			return
		}
		d.text += digit
		return
	}

	if digit == decimalPoint {
		d.text = Zero + decimalPoint
	} else {
		d.text = digit
	}
	d.typing = true
	d.failed = false
}

// PressOperation hands a typed number to the brain, performs symbol and
// shows the result if there is one.
//
// A rejected operation shows Error and returns the brain's error; the
// brain's state is whatever it kept (unchanged for a guard rejection).
func (d *Display) PressOperation(symbol string) error {
	if d.typing {
		d.brain.SetOperand(d.Value())
		d.typing = false
	}

	if err := d.brain.PerformOperation(symbol); err != nil {
		d.text = ErrorText
		d.failed = true
		return err
	}

	if v, ok := d.brain.Result(); ok {
		d.text = ir.FormatNumber(v)
	}
	d.failed = false
	return nil
}

// Refresh shows the brain's current result, e.g. after resuming a session.
// Nothing changes while a number is being typed or when there is no result.
func (d *Display) Refresh() {
	if d.typing {
		return
	}
	if v, ok := d.brain.Result(); ok {
		d.text = ir.FormatNumber(v)
	}
}

// Clear resets the brain and shows 0.
func (d *Display) Clear() {
	d.brain.Reset()
	d.text = Zero
	d.typing = false
	d.failed = false
}

// Press routes one key: digits and the decimal point to PressDigit, the
// clear keys to Clear, anything else to PressOperation.
func (d *Display) Press(key string) error {
	switch {
	case IsDigitKey(key):
		d.PressDigit(key)
		return nil
	case key == KeyAllClear || key == KeyClear:
		d.Clear()
		return nil
	}
	return d.PressOperation(key)
}

// PressAll presses keys in order and returns the first error.
// Keys after a failure are still pressed.
func (d *Display) PressAll(keys []string) error {
	var first error
	for _, key := range keys {
		if err := d.Press(key); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// IsDigitKey reports whether key is a single digit or the decimal point.
func IsDigitKey(key string) bool {
	if key == decimalPoint {
		return true
	}
	return len(key) == 1 && key[0] >= '0' && key[0] <= '9'
}
