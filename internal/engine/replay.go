package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/calcbrain/internal/ir"
	"github.com/roach88/calcbrain/internal/operation"
)

// Replay runs recorded keystrokes through a fresh engine built on table and
// returns one outcome per keystroke.
//
// Guard rejections are part of normal execution and are reported in the
// outcome's Case. Only a malformed keystroke stops the replay.
//
// The returned outcomes carry the keystroke's ID and Seq so they line up
// with the recorded ones.
func Replay(table operation.Table, keystrokes []ir.Keystroke) ([]ir.Outcome, error) {
	e := New(WithTable(table))
	outcomes := make([]ir.Outcome, 0, len(keystrokes))

	for _, k := range keystrokes {
		o, err := e.Step(k)
		var ce *CalcError
		if err != nil && errors.As(err, &ce) && ce.Code == ErrCodeInvalidKeystroke {
			return outcomes, fmt.Errorf("replay: %w", err)
		}
		o.KeystrokeID = k.ID
		o.Seq = k.Seq
		outcomes = append(outcomes, o)
	}

	return outcomes, nil
}

// ReplayMismatch describes the first point where a replay diverged from the
// journal.
type ReplayMismatch struct {
	Index    int
	Seq      int64
	Field    string
	Recorded string
	Replayed string
}

func (m *ReplayMismatch) Error() string {
	return fmt.Sprintf("replay diverged at index %d (seq=%d): %s recorded=%q replayed=%q",
		m.Index, m.Seq, m.Field, m.Recorded, m.Replayed)
}

// VerifyReplay compares recorded outcomes with replayed ones field by field.
// Returns nil when they agree, or a *ReplayMismatch for the first difference.
func VerifyReplay(recorded, replayed []ir.Outcome) error {
	if len(recorded) != len(replayed) {
		return &ReplayMismatch{
			Index:    min(len(recorded), len(replayed)),
			Field:    "count",
			Recorded: fmt.Sprint(len(recorded)),
			Replayed: fmt.Sprint(len(replayed)),
		}
	}

	for i := range recorded {
		r, p := recorded[i], replayed[i]
		mismatch := func(field, a, b string) error {
			return &ReplayMismatch{Index: i, Seq: r.Seq, Field: field, Recorded: a, Replayed: b}
		}

		if r.Case != p.Case {
			return mismatch("case", r.Case, p.Case)
		}
		if r.HasResult != p.HasResult {
			return mismatch("has_result", fmt.Sprint(r.HasResult), fmt.Sprint(p.HasResult))
		}
		if r.HasResult && !sameResult(r.Result, p.Result) {
			return mismatch("result", r.Result, p.Result)
		}
		if r.Pending != p.Pending {
			return mismatch("pending", r.Pending, p.Pending)
		}
	}

	return nil
}

// sameResult compares numerically so "1e+21" and "1e21" agree.
func sameResult(a, b string) bool {
	if a == b {
		return true
	}
	fa, errA := ir.ParseNumber(a)
	fb, errB := ir.ParseNumber(b)
	if errA != nil || errB != nil {
		return false
	}
	return ir.SameNumber(fa, fb)
}

// IsReplayMismatch returns true if err reports a divergent replay.
func IsReplayMismatch(err error) bool {
	var m *ReplayMismatch
	return errors.As(err, &m)
}
