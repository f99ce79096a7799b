package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/calcbrain/internal/engine"
	"github.com/roach88/calcbrain/internal/ir"
	"github.com/roach88/calcbrain/internal/keypad"
	"github.com/roach88/calcbrain/internal/operation"
	"github.com/roach88/calcbrain/internal/session"
	"github.com/roach88/calcbrain/internal/store"
	"github.com/roach88/calcbrain/internal/testutil"
)

// Harness runs one scenario against a journaled session.
type Harness struct {
	store     *store.Store
	session   *session.Session
	display   *keypad.Display
	tokenizer *keypad.Tokenizer
	logger    *slog.Logger
}

// Run executes a scenario in a fresh in-memory journal and returns the
// result. The returned error covers harness failures (journal, setup);
// expectation failures are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with step logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	division, err := operation.ParseDivisionPolicy(scenario.Division)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	sess, err := session.Open(ctx, st,
		session.WithDivisionPolicy(division),
		session.WithIDGenerator(testutil.NewFixedSessionGenerator(scenario.SessionID)),
		session.WithClock(testutil.NewDeterministicClock()),
	)
	if err != nil {
		return nil, err
	}

	h := &Harness{
		store:     st,
		session:   sess,
		display:   keypad.New(sess),
		tokenizer: keypad.NewTokenizer(scenario.Aliases),
		logger:    logger,
	}

	result := NewResult(sess.ID())
	for i, step := range scenario.Steps {
		h.runStep(i, step, result)
		if err := sess.Err(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	result.Display = h.display.Text()

	if err := h.collectTrace(ctx, result); err != nil {
		return nil, err
	}

	actx := &AssertionContext{Store: st, Ctx: ctx, SessionID: sess.ID()}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

// runStep presses the step's keys and checks its expect clause.
func (h *Harness) runStep(index int, step Step, result *Result) {
	keys := h.tokenizer.Tokenize(step.Press)
	before, _ := h.session.LastOutcome()
	pressErr := h.display.PressAll(keys)

	// Digits alone only change the display; such a step has no outcome of
	// its own.
	last, ok := h.session.LastOutcome()
	if !ok || last.Seq == before.Seq {
		last = ir.Outcome{}
	}
	h.logger.Info("step completed",
		"step", index,
		"press", step.Press,
		"keys", len(keys),
		"display", h.display.Text(),
		"case", last.Case,
	)

	if step.Expect == nil {
		return
	}
	if last.Case == "" && expectsOutcome(step.Expect) {
		result.AddError(fmt.Sprintf("steps[%d] %q: no key reached the engine, so case, result and pending cannot be checked", index, step.Press))
	}
	for _, msg := range checkExpect(step.Expect, h.display.Text(), last, pressErr) {
		result.AddError(fmt.Sprintf("steps[%d] %q: %s", index, step.Press, msg))
	}
}

func expectsOutcome(expect *ExpectClause) bool {
	return expect.Case != "" || expect.Result != nil || expect.Pending != nil
}

func checkExpect(expect *ExpectClause, display string, last ir.Outcome, pressErr error) []string {
	var errs []string

	if expect.Display != "" && expect.Display != display {
		errs = append(errs, fmt.Sprintf("display = %q, expected %q", display, expect.Display))
	}
	if expect.Case != "" && expect.Case != last.Case {
		errs = append(errs, fmt.Sprintf("case = %q, expected %q", last.Case, expect.Case))
	}
	if expect.Result != nil && *expect.Result != last.Result {
		errs = append(errs, fmt.Sprintf("result = %q, expected %q", last.Result, *expect.Result))
	}
	if expect.Pending != nil && *expect.Pending != last.Pending {
		errs = append(errs, fmt.Sprintf("pending = %q, expected %q", last.Pending, *expect.Pending))
	}

	switch expect.Error {
	case "":
	case ExpectNoError:
		if pressErr != nil {
			errs = append(errs, fmt.Sprintf("unexpected error: %v", pressErr))
		}
	default:
		var ce *engine.CalcError
		switch {
		case pressErr == nil:
			errs = append(errs, fmt.Sprintf("expected error %s, got none", expect.Error))
		case !errors.As(pressErr, &ce):
			errs = append(errs, fmt.Sprintf("expected error %s, got %v", expect.Error, pressErr))
		case string(ce.Code) != expect.Error:
			errs = append(errs, fmt.Sprintf("error code = %s, expected %s", ce.Code, expect.Error))
		}
	}

	return errs
}

// collectTrace reads the journal back into the result trace.
func (h *Harness) collectTrace(ctx context.Context, result *Result) error {
	keystrokes, err := h.store.ReadKeystrokes(ctx, h.session.ID())
	if err != nil {
		return fmt.Errorf("read trace: %w", err)
	}
	outcomes, err := h.store.ReadOutcomes(ctx, h.session.ID())
	if err != nil {
		return fmt.Errorf("read trace: %w", err)
	}

	byKeystroke := make(map[string]ir.Outcome, len(outcomes))
	for _, o := range outcomes {
		byKeystroke[o.KeystrokeID] = o
	}

	for _, k := range keystrokes {
		result.AddKeystrokeTrace(k)
		o, ok := byKeystroke[k.ID]
		if !ok {
			return fmt.Errorf("read trace: keystroke seq=%d has no outcome", k.Seq)
		}
		result.AddOutcomeTrace(o)
	}
	return nil
}
