package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/calcbrain/internal/ir"
)

// TraceSnapshot is the golden-file form of a scenario run.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	SessionID    string       `json:"session_id"`
	Division     string       `json:"division"`
	Display      string       `json:"display"`
	Trace        []TraceEvent `json:"trace"`
}

// NewTraceSnapshot builds the snapshot of a run.
func NewTraceSnapshot(scenario *Scenario, result *Result) TraceSnapshot {
	division := scenario.Division
	if division == "" {
		division = "strict"
	}
	return TraceSnapshot{
		ScenarioName: scenario.Name,
		SessionID:    result.SessionID,
		Division:     division,
		Display:      result.Display,
		Trace:        result.Trace,
	}
}

// toCanonicalMap converts the snapshot for ir.MarshalCanonical, which only
// accepts IR types and primitives. Empty optional fields are omitted.
func (s TraceSnapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, e := range s.Trace {
		event := map[string]any{
			"type": e.Type,
			"seq":  e.Seq,
		}
		for key, value := range map[string]string{
			"kind":    e.Kind,
			"operand": e.Operand,
			"symbol":  e.Symbol,
			"case":    e.Case,
			"result":  e.Result,
			"pending": e.Pending,
		} {
			if value != "" {
				event[key] = value
			}
		}
		trace[i] = event
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"session_id":    s.SessionID,
		"division":      s.Division,
		"display":       s.Display,
		"trace":         trace,
	}
}

// MarshalCanonical renders the snapshot as RFC 8785 canonical JSON.
func (s TraceSnapshot) MarshalCanonical() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// GoldenPath returns the golden file for a scenario file:
// <dir>/golden/<name>.golden.
func GoldenPath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

// WriteGolden writes the snapshot to path, creating its directory.
func WriteGolden(path string, snapshot TraceSnapshot) error {
	data, err := snapshot.MarshalCanonical()
	if err != nil {
		return fmt.Errorf("failed to marshal trace: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the snapshot matches the golden file.
// A trailing newline in the file is ignored.
func CompareGolden(path string, snapshot TraceSnapshot) (bool, error) {
	want, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	got, err := snapshot.MarshalCanonical()
	if err != nil {
		return false, fmt.Errorf("failed to marshal trace: %w", err)
	}
	return bytes.Equal(bytes.TrimRight(want, "\n"), got), nil
}

// RunWithGolden runs a scenario and compares its snapshot with
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result with its golden file.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := NewTraceSnapshot(scenario, result).MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
