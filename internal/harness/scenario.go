package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/calcbrain/internal/ir"
	"github.com/roach88/calcbrain/internal/operation"
)

// Scenario is a conformance test: key presses plus expectations.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Division is "strict" (default) or "ieee".
	Division string `yaml:"division,omitempty"`

	// SessionID fixes the session ID. Defaults to "test-session-default".
	SessionID string `yaml:"session_id,omitempty"`

	// Aliases adds key aliases on top of the defaults.
	Aliases map[string]string `yaml:"aliases,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step presses a sequence of keys, then checks the optional expect clause.
type Step struct {
	// Press is tokenized like `calc eval` input, e.g. "12 + 3 =".
	Press  string        `yaml:"press"`
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause describes the state after a step. Unset fields are not
// checked. Result and Pending are pointers so that "" can assert absence.
type ExpectClause struct {
	Display string  `yaml:"display,omitempty"`
	Case    string  `yaml:"case,omitempty"`
	Result  *string `yaml:"result,omitempty"`
	Pending *string `yaml:"pending,omitempty"`

	// Error is the expected CalcError code (e.g. DIVIDE_BY_ZERO) of the
	// step's first failure. "none" asserts the step did not fail.
	Error string `yaml:"error,omitempty"`
}

// ExpectNoError is the ExpectClause.Error value asserting success.
const ExpectNoError = "none"

// Assertion checks the whole trace or the journal after the last step.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count, final_state.
	Type string `yaml:"type"`

	// Case and Symbol select outcomes (trace_contains, trace_count).
	// Symbol matches the keystroke that produced the outcome.
	Case   string `yaml:"case,omitempty"`
	Symbol string `yaml:"symbol,omitempty"`

	// Count is the expected number of matches (trace_count).
	Count int `yaml:"count,omitempty"`

	// Cases is the expected order of outcome cases (trace_order).
	Cases []string `yaml:"cases,omitempty"`

	// Table, Where and Expect query the journal (final_state).
	Table  string         `yaml:"table,omitempty"`
	Where  map[string]any `yaml:"where,omitempty"`
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion types.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and validates a scenario file.
// Unknown fields are rejected so that typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml/.yml files under dir, sorted.
// filter is a filepath.Match pattern on the file name without extension.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	sort.Strings(files)
	return files, err
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, err := operation.ParseDivisionPolicy(s.Division); err != nil {
		return err
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if strings.TrimSpace(step.Press) == "" {
			return fmt.Errorf("steps[%d]: press is required", i)
		}
		if step.Expect != nil && step.Expect.Case != "" && !ir.ValidCases[step.Expect.Case] {
			return fmt.Errorf("steps[%d].expect: unknown case %q", i, step.Expect.Case)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Case == "" && a.Symbol == "" {
			return fmt.Errorf("assertions[%d]: case or symbol is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Cases) == 0 {
			return fmt.Errorf("assertions[%d]: cases list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Case == "" && a.Symbol == "" {
			return fmt.Errorf("assertions[%d]: case or symbol is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	for _, c := range a.Cases {
		if !ir.ValidCases[c] {
			return fmt.Errorf("assertions[%d]: unknown case %q", index, c)
		}
	}
	if a.Case != "" && !ir.ValidCases[a.Case] {
		return fmt.Errorf("assertions[%d]: unknown case %q", index, a.Case)
	}
	return nil
}
