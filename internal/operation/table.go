package operation

import (
	"errors"
	"fmt"
	"sort"
)

// Standard key symbols.
const (
	SymbolMultiply = "×"
	SymbolDivide   = "÷"
	SymbolAdd      = "+"
	SymbolSubtract = "−" // U+2212 MINUS SIGN, not ASCII hyphen
	SymbolEquals   = "="
)

// DivisionPolicy decides what ÷ does with a zero divisor.
type DivisionPolicy string

const (
	// DivisionStrict rejects a zero divisor with ErrDivideByZero.
	DivisionStrict DivisionPolicy = "strict"

	// DivisionIEEE follows IEEE-754: x/0 is ±Inf, 0/0 is NaN.
	DivisionIEEE DivisionPolicy = "ieee"
)

// ValidDivisionPolicies lists the accepted policy names.
var ValidDivisionPolicies = []DivisionPolicy{DivisionStrict, DivisionIEEE}

// ParseDivisionPolicy converts a config or flag value into a policy.
// The empty string selects DivisionStrict.
func ParseDivisionPolicy(s string) (DivisionPolicy, error) {
	switch DivisionPolicy(s) {
	case "", DivisionStrict:
		return DivisionStrict, nil
	case DivisionIEEE:
		return DivisionIEEE, nil
	}
	return "", fmt.Errorf("invalid division policy %q: must be one of %v", s, ValidDivisionPolicies)
}

// ErrDivideByZero is returned by the strict divide guard.
// The engine wraps it in its own error type; errors.Is still matches.
var ErrDivideByZero = errors.New("divide by zero")

func nonZeroDivisor(_, b float64) error {
	if b == 0 {
		return ErrDivideByZero
	}
	return nil
}

// Entry pairs a symbol with its operation.
type Entry struct {
	Symbol    string
	Operation Operation
}

// Table is an immutable symbol → operation mapping.
// The zero value is an empty table.
type Table struct {
	ops map[string]Operation
}

// NewTable builds a table from entries. Later entries win on duplicate symbols.
func NewTable(entries ...Entry) Table {
	ops := make(map[string]Operation, len(entries))
	for _, e := range entries {
		ops[e.Symbol] = e.Operation
	}
	return Table{ops: ops}
}

// Standard returns the fixed four-function table for the given policy.
func Standard(policy DivisionPolicy) Table {
	div := Binary{Fn: divide}
	if policy != DivisionIEEE {
		div.Guard = nonZeroDivisor
	}
	return NewTable(
		Entry{SymbolMultiply, Binary{Fn: multiply}},
		Entry{SymbolDivide, div},
		Entry{SymbolAdd, Binary{Fn: add}},
		Entry{SymbolSubtract, Binary{Fn: subtract}},
		Entry{SymbolEquals, Equals{}},
	)
}

// Lookup returns the operation for symbol. Unknown symbols return false;
// callers treat that as a no-op, not an error.
func (t Table) Lookup(symbol string) (Operation, bool) {
	op, ok := t.ops[symbol]
	return op, ok
}

// With returns a copy of t with symbol bound to op. t is not modified.
func (t Table) With(symbol string, op Operation) Table {
	ops := make(map[string]Operation, len(t.ops)+1)
	for k, v := range t.ops {
		ops[k] = v
	}
	ops[symbol] = op
	return Table{ops: ops}
}

// Symbols returns every bound symbol in byte order.
func (t Table) Symbols() []string {
	symbols := make([]string, 0, len(t.ops))
	for s := range t.ops {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Len reports the number of bound symbols.
func (t Table) Len() int {
	return len(t.ops)
}
