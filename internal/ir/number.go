package ir

import (
	"fmt"
	"math"
	"strconv"
)

// FormatNumber renders f as the shortest decimal text that parses back to
// exactly f. Non-finite values use "+Inf", "-Inf" and "NaN".
func FormatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ParseNumber is the inverse of FormatNumber.
func ParseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return f, nil
}

// SameNumber reports whether a and b are the same value, treating NaN as
// equal to NaN. Used when comparing replayed results against the journal.
func SameNumber(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
