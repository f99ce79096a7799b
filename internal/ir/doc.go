// Package ir provides the record types written to the calculator journal.
//
// A journal is a sequence of Keystrokes (what the user pressed) and
// Outcomes (what the engine did with it), grouped by Session.
//
// Key design constraints:
//   - NO float types in canonical JSON; operands and results are stored as
//     their shortest exact decimal text (see FormatNumber)
//   - All JSON tags use snake_case
//   - Logical clocks (seq) only, never wall-clock timestamps
//   - Record IDs are content-addressed (see hash.go)
//
// This package imports nothing internal.
package ir
