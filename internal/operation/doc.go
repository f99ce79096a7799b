// Package operation maps calculator key symbols to their arithmetic meaning.
//
// An Operation is one of exactly two cases:
//   - Binary: a two-argument numeric function (×, ÷, +, −)
//   - Equals: a marker that resolves whatever is pending (=)
//
// Tables are immutable once built. The engine dispatches purely on the case
// returned by Lookup, so new symbols can be added with NewTable or With
// without touching engine code.
//
// This package imports nothing internal; engine and keypad depend on it.
package operation
