// Package engine implements the calculator's evaluation engine.
//
// The engine holds exactly two optional slots:
//   - accumulator: the last entered operand or the last computed result
//   - pending: one binary operation armed with its first operand
//
// Every transition is decided by which slots are present, never by a mode
// flag. Binary operators arm a pending operation from the accumulator and
// clear it, resolving an operation already pending first; = applies the
// pending operation to the accumulator. Presses that
// find a slot missing do nothing. Evaluation is left to right with no
// precedence.
//
// ARCHITECTURE:
//
// The Engine is a plain value-owning struct for a single caller. Use Locked
// when several goroutines must share one engine; it serializes every call
// behind a single mutex.
//
// Step adapts the engine to the journal: it applies an ir.Keystroke and
// reports an ir.Outcome. Replay runs recorded keystrokes through a fresh
// engine so a journal can be checked for determinism.
//
// Division by zero follows the operation table's policy. The default strict
// table rejects a zero divisor with a *CalcError (ErrCodeDivideByZero) and
// leaves both slots unchanged.
package engine
