package engine

import "sync"

// Locked serializes every call to an Engine behind one mutex.
// Operations are O(1), so a single lock is all the coordination needed.
type Locked struct {
	mu sync.Mutex
	e  *Engine
}

// NewLocked wraps e. The caller must not use e directly afterwards.
func NewLocked(e *Engine) *Locked {
	return &Locked{e: e}
}

// SetOperand stores v in the accumulator.
func (l *Locked) SetOperand(v float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.e.SetOperand(v)
}

// PerformOperation applies the operation bound to symbol; see Engine.PerformOperation.
func (l *Locked) PerformOperation(symbol string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.PerformOperation(symbol)
}

// Result returns the accumulator.
func (l *Locked) Result() (float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Result()
}

// Reset empties both slots.
func (l *Locked) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.e.Reset()
}

// Do runs fn with exclusive access to the engine, for multi-step sequences
// that must not interleave with other callers.
func (l *Locked) Do(fn func(e *Engine) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.e)
}
