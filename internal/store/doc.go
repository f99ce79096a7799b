// Package store provides SQLite-backed durable storage for calculator journals.
//
// The store is an append-only log of:
//   - Sessions: one row per interactive run, with its division policy
//   - Keystrokes: every SetOperand / PerformOperation call, in seq order
//   - Outcomes: what the engine did with each keystroke (one per keystroke)
//
// # Ordering
//
// All ordering uses the seq INTEGER from the session's logical clock, never
// timestamps. Every query that returns records includes
// ORDER BY seq ASC, id ASC COLLATE BINARY so replays read identical input.
//
// # Idempotency
//
// IDs are content-addressed (internal/ir/hash.go). Inserts use
// ON CONFLICT DO NOTHING, so writing the same record twice is harmless.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
