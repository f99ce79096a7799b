package engine

import "github.com/google/uuid"

// IDGenerator produces session IDs.
// UUIDv7Generator is the production implementation;
// testutil.FixedSessionGenerator pins the ID in tests.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session IDs, so sessions
// listed by ID come out in creation order.
//
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
// Panics if the random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
