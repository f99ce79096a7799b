package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows the hashing scheme to change later.
const (
	DomainKeystroke = "calc/keystroke/v1"
	DomainOutcome   = "calc/outcome/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// KeystrokeID computes the content-addressed ID for a keystroke.
// The ID is stable across restarts and replays given the same inputs.
func KeystrokeID(k Keystroke) (string, error) {
	canonical, err := MarshalCanonical(k.Fields())
	if err != nil {
		return "", fmt.Errorf("KeystrokeID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainKeystroke, canonical), nil
}

// OutcomeID computes the content-addressed ID for an outcome.
// Links to the keystroke it answers via keystrokeID.
func OutcomeID(keystrokeID string, o Outcome, seq int64) (string, error) {
	obj := IRObject{
		"keystroke_id": IRString(keystrokeID),
		"outcome":      o.Fields(),
		"seq":          IRInt(seq),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("OutcomeID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainOutcome, canonical), nil
}

// MustKeystrokeID is like KeystrokeID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustKeystrokeID(k Keystroke) string {
	id, err := KeystrokeID(k)
	if err != nil {
		panic(err)
	}
	return id
}
