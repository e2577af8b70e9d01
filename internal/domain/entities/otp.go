package entities

import "time"

// OTPEntry is the live one-time passcode state for a phone number.
// At most one entry exists per phone; a new send overwrites it.
// The code itself is stored as a bcrypt hash.
type OTPEntry struct {
	Phone     string
	CodeHash  string
	Verified  bool
	ExpiresAt time.Time
}

// Expired reports whether the entry is past its window at the given instant.
func (e *OTPEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
