package testutil

import "time"

// Fixed identifiers and clock values for deterministic tests.
const (
	OwnerA = "00000000-0000-0000-0000-00000000000a"
	OwnerB = "00000000-0000-0000-0000-00000000000b"
)

// Date returns midnight UTC for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
