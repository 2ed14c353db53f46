package domain

import "time"

// ToMillis converts a time to epoch milliseconds, the unit every persisted
// timestamp in the store uses.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds back to a UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
