package domain

// ReviewLog records a single answer event. Rows are append-only: a log is
// never mutated or deleted once written.
type ReviewLog struct {
	CardID         int64
	Rating         Rating
	ReviewDatetime int64  // epoch milliseconds
	ReviewDuration *int64 // milliseconds, nil when not measured (preview mode)
}
