package domain

// Metadata is the singleton persisted record read at session start and
// replaced at session end. It carries the previous session's cutoff and how
// many new cards were consumed, which together drive the daily budget.
type Metadata struct {
	LastSessionCutoff int64 // epoch milliseconds
	NewCardsReviewed  int
}

// DeckCounts is a derived, read-only view of the session queues.
type DeckCounts struct {
	New    int
	Learn  int
	Review int
	Done   int
}
