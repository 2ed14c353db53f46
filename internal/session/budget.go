package session

import (
	"time"

	"github.com/nuzy/wordup/internal/domain"
)

// RemainingBudget computes how many new cards may still be introduced today.
//
// With no persisted metadata (first run ever) the full daily limit applies.
// If the previous session's cutoff falls on the same UTC calendar day as
// todayCutoff, the cards already consumed are subtracted, clamped at zero.
// A rolled-over day resets consumption entirely.
func RemainingBudget(dailyLimit int, todayCutoff time.Time, meta *domain.Metadata) int {
	if meta == nil {
		return dailyLimit
	}
	last := domain.FromMillis(meta.LastSessionCutoff)
	if sameUTCDay(last, todayCutoff) {
		remaining := dailyLimit - meta.NewCardsReviewed
		if remaining < 0 {
			return 0
		}
		return remaining
	}
	return dailyLimit
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
