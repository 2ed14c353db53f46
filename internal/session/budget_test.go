package session

import (
	"testing"
	"time"

	"github.com/nuzy/wordup/internal/domain"
)

func TestRemainingBudget(t *testing.T) {
	cutoff := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		dailyLimit int
		meta       *domain.Metadata
		want       int
	}{
		{
			name:       "no metadata means first run, full limit",
			dailyLimit: 200,
			meta:       nil,
			want:       200,
		},
		{
			name:       "same day subtracts consumed cards",
			dailyLimit: 200,
			meta:       &domain.Metadata{LastSessionCutoff: domain.ToMillis(cutoff.Add(-2 * time.Hour)), NewCardsReviewed: 30},
			want:       170,
		},
		{
			name:       "consumption never goes negative",
			dailyLimit: 20,
			meta:       &domain.Metadata{LastSessionCutoff: domain.ToMillis(cutoff.Add(-2 * time.Hour)), NewCardsReviewed: 50},
			want:       0,
		},
		{
			name:       "previous day resets the budget",
			dailyLimit: 200,
			meta:       &domain.Metadata{LastSessionCutoff: domain.ToMillis(cutoff.Add(-24 * time.Hour)), NewCardsReviewed: 200},
			want:       200,
		},
		{
			name:       "same day-of-month in another month still resets",
			dailyLimit: 200,
			meta:       &domain.Metadata{LastSessionCutoff: domain.ToMillis(time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)), NewCardsReviewed: 200},
			want:       200,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := RemainingBudget(tc.dailyLimit, cutoff, tc.meta)
			if got != tc.want {
				t.Errorf("Expected budget %d, got %d", tc.want, got)
			}
		})
	}
}
