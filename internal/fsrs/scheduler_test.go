package fsrs

import (
	"errors"
	"testing"
	"time"

	"github.com/nuzy/wordup/internal/domain"
)

func testScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := NewScheduler(Config{DisableFuzzing: true})
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	return s
}

func reviewCard(t *testing.T, state domain.State, step *int) domain.Card {
	t.Helper()
	card := domain.NewCard(1700000000000, 1, 42)
	card.State = state
	card.Step = step
	if state == domain.StateReview || state == domain.StateRelearning {
		stability := 5.0
		difficulty := 5.0
		last := int64(1700000000000)
		card.Stability = &stability
		card.Difficulty = &difficulty
		card.LastReview = &last
	}
	return card
}

func intPtr(v int) *int { return &v }

func TestNewSchedulerValidation(t *testing.T) {
	t.Run("rejects out of bounds parameters", func(t *testing.T) {
		cfg := Config{Parameters: DefaultParameters}
		cfg.Parameters[4] = 99.0 // difficulty base is bounded at 10
		if _, err := NewScheduler(cfg); !errors.Is(err, ErrInvalidParameters) {
			t.Errorf("Expected ErrInvalidParameters, got %v", err)
		}
	})

	t.Run("rejects retention above 1", func(t *testing.T) {
		if _, err := NewScheduler(Config{DesiredRetention: 1.5}); err == nil {
			t.Error("Expected an error for retention 1.5")
		}
	})

	t.Run("zero config gets defaults", func(t *testing.T) {
		s, err := NewScheduler(Config{})
		if err != nil {
			t.Fatalf("NewScheduler failed: %v", err)
		}
		if len(s.learningSteps) != 2 || s.learningSteps[0] != 3*time.Minute {
			t.Errorf("Expected default learning steps [3m 10m], got %v", s.learningSteps)
		}
		if s.maximumInterval != 36500 {
			t.Errorf("Expected default maximum interval 36500, got %d", s.maximumInterval)
		}
	})
}

func TestReviewCardTransitions(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	type result struct {
		state   domain.State
		hasStep bool
		step    int
	}
	testCases := []struct {
		name   string
		card   domain.Card
		rating domain.Rating
		want   result
	}{
		{"New always enters Learning", reviewCard(t, domain.StateNew, intPtr(0)), domain.Again, result{domain.StateLearning, true, 0}},
		{"New with Good advances a step", reviewCard(t, domain.StateNew, intPtr(0)), domain.Good, result{domain.StateLearning, true, 1}},
		{"New with Easy graduates", reviewCard(t, domain.StateNew, intPtr(0)), domain.Easy, result{domain.StateReview, false, 0}},
		{"Learning Again resets to first step", reviewCard(t, domain.StateLearning, intPtr(1)), domain.Again, result{domain.StateLearning, true, 0}},
		{"Learning Hard stays put", reviewCard(t, domain.StateLearning, intPtr(0)), domain.Hard, result{domain.StateLearning, true, 0}},
		{"Learning Good at last step graduates", reviewCard(t, domain.StateLearning, intPtr(1)), domain.Good, result{domain.StateReview, false, 0}},
		{"Review success stays Review", reviewCard(t, domain.StateReview, nil), domain.Good, result{domain.StateReview, false, 0}},
		{"Review lapse demotes to Relearning", reviewCard(t, domain.StateReview, nil), domain.Again, result{domain.StateRelearning, true, 0}},
		{"Relearning Again stays Relearning", reviewCard(t, domain.StateRelearning, intPtr(0)), domain.Again, result{domain.StateRelearning, true, 0}},
		{"Relearning Good at last step graduates", reviewCard(t, domain.StateRelearning, intPtr(0)), domain.Good, result{domain.StateReview, false, 0}},
		{"Relearning Easy graduates", reviewCard(t, domain.StateRelearning, intPtr(0)), domain.Easy, result{domain.StateReview, false, 0}},
	}

	s := testScheduler(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			updated, _, err := s.ReviewCard(tc.card, tc.rating, now, nil)
			if err != nil {
				t.Fatalf("ReviewCard failed: %v", err)
			}
			if updated.State != tc.want.state {
				t.Errorf("Expected state %s, got %s", tc.want.state, updated.State)
			}
			if tc.want.hasStep {
				if updated.Step == nil {
					t.Fatalf("Expected step %d, got nil", tc.want.step)
				}
				if *updated.Step != tc.want.step {
					t.Errorf("Expected step %d, got %d", tc.want.step, *updated.Step)
				}
			} else if updated.Step != nil {
				t.Errorf("Expected nil step, got %d", *updated.Step)
			}
		})
	}
}

// Every legal (state, step, rating) combination must land inside the
// transition table: never an undefined state, never a Review card with a
// step, never a Learning card without one.
func TestStateMachineClosure(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := testScheduler(t)

	var cards []domain.Card
	cards = append(cards, reviewCard(t, domain.StateNew, intPtr(0)))
	for _, step := range []int{0, 1} {
		cards = append(cards, reviewCard(t, domain.StateLearning, intPtr(step)))
	}
	cards = append(cards, reviewCard(t, domain.StateReview, nil))
	cards = append(cards, reviewCard(t, domain.StateRelearning, intPtr(0)))

	for _, card := range cards {
		for _, rating := range []domain.Rating{domain.Again, domain.Hard, domain.Good, domain.Easy} {
			updated, _, err := s.ReviewCard(card, rating, now, nil)
			if err != nil {
				t.Fatalf("ReviewCard(%s step=%v, %s) failed: %v", card.State, card.Step, rating, err)
			}

			switch updated.State {
			case domain.StateLearning, domain.StateRelearning:
				if updated.Step == nil {
					t.Errorf("%s card has nil step after %s", updated.State, rating)
				}
			case domain.StateReview:
				if updated.Step != nil {
					t.Errorf("Review card kept step %d after %s", *updated.Step, rating)
				}
			default:
				t.Errorf("Undefined post-review state %s", updated.State)
			}
			if updated.Stability == nil || updated.Difficulty == nil {
				t.Errorf("Reviewed card has unset memory state after %s", rating)
			}
			if updated.LastReview == nil || *updated.LastReview != domain.ToMillis(now) {
				t.Errorf("LastReview not set to review time after %s", rating)
			}
		}
	}
}

// No review may produce a due date at or before the moment of review.
func TestDueMonotonicity(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := testScheduler(t)

	cards := []domain.Card{
		reviewCard(t, domain.StateNew, intPtr(0)),
		reviewCard(t, domain.StateLearning, intPtr(0)),
		reviewCard(t, domain.StateLearning, intPtr(1)),
		reviewCard(t, domain.StateReview, nil),
		reviewCard(t, domain.StateRelearning, intPtr(0)),
	}
	for _, card := range cards {
		for _, rating := range []domain.Rating{domain.Again, domain.Hard, domain.Good, domain.Easy} {
			updated, _, err := s.ReviewCard(card, rating, now, nil)
			if err != nil {
				t.Fatalf("ReviewCard failed: %v", err)
			}
			if updated.Due <= domain.ToMillis(now) {
				t.Errorf("%s card rated %s got due %d at or before review time %d",
					card.State, rating, updated.Due, domain.ToMillis(now))
			}
		}
	}
}

func TestLearningIntervals(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := testScheduler(t)

	t.Run("Again lands on the first step", func(t *testing.T) {
		updated, _, err := s.ReviewCard(reviewCard(t, domain.StateNew, intPtr(0)), domain.Again, now, nil)
		if err != nil {
			t.Fatalf("ReviewCard failed: %v", err)
		}
		if got := updated.Due - domain.ToMillis(now); got != (3 * time.Minute).Milliseconds() {
			t.Errorf("Expected 3m interval, got %dms", got)
		}
	})

	t.Run("Hard at step 0 averages the first two steps", func(t *testing.T) {
		updated, _, err := s.ReviewCard(reviewCard(t, domain.StateNew, intPtr(0)), domain.Hard, now, nil)
		if err != nil {
			t.Fatalf("ReviewCard failed: %v", err)
		}
		want := ((3*time.Minute + 10*time.Minute) / 2).Milliseconds()
		if got := updated.Due - domain.ToMillis(now); got != want {
			t.Errorf("Expected %dms interval, got %dms", want, got)
		}
	})

	t.Run("Good advances to the second step", func(t *testing.T) {
		updated, _, err := s.ReviewCard(reviewCard(t, domain.StateNew, intPtr(0)), domain.Good, now, nil)
		if err != nil {
			t.Fatalf("ReviewCard failed: %v", err)
		}
		if got := updated.Due - domain.ToMillis(now); got != (10 * time.Minute).Milliseconds() {
			t.Errorf("Expected 10m interval, got %dms", got)
		}
	})

	t.Run("graduation yields at least a day", func(t *testing.T) {
		updated, _, err := s.ReviewCard(reviewCard(t, domain.StateLearning, intPtr(1)), domain.Good, now, nil)
		if err != nil {
			t.Fatalf("ReviewCard failed: %v", err)
		}
		if got := updated.Due - domain.ToMillis(now); got < (24 * time.Hour).Milliseconds() {
			t.Errorf("Expected a multi-day interval after graduation, got %dms", got)
		}
	})
}

func TestReviewCardFailsFast(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := testScheduler(t)

	t.Run("unknown rating", func(t *testing.T) {
		_, _, err := s.ReviewCard(reviewCard(t, domain.StateNew, intPtr(0)), domain.Rating(9), now, nil)
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("Expected ErrInvalidRating, got %v", err)
		}
	})

	t.Run("Learning card with nil step", func(t *testing.T) {
		card := reviewCard(t, domain.StateLearning, nil)
		_, _, err := s.ReviewCard(card, domain.Good, now, nil)
		if !errors.Is(err, ErrInconsistentCard) {
			t.Errorf("Expected ErrInconsistentCard, got %v", err)
		}
	})

	t.Run("Review card with unset memory state", func(t *testing.T) {
		card := reviewCard(t, domain.StateReview, nil)
		card.Stability = nil
		card.Difficulty = nil
		_, _, err := s.ReviewCard(card, domain.Good, now, nil)
		if !errors.Is(err, ErrInconsistentCard) {
			t.Errorf("Expected ErrInconsistentCard, got %v", err)
		}
	})

	t.Run("invalid state value", func(t *testing.T) {
		card := reviewCard(t, domain.StateNew, intPtr(0))
		card.State = domain.State(7)
		_, _, err := s.ReviewCard(card, domain.Good, now, nil)
		if !errors.Is(err, ErrInconsistentCard) {
			t.Errorf("Expected ErrInconsistentCard, got %v", err)
		}
	})
}

func TestReviewCardDoesNotMutateInput(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := testScheduler(t)

	card := reviewCard(t, domain.StateNew, intPtr(0))
	if _, _, err := s.ReviewCard(card, domain.Good, now, nil); err != nil {
		t.Fatalf("ReviewCard failed: %v", err)
	}

	if card.State != domain.StateNew {
		t.Errorf("Input card state mutated to %s", card.State)
	}
	if card.Stability != nil || card.LastReview != nil {
		t.Error("Input card memory state mutated")
	}
}

func TestPreview(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := testScheduler(t)
	card := reviewCard(t, domain.StateReview, nil)

	first, err := s.Preview(card, now)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	second, err := s.Preview(card, now)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	for i := range first {
		if first[i].Due != second[i].Due {
			t.Errorf("Preview not deterministic for rating %d: %d vs %d", i+1, first[i].Due, second[i].Due)
		}
	}
	if first[0].State != domain.StateRelearning {
		t.Errorf("Expected Again preview to show Relearning, got %s", first[0].State)
	}
	if first[2].Due <= first[1].Due {
		t.Errorf("Expected Good due (%d) after Hard due (%d)", first[2].Due, first[1].Due)
	}
}

func TestReviewLog(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := testScheduler(t)
	duration := int64(12_500)

	_, log, err := s.ReviewCard(reviewCard(t, domain.StateNew, intPtr(0)), domain.Good, now, &duration)
	if err != nil {
		t.Fatalf("ReviewCard failed: %v", err)
	}

	if log.CardID != 1700000000000 {
		t.Errorf("Expected log card id 1700000000000, got %d", log.CardID)
	}
	if log.Rating != domain.Good {
		t.Errorf("Expected log rating Good, got %s", log.Rating)
	}
	if log.ReviewDatetime != domain.ToMillis(now) {
		t.Errorf("Expected log datetime %d, got %d", domain.ToMillis(now), log.ReviewDatetime)
	}
	if log.ReviewDuration == nil || *log.ReviewDuration != duration {
		t.Errorf("Expected log duration %d, got %v", duration, log.ReviewDuration)
	}
}

func TestRetrievability(t *testing.T) {
	s := testScheduler(t)

	t.Run("never-reviewed card reports zero", func(t *testing.T) {
		card := domain.NewCard(1700000000000, 1, 42)
		if r := s.Retrievability(card, time.Now()); r != 0 {
			t.Errorf("Expected 0, got %v", r)
		}
	})

	t.Run("decays with elapsed time", func(t *testing.T) {
		card := reviewCard(t, domain.StateReview, nil)
		last := domain.FromMillis(*card.LastReview)
		soon := s.Retrievability(card, last.Add(24*time.Hour))
		late := s.Retrievability(card, last.Add(30*24*time.Hour))
		if soon <= late {
			t.Errorf("Expected retrievability to decay: %v then %v", soon, late)
		}
		if soon <= 0 || soon > 1 {
			t.Errorf("Retrievability %v out of range", soon)
		}
	})
}
