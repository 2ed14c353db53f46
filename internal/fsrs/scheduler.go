package fsrs

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/nuzy/wordup/internal/domain"
)

// Config configures a Scheduler. Zero-value fields fall back to the
// defaults the app ships with.
type Config struct {
	Parameters       [NumParameters]float64 // zero array -> DefaultParameters
	DesiredRetention float64                // zero -> 0.9
	LearningSteps    []time.Duration        // nil -> [3m, 10m]; empty -> no steps
	RelearningSteps  []time.Duration        // nil -> [10m]; empty -> no steps
	MaximumInterval  int                    // zero -> 36500 days
	DisableFuzzing   bool
}

// Scheduler advances a card's memory state in response to review ratings.
// Apart from interval fuzzing it is a pure function of its configuration:
// identical inputs produce identical outputs, which the interval preview
// relies on.
type Scheduler struct {
	algo             algo
	desiredRetention float64
	learningSteps    []time.Duration
	relearningSteps  []time.Duration
	maximumInterval  int
	disableFuzzing   bool
	rng              *rand.Rand
}

// NewScheduler builds a Scheduler from cfg, validating the parameters
// against the published bounds.
func NewScheduler(cfg Config) (*Scheduler, error) {
	params := cfg.Parameters
	if params == [NumParameters]float64{} {
		params = DefaultParameters
	}
	if err := ValidateParameters(params); err != nil {
		return nil, err
	}

	retention := cfg.DesiredRetention
	if retention == 0 {
		retention = 0.9
	}
	if retention < 0 || retention > 1 {
		return nil, fmt.Errorf("fsrs: desired retention %v out of range (0, 1]", retention)
	}

	maxIvl := cfg.MaximumInterval
	if maxIvl == 0 {
		maxIvl = 36500
	}
	if maxIvl < 0 {
		return nil, fmt.Errorf("fsrs: maximum interval %d must be positive", maxIvl)
	}

	learning := cfg.LearningSteps
	if learning == nil {
		learning = []time.Duration{3 * time.Minute, 10 * time.Minute}
	}
	relearning := cfg.RelearningSteps
	if relearning == nil {
		relearning = []time.Duration{10 * time.Minute}
	}

	return &Scheduler{
		algo:             newAlgo(params),
		desiredRetention: retention,
		learningSteps:    learning,
		relearningSteps:  relearning,
		maximumInterval:  maxIvl,
		disableFuzzing:   cfg.DisableFuzzing,
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// ReviewCard applies one rating to the card at reviewTime. The input card is
// not mutated; the updated copy and an append-ready review log are returned.
// An unknown rating or a state/step combination outside the transition table
// is a programming error and is rejected rather than coerced.
func (s *Scheduler) ReviewCard(card domain.Card, rating domain.Rating, reviewTime time.Time, reviewDuration *int64) (domain.Card, domain.ReviewLog, error) {
	c, err := s.review(card, rating, reviewTime, !s.disableFuzzing)
	if err != nil {
		return domain.Card{}, domain.ReviewLog{}, err
	}

	log := domain.ReviewLog{
		CardID:         c.ID,
		Rating:         rating,
		ReviewDatetime: domain.ToMillis(reviewTime),
		ReviewDuration: reviewDuration,
	}
	return c, log, nil
}

// Preview returns the card as it would look after each of the four ratings,
// indexed by Rating-1. Fuzzing is bypassed so the result is deterministic,
// and no review log is produced.
func (s *Scheduler) Preview(card domain.Card, at time.Time) ([4]domain.Card, error) {
	var out [4]domain.Card
	for _, r := range []domain.Rating{domain.Again, domain.Hard, domain.Good, domain.Easy} {
		c, err := s.review(card, r, at, false)
		if err != nil {
			return out, err
		}
		out[r-1] = c
	}
	return out, nil
}

// Retrievability is the modeled probability the card is still remembered at
// the given time. Never-reviewed cards report 0.
func (s *Scheduler) Retrievability(card domain.Card, at time.Time) float64 {
	if card.LastReview == nil || card.Stability == nil {
		return 0
	}
	elapsed := at.Sub(domain.FromMillis(*card.LastReview)).Hours() / 24.0
	if elapsed < 0 {
		elapsed = 0
	}
	return s.algo.retrievability(elapsed, *card.Stability)
}

func (s *Scheduler) review(card domain.Card, rating domain.Rating, reviewTime time.Time, fuzz bool) (domain.Card, error) {
	if !rating.IsValid() {
		return domain.Card{}, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}
	if !card.State.IsValid() {
		return domain.Card{}, fmt.Errorf("%w: card %d has state %d", ErrInconsistentCard, card.ID, int(card.State))
	}

	c := card.Clone()

	var elapsedDays float64
	if c.LastReview != nil {
		elapsedDays = reviewTime.Sub(domain.FromMillis(*c.LastReview)).Hours() / 24.0
	}

	// First exposure always enters the learning ladder.
	if c.State == domain.StateNew {
		c.State = domain.StateLearning
		if c.Step == nil {
			step := 0
			c.Step = &step
		}
	}

	if err := checkConsistency(c); err != nil {
		return domain.Card{}, err
	}

	s.updateMemory(&c, rating, elapsedDays)

	var interval time.Duration
	switch c.State {
	case domain.StateLearning:
		interval = s.stepThrough(&c, rating, s.learningSteps)
	case domain.StateRelearning:
		interval = s.stepThrough(&c, rating, s.relearningSteps)
	default:
		interval = s.reviewInterval(&c, rating)
	}

	if fuzz && c.State == domain.StateReview {
		days := int(interval.Hours() / 24.0)
		if days > 0 {
			interval = time.Duration(fuzzInterval(days, s.maximumInterval, s.rng)) * 24 * time.Hour
		}
	}

	c.Due = domain.ToMillis(reviewTime.Add(interval))
	last := domain.ToMillis(reviewTime)
	c.LastReview = &last
	return c, nil
}

// checkConsistency rejects state/step/memory combinations the transition
// table does not define. Silently patching them would corrupt every future
// scheduling decision for the card.
func checkConsistency(c domain.Card) error {
	switch c.State {
	case domain.StateLearning, domain.StateRelearning:
		if c.Step == nil {
			return fmt.Errorf("%w: card %d is %s with no step", ErrInconsistentCard, c.ID, c.State)
		}
	case domain.StateReview:
		if c.Stability == nil || c.Difficulty == nil {
			return fmt.Errorf("%w: card %d is Review with unset memory state", ErrInconsistentCard, c.ID)
		}
	}
	if (c.Stability == nil) != (c.Difficulty == nil) {
		return fmt.Errorf("%w: card %d has partial memory state", ErrInconsistentCard, c.ID)
	}
	return nil
}

func (s *Scheduler) updateMemory(c *domain.Card, rating domain.Rating, elapsedDays float64) {
	if c.Stability == nil {
		stability := s.algo.initStability(rating)
		difficulty := s.algo.initDifficulty(rating, true)
		c.Stability = &stability
		c.Difficulty = &difficulty
		return
	}

	var stability float64
	if c.LastReview != nil && elapsedDays < 1 {
		stability = s.algo.shortTermStability(*c.Stability, rating)
	} else {
		r := s.algo.retrievability(elapsedDays, *c.Stability)
		stability = s.algo.nextStability(*c.Difficulty, *c.Stability, r, rating)
	}
	difficulty := s.algo.nextDifficulty(*c.Difficulty, rating)
	c.Stability = &stability
	c.Difficulty = &difficulty
}

// stepThrough advances a Learning or Relearning card along its step ladder.
func (s *Scheduler) stepThrough(c *domain.Card, rating domain.Rating, steps []time.Duration) time.Duration {
	step := *c.Step

	// No steps configured, or the card outlived a longer ladder from an
	// earlier configuration: graduate on any success.
	if len(steps) == 0 || (step >= len(steps) && rating != domain.Again) {
		return s.graduate(c)
	}

	switch rating {
	case domain.Again:
		zero := 0
		c.Step = &zero
		return steps[0]

	case domain.Hard:
		// Step stays put; the first step gets a stretched interval so Hard
		// is slower than Again but faster than Good.
		if step == 0 && len(steps) == 1 {
			return time.Duration(float64(steps[0]) * 1.5)
		}
		if step == 0 && len(steps) >= 2 {
			return (steps[0] + steps[1]) / 2
		}
		return steps[step]

	case domain.Good:
		next := step + 1
		if next >= len(steps) {
			return s.graduate(c)
		}
		c.Step = &next
		return steps[next]

	default: // Easy skips the remaining ladder.
		return s.graduate(c)
	}
}

// reviewInterval handles a card already in the Review state.
func (s *Scheduler) reviewInterval(c *domain.Card, rating domain.Rating) time.Duration {
	if rating == domain.Again && len(s.relearningSteps) > 0 {
		c.State = domain.StateRelearning
		zero := 0
		c.Step = &zero
		return s.relearningSteps[0]
	}
	c.Step = nil
	days := s.algo.nextInterval(*c.Stability, s.desiredRetention, s.maximumInterval)
	return time.Duration(days) * 24 * time.Hour
}

func (s *Scheduler) graduate(c *domain.Card) time.Duration {
	c.State = domain.StateReview
	c.Step = nil
	days := s.algo.nextInterval(*c.Stability, s.desiredRetention, s.maximumInterval)
	return time.Duration(days) * 24 * time.Hour
}
