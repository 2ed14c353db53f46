package session

import "github.com/nuzy/wordup/internal/domain"

type queueKind int

const (
	queueNew queueKind = iota
	queueLearn
	queueReview
)

func (s *Service) queueRef(kind queueKind) *[]domain.Card {
	switch kind {
	case queueNew:
		return &s.session.NewCards
	case queueLearn:
		return &s.session.LearnCards
	default:
		return &s.session.ReviewCards
	}
}

// chooseQueue picks one of the non-empty queues with a categorical draw over
// their priority weights, considered in the fixed order new, learn, review.
// A single non-empty queue is chosen deterministically; all empty reports
// no card.
func (s *Service) chooseQueue() (queueKind, bool) {
	type candidate struct {
		kind   queueKind
		weight int
	}

	var candidates []candidate
	if len(s.session.NewCards) > 0 {
		candidates = append(candidates, candidate{queueNew, s.weights.New})
	}
	if len(s.session.LearnCards) > 0 {
		candidates = append(candidates, candidate{queueLearn, s.weights.Learn})
	}
	if len(s.session.ReviewCards) > 0 {
		candidates = append(candidates, candidate{queueReview, s.weights.Review})
	}

	switch len(candidates) {
	case 0:
		return 0, false
	case 1:
		return candidates[0].kind, true
	}

	total := 0
	for _, c := range candidates {
		total += c.weight
	}

	draw := s.rng.Float64() * float64(total)
	acc := 0.0
	for _, c := range candidates {
		acc += float64(c.weight)
		if draw < acc {
			return c.kind, true
		}
	}
	return candidates[len(candidates)-1].kind, true
}
