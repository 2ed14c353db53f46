package fsrs

import (
	"math"

	"github.com/nuzy/wordup/internal/domain"
)

// algo holds the model weights plus the two constants every retrievability
// and interval computation needs.
type algo struct {
	w      [NumParameters]float64
	decay  float64 // -w[20]
	factor float64 // 0.9^(1/decay) - 1
}

func newAlgo(w [NumParameters]float64) algo {
	decay := -w[20]
	factor := math.Pow(0.9, 1.0/decay) - 1.0
	return algo{w: w, decay: decay, factor: factor}
}

// retrievability is R(t, S) = (1 + FACTOR * t/S) ^ DECAY.
func (a *algo) retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1+a.factor*elapsedDays/stability, a.decay)
}

// initStability is S0(G) = w[G-1].
func (a *algo) initStability(r domain.Rating) float64 {
	return clampStability(a.w[r-1])
}

// initDifficulty is D0(G) = w[4] - e^(w[5]*(G-1)) + 1.
func (a *algo) initDifficulty(r domain.Rating, clamp bool) float64 {
	d := a.w[4] - math.Exp(a.w[5]*float64(r-1)) + 1
	if clamp {
		return clampDifficulty(d)
	}
	return d
}

// nextInterval converts stability into whole days: round((S/FACTOR) *
// (retention^(1/DECAY) - 1)), clamped to [1, maxInterval].
func (a *algo) nextInterval(stability, desiredRetention float64, maxInterval int) int {
	ivl := stability / a.factor * (math.Pow(desiredRetention, 1.0/a.decay) - 1)
	days := int(math.Round(ivl))
	if days < 1 {
		days = 1
	}
	if days > maxInterval {
		days = maxInterval
	}
	return days
}

// shortTermStability handles same-day reviews:
// SInc = e^(w[17]*(G-3+w[18])) * S^(-w[19]), floored at 1 for Good/Easy.
func (a *algo) shortTermStability(stability float64, r domain.Rating) float64 {
	inc := math.Exp(a.w[17]*(float64(r)-3+a.w[18])) * math.Pow(stability, -a.w[19])
	if r == domain.Good || r == domain.Easy {
		inc = math.Max(inc, 1.0)
	}
	return clampStability(stability * inc)
}

// nextDifficulty applies linear damping then mean reversion toward D0(Easy).
func (a *algo) nextDifficulty(difficulty float64, r domain.Rating) float64 {
	deltaD := -a.w[6] * (float64(r) - 3)
	damped := difficulty + (10.0-difficulty)*deltaD/9.0
	reverted := a.w[7]*a.initDifficulty(domain.Easy, false) + (1-a.w[7])*damped
	return clampDifficulty(reverted)
}

func (a *algo) nextStability(difficulty, stability, retrievability float64, r domain.Rating) float64 {
	var s float64
	if r == domain.Again {
		s = a.nextForgetStability(difficulty, stability, retrievability)
	} else {
		s = a.nextRecallStability(difficulty, stability, retrievability, r)
	}
	return clampStability(s)
}

// nextRecallStability is S'_r for a successful cross-day recall.
func (a *algo) nextRecallStability(d, s, r float64, rating domain.Rating) float64 {
	hardPenalty := 1.0
	if rating == domain.Hard {
		hardPenalty = a.w[15]
	}
	easyBonus := 1.0
	if rating == domain.Easy {
		easyBonus = a.w[16]
	}
	return s * (1 + math.Exp(a.w[8])*
		(11-d)*
		math.Pow(s, -a.w[9])*
		(math.Exp((1-r)*a.w[10])-1)*
		hardPenalty*easyBonus)
}

// nextForgetStability is S'_f after a lapse, capped by the short-term branch.
func (a *algo) nextForgetStability(d, s, r float64) float64 {
	longTerm := a.w[11] *
		math.Pow(d, -a.w[12]) *
		(math.Pow(s+1, a.w[13]) - 1) *
		math.Exp((1-r)*a.w[14])
	shortTerm := s / math.Exp(a.w[17]*a.w[18])
	return math.Min(longTerm, shortTerm)
}

func clampStability(s float64) float64 {
	return math.Max(s, minStability)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, minDifficulty), maxDifficulty)
}
