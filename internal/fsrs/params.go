package fsrs

import "fmt"

// NumParameters is the weight count of the FSRS v6 model.
const NumParameters = 21

// DefaultParameters are the FSRS v6 model weights the app ships with.
var DefaultParameters = [NumParameters]float64{
	0.2172, 1.1771, 3.2602, 16.1507, // w[0..3]  initial stability per rating
	7.0114, 0.57, 2.0966, 0.0069, // w[4..7]  difficulty
	1.5261, 0.112, 1.0178, 1.849, // w[8..11] recall stability
	0.1133, 0.3127, 2.2934, 0.2191, // w[12..15] forget stability, hard penalty
	3.0004, 0.7536, 0.3332, 0.1437, // w[16..19] easy bonus, short-term
	0.2, // w[20] decay
}

const (
	minStability  = 0.001
	minDifficulty = 1.0
	maxDifficulty = 10.0

	initialStabilityMax = 100.0
)

var lowerBounds = [NumParameters]float64{
	minStability, minStability, minStability, minStability,
	1.0, 0.001, 0.001, 0.001,
	0.0, 0.0, 0.001, 0.001,
	0.001, 0.001, 0.0, 0.0,
	1.0, 0.0, 0.0, 0.0,
	0.1,
}

var upperBounds = [NumParameters]float64{
	initialStabilityMax, initialStabilityMax, initialStabilityMax, initialStabilityMax,
	10.0, 4.0, 4.0, 0.75,
	4.5, 0.8, 3.5, 5.0,
	0.25, 0.9, 4.0, 1.0,
	6.0, 2.0, 2.0, 0.8,
	0.8,
}

// ValidateParameters checks every weight against the published bounds.
func ValidateParameters(p [NumParameters]float64) error {
	for i := range p {
		if p[i] < lowerBounds[i] || p[i] > upperBounds[i] {
			return fmt.Errorf("%w: w[%d] = %v, bounds [%v, %v]",
				ErrInvalidParameters, i, p[i], lowerBounds[i], upperBounds[i])
		}
	}
	return nil
}
