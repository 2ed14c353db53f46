package fsrs

import "errors"

// Sentinel errors. Check with errors.Is.
var (
	ErrInvalidRating     = errors.New("fsrs: invalid rating")
	ErrInvalidParameters = errors.New("fsrs: parameters out of bounds")
	ErrInconsistentCard  = errors.New("fsrs: inconsistent card state")
)
