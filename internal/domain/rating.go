package domain

import "fmt"

// Rating is the user's assessment of recall quality for one review.
type Rating int

const (
	Again Rating = 1
	Hard  Rating = 2
	Good  Rating = 3
	Easy  Rating = 4
)

var ratingNames = map[Rating]string{
	Again: "Again",
	Hard:  "Hard",
	Good:  "Good",
	Easy:  "Easy",
}

// String returns the name of the rating, or "Rating(n)" for invalid values.
func (r Rating) String() string {
	if name, ok := ratingNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// IsValid reports whether r is a valid rating (Again through Easy).
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

// ParseRating maps a rating name back to its value.
func ParseRating(name string) (Rating, bool) {
	for r, n := range ratingNames {
		if n == name {
			return r, true
		}
	}
	return 0, false
}
