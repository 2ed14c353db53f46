package domain

import "fmt"

// State is the learning stage of a card.
type State int

const (
	StateNew        State = 0
	StateLearning   State = 1
	StateReview     State = 2
	StateRelearning State = 3
)

var stateNames = map[State]string{
	StateNew:        "New",
	StateLearning:   "Learning",
	StateReview:     "Review",
	StateRelearning: "Relearning",
}

// String returns the name of the state, or "State(n)" for invalid values.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// IsValid reports whether s is one of the four defined states.
func (s State) IsValid() bool {
	_, ok := stateNames[s]
	return ok
}

// Card is one flashcard's review state. Timestamps are epoch milliseconds.
//
// Step is nil once a card reaches Review. Stability, Difficulty and
// LastReview are nil until the card has been reviewed at least once.
type Card struct {
	ID         int64
	DeckID     int64
	ContentID  int64
	State      State
	Step       *int
	Stability  *float64
	Difficulty *float64
	Due        int64
	LastReview *int64
}

// NewCard creates a card in the New state. The id doubles as the initial
// due timestamp, so a freshly created card is immediately eligible.
func NewCard(id, deckID, contentID int64) Card {
	step := 0
	return Card{
		ID:        id,
		DeckID:    deckID,
		ContentID: contentID,
		State:     StateNew,
		Step:      &step,
		Due:       id,
	}
}

// Clone returns a deep copy of the card. Pointer fields are copied by value
// so the copy shares no mutable state with the original.
func (c Card) Clone() Card {
	out := c
	if c.Step != nil {
		v := *c.Step
		out.Step = &v
	}
	if c.Stability != nil {
		v := *c.Stability
		out.Stability = &v
	}
	if c.Difficulty != nil {
		v := *c.Difficulty
		out.Difficulty = &v
	}
	if c.LastReview != nil {
		v := *c.LastReview
		out.LastReview = &v
	}
	return out
}
