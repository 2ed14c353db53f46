package domain

// Content is the displayable text a card is built from: a German word and
// its English translation. The id is the creation time in epoch millis.
type Content struct {
	ID int64
	DE string
	EN string
}

// Deck groups cards. ParentID is nil for root decks.
type Deck struct {
	ID       int64
	Name     string
	ParentID *int64
}

// DefaultDeckID and DefaultDeckName identify the deck created on first run.
const (
	DefaultDeckID   int64 = 1
	DefaultDeckName       = "Main_Deck"
)
