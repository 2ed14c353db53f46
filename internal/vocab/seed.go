package vocab

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nuzy/wordup/internal/domain"
)

// Store is the slice of the persistence layer seeding needs.
type Store interface {
	CountCards(deckID int64) (int, error)
	DeckName(deckID int64) (string, error)
	InsertDeck(deck domain.Deck) error
	InsertContents(contents []domain.Content) error
	InsertCards(cards []domain.Card) error
}

// Seed populates an empty database from a glossary file: the default deck,
// one content per glossary entry, and one New card per content. Card and
// content ids are epoch milliseconds, allocated monotonically so two rows
// created in the same millisecond never collide. Returns the number of
// cards created; a database that already holds cards is left untouched.
func Seed(store Store, glossaryPath string) (int, error) {
	existing, err := store.CountCards(domain.DefaultDeckID)
	if err != nil {
		return 0, fmt.Errorf("checking for existing cards: %w", err)
	}
	if existing > 0 {
		slog.Info("database already seeded", "cards", existing)
		return 0, nil
	}

	entries, err := ParseFile(glossaryPath)
	if err != nil {
		return 0, fmt.Errorf("parsing glossary %s: %w", glossaryPath, err)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("glossary %s holds no entries", glossaryPath)
	}

	if _, err := store.DeckName(domain.DefaultDeckID); err != nil {
		deck := domain.Deck{ID: domain.DefaultDeckID, Name: domain.DefaultDeckName}
		if err := store.InsertDeck(deck); err != nil {
			return 0, fmt.Errorf("creating default deck: %w", err)
		}
	}

	nextID := time.Now().UnixMilli()
	allocate := func() int64 {
		id := nextID
		nextID++
		return id
	}

	contents := make([]domain.Content, 0, len(entries))
	for _, e := range entries {
		contents = append(contents, domain.Content{ID: allocate(), DE: e.DE, EN: e.EN})
	}
	if err := store.InsertContents(contents); err != nil {
		return 0, fmt.Errorf("inserting contents: %w", err)
	}

	cards := make([]domain.Card, 0, len(contents))
	for _, c := range contents {
		cards = append(cards, domain.NewCard(allocate(), domain.DefaultDeckID, c.ID))
	}
	if err := store.InsertCards(cards); err != nil {
		return 0, fmt.Errorf("inserting cards: %w", err)
	}

	slog.Info("seeded database from glossary", "path", glossaryPath, "cards", len(cards))
	return len(cards), nil
}
