package vocab

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/nuzy/wordup/internal/domain"
)

type fakeSeedStore struct {
	cardCount int
	decks     map[int64]string
	contents  []domain.Content
	cards     []domain.Card
}

func (f *fakeSeedStore) CountCards(deckID int64) (int, error) { return f.cardCount, nil }

func (f *fakeSeedStore) DeckName(deckID int64) (string, error) {
	name, ok := f.decks[deckID]
	if !ok {
		return "", fmt.Errorf("deck %d not found", deckID)
	}
	return name, nil
}

func (f *fakeSeedStore) InsertDeck(deck domain.Deck) error {
	f.decks[deck.ID] = deck.Name
	return nil
}

func (f *fakeSeedStore) InsertContents(contents []domain.Content) error {
	f.contents = append(f.contents, contents...)
	return nil
}

func (f *fakeSeedStore) InsertCards(cards []domain.Card) error {
	f.cards = append(f.cards, cards...)
	return nil
}

func writeGlossary(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glossary.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing glossary: %v", err)
	}
	return path
}

func TestSeed(t *testing.T) {
	t.Run("empty database gets deck, contents and cards", func(t *testing.T) {
		store := &fakeSeedStore{decks: map[int64]string{}}
		path := writeGlossary(t, "de,en\nHaus,house\nBaum,tree\nHund,dog\n")

		n, err := Seed(store, path)
		if err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
		if n != 3 {
			t.Errorf("Expected 3 seeded cards, got %d", n)
		}
		if store.decks[domain.DefaultDeckID] != domain.DefaultDeckName {
			t.Errorf("Expected default deck created, got %v", store.decks)
		}
		if len(store.contents) != 3 || len(store.cards) != 3 {
			t.Fatalf("Expected 3 contents and 3 cards, got %d and %d", len(store.contents), len(store.cards))
		}

		for i, card := range store.cards {
			if card.State != domain.StateNew {
				t.Errorf("Card %d: expected New state, got %s", i, card.State)
			}
			if card.DeckID != domain.DefaultDeckID {
				t.Errorf("Card %d: expected default deck, got %d", i, card.DeckID)
			}
			if card.ContentID != store.contents[i].ID {
				t.Errorf("Card %d: expected content id %d, got %d", i, store.contents[i].ID, card.ContentID)
			}
			if card.Due != card.ID {
				t.Errorf("Card %d: expected due equal to id, got id=%d due=%d", i, card.ID, card.Due)
			}
		}

		seen := map[int64]bool{}
		for _, c := range store.contents {
			seen[c.ID] = true
		}
		for _, c := range store.cards {
			seen[c.ID] = true
		}
		if len(seen) != 6 {
			t.Errorf("Expected 6 distinct ids, got %d", len(seen))
		}
	})

	t.Run("already seeded database is untouched", func(t *testing.T) {
		store := &fakeSeedStore{cardCount: 10, decks: map[int64]string{}}
		path := writeGlossary(t, "de,en\nHaus,house\n")

		n, err := Seed(store, path)
		if err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected 0 new cards, got %d", n)
		}
		if len(store.cards) != 0 {
			t.Errorf("Expected no inserts, got %d cards", len(store.cards))
		}
	})

	t.Run("existing deck is not recreated", func(t *testing.T) {
		store := &fakeSeedStore{decks: map[int64]string{domain.DefaultDeckID: "Renamed"}}
		path := writeGlossary(t, "de,en\nHaus,house\n")

		if _, err := Seed(store, path); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
		if store.decks[domain.DefaultDeckID] != "Renamed" {
			t.Errorf("Existing deck overwritten: %v", store.decks)
		}
	})

	t.Run("glossary with no entries is an error", func(t *testing.T) {
		store := &fakeSeedStore{decks: map[int64]string{}}
		path := writeGlossary(t, "de,en\n")

		if _, err := Seed(store, path); err == nil {
			t.Error("Expected an error for an entry-less glossary")
		}
	})

	t.Run("missing glossary file is an error", func(t *testing.T) {
		store := &fakeSeedStore{decks: map[int64]string{}}
		if _, err := Seed(store, filepath.Join(t.TempDir(), "missing.csv")); err == nil {
			t.Error("Expected an error for a missing file")
		}
	})
}
