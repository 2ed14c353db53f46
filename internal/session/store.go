package session

import "github.com/nuzy/wordup/internal/domain"

// Store is the persistence surface the session core consumes. It is injected
// at construction so the queue manager never reaches for a shared handle.
// *storage.DB satisfies it; tests use an in-memory fake.
type Store interface {
	NewCards(deckID int64, limit int) ([]domain.Card, error)
	DueLearningCards(deckID, cutoff int64) ([]domain.Card, error)
	DueReviewCards(deckID, cutoff int64) ([]domain.Card, error)
	UpdateCards(cards []domain.Card) (int64, error)
	ContentsByIDs(ids []int64) ([]domain.Content, error)
	AppendReviewLogs(logs []domain.ReviewLog) (int64, error)
	Metadata() (*domain.Metadata, error)
	PutMetadata(lastSessionCutoff int64, newCardsReviewed int) error
	DeckName(deckID int64) (string, error)
}
