package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/nuzy/wordup/internal/domain"
	"github.com/nuzy/wordup/internal/fsrs"
)

// Defaults mirror the desktop app this tool grew out of: up to 200 new
// cards a day, and a one-hour learn-ahead window that pulls in cards due
// slightly in the future so they can be studied in the same sitting.
const (
	DefaultDailyNewLimit = 200
	DefaultLearnAhead    = 60 * time.Minute
)

// DefaultWeights biases selection toward learning cards, which carry short
// intervals and are the most urgent to re-show.
var DefaultWeights = Weights{New: 1, Learn: 2, Review: 1}

// Weights are the priority weights of the three session queues.
type Weights struct {
	New    int
	Learn  int
	Review int
}

// Config configures a session Service. Zero values fall back to defaults;
// Now and Rand exist so tests can pin time and selection.
type Config struct {
	DeckID            int64 // zero -> domain.DefaultDeckID
	DailyNewLimit     int   // zero -> DefaultDailyNewLimit
	LearnAhead        time.Duration
	DisableLearnAhead bool
	Weights           Weights // zero -> DefaultWeights
	Now               func() time.Time
	Rand              *rand.Rand
}

// StudySession is the mutable state of one continuous study run. It is
// created at session start, mutated on every answer, and discarded after
// Finish. The Service owns it exclusively for its whole lifetime.
type StudySession struct {
	StartTime        time.Time
	CutoffTime       time.Time
	LimitForNewCards int

	NewCards    []domain.Card
	LearnCards  []domain.Card
	ReviewCards []domain.Card

	// DoneUntilCutoff holds answered cards whose new due falls beyond the
	// cutoff. They are out of rotation for this session.
	DoneUntilCutoff []domain.Card

	IndexedContents map[int64]domain.Content
	ReviewLogs      []domain.ReviewLog
}

// CurrentCard pairs the card being shown with its displayable content.
// Content is nil if the content row is missing from the index.
type CurrentCard struct {
	Card    domain.Card
	Content *domain.Content
}

// ErrNoCurrentCard is returned by Answer when no card has been dealt.
var ErrNoCurrentCard = errors.New("session: no current card")

// Service is the session queue manager. It decides at every instant which
// single due card to present, and re-files answered cards.
//
// Service is not safe for concurrent use; one study run owns it end to end.
type Service struct {
	store     Store
	scheduler *fsrs.Scheduler

	deckID     int64
	deckName   string
	dailyLimit int
	learnAhead time.Duration
	weights    Weights
	now        func() time.Time
	rng        *rand.Rand

	session *StudySession
	current *CurrentCard
	counts  domain.DeckCounts
}

// NewService starts a study session: it resolves the deck, computes the
// remaining new-card budget from the persisted metadata, populates the
// three queues, and batch-loads the contents the queued cards reference.
func NewService(store Store, scheduler *fsrs.Scheduler, cfg Config) (*Service, error) {
	if cfg.DeckID == 0 {
		cfg.DeckID = domain.DefaultDeckID
	}
	if cfg.DailyNewLimit == 0 {
		cfg.DailyNewLimit = DefaultDailyNewLimit
	}
	if cfg.LearnAhead == 0 {
		cfg.LearnAhead = DefaultLearnAhead
	}
	if cfg.DisableLearnAhead {
		cfg.LearnAhead = 0
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	deckName, err := store.DeckName(cfg.DeckID)
	if err != nil {
		return nil, fmt.Errorf("resolving deck %d: %w", cfg.DeckID, err)
	}

	s := &Service{
		store:      store,
		scheduler:  scheduler,
		deckID:     cfg.DeckID,
		deckName:   deckName,
		dailyLimit: cfg.DailyNewLimit,
		learnAhead: cfg.LearnAhead,
		weights:    cfg.Weights,
		now:        cfg.Now,
		rng:        cfg.Rand,
	}

	if err := s.startSession(); err != nil {
		return nil, err
	}
	return s, nil
}

// DeckID returns the deck this session studies.
func (s *Service) DeckID() int64 { return s.deckID }

// DeckName returns the deck's label.
func (s *Service) DeckName() string { return s.deckName }

// DeckCounts is a read-only view of the queue sizes, recomputed after every
// structural change to the queues.
func (s *Service) DeckCounts() domain.DeckCounts { return s.counts }

// Session exposes the owned session state for inspection.
func (s *Service) Session() *StudySession { return s.session }

// Current returns the card dealt by the last NextCard call, or nil when no
// card is outstanding.
func (s *Service) Current() *CurrentCard { return s.current }

func (s *Service) startSession() error {
	start := s.now().UTC()
	cutoff := start.Add(s.learnAhead)

	meta, err := s.store.Metadata()
	if err != nil {
		return fmt.Errorf("reading metadata: %w", err)
	}
	limit := RemainingBudget(s.dailyLimit, cutoff, meta)

	s.session = &StudySession{
		StartTime:        start,
		CutoffTime:       cutoff,
		LimitForNewCards: limit,
		IndexedContents:  map[int64]domain.Content{},
	}

	if err := s.populateQueues(); err != nil {
		return err
	}
	if err := s.populateContentIndex(); err != nil {
		return err
	}
	s.recount()

	slog.Info("session started",
		"deck", s.deckName,
		"new", s.counts.New,
		"learn", s.counts.Learn,
		"review", s.counts.Review,
		"new_limit", limit,
	)
	return nil
}

// populateQueues loads the three due-card queues, always scoped to the
// session's deck. Each read returns cards ordered by due ascending.
func (s *Service) populateQueues() error {
	cutoff := domain.ToMillis(s.session.CutoffTime)

	newCards, err := s.store.NewCards(s.deckID, s.session.LimitForNewCards)
	if err != nil {
		return fmt.Errorf("loading new cards: %w", err)
	}
	learnCards, err := s.store.DueLearningCards(s.deckID, cutoff)
	if err != nil {
		return fmt.Errorf("loading learning cards: %w", err)
	}
	reviewCards, err := s.store.DueReviewCards(s.deckID, cutoff)
	if err != nil {
		return fmt.Errorf("loading review cards: %w", err)
	}

	s.session.NewCards = newCards
	s.session.LearnCards = learnCards
	s.session.ReviewCards = reviewCards
	return nil
}

// populateContentIndex batch-fetches every distinct content the queued
// cards reference, so presenting a card never costs a per-card fetch.
func (s *Service) populateContentIndex() error {
	seen := map[int64]bool{}
	var ids []int64
	for _, q := range [][]domain.Card{s.session.NewCards, s.session.LearnCards, s.session.ReviewCards} {
		for _, c := range q {
			if !seen[c.ContentID] {
				seen[c.ContentID] = true
				ids = append(ids, c.ContentID)
			}
		}
	}

	contents, err := s.store.ContentsByIDs(ids)
	if err != nil {
		return fmt.Errorf("loading contents: %w", err)
	}
	index := make(map[int64]domain.Content, len(contents))
	for _, c := range contents {
		index[c.ID] = c
	}
	s.session.IndexedContents = index
	return nil
}

// HasCardsToStudy reports whether any active queue still holds a card.
// Cards parked in DoneUntilCutoff do not count.
func (s *Service) HasCardsToStudy() bool {
	return len(s.session.NewCards) > 0 ||
		len(s.session.LearnCards) > 0 ||
		len(s.session.ReviewCards) > 0
}

// NextCard deals the next card: a weighted draw picks a queue, the
// earliest-due card is popped from it, and the remainder is re-sorted so a
// card routed back a moment ago is not immediately reconsidered. Returns
// nil when every queue is empty.
func (s *Service) NextCard() *CurrentCard {
	kind, ok := s.chooseQueue()
	if !ok {
		s.current = nil
		return nil
	}

	q := s.queueRef(kind)
	card := (*q)[0]
	*q = (*q)[1:]
	sortByDue(*q)
	s.recount()

	cc := &CurrentCard{Card: card}
	if content, ok := s.session.IndexedContents[card.ContentID]; ok {
		c := content
		cc.Content = &c
	}
	s.current = cc
	return cc
}

// Answer rates the current card. The scheduler advances the card's memory
// state, the review log is buffered for Finish, and the updated card is
// routed back into the queue matching its new state, or parked in
// DoneUntilCutoff when its due moved past the session cutoff.
func (s *Service) Answer(rating domain.Rating, reviewDuration *int64) error {
	if s.current == nil {
		return ErrNoCurrentCard
	}

	updated, log, err := s.scheduler.ReviewCard(s.current.Card, rating, s.now().UTC(), reviewDuration)
	if err != nil {
		return err
	}

	s.session.ReviewLogs = append(s.session.ReviewLogs, log)
	s.current = nil

	if updated.Due > domain.ToMillis(s.session.CutoffTime) {
		s.session.DoneUntilCutoff = append(s.session.DoneUntilCutoff, updated)
		s.recount()
		return nil
	}

	q := s.queueForState(updated.State)
	if q == nil {
		return fmt.Errorf("%w: reviewed card %d is %s", fsrs.ErrInconsistentCard, updated.ID, updated.State)
	}
	*q = append(*q, updated)
	s.recount()
	return nil
}

// NextIntervals previews the four rating outcomes for the current card as
// display strings (Again, Hard, Good, Easy).
func (s *Service) NextIntervals() ([4]string, error) {
	var out [4]string
	if s.current == nil {
		return out, ErrNoCurrentCard
	}

	at := s.now().UTC()
	cards, err := s.scheduler.Preview(s.current.Card, at)
	if err != nil {
		return out, err
	}
	atMillis := domain.ToMillis(at)
	for i, c := range cards {
		out[i] = FormatInterval(time.Duration(c.Due-atMillis) * time.Millisecond)
	}
	return out, nil
}

// RolloverIfNeeded detects a UTC day change past the session cutoff and, if
// one happened, flushes card state, rebuilds the session span, and
// repopulates the queues under a fresh budget.
func (s *Service) RolloverIfNeeded() error {
	now := s.now().UTC()
	if sameUTCDay(now, s.session.CutoffTime) || now.Before(s.session.CutoffTime) {
		return nil
	}

	slog.Info("day rolled over, rebuilding session", "deck", s.deckName)

	if err := s.flushCards(); err != nil {
		return err
	}
	s.clearQueues()
	s.current = nil

	s.session.StartTime = now
	s.session.CutoffTime = now.Add(s.learnAhead)

	meta, err := s.store.Metadata()
	if err != nil {
		return fmt.Errorf("reading metadata: %w", err)
	}
	s.session.LimitForNewCards = RemainingBudget(s.dailyLimit, s.session.CutoffTime, meta)

	if err := s.populateQueues(); err != nil {
		return err
	}
	if err := s.populateContentIndex(); err != nil {
		return err
	}
	s.recount()
	return nil
}

// Finish persists the session: buffered review logs, the scheduling state
// of every touched card, and the metadata record driving tomorrow's budget.
// On persistence failure the in-memory session is left intact so the caller
// may retry.
func (s *Service) Finish() error {
	if len(s.session.ReviewLogs) == 0 {
		slog.Info("no cards studied in this session", "deck", s.deckName)
		return nil
	}

	inserted, err := s.store.AppendReviewLogs(s.session.ReviewLogs)
	if err != nil {
		return fmt.Errorf("persisting review logs: %w", err)
	}

	if err := s.flushCards(); err != nil {
		return err
	}

	consumed := s.session.LimitForNewCards - len(s.session.NewCards)
	if consumed < 0 {
		consumed = 0
	}

	// Same-day consumption accumulates across sessions; a rolled-over day
	// starts the count fresh.
	meta, err := s.store.Metadata()
	if err != nil {
		return fmt.Errorf("reading metadata: %w", err)
	}
	if meta != nil && sameUTCDay(domain.FromMillis(meta.LastSessionCutoff), s.session.CutoffTime) {
		consumed += meta.NewCardsReviewed
	}

	if err := s.store.PutMetadata(domain.ToMillis(s.session.CutoffTime), consumed); err != nil {
		return fmt.Errorf("persisting metadata: %w", err)
	}

	slog.Info("session finished",
		"deck", s.deckName,
		"logs", inserted,
		"new_cards_reviewed", consumed,
	)

	s.clearQueues()
	s.session.ReviewLogs = nil
	s.current = nil
	s.recount()
	return nil
}

// flushCards writes every card the session holds back to the store in one
// batch.
func (s *Service) flushCards() error {
	var all []domain.Card
	all = append(all, s.session.DoneUntilCutoff...)
	all = append(all, s.session.LearnCards...)
	all = append(all, s.session.ReviewCards...)
	all = append(all, s.session.NewCards...)

	if _, err := s.store.UpdateCards(all); err != nil {
		return fmt.Errorf("persisting cards: %w", err)
	}
	return nil
}

func (s *Service) clearQueues() {
	s.session.NewCards = nil
	s.session.LearnCards = nil
	s.session.ReviewCards = nil
	s.session.DoneUntilCutoff = nil
}

func (s *Service) recount() {
	s.counts = domain.DeckCounts{
		New:    len(s.session.NewCards),
		Learn:  len(s.session.LearnCards),
		Review: len(s.session.ReviewCards),
		Done:   len(s.session.DoneUntilCutoff),
	}
}

// queueForState maps a post-review state to its queue. New is absent on
// purpose: a reviewed card can never return to New.
func (s *Service) queueForState(state domain.State) *[]domain.Card {
	switch state {
	case domain.StateLearning, domain.StateRelearning:
		return &s.session.LearnCards
	case domain.StateReview:
		return &s.session.ReviewCards
	default:
		return nil
	}
}

func sortByDue(cards []domain.Card) {
	sort.Slice(cards, func(i, j int) bool { return cards[i].Due < cards[j].Due })
}
