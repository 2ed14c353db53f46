package storage

import (
	"database/sql"
	"fmt"

	"github.com/nuzy/wordup/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB wraps the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Connection settings before the schema: referential integrity on, and a
	// generous busy timeout since this is a single-user tool.
	if _, err := db.Exec("PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 30000;"); err != nil {
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

const cardColumns = "id, deck_id, content_id, state, step, stability, difficulty, due, last_review"

func scanCard(rows *sql.Rows) (domain.Card, error) {
	var c domain.Card
	var state int
	var step sql.NullInt64
	var stability, difficulty sql.NullFloat64
	var lastReview sql.NullInt64

	err := rows.Scan(&c.ID, &c.DeckID, &c.ContentID, &state, &step, &stability, &difficulty, &c.Due, &lastReview)
	if err != nil {
		return domain.Card{}, err
	}

	c.State = domain.State(state)
	if step.Valid {
		v := int(step.Int64)
		c.Step = &v
	}
	if stability.Valid {
		v := stability.Float64
		c.Stability = &v
	}
	if difficulty.Valid {
		v := difficulty.Float64
		c.Difficulty = &v
	}
	if lastReview.Valid {
		v := lastReview.Int64
		c.LastReview = &v
	}
	return c, nil
}

func (db *DB) queryCards(query string, args ...any) ([]domain.Card, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// NewCards returns due-ordered New cards for the deck, capped at limit.
// An exhausted budget (limit <= 0) is a normal empty result.
func (db *DB) NewCards(deckID int64, limit int) ([]domain.Card, error) {
	if limit <= 0 {
		return nil, nil
	}
	cards, err := db.queryCards(`
		SELECT `+cardColumns+` FROM cards
		WHERE deck_id = ? AND state = ?
		ORDER BY due ASC
		LIMIT ?
	`, deckID, int(domain.StateNew), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get new cards for deck %d: %w", deckID, err)
	}
	return cards, nil
}

// DueLearningCards returns due-ordered Learning and Relearning cards for the
// deck with due before the cutoff (epoch millis).
func (db *DB) DueLearningCards(deckID, cutoff int64) ([]domain.Card, error) {
	cards, err := db.queryCards(`
		SELECT `+cardColumns+` FROM cards
		WHERE deck_id = ? AND state IN (?, ?) AND due < ?
		ORDER BY due ASC
	`, deckID, int(domain.StateLearning), int(domain.StateRelearning), cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get due learning cards for deck %d: %w", deckID, err)
	}
	return cards, nil
}

// DueReviewCards returns due-ordered Review cards for the deck with due
// before the cutoff (epoch millis).
func (db *DB) DueReviewCards(deckID, cutoff int64) ([]domain.Card, error) {
	cards, err := db.queryCards(`
		SELECT `+cardColumns+` FROM cards
		WHERE deck_id = ? AND state = ? AND due < ?
		ORDER BY due ASC
	`, deckID, int(domain.StateReview), cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get due review cards for deck %d: %w", deckID, err)
	}
	return cards, nil
}

func cardArgs(c domain.Card) (step, lastReview sql.NullInt64, stability, difficulty sql.NullFloat64) {
	if c.Step != nil {
		step = sql.NullInt64{Int64: int64(*c.Step), Valid: true}
	}
	if c.LastReview != nil {
		lastReview = sql.NullInt64{Int64: *c.LastReview, Valid: true}
	}
	if c.Stability != nil {
		stability = sql.NullFloat64{Float64: *c.Stability, Valid: true}
	}
	if c.Difficulty != nil {
		difficulty = sql.NullFloat64{Float64: *c.Difficulty, Valid: true}
	}
	return
}

// UpdateCards writes the scheduling state of the given cards back by id and
// returns the number of affected rows.
func (db *DB) UpdateCards(cards []domain.Card) (int64, error) {
	if len(cards) == 0 {
		return 0, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin card update: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE cards
		SET state = ?, step = ?, stability = ?, difficulty = ?, due = ?, last_review = ?
		WHERE id = ?
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare card update: %w", err)
	}
	defer stmt.Close()

	var affected int64
	for _, c := range cards {
		step, lastReview, stability, difficulty := cardArgs(c)
		res, err := stmt.Exec(int(c.State), step, stability, difficulty, c.Due, lastReview, c.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to update card %d: %w", c.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to count affected rows for card %d: %w", c.ID, err)
		}
		affected += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit card update: %w", err)
	}
	return affected, nil
}

// InsertCards inserts new cards in one transaction. Used by seeding.
func (db *DB) InsertCards(cards []domain.Card) error {
	if len(cards) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin card insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO cards (id, deck_id, content_id, state, step, stability, difficulty, due, last_review)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare card insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range cards {
		step, lastReview, stability, difficulty := cardArgs(c)
		if _, err := stmt.Exec(c.ID, c.DeckID, c.ContentID, int(c.State), step, stability, difficulty, c.Due, lastReview); err != nil {
			return fmt.Errorf("failed to insert card %d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit card insert: %w", err)
	}
	return nil
}

// CountCards reports how many cards exist in the deck.
func (db *DB) CountCards(deckID int64) (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM cards WHERE deck_id = ?", deckID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards for deck %d: %w", deckID, err)
	}
	return n, nil
}

// ContentsByIDs batch-fetches contents. Order of the result is not
// significant; missing ids are simply absent.
func (db *DB) ContentsByIDs(ids []int64) ([]domain.Content, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := "SELECT id, de, en FROM contents WHERE id IN (?"
	args := []any{ids[0]}
	for _, id := range ids[1:] {
		query += ", ?"
		args = append(args, id)
	}
	query += ")"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get contents by ids: %w", err)
	}
	defer rows.Close()

	var contents []domain.Content
	for rows.Next() {
		var c domain.Content
		if err := rows.Scan(&c.ID, &c.DE, &c.EN); err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

// InsertContents inserts vocabulary contents in one transaction.
func (db *DB) InsertContents(contents []domain.Content) error {
	if len(contents) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin content insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO contents (id, de, en) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare content insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range contents {
		if _, err := stmt.Exec(c.ID, c.DE, c.EN); err != nil {
			return fmt.Errorf("failed to insert content %d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit content insert: %w", err)
	}
	return nil
}

// AppendReviewLogs appends review logs and returns the inserted count.
func (db *DB) AppendReviewLogs(logs []domain.ReviewLog) (int64, error) {
	if len(logs) == 0 {
		return 0, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin revlog insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO revlogs (card_id, rating, review_datetime, review_duration)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare revlog insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range logs {
		var duration sql.NullInt64
		if l.ReviewDuration != nil {
			duration = sql.NullInt64{Int64: *l.ReviewDuration, Valid: true}
		}
		if _, err := stmt.Exec(l.CardID, int(l.Rating), l.ReviewDatetime, duration); err != nil {
			return 0, fmt.Errorf("failed to insert revlog for card %d: %w", l.CardID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit revlog insert: %w", err)
	}
	return int64(len(logs)), nil
}

// Metadata reads the singleton metadata row. A missing row is normal on
// first run and returns (nil, nil).
func (db *DB) Metadata() (*domain.Metadata, error) {
	var m domain.Metadata
	err := db.conn.QueryRow(
		"SELECT last_session_cutoff, new_cards_reviewed FROM metadata WHERE id = 1",
	).Scan(&m.LastSessionCutoff, &m.NewCardsReviewed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	return &m, nil
}

// PutMetadata replaces the singleton metadata row.
func (db *DB) PutMetadata(lastSessionCutoff int64, newCardsReviewed int) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO metadata (id, last_session_cutoff, new_cards_reviewed)
		VALUES (1, ?, ?)
	`, lastSessionCutoff, newCardsReviewed)
	if err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// InsertDeck creates a deck.
func (db *DB) InsertDeck(deck domain.Deck) error {
	var parent sql.NullInt64
	if deck.ParentID != nil {
		parent = sql.NullInt64{Int64: *deck.ParentID, Valid: true}
	}
	_, err := db.conn.Exec("INSERT INTO decks (id, name, parent_id) VALUES (?, ?, ?)", deck.ID, deck.Name, parent)
	if err != nil {
		return fmt.Errorf("failed to insert deck %q: %w", deck.Name, err)
	}
	return nil
}

// DeckName looks up a deck's label.
func (db *DB) DeckName(deckID int64) (string, error) {
	var name string
	err := db.conn.QueryRow("SELECT name FROM decks WHERE id = ?", deckID).Scan(&name)
	if err != nil {
		return "", fmt.Errorf("failed to find deck %d: %w", deckID, err)
	}
	return name, nil
}
