package storage

const schema = `
-- Decks group cards. A single default deck is created on first run.
CREATE TABLE IF NOT EXISTS decks (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    parent_id INTEGER,

    FOREIGN KEY(parent_id) REFERENCES decks(id)
);

-- Contents hold the displayable vocabulary pairs cards are built from.
-- Ids are epoch milliseconds of creation.
CREATE TABLE IF NOT EXISTS contents (
    id INTEGER PRIMARY KEY,
    de TEXT NOT NULL,
    en TEXT NOT NULL
);

-- Cards carry the per-card memory state. All timestamps are epoch millis.
-- state: 0 New, 1 Learning, 2 Review, 3 Relearning.
CREATE TABLE IF NOT EXISTS cards (
    id INTEGER PRIMARY KEY,
    deck_id INTEGER NOT NULL,
    content_id INTEGER NOT NULL,
    state INTEGER NOT NULL DEFAULT 0,
    step INTEGER,
    stability REAL,
    difficulty REAL,
    due INTEGER NOT NULL,
    last_review INTEGER,

    FOREIGN KEY(deck_id) REFERENCES decks(id),
    FOREIGN KEY(content_id) REFERENCES contents(id)
);

CREATE INDEX IF NOT EXISTS idx_cards_deck_state_due ON cards(deck_id, state, due);

-- Revlogs are append-only; rows are never updated or deleted.
CREATE TABLE IF NOT EXISTS revlogs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    card_id INTEGER NOT NULL,
    rating INTEGER NOT NULL,
    review_datetime INTEGER NOT NULL,
    review_duration INTEGER,

    FOREIGN KEY(card_id) REFERENCES cards(id)
);

-- Metadata is a singleton row (id = 1) carrying cross-session budget state.
CREATE TABLE IF NOT EXISTS metadata (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    last_session_cutoff INTEGER NOT NULL,
    new_cards_reviewed INTEGER NOT NULL
);
`
