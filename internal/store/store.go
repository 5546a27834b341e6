// Package store persists finished decks in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/roboco-io/deckstream/internal/deck"
)

var (
	// ErrNotFound is returned when no deck has the requested ID.
	ErrNotFound = errors.New("deck not found")
	// ErrUnfinished is returned when saving a deck that is still streaming.
	ErrUnfinished = errors.New("deck still has generating slides")
)

// Summary is one row of List.
type Summary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Prompt     string    `json:"prompt"`
	SlideCount int       `json:"slide_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Record is a stored deck.
type Record struct {
	Summary
	Deck *deck.Deck `json:"deck"`
}

// Store is a SQLite backed deck store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
	// now is replaced in tests.
	now func() time.Time
}

// Open opens or creates the database at path. The parent directory is
// created if needed. ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS decks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		prompt TEXT NOT NULL,
		content TEXT NOT NULL,
		slide_count INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_decks_created_at ON decks(created_at DESC);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a finished deck and returns its new ID.
func (s *Store) Save(ctx context.Context, d *deck.Deck) (string, error) {
	if d == nil {
		return "", errors.New("deck cannot be nil")
	}
	if deck.HasGenerating(d.Slides) {
		return "", ErrUnfinished
	}

	content, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode deck: %w", err)
	}

	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO decks (id, title, prompt, content, slide_count, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, d.Title, d.Prompt, string(content), len(d.Slides), s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("save deck: %w", err)
	}
	return id, nil
}

// Get loads a deck by ID. A unique ID prefix is accepted as well.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, prompt, content, slide_count, created_at FROM decks WHERE id = ? OR id LIKE ? ORDER BY id = ? DESC LIMIT 2`,
		id, id+"%", id,
	)
	if err != nil {
		return nil, fmt.Errorf("load deck: %w", err)
	}
	defer rows.Close()

	var recs []*Record
	for rows.Next() {
		var (
			rec       Record
			content   string
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Prompt, &content, &rec.SlideCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

		var d deck.Deck
		if err := json.Unmarshal([]byte(content), &d); err != nil {
			return nil, fmt.Errorf("decode deck %s: %w", rec.ID, err)
		}
		rec.Deck = &d
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load deck: %w", err)
	}

	switch {
	case len(recs) == 0:
		return nil, ErrNotFound
	case recs[0].ID == id, len(recs) == 1:
		return recs[0], nil
	default:
		return nil, fmt.Errorf("ambiguous deck id prefix %q", id)
	}
}

// List returns all decks, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, prompt, slide_count, created_at FROM decks ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var (
			sum       Summary
			createdAt string
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Prompt, &sum.SlideCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		sum.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return out, nil
}

// Delete removes a deck by its full ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
