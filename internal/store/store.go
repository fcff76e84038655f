// Package store keeps annotated scripts in a SQLite library.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/f3rmion/promptscore/internal/log"
	"github.com/f3rmion/promptscore/internal/score"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no script has the requested ID.
var ErrNotFound = errors.New("script not found")

const schema = `
CREATE TABLE IF NOT EXISTS scripts (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	modified_at TEXT NOT NULL,
	paragraphs  INTEGER NOT NULL,
	sentences   INTEGER NOT NULL,
	words       INTEGER NOT NULL,
	body        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS scripts_modified ON scripts(modified_at);
`

// Summary describes a stored script without decoding it.
type Summary struct {
	ID         uuid.UUID
	Title      string
	CreatedAt  time.Time
	ModifiedAt time.Time
	Paragraphs int
	Sentences  int
	Words      int
}

// Store is a script library backed by one SQLite file.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the library at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	log.Debug(log.CatStore, "opened library", "path", path)
	return &Store{db: db, path: path}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.path
}

// Save inserts the script or replaces the stored copy with the same ID.
func (s *Store) Save(ctx context.Context, script *score.Script) error {
	body, err := score.EncodeJSON(script)
	if err != nil {
		return fmt.Errorf("encoding script: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scripts (id, title, created_at, modified_at, paragraphs, sentences, words, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			modified_at = excluded.modified_at,
			paragraphs = excluded.paragraphs,
			sentences = excluded.sentences,
			words = excluded.words,
			body = excluded.body
	`,
		script.ID.String(),
		script.Title,
		formatTime(script.CreatedAt),
		formatTime(script.ModifiedAt),
		len(script.Paragraphs),
		script.SentenceCount(),
		script.WordCount(),
		string(body),
	)
	if err != nil {
		return fmt.Errorf("saving script %s: %w", script.ID, err)
	}
	log.Debug(log.CatStore, "saved script", "id", script.ID, "title", script.Title)
	return nil
}

// Load decodes the script with the given ID.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (*score.Script, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM scripts WHERE id = ?`, id.String()).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", id, err)
	}

	script, err := score.DecodeJSON([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("decoding script %s: %w", id, err)
	}
	return script, nil
}

// List returns every script, most recently modified first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, created_at, modified_at, paragraphs, sentences, words
		FROM scripts
		ORDER BY modified_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying scripts: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			id, title, created, modified string
			paras, sents, words          int
		)
		if err := rows.Scan(&id, &title, &created, &modified, &paras, &sents, &words); err != nil {
			return nil, fmt.Errorf("scanning script: %w", err)
		}
		summary, err := newSummary(id, title, created, modified, paras, sents, words)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scripts: %w", err)
	}
	return out, nil
}

// Latest loads the most recently modified script.
func (s *Store) Latest(ctx context.Context) (*score.Script, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM scripts ORDER BY modified_at DESC, id LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding latest script: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing script id %q: %w", id, err)
	}
	return s.Load(ctx, parsed)
}

// Delete removes a script.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scripts WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting script %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting script %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	log.Debug(log.CatStore, "deleted script", "id", id)
	return nil
}

// Resolve finds a script ID from a full UUID or a unique prefix of one.
func (s *Store) Resolve(ctx context.Context, ref string) (uuid.UUID, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM scripts WHERE id LIKE ? || '%' LIMIT 2`, ref)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolving %q: %w", ref, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return uuid.Nil, fmt.Errorf("resolving %q: %w", ref, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, fmt.Errorf("resolving %q: %w", ref, err)
	}
	switch len(ids) {
	case 0:
		return uuid.Nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return uuid.Parse(ids[0])
	default:
		return uuid.Nil, fmt.Errorf("id prefix %q is ambiguous", ref)
	}
}

func newSummary(id, title, created, modified string, paras, sents, words int) (Summary, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Summary{}, fmt.Errorf("parsing script id %q: %w", id, err)
	}
	c, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Summary{}, fmt.Errorf("parsing created_at of %s: %w", id, err)
	}
	m, err := time.Parse(time.RFC3339Nano, modified)
	if err != nil {
		return Summary{}, fmt.Errorf("parsing modified_at of %s: %w", id, err)
	}
	return Summary{
		ID:         parsed,
		Title:      title,
		CreatedAt:  c,
		ModifiedAt: m,
		Paragraphs: paras,
		Sentences:  sents,
		Words:      words,
	}, nil
}

// formatTime stores UTC with fixed-width nanoseconds so text order matches
// time order.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
