// Package store persists the feed to sqlite. It is a passive mirror of the
// in-memory feed: the pipeline stays correct without it, it only makes the
// history survive restarts.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lucasdcanova/SeemsSmartToMe/internal/enrich"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/feed"
)

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS feed_items (
			id         INTEGER PRIMARY KEY,
			topics     TEXT NOT NULL DEFAULT '[]',
			summary    TEXT NOT NULL DEFAULT '',
			intents    TEXT NOT NULL DEFAULT '[]',
			questions  TEXT NOT NULL DEFAULT '[]',
			news       TEXT NOT NULL DEFAULT '[]',
			insights   TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// SaveItem upserts one feed item.
func (s *Store) SaveItem(item feed.Item) error {
	_, err := s.writeDB.Exec(`
		INSERT INTO feed_items (id, topics, summary, intents, questions, news, insights, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			topics = excluded.topics,
			summary = excluded.summary,
			intents = excluded.intents,
			questions = excluded.questions,
			created_at = excluded.created_at
	`, item.ID, asJSON(item.Topics), item.Summary, asJSON(item.Intents),
		asJSON(item.Questions), asJSON(item.News), asJSON(item.Insights),
		item.Timestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving item %d: %w", item.ID, err)
	}
	return nil
}

// UpdateEnrichment replaces the news and insight lists of one item.
func (s *Store) UpdateEnrichment(id int64, e enrich.Enrichment) error {
	_, err := s.writeDB.Exec(`
		UPDATE feed_items SET news = ?, insights = ? WHERE id = ?
	`, asJSON(e.News), asJSON(e.Insights), id)
	if err != nil {
		return fmt.Errorf("updating enrichment for %d: %w", id, err)
	}
	return nil
}

// LoadItems returns the whole persisted feed, oldest first.
func (s *Store) LoadItems() ([]feed.Item, error) {
	rows, err := s.readDB.Query(`
		SELECT id, topics, summary, intents, questions, news, insights, created_at
		FROM feed_items ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying feed: %w", err)
	}
	defer rows.Close()

	var items []feed.Item
	for rows.Next() {
		var (
			it        feed.Item
			topics    string
			intents   string
			questions string
			news      string
			insights  string
			created   string
		)
		if err := rows.Scan(&it.ID, &topics, &it.Summary, &intents, &questions, &news, &insights, &created); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		fromJSON(topics, &it.Topics)
		fromJSON(intents, &it.Intents)
		fromJSON(questions, &it.Questions)
		fromJSON(news, &it.News)
		fromJSON(insights, &it.Insights)
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			it.Timestamp = t
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Clear deletes the whole history.
func (s *Store) Clear() error {
	_, err := s.writeDB.Exec(`DELETE FROM feed_items`)
	return err
}

// Stats returns the item count and the db file size.
func (s *Store) Stats(dbPath string) (int64, int64, error) {
	var count int64
	if err := s.readDB.QueryRow(`SELECT COUNT(*) FROM feed_items`).Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting items: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("stating db file: %w", err)
	}
	return count, info.Size(), nil
}

func asJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func fromJSON[T any](s string, v *T) {
	// Malformed rows degrade to zero values rather than failing the load.
	_ = json.Unmarshal([]byte(s), v)
}
