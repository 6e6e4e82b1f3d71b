package topic

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when no topic has the requested ID.
	ErrNotFound = errors.New("topic not found")
	// ErrExists is returned when adding a topic whose name is taken.
	ErrExists = errors.New("topic already exists")
)

// Topic is a named list of event page URLs.
type Topic struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	URLs []string `json:"urls"`
}

// Store handles topic persistence.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at path and initializes the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS topics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS urls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT UNIQUE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS topics_urls (
		topic_id INTEGER NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
		url_id INTEGER NOT NULL REFERENCES urls(id),
		PRIMARY KEY (topic_id, url_id)
	);

	CREATE INDEX IF NOT EXISTS idx_topics_urls_url ON topics_urls(url_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Add creates a topic with the given URLs. URLs already known to the store
// are reused; duplicates within urls are stored once.
func (s *Store) Add(ctx context.Context, name string, urls []string) (Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Topic{}, errors.New("topic name is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Topic{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO topics (name) VALUES (?)`, name)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return Topic{}, fmt.Errorf("%w: %s", ErrExists, name)
		}
		return Topic{}, fmt.Errorf("failed to insert topic: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Topic{}, fmt.Errorf("failed to retrieve topic id: %w", err)
	}

	stored := make([]string, 0, len(urls))
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true

		if _, err := tx.ExecContext(ctx, `INSERT INTO urls (url) VALUES (?) ON CONFLICT(url) DO NOTHING`, u); err != nil {
			return Topic{}, fmt.Errorf("failed to insert url: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO topics_urls (topic_id, url_id)
			VALUES (?, (SELECT id FROM urls WHERE url = ?))
		`, id, u); err != nil {
			return Topic{}, fmt.Errorf("failed to link url: %w", err)
		}
		stored = append(stored, u)
	}

	if err := tx.Commit(); err != nil {
		return Topic{}, fmt.Errorf("failed to commit topic: %w", err)
	}
	return Topic{ID: id, Name: name, URLs: stored}, nil
}

// List returns all topics ordered by ID, each with its own URLs.
func (s *Store) List(ctx context.Context) ([]Topic, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM topics ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	topics := make([]Topic, 0)
	for rows.Next() {
		var t Topic
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating topics: %w", err)
	}

	for i := range topics {
		urls, err := s.urls(ctx, topics[i].ID)
		if err != nil {
			return nil, err
		}
		topics[i].URLs = urls
	}
	return topics, nil
}

// Get returns the topic with the given ID or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (Topic, error) {
	t := Topic{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM topics WHERE id = ?`, id).Scan(&t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Topic{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Topic{}, fmt.Errorf("failed to get topic: %w", err)
	}

	urls, err := s.urls(ctx, id)
	if err != nil {
		return Topic{}, err
	}
	t.URLs = urls
	return t, nil
}

// Delete removes a topic. URLs stay in the store for other topics.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM topics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

func (s *Store) urls(ctx context.Context, topicID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT urls.url
		FROM urls
		JOIN topics_urls ON topics_urls.url_id = urls.id
		WHERE topics_urls.topic_id = ?
		ORDER BY urls.id
	`, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to load topic urls: %w", err)
	}
	defer rows.Close()

	urls := make([]string, 0)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating urls: %w", err)
	}
	return urls, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
