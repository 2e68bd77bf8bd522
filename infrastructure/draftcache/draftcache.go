// Package draftcache persists in-progress memo content between sessions.
// Drafts are keyed by editor context (e.g. "new" or the memo id being
// edited) and survive process restarts via an embedded sqlite database.
package draftcache

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"memoclient/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS draft (
	key        TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	updated_ts INTEGER NOT NULL
);
`

// Cache is a persistent draft store
type Cache struct {
	db *sql.DB
}

// Open creates or opens the draft database at path. Use ":memory:" for an
// ephemeral cache.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewInternalError("open draft cache").WithCause(err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewInternalError("init draft cache schema").WithCause(err)
	}
	return &Cache{db: db}, nil
}

// Set stores the draft content for a key. Empty content removes the draft,
// so saving or clearing an editor both land here.
func (c *Cache) Set(key, content string) error {
	if content == "" {
		return c.Delete(key)
	}
	_, err := c.db.Exec(
		`INSERT INTO draft (key, content, updated_ts) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET content = excluded.content, updated_ts = excluded.updated_ts`,
		key, content, time.Now().Unix(),
	)
	if err != nil {
		return errors.NewInternalError("save draft").WithCause(err)
	}
	return nil
}

// Get returns the draft content for a key, or "" when no draft exists
func (c *Cache) Get(key string) (string, error) {
	var content string
	err := c.db.QueryRow(`SELECT content FROM draft WHERE key = ?`, key).Scan(&content)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.NewInternalError("load draft").WithCause(err)
	}
	return content, nil
}

// Delete removes the draft for a key
func (c *Cache) Delete(key string) error {
	if _, err := c.db.Exec(`DELETE FROM draft WHERE key = ?`, key); err != nil {
		return errors.NewInternalError("delete draft").WithCause(err)
	}
	return nil
}

// Clear removes every draft
func (c *Cache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM draft`); err != nil {
		return errors.NewInternalError("clear draft cache").WithCause(err)
	}
	return nil
}

// Close releases the database handle
func (c *Cache) Close() error {
	return c.db.Close()
}
