package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

// LoadQuery returns the persisted response body for a cache key.
func (db *DB) LoadQuery(key string) ([]byte, time.Time, bool, error) {
	var body []byte
	var fetchedAt int64
	err := db.QueryRow(`SELECT body, fetched_at FROM query_cache WHERE key = ?`, key).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, err
	}
	return body, time.UnixMilli(fetchedAt), true, nil
}

// SaveQuery upserts a response body under key.
func (db *DB) SaveQuery(key string, body []byte, fetchedAt time.Time) error {
	_, err := db.Exec(`
		INSERT INTO query_cache (key, body, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		key, body, fetchedAt.UnixMilli())
	return err
}

// DeleteQueries removes key prefix and every key below it ("messages" also
// removes "messages/42" but not "messagesX").
func (db *DB) DeleteQueries(prefix string) error {
	_, err := db.Exec(`DELETE FROM query_cache WHERE key = ? OR key LIKE ? ESCAPE '\'`,
		prefix, escapeLike(prefix)+"/%")
	return err
}

// ClearQueries drops the whole persisted cache, used on logout.
func (db *DB) ClearQueries() error {
	_, err := db.Exec(`DELETE FROM query_cache`)
	return err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
