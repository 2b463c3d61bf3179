// Package store persists per-user preferences and consent flags in SQLite.
// Preference rows may carry a TTL; expired rows are invisible to reads and
// deleted lazily when a read encounters them. There is no background sweep.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ziadkadry99/uire/internal/db"
)

// PreferenceStore manages persistence of per-user preference rows.
type PreferenceStore struct {
	db  *db.DB
	now func() time.Time
}

// NewPreferenceStore creates a preference store backed by the given database.
func NewPreferenceStore(database *db.DB) *PreferenceStore {
	return &PreferenceStore{db: database, now: time.Now}
}

func (s *PreferenceStore) nowMS() int64 {
	return s.now().UnixMilli()
}

// Set upserts one preference row. A positive ttl sets expires_at relative to
// now; ttl <= 0 stores the row without expiry.
func (s *PreferenceStore) Set(ctx context.Context, userID, key, value string, ttl time.Duration) error {
	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: s.nowMS() + ttl.Milliseconds(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences(user_id, key, value, expires_at)
		 VALUES(?, ?, ?, ?)
		 ON CONFLICT(user_id, key) DO UPDATE SET value=excluded.value, expires_at=excluded.expires_at`,
		userID, key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("upserting preference: %w", err)
	}
	return nil
}

// Get returns the value for (userID, key). The second return is false when
// the row is absent or expired; an expired row is deleted before returning.
func (s *PreferenceStore) Get(ctx context.Context, userID, key string) (string, bool, error) {
	var value string
	var expiresAt sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM preferences WHERE user_id = ? AND key = ?`,
		userID, key,
	).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting preference: %w", err)
	}

	if expiresAt.Valid && expiresAt.Int64 < s.nowMS() {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM preferences WHERE user_id = ? AND key = ?`, userID, key,
		); err != nil {
			return "", false, fmt.Errorf("purging expired preference: %w", err)
		}
		return "", false, nil
	}

	return value, true, nil
}

// AllForUser returns every live preference for the user, purging any expired
// rows it encounters.
func (s *PreferenceStore) AllForUser(ctx context.Context, userID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value, expires_at FROM preferences WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	var stale []string
	nowMS := s.nowMS()
	for rows.Next() {
		var key, value string
		var expiresAt sql.NullInt64
		if err := rows.Scan(&key, &value, &expiresAt); err != nil {
			return nil, fmt.Errorf("scanning preference: %w", err)
		}
		if expiresAt.Valid && expiresAt.Int64 < nowMS {
			stale = append(stale, key)
			continue
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}
	rows.Close()

	for _, key := range stale {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM preferences WHERE user_id = ? AND key = ?`, userID, key,
		); err != nil {
			return nil, fmt.Errorf("purging expired preference: %w", err)
		}
	}

	return out, nil
}

// ClearUser deletes all preference rows for the user, expired or not.
func (s *PreferenceStore) ClearUser(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("clearing preferences: %w", err)
	}
	return nil
}
