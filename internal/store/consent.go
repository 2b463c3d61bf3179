package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ziadkadry99/uire/internal/db"
)

// ConsentStore tracks one boolean consent flag per user. The last write
// wins; rows never expire.
type ConsentStore struct {
	db  *db.DB
	now func() time.Time
}

// NewConsentStore creates a consent store backed by the given database.
func NewConsentStore(database *db.DB) *ConsentStore {
	return &ConsentStore{db: database, now: time.Now}
}

// Set upserts the consent flag with the current timestamp.
func (s *ConsentStore) Set(ctx context.Context, userID string, accepted bool) error {
	val := 0
	if accepted {
		val = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO consent(user_id, accepted, ts)
		 VALUES(?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET accepted=excluded.accepted, ts=excluded.ts`,
		userID, val, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upserting consent: %w", err)
	}
	return nil
}

// Get reports whether the user has consented. A missing row is not an
// error; it is the "not yet consented" state.
func (s *ConsentStore) Get(ctx context.Context, userID string) (bool, error) {
	var accepted int
	err := s.db.QueryRowContext(ctx,
		`SELECT accepted FROM consent WHERE user_id = ?`, userID,
	).Scan(&accepted)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("getting consent: %w", err)
	}
	return accepted != 0, nil
}
