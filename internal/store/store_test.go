package store

import (
	"context"
	"testing"
	"time"

	"github.com/ziadkadry99/uire/internal/db"
)

func setupDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestPreferenceStore_SetGet(t *testing.T) {
	s := NewPreferenceStore(setupDB(t))
	ctx := context.Background()

	if err := s.Set(ctx, "u1", "region", "IN", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	val, ok, err := s.Get(ctx, "u1", "region")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || val != "IN" {
		t.Errorf("Get = (%q, %v), want (IN, true)", val, ok)
	}

	// Overwrite.
	if err := s.Set(ctx, "u1", "region", "US", 0); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	val, _, _ = s.Get(ctx, "u1", "region")
	if val != "US" {
		t.Errorf("after overwrite Get = %q, want US", val)
	}
}

func TestPreferenceStore_GetMissing(t *testing.T) {
	s := NewPreferenceStore(setupDB(t))

	_, ok, err := s.Get(context.Background(), "nobody", "region")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected absent row")
	}
}

func TestPreferenceStore_TTLExpiry(t *testing.T) {
	s := NewPreferenceStore(setupDB(t))
	ctx := context.Background()

	if err := s.Set(ctx, "u1", "k", "v", time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Shift the clock past the expiry instead of sleeping.
	s.now = func() time.Time { return time.Now().Add(10 * time.Millisecond) }

	if _, ok, err := s.Get(ctx, "u1", "k"); err != nil {
		t.Fatalf("Get: %v", err)
	} else if ok {
		t.Error("expired row must be invisible")
	}

	// The expired row was purged, not just hidden.
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM preferences WHERE user_id='u1'`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected purge on read, %d rows remain", count)
	}
}

func TestPreferenceStore_AllForUser(t *testing.T) {
	s := NewPreferenceStore(setupDB(t))
	ctx := context.Background()

	if err := s.Set(ctx, "u1", "region", "IN", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "u1", "length", "short", time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "u2", "region", "US", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(10 * time.Millisecond) }

	prefs, err := s.AllForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("AllForUser: %v", err)
	}
	if len(prefs) != 1 || prefs["region"] != "IN" {
		t.Errorf("AllForUser = %v, want only region=IN", prefs)
	}
	if _, ok := prefs["length"]; ok {
		t.Error("AllForUser must never return an expired key")
	}
}

func TestPreferenceStore_ClearUser(t *testing.T) {
	s := NewPreferenceStore(setupDB(t))
	ctx := context.Background()

	s.Set(ctx, "u1", "a", "1", 0)
	s.Set(ctx, "u1", "b", "2", 0)
	s.Set(ctx, "u2", "a", "3", 0)

	if err := s.ClearUser(ctx, "u1"); err != nil {
		t.Fatalf("ClearUser: %v", err)
	}

	prefs, err := s.AllForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("AllForUser: %v", err)
	}
	if len(prefs) != 0 {
		t.Errorf("expected empty prefs, got %v", prefs)
	}

	// Other users untouched.
	other, _ := s.AllForUser(ctx, "u2")
	if other["a"] != "3" {
		t.Errorf("u2 prefs = %v, want a=3", other)
	}
}

func TestConsentStore(t *testing.T) {
	s := NewConsentStore(setupDB(t))
	ctx := context.Background()

	// Absence is "not yet consented", not an error.
	accepted, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if accepted {
		t.Error("expected false for unknown user")
	}

	if err := s.Set(ctx, "u1", true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if accepted, _ = s.Get(ctx, "u1"); !accepted {
		t.Error("expected true after Set(true)")
	}

	// Last write wins.
	if err := s.Set(ctx, "u1", false); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if accepted, _ = s.Get(ctx, "u1"); accepted {
		t.Error("expected false after Set(false)")
	}
}
