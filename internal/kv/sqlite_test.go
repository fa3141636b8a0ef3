package kv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T, quota int64) (*SQLiteStore, string) {
	t.Helper()

	dir := t.TempDir()
	s, err := OpenSQLite(dir, quota, PoolLimits{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestSQLiteStore_SetGetRoundtrip(t *testing.T) {
	s, _ := openTestStore(t, 0)

	if err := s.Set("jot:notes", `[{"id":"1"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, ok, err := s.Get("jot:notes")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || v != `[{"id":"1"}]` {
		t.Errorf("Get = (%q, %v), want stored value", v, ok)
	}
}

func TestSQLiteStore_Upsert(t *testing.T) {
	s, _ := openTestStore(t, 0)

	if err := s.Set("k", "first"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("k", "second"); err != nil {
		t.Fatalf("Set (replace) failed: %v", err)
	}

	v, _, _ := s.Get("k")
	if v != "second" {
		t.Errorf("Get = %q, want second", v)
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenSQLite(dir, 0, PoolLimits{})
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := s.Set("k", "durable"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.Close()

	s2, err := OpenSQLite(dir, 0, PoolLimits{})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	v, ok, err := s2.Get("k")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if !ok || v != "durable" {
		t.Errorf("Get after reopen = (%q, %v), want (durable, true)", v, ok)
	}
}

func TestSQLiteStore_KeysPrefix(t *testing.T) {
	s, _ := openTestStore(t, 0)

	for _, k := range []string{"jot:notes", "jot:meta", "jo", "jou:notes"} {
		if err := s.Set(k, "x"); err != nil {
			t.Fatalf("Set %q failed: %v", k, err)
		}
	}

	keys, err := s.Keys("jot:")
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("Keys(jot:) = %v, want exactly the two jot: keys", keys)
	}
}

func TestSQLiteStore_QuotaEnforced(t *testing.T) {
	s, _ := openTestStore(t, 16)

	if err := s.Set("k", "0123456789"); err != nil {
		t.Fatalf("Set within quota failed: %v", err)
	}
	err := s.Set("kk", "0123456789")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Set over quota = %v, want ErrQuotaExceeded", err)
	}

	// Replacing the same key only charges for the new value
	if err := s.Set("k", "9876543210"); err != nil {
		t.Errorf("same-size replacement should fit: %v", err)
	}
}

func TestSQLiteStore_FilePermissions(t *testing.T) {
	_, dir := openTestStore(t, 0)

	info, err := os.Stat(filepath.Join(dir, "jot.db"))
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("db file permissions = %o, want 0600", perm)
	}
}
