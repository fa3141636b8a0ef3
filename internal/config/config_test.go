package config

import (
	"os"
	"path/filepath"
	"testing"

	"jot/internal/kv"
	"jot/internal/note"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Namespace != "jot" {
		t.Errorf("Namespace = %q, want jot", cfg.Namespace)
	}
	if cfg.MaxTagsPerNote != note.DefaultMaxTags {
		t.Errorf("MaxTagsPerNote = %d, want %d", cfg.MaxTagsPerNote, note.DefaultMaxTags)
	}
	if cfg.StoreQuotaBytes != kv.DefaultQuotaBytes {
		t.Errorf("StoreQuotaBytes = %d, want %d", cfg.StoreQuotaBytes, kv.DefaultQuotaBytes)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `{
		"namespace": "custom",
		"max_tags_per_note": 5,
		"db_max_open_conns": 1,
		"disabled_tools": ["note_import", " note_export "]
	}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Namespace != "custom" {
		t.Errorf("Namespace = %q, want custom", cfg.Namespace)
	}
	if cfg.MaxTagsPerNote != 5 {
		t.Errorf("MaxTagsPerNote = %d, want 5", cfg.MaxTagsPerNote)
	}
	if cfg.DBMaxOpenConns != 1 {
		t.Errorf("DBMaxOpenConns = %d, want 1", cfg.DBMaxOpenConns)
	}
	// Unset scalars keep their defaults
	if cfg.StoreQuotaBytes != kv.DefaultQuotaBytes {
		t.Errorf("StoreQuotaBytes = %d, want default", cfg.StoreQuotaBytes)
	}
	// Tool names are trimmed
	if len(cfg.DisabledTools) != 2 || cfg.DisabledTools[1] != "note_export" {
		t.Errorf("DisabledTools = %v, want trimmed entries", cfg.DisabledTools)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("Load of invalid JSON should fail")
	}
}

func TestMerge_NegativeQuotaPassesThrough(t *testing.T) {
	cfg := Merge(DefaultConfig(), &Config{StoreQuotaBytes: -1})
	if cfg.StoreQuotaBytes != -1 {
		t.Errorf("StoreQuotaBytes = %d, want -1 (quota disabled)", cfg.StoreQuotaBytes)
	}
}

func TestMerge_DeduplicatesTools(t *testing.T) {
	cfg := Merge(
		&Config{DisabledTools: []string{"note_import"}},
		&Config{DisabledTools: []string{"note_import", "note_export", ""}},
	)
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools = %v, want deduplicated pair", cfg.DisabledTools)
	}
}
