package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"jot/internal/kv"
	"jot/internal/note"
)

// Config holds application configuration.
type Config struct {
	// Namespace is the key prefix isolating jot's data in the store.
	Namespace string `json:"namespace,omitempty"`

	// MaxTagsPerNote caps tags per note. The entity invariant is 10;
	// a deployment may configure a stricter cap (e.g. 5), never a looser
	// one — larger values are clamped at validation time.
	MaxTagsPerNote int `json:"max_tags_per_note,omitempty"`

	// StoreQuotaBytes is the byte budget enforced by the store.
	// 0 means the default (5 MiB); negative disables the quota.
	StoreQuotaBytes int64 `json:"store_quota_bytes,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized. 0 means the sql.DB
	// default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means the sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Namespace:       "jot",
		MaxTagsPerNote:  note.DefaultMaxTags,
		StoreQuotaBytes: kv.DefaultQuotaBytes,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns the default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.jot.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns a zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge combines base and overlay configs. Overlay values take precedence
// for scalars; the tool list is merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Namespace = strings.TrimSpace(overlay.Namespace)
	if result.Namespace == "" {
		result.Namespace = base.Namespace
	}

	result.MaxTagsPerNote = overlay.MaxTagsPerNote
	if result.MaxTagsPerNote == 0 {
		result.MaxTagsPerNote = base.MaxTagsPerNote
	}

	result.StoreQuotaBytes = overlay.StoreQuotaBytes
	if result.StoreQuotaBytes == 0 {
		result.StoreQuotaBytes = base.StoreQuotaBytes
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes
// duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
