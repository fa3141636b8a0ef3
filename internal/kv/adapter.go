package kv

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// SnapshotVersion is the interchange version written by ExportAll.
const SnapshotVersion = "1.0"

// Adapter wraps a Store with a key namespace and JSON (de)serialization.
// Every key it touches is stored as "<namespace>:<key>" so unrelated data
// sharing the same store is never disturbed.
type Adapter struct {
	store     Store
	namespace string
}

// NewAdapter creates an Adapter over store. An empty namespace defaults
// to "jot".
func NewAdapter(store Store, namespace string) *Adapter {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = "jot"
	}
	return &Adapter{store: store, namespace: namespace}
}

// Namespace returns the adapter's key prefix.
func (a *Adapter) Namespace() string {
	return a.namespace
}

// Set serializes v to JSON and writes it under the namespaced key.
// A rejected write (quota or otherwise) is returned to the caller as a
// failed persistence attempt; it is never retried here.
func (a *Adapter) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize value for key %q: %w", key, err)
	}
	return a.store.Set(a.fullKey(key), string(data))
}

// Get reads and deserializes the value for key into out. It returns false
// when the key is absent or the stored value fails to deserialize: a corrupt
// value is treated as absence, not a fatal error, so out is left untouched
// and the caller falls back to its default.
func (a *Adapter) Get(key string, out any) (bool, error) {
	raw, ok, err := a.store.Get(a.fullKey(key))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, nil
	}
	return true, nil
}

// Remove deletes the namespaced key.
func (a *Adapter) Remove(key string) error {
	return a.store.Delete(a.fullKey(key))
}

// Has reports whether the namespaced key exists.
func (a *Adapter) Has(key string) (bool, error) {
	_, ok, err := a.store.Get(a.fullKey(key))
	return ok, err
}

// Clear removes every key under the namespace, and only those.
func (a *Adapter) Clear() error {
	keys, err := a.store.Keys(a.namespace + ":")
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := a.store.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot is a versioned dump of every key under a namespace. SnapshotID
// is a ULID, so snapshot files sort lexicographically by creation time.
type Snapshot struct {
	Version    string                     `json:"version"`
	SnapshotID string                     `json:"snapshotId"`
	Timestamp  int64                      `json:"timestamp"`
	Namespace  string                     `json:"namespace"`
	Data       map[string]json.RawMessage `json:"data"`
}

// KeyError reports a single key that failed during ImportAll.
type KeyError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ImportReport summarizes an ImportAll run. Partial failure is possible:
// Imported counts successful keys, Errors lists the rest.
type ImportReport struct {
	Imported int        `json:"imported"`
	Errors   []KeyError `json:"errors,omitempty"`
}

// ExportAll produces a snapshot of every key under the namespace.
func (a *Adapter) ExportAll() (*Snapshot, error) {
	prefix := a.namespace + ":"
	keys, err := a.store.Keys(prefix)
	if err != nil {
		return nil, err
	}

	data := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		raw, ok, err := a.store.Get(k)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if !json.Valid([]byte(raw)) {
			// Corrupt value: treat as absent, same as Get.
			continue
		}
		data[strings.TrimPrefix(k, prefix)] = json.RawMessage(raw)
	}

	return &Snapshot{
		Version:    SnapshotVersion,
		SnapshotID: newSnapshotID(),
		Timestamp:  time.Now().UnixMilli(),
		Namespace:  a.namespace,
		Data:       data,
	}, nil
}

// ImportAll writes every key from the snapshot under the adapter's
// namespace. When overwrite is true, the namespace is cleared first. Keys
// that fail to write are collected in the report; the rest still land.
func (a *Adapter) ImportAll(snap *Snapshot, overwrite bool) (*ImportReport, error) {
	if snap == nil || snap.Data == nil {
		return nil, fmt.Errorf("snapshot has no data")
	}

	if overwrite {
		if err := a.Clear(); err != nil {
			return nil, err
		}
	}

	report := &ImportReport{}
	for key, raw := range snap.Data {
		if err := a.store.Set(a.fullKey(key), string(raw)); err != nil {
			report.Errors = append(report.Errors, KeyError{
				Key:     key,
				Message: err.Error(),
			})
			continue
		}
		report.Imported++
	}
	return report, nil
}

func (a *Adapter) fullKey(key string) string {
	return a.namespace + ":" + key
}

// newSnapshotID generates a ULID for a snapshot.
func newSnapshotID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
