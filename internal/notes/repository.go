// Package notes owns the canonical in-memory note collection and all
// query/mutation logic. Every mutating operation follows the same protocol:
// stage the change, validate, apply, persist the whole collection, and roll
// the in-memory change back exactly if persistence fails.
package notes

import (
	"fmt"
	"strings"
	"sync"

	"jot/internal/errors"
	"jot/internal/kv"
	"jot/internal/note"
)

// notesKey is the adapter key holding the whole collection.
const notesKey = "notes"

// Repository holds the canonical ordered sequence of notes, loaded once
// from the adapter at construction. All reads and writes go through it;
// callers receive clones, never the canonical notes themselves.
type Repository struct {
	mu      sync.RWMutex
	adapter *kv.Adapter
	maxTags int
	notes   []*note.Note
}

// NewRepository loads the collection from the adapter and returns a
// repository enforcing the given tag cap (0 means the entity default).
// An absent or corrupt stored value yields an empty collection.
func NewRepository(adapter *kv.Adapter, maxTags int) (*Repository, error) {
	var records []note.Note
	if _, err := adapter.Get(notesKey, &records); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to load notes: %w", err))
	}

	notes := make([]*note.Note, 0, len(records))
	for i := range records {
		notes = append(notes, note.New(records[i]))
	}

	return &Repository{
		adapter: adapter,
		maxTags: maxTags,
		notes:   notes,
	}, nil
}

// Create validates and appends a new note built from the given partial
// field set. On persistence failure the note is removed again and the
// collection is exactly as before.
func (r *Repository) Create(fields note.Note) (*note.Note, error) {
	fields.Title = strings.TrimSpace(fields.Title)

	n := note.New(fields)
	if res := n.Validate(r.maxTags); !res.IsValid {
		return nil, errors.NewValidationFailed(res.Errors)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.notes = append(r.notes, n)
	if err := r.persistLocked(); err != nil {
		r.notes = r.notes[:len(r.notes)-1]
		return nil, err
	}
	return n.Clone(), nil
}

// Get returns a clone of the note with the given id.
func (r *Repository) Get(id string) (*note.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := r.findLocked(id)
	if n == nil {
		return nil, errors.NewNotFound(id)
	}
	return n.Clone(), nil
}

// List returns clones of every note in collection order.
func (r *Repository) List() []*note.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*note.Note, len(r.notes))
	for i, n := range r.notes {
		out[i] = n.Clone()
	}
	return out
}

// Len returns the number of notes in the collection.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notes)
}

// Update applies a whitelisted patch to the note with the given id. If the
// patched note fails validation, or persistence fails, every field is
// restored to its pre-patch value.
func (r *Repository) Update(id string, patch note.Patch) (*note.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.findLocked(id)
	if n == nil {
		return nil, errors.NewNotFound(id)
	}

	prev := n.Clone()
	n.Update(patch)

	if res := n.Validate(r.maxTags); !res.IsValid {
		*n = *prev
		return nil, errors.NewValidationFailed(res.Errors)
	}
	if err := r.persistLocked(); err != nil {
		*n = *prev
		return nil, err
	}
	return n.Clone(), nil
}

// ToggleComplete flips the completion flag of the note with the given id.
// A failed persistence attempt reverts the toggle.
func (r *Repository) ToggleComplete(id string) (*note.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.findLocked(id)
	if n == nil {
		return nil, errors.NewNotFound(id)
	}

	prev := n.Clone()
	n.ToggleComplete()
	if err := r.persistLocked(); err != nil {
		*n = *prev
		return nil, err
	}
	return n.Clone(), nil
}

// Delete removes the note with the given id. On persistence failure the
// note is re-inserted at its original index.
func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return errors.NewNotFound(id)
	}

	prev := r.notes
	keep := make([]*note.Note, 0, len(r.notes)-1)
	keep = append(keep, r.notes[:idx]...)
	keep = append(keep, r.notes[idx+1:]...)

	r.notes = keep
	if err := r.persistLocked(); err != nil {
		r.notes = prev
		return err
	}
	return nil
}

// BatchDeleteResult reports a batch delete: how many notes were removed and
// a per-id message for every id that was not found.
type BatchDeleteResult struct {
	Deleted int      `json:"deleted"`
	Errors  []string `json:"errors,omitempty"`
}

// BatchDelete removes every note whose id appears in ids. Ids that do not
// resolve produce per-id errors without aborting the batch. A failed
// persistence attempt rolls back all deletions in the batch, restoring
// every note at its original index.
func (r *Repository) BatchDelete(ids []string) (*BatchDeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := &BatchDeleteResult{}

	marked := make(map[string]bool, len(ids))
	for _, id := range ids {
		if marked[id] {
			continue
		}
		if r.indexLocked(id) < 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("note not found: %s", id))
			continue
		}
		marked[id] = true
	}

	if len(marked) == 0 {
		return result, nil
	}

	prev := r.notes
	keep := make([]*note.Note, 0, len(r.notes)-len(marked))
	for _, n := range r.notes {
		if !marked[n.ID] {
			keep = append(keep, n)
		}
	}

	r.notes = keep
	if err := r.persistLocked(); err != nil {
		r.notes = prev
		return nil, err
	}

	result.Deleted = len(marked)
	return result, nil
}

// ClearCompleted deletes every completed note. It delegates to BatchDelete,
// so failure semantics are identical.
func (r *Repository) ClearCompleted() (*BatchDeleteResult, error) {
	r.mu.RLock()
	var ids []string
	for _, n := range r.notes {
		if n.IsCompleted {
			ids = append(ids, n.ID)
		}
	}
	r.mu.RUnlock()

	return r.BatchDelete(ids)
}

// persistLocked writes the whole collection through the adapter. The caller
// holds the write lock and is responsible for rolling back on error.
func (r *Repository) persistLocked() error {
	records := make([]note.Note, len(r.notes))
	for i, n := range r.notes {
		records[i] = *n.Clone()
	}
	if err := r.adapter.Set(notesKey, records); err != nil {
		return errors.NewSaveFailed(err)
	}
	return nil
}

// findLocked returns the canonical note with the given id, or nil.
func (r *Repository) findLocked(id string) *note.Note {
	if idx := r.indexLocked(id); idx >= 0 {
		return r.notes[idx]
	}
	return nil
}

// indexLocked returns the collection index of id, or -1.
func (r *Repository) indexLocked(id string) int {
	for i, n := range r.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
