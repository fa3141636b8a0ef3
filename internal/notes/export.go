package notes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jot/internal/errors"
	"jot/internal/note"
)

// ExportVersion is the interchange version written by Export.
const ExportVersion = "1.0"

// ExportPayload is the interchange document produced by Export and consumed
// by Import.
type ExportPayload struct {
	Version    string      `json:"version"`
	Timestamp  int64       `json:"timestamp"`
	Notes      []note.Note `json:"notes"`
	Statistics *Statistics `json:"statistics"`
}

// Export produces a snapshot of the whole collection plus its statistics.
// It does not mutate or persist anything.
func (r *Repository) Export() *ExportPayload {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]note.Note, len(r.notes))
	for i, n := range r.notes {
		records[i] = *n.Clone()
	}

	return &ExportPayload{
		Version:    ExportVersion,
		Timestamp:  time.Now().UnixMilli(),
		Notes:      records,
		Statistics: r.statisticsLocked(),
	}
}

// ParseExportPayload decodes an export document, rejecting payloads whose
// "notes" field is missing or not an array before any state change can
// happen.
func ParseExportPayload(data []byte) (*ExportPayload, error) {
	var probe struct {
		Notes json.RawMessage `json:"notes"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.NewInvalidFormat(fmt.Sprintf("invalid import payload: %v", err))
	}
	trimmed := bytes.TrimSpace(probe.Notes)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.NewInvalidFormat("import payload must contain a notes array")
	}

	payload := &ExportPayload{}
	if err := json.Unmarshal(data, payload); err != nil {
		return nil, errors.NewInvalidFormat(fmt.Sprintf("invalid import payload: %v", err))
	}
	return payload, nil
}

// ImportError reports one incoming record that was skipped.
type ImportError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// ImportResult summarizes an import. Success is true only when every record
// landed and persistence succeeded.
type ImportResult struct {
	Success  bool          `json:"success"`
	Imported int           `json:"imported"`
	Errors   []ImportError `json:"errors,omitempty"`
}

// Import loads notes from an export payload. With merge=false the canonical
// collection is discarded first (in memory only); with merge=true incoming
// notes join the existing ones, and an incoming note whose id collides with
// an existing one gets a fresh id instead of overwriting. Invalid records
// are skipped with a per-index error; processing continues. One persistence
// attempt covers the whole result — on failure the collection is rolled
// back to its pre-import state entirely and a save error is returned.
func (r *Repository) Import(payload *ExportPayload, merge bool) (*ImportResult, error) {
	if payload == nil || payload.Notes == nil {
		return nil, errors.NewInvalidFormat("import payload must contain a notes array")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.notes

	var working []*note.Note
	ids := make(map[string]bool)
	if merge {
		working = make([]*note.Note, len(r.notes))
		copy(working, r.notes)
		for _, n := range r.notes {
			ids[n.ID] = true
		}
	} else {
		working = make([]*note.Note, 0, len(payload.Notes))
	}

	result := &ImportResult{}
	for i, rec := range payload.Notes {
		n := note.New(rec)
		if res := n.Validate(r.maxTags); !res.IsValid {
			result.Errors = append(result.Errors, ImportError{
				Index:   i,
				Message: strings.Join(res.Errors, "; "),
			})
			continue
		}
		// Collisions get a fresh id rather than silently overwriting. With
		// merge=false the collection starts empty, so this only fires for
		// duplicate ids inside the payload itself.
		if ids[n.ID] {
			n.ID = uuid.NewString()
		}
		ids[n.ID] = true
		working = append(working, n)
		result.Imported++
	}

	r.notes = working
	if err := r.persistLocked(); err != nil {
		r.notes = prev
		return nil, err
	}

	result.Success = len(result.Errors) == 0
	return result, nil
}
