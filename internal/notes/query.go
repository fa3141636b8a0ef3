package notes

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"jot/internal/note"
)

// All is the sentinel value accepted for category/priority criteria meaning
// "no constraint", alongside the empty string.
const All = "all"

// Criteria is an ephemeral filter. Every field is independently optional;
// omitted (or "all") criteria impose no constraint. Composition is pure
// conjunction: a note matches only if it satisfies every supplied criterion.
type Criteria struct {
	// Keyword matches case-insensitively as a substring of title or content.
	Keyword string

	Category note.Category
	Priority note.Priority

	// Tag must be present verbatim in the note's tag list.
	Tag string

	// Completed filters by completion status when non-nil.
	Completed *bool
}

// Filter returns clones of the notes matching the conjunction of all
// supplied criteria, in collection order. The canonical sequence is never
// handed out.
func (r *Repository) Filter(c Criteria) []*note.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*note.Note, 0, len(r.notes))
	for _, n := range r.notes {
		if matches(n, c) {
			out = append(out, n.Clone())
		}
	}
	return out
}

// matches reports whether n satisfies every supplied criterion.
func matches(n *note.Note, c Criteria) bool {
	if kw := strings.ToLower(strings.TrimSpace(c.Keyword)); kw != "" {
		title := strings.ToLower(n.Title)
		content := strings.ToLower(n.Content)
		if !strings.Contains(title, kw) && !strings.Contains(content, kw) {
			return false
		}
	}
	if constrains(string(c.Category)) && n.Category != c.Category {
		return false
	}
	if constrains(string(c.Priority)) && n.Priority != c.Priority {
		return false
	}
	if c.Tag != "" && !n.HasTag(c.Tag) {
		return false
	}
	if c.Completed != nil && n.IsCompleted != *c.Completed {
		return false
	}
	return true
}

// constrains reports whether a criterion value actually constrains, i.e. is
// neither empty nor the "all" sentinel.
func constrains(v string) bool {
	return v != "" && !strings.EqualFold(v, All)
}

// SortField selects the note attribute to order by.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByPriority  SortField = "priority"
	SortByTitle     SortField = "title"
)

// ParseSortField maps a user-supplied field name to a SortField.
func ParseSortField(s string) (SortField, bool) {
	switch SortField(s) {
	case SortByCreatedAt, SortByUpdatedAt, SortByPriority, SortByTitle:
		return SortField(s), true
	}
	return "", false
}

// SortNotes returns a sorted copy of notes. The sort is stable: notes with
// equal keys keep their relative input order. Priority orders by rank
// (High > Medium > Low), title uses locale-aware collation, and the
// timestamp fields compare numerically.
func SortNotes(in []*note.Note, field SortField, desc bool) []*note.Note {
	out := make([]*note.Note, len(in))
	copy(out, in)

	// A Collator is not safe for concurrent use, so build one per call.
	var titles *collate.Collator
	if field == SortByTitle {
		titles = collate.New(language.Und, collate.IgnoreCase)
	}

	cmp := func(a, b *note.Note) int {
		switch field {
		case SortByUpdatedAt:
			return compareInt64(a.UpdatedAt, b.UpdatedAt)
		case SortByPriority:
			return a.Priority.Rank() - b.Priority.Rank()
		case SortByTitle:
			return titles.CompareString(a.Title, b.Title)
		default: // SortByCreatedAt
			return compareInt64(a.CreatedAt, b.CreatedAt)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return cmp(out[i], out[j]) > 0
		}
		return cmp(out[i], out[j]) < 0
	})
	return out
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
