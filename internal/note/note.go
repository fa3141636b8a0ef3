// Package note defines the persisted note entity and its validation rules.
// The package does no I/O; persistence and collection logic live in
// internal/notes.
package note

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Category classifies a note.
type Category string

const (
	CategoryWork  Category = "Work"
	CategoryLife  Category = "Life"
	CategoryStudy Category = "Study"
	CategoryOther Category = "Other"
)

// Categories lists all valid categories in display order.
var Categories = []Category{CategoryWork, CategoryLife, CategoryStudy, CategoryOther}

// Valid reports whether c is one of the four fixed categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryLife, CategoryStudy, CategoryOther:
		return true
	}
	return false
}

// Priority ranks a note's urgency.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists all valid priorities from highest to lowest.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the three fixed priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank returns the numeric rank used for priority ordering:
// High(3) > Medium(2) > Low(1). Unknown priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Field limits.
const (
	TitleMaxChars   = 100
	ContentMaxChars = 5000
	TagMaxChars     = 20

	// DefaultMaxTags is the entity-level tag cap. Deployments may configure
	// a stricter cap, never a looser one.
	DefaultMaxTags = 10
)

// Note is the persisted unit of content. The JSON tags are the wire format:
// this exact shape is what the store holds and what export files contain.
// Timestamps are integer milliseconds since epoch.
type Note struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Category    Category `json:"category"`
	Priority    Priority `json:"priority"`
	Tags        []string `json:"tags"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
	IsCompleted bool     `json:"isCompleted"`
}

// New constructs a note from a partial field set, applying defaults for
// every omitted field: a fresh UUID when ID is absent, Other/Medium for
// category/priority, and creation timestamps. The tag slice is copied, never
// shared with the caller.
func New(fields Note) *Note {
	n := fields
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Category == "" {
		n.Category = CategoryOther
	}
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	n.Tags = copyTags(fields.Tags)

	now := Now()
	if n.CreatedAt == 0 {
		n.CreatedAt = now
	}
	if n.UpdatedAt == 0 {
		n.UpdatedAt = n.CreatedAt
	}
	return &n
}

// Patch is the whitelisted field set an update may change. Nil fields are
// left untouched; anything outside this set cannot be patched at all.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	IsCompleted *bool     `json:"isCompleted,omitempty"`
}

// Update applies the patch and refreshes UpdatedAt. Incoming tag slices are
// copied to avoid aliasing with the caller.
func (n *Note) Update(p Patch) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Category != nil {
		n.Category = *p.Category
	}
	if p.Priority != nil {
		n.Priority = *p.Priority
	}
	if p.Tags != nil {
		n.Tags = copyTags(*p.Tags)
	}
	if p.IsCompleted != nil {
		n.IsCompleted = *p.IsCompleted
	}
	n.touch()
}

// ToggleComplete flips IsCompleted and refreshes UpdatedAt.
func (n *Note) ToggleComplete() {
	n.IsCompleted = !n.IsCompleted
	n.touch()
}

// AddTag appends tag if not already present. Returns true on actual change;
// UpdatedAt is refreshed only then.
func (n *Note) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || n.HasTag(tag) {
		return false
	}
	n.Tags = append(n.Tags, tag)
	n.touch()
	return true
}

// RemoveTag removes tag if present. Returns true on actual change;
// UpdatedAt is refreshed only then.
func (n *Note) RemoveTag(tag string) bool {
	for i, t := range n.Tags {
		if t == tag {
			n.Tags = append(n.Tags[:i], n.Tags[i+1:]...)
			n.touch()
			return true
		}
	}
	return false
}

// HasTag reports whether tag is present.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ValidationResult accumulates every rule violation found by Validate.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// Validate checks every field rule and accumulates all violations rather
// than short-circuiting. maxTags <= 0 or > DefaultMaxTags falls back to the
// entity cap of DefaultMaxTags; configured caps may only tighten it.
// This is the single rule set for note validity: callers do not pre-validate.
func (n *Note) Validate(maxTags int) ValidationResult {
	if maxTags <= 0 || maxTags > DefaultMaxTags {
		maxTags = DefaultMaxTags
	}

	var errs []string

	if strings.TrimSpace(n.Title) == "" {
		errs = append(errs, "title must not be empty")
	}
	if utf8.RuneCountInString(strings.TrimSpace(n.Title)) > TitleMaxChars {
		errs = append(errs, fmt.Sprintf("title must be at most %d characters", TitleMaxChars))
	}
	if utf8.RuneCountInString(n.Content) > ContentMaxChars {
		errs = append(errs, fmt.Sprintf("content must be at most %d characters", ContentMaxChars))
	}
	if !n.Category.Valid() {
		errs = append(errs, fmt.Sprintf("category must be one of: %s", joinCategories()))
	}
	if !n.Priority.Valid() {
		errs = append(errs, fmt.Sprintf("priority must be one of: %s", joinPriorities()))
	}
	if len(n.Tags) > maxTags {
		errs = append(errs, fmt.Sprintf("at most %d tags allowed", maxTags))
	}
	seen := make(map[string]bool, len(n.Tags))
	for _, t := range n.Tags {
		if strings.TrimSpace(t) == "" {
			errs = append(errs, "tags must not be empty")
			continue
		}
		if utf8.RuneCountInString(t) > TagMaxChars {
			errs = append(errs, fmt.Sprintf("tag %q exceeds %d characters", t, TagMaxChars))
		}
		if seen[t] {
			errs = append(errs, fmt.Sprintf("duplicate tag %q", t))
		}
		seen[t] = true
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// Clone returns a deep copy: the tag slice is copied so mutating the clone
// never affects the original.
func (n *Note) Clone() *Note {
	c := *n
	c.Tags = copyTags(n.Tags)
	return &c
}

// Now returns the current time in integer milliseconds since epoch, the
// timestamp unit of the wire format.
func Now() int64 {
	return time.Now().UnixMilli()
}

// touch refreshes UpdatedAt, guaranteeing a strictly larger value even when
// two mutations land within the same millisecond.
func (n *Note) touch() {
	now := Now()
	if now <= n.UpdatedAt {
		now = n.UpdatedAt + 1
	}
	n.UpdatedAt = now
}

// copyTags returns a fresh, never-nil copy of tags.
func copyTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

func joinCategories() string {
	parts := make([]string, len(Categories))
	for i, c := range Categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func joinPriorities() string {
	parts := make([]string, len(Priorities))
	for i, p := range Priorities {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
