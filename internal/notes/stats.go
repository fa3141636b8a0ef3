package notes

import (
	"math"
	"sort"

	"jot/internal/note"
)

// Statistics aggregates the collection. CompletionRate is an integer
// percentage: 0 for an empty collection, round(completed/total*100)
// otherwise. ByCategory and ByPriority always carry every fixed key.
type Statistics struct {
	Total          int                   `json:"total"`
	Completed      int                   `json:"completed"`
	Pending        int                   `json:"pending"`
	CompletionRate int                   `json:"completionRate"`
	ByCategory     map[note.Category]int `json:"byCategory"`
	ByPriority     map[note.Priority]int `json:"byPriority"`
	DistinctTags   int                   `json:"distinctTags"`
}

// Statistics computes aggregate counts over the whole collection.
func (r *Repository) Statistics() *Statistics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.statisticsLocked()
}

func (r *Repository) statisticsLocked() *Statistics {
	stats := &Statistics{
		Total:      len(r.notes),
		ByCategory: make(map[note.Category]int, len(note.Categories)),
		ByPriority: make(map[note.Priority]int, len(note.Priorities)),
	}
	for _, c := range note.Categories {
		stats.ByCategory[c] = 0
	}
	for _, p := range note.Priorities {
		stats.ByPriority[p] = 0
	}

	tags := make(map[string]bool)
	for _, n := range r.notes {
		if n.IsCompleted {
			stats.Completed++
		}
		if _, ok := stats.ByCategory[n.Category]; ok {
			stats.ByCategory[n.Category]++
		}
		if _, ok := stats.ByPriority[n.Priority]; ok {
			stats.ByPriority[n.Priority]++
		}
		for _, t := range n.Tags {
			tags[t] = true
		}
	}

	stats.Pending = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	stats.DistinctTags = len(tags)
	return stats
}

// TagList returns the distinct tags across the whole collection,
// alphabetically sorted.
func (r *Repository) TagList() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, n := range r.notes {
		for _, t := range n.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}
