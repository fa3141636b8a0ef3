package web

import (
	"net/http"

	"jot/internal/config"
	"jot/internal/errors"
	"jot/internal/note"
	"jot/internal/notes"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	repo     *notes.Repository
	cfg      *config.Config
	renderer *Renderer
}

// HandleList handles GET /notes — filtered, optionally sorted note list.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	criteria := notes.Criteria{
		Keyword:  q.Get("keyword"),
		Category: note.Category(q.Get("category")),
		Priority: note.Priority(q.Get("priority")),
		Tag:      q.Get("tag"),
	}

	status := q.Get("status")
	switch status {
	case "completed":
		completed := true
		criteria.Completed = &completed
	case "pending":
		completed := false
		criteria.Completed = &completed
	}

	items := h.repo.Filter(criteria)

	sortParam := q.Get("sort")
	desc := q.Get("desc") == "1" || q.Get("desc") == "true"
	if sortParam != "" {
		field, ok := notes.ParseSortField(sortParam)
		if !ok {
			h.renderer.renderError(w, r, errors.NewInvalidRequest(
				"sort must be one of: createdAt, updatedAt, priority, title"))
			return
		}
		items = notes.SortNotes(items, field, desc)
	}

	completedCount := 0
	for _, n := range items {
		if n.IsCompleted {
			completedCount++
		}
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Notes",
			Version: h.renderer.version,
			Nav:     "notes",
		},
		Items:     items,
		Total:     len(items),
		Keyword:   criteria.Keyword,
		Category:  q.Get("category"),
		Priority:  q.Get("priority"),
		Tag:       criteria.Tag,
		Status:    status,
		Sort:      sortParam,
		Desc:      desc,
		AllTags:   h.repo.TagList(),
		Completed: completedCount,
	})
}

// HandleDetail handles GET /notes/{id} — single note with rendered content.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	n, err := h.repo.Get(id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   n.Title,
			Version: h.renderer.version,
			Nav:     "notes",
		},
		Note:         n,
		RenderedHTML: renderMarkdown(n.Content),
	})
}

// HandleToggle handles POST /notes/{id}/toggle — flip completion and go back.
func (h *Handlers) HandleToggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	n, err := h.repo.ToggleComplete(id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// Plain form posts navigate back; API clients get the updated note
	if r.Header.Get("Accept") == "application/json" {
		renderJSON(w, http.StatusOK, n)
		return
	}

	back := r.Referer()
	if back == "" {
		back = "/notes"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// HandleDelete handles DELETE /notes/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.repo.Delete(id); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleStats handles GET /stats — aggregate statistics page.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "stats", StatsPageData{
		PageData: PageData{
			Title:   "Statistics",
			Version: h.renderer.version,
			Nav:     "stats",
		},
		Stats: h.repo.Statistics(),
		Tags:  h.repo.TagList(),
	})
}
