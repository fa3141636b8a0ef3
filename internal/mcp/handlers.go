package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"jot/internal/config"
	"jot/internal/errors"
	"jot/internal/note"
	"jot/internal/notes"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	repo *notes.Repository
	cfg  *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(repo *notes.Repository, cfg *config.Config) *Handlers {
	return &Handlers{repo: repo, cfg: cfg}
}

// Request types for each tool

// CreateRequest represents the arguments for note_create.
type CreateRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
	Category string `json:"category,omitempty"`
	Priority string `json:"priority,omitempty"`
	Tags     string `json:"tags,omitempty"`
}

// GetRequest represents the arguments for note_get.
type GetRequest struct {
	ID string `json:"id"`
}

// ListRequest represents the arguments for note_list.
type ListRequest struct {
	Keyword   string `json:"keyword,omitempty"`
	Category  string `json:"category,omitempty"`
	Priority  string `json:"priority,omitempty"`
	Tag       string `json:"tag,omitempty"`
	Completed *bool  `json:"completed,omitempty"`
	Sort      string `json:"sort,omitempty"`
	Desc      bool   `json:"desc,omitempty"`
}

// UpdateRequest represents the arguments for note_update.
type UpdateRequest struct {
	ID       string  `json:"id"`
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Category *string `json:"category,omitempty"`
	Priority *string `json:"priority,omitempty"`
	Tags     *string `json:"tags,omitempty"`
}

// DeleteRequest represents the arguments for note_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// BatchDeleteRequest represents the arguments for note_batch_delete.
type BatchDeleteRequest struct {
	IDs string `json:"ids"`
}

// ToggleRequest represents the arguments for note_toggle.
type ToggleRequest struct {
	ID string `json:"id"`
}

// ImportRequest represents the arguments for note_import.
type ImportRequest struct {
	Data  string `json:"data"`
	Merge bool   `json:"merge,omitempty"`
}

// Handler implementations

// HandleCreate handles the note_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	created, err := h.repo.Create(note.Note{
		Title:    input.Title,
		Content:  input.Content,
		Category: note.Category(input.Category),
		Priority: note.Priority(input.Priority),
		Tags:     splitTags(input.Tags),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(created)
}

// HandleGet handles the note_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	n, err := h.repo.Get(input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(n)
}

// HandleList handles the note_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result := h.repo.Filter(notes.Criteria{
		Keyword:   input.Keyword,
		Category:  note.Category(input.Category),
		Priority:  note.Priority(input.Priority),
		Tag:       input.Tag,
		Completed: input.Completed,
	})

	if input.Sort != "" {
		field, ok := notes.ParseSortField(input.Sort)
		if !ok {
			return errorResult(errors.NewInvalidRequest(
				"sort must be one of: createdAt, updatedAt, priority, title")), nil
		}
		result = notes.SortNotes(result, field, input.Desc)
	}

	return successResult(map[string]any{
		"items": result,
		"total": len(result),
	})
}

// HandleUpdate handles the note_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	var patch note.Patch
	patch.Title = input.Title
	patch.Content = input.Content
	if input.Category != nil {
		category := note.Category(*input.Category)
		patch.Category = &category
	}
	if input.Priority != nil {
		priority := note.Priority(*input.Priority)
		patch.Priority = &priority
	}
	if input.Tags != nil {
		tags := splitTags(*input.Tags)
		patch.Tags = &tags
	}

	updated, err := h.repo.Update(input.ID, patch)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(updated)
}

// HandleDelete handles the note_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	if err := h.repo.Delete(input.ID); err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"deleted": 1})
}

// HandleBatchDelete handles the note_batch_delete tool call.
func (h *Handlers) HandleBatchDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BatchDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	ids := splitTags(input.IDs)
	if len(ids) == 0 {
		return errorResult(errors.NewInvalidRequest("at least one id is required")), nil
	}

	result, err := h.repo.BatchDelete(ids)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleToggle handles the note_toggle tool call.
func (h *Handlers) HandleToggle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ToggleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	n, err := h.repo.ToggleComplete(input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(n)
}

// HandleClearCompleted handles the note_clear_completed tool call.
func (h *Handlers) HandleClearCompleted(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.repo.ClearCompleted()
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStats handles the note_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.repo.Statistics())
}

// HandleTags handles the note_tags tool call.
func (h *Handlers) HandleTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(map[string]any{"tags": h.repo.TagList()})
}

// HandleExport handles the note_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.repo.Export())
}

// HandleImport handles the note_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Data == "" {
		return errorResult(errors.NewInvalidRequest("data is required")), nil
	}

	payload, perr := notes.ParseExportPayload([]byte(input.Data))
	if perr != nil {
		return errorResult(perr), nil
	}

	result, ierr := h.repo.Import(payload, input.Merge)
	if ierr != nil {
		return errorResult(ierr), nil
	}

	return successResult(result)
}

// Helpers

// splitTags splits a comma-separated string, trimming whitespace and
// dropping empties.
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// errorResult converts an error into an MCP error result with JSON payload.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if jErr, ok := err.(*errors.JotError); ok {
		errorObj := map[string]any{
			"code":    jErr.Code,
			"message": jErr.Message,
			"status":  jErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths
		if jErr.Code != errors.ErrInternal && jErr.Details != nil {
			errorObj["details"] = jErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult wraps data in a JSON tool result.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
