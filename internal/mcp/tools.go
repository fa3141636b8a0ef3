package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var createToolDef = mcp.NewTool("note_create",
	mcp.WithDescription("Create a note. Title is required; category, priority, and tags are optional."),
	mcp.WithString("title",
		mcp.Required(),
		mcp.Description("Note title (1-100 characters after trimming)"),
	),
	mcp.WithString("content",
		mcp.Description("Note content (up to 5000 characters)"),
	),
	mcp.WithString("category",
		mcp.Description("Category: Work, Life, Study, or Other (default: Other)"),
	),
	mcp.WithString("priority",
		mcp.Description("Priority: High, Medium, or Low (default: Medium)"),
	),
	mcp.WithString("tags",
		mcp.Description("Comma-separated tags (each up to 20 characters, no duplicates)"),
	),
)

var getToolDef = mcp.NewTool("note_get",
	mcp.WithDescription("Fetch a single note by its id."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Note id"),
	),
)

var listToolDef = mcp.NewTool("note_list",
	mcp.WithDescription("List notes with optional filters and sorting. All filters compose as AND."),
	mcp.WithString("keyword",
		mcp.Description("Case-insensitive substring match against title and content"),
	),
	mcp.WithString("category",
		mcp.Description("Filter by category; 'all' or empty means no constraint"),
	),
	mcp.WithString("priority",
		mcp.Description("Filter by priority; 'all' or empty means no constraint"),
	),
	mcp.WithString("tag",
		mcp.Description("Only notes carrying this exact tag"),
	),
	mcp.WithBoolean("completed",
		mcp.Description("Filter by completion status (omit for both)"),
	),
	mcp.WithString("sort",
		mcp.Description("Sort field: createdAt, updatedAt, priority, or title"),
	),
	mcp.WithBoolean("desc",
		mcp.Description("Sort descending"),
	),
)

var updateToolDef = mcp.NewTool("note_update",
	mcp.WithDescription("Update fields of an existing note. Only supplied fields change; tags replace the whole list."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Note id"),
	),
	mcp.WithString("title",
		mcp.Description("New title"),
	),
	mcp.WithString("content",
		mcp.Description("New content"),
	),
	mcp.WithString("category",
		mcp.Description("New category"),
	),
	mcp.WithString("priority",
		mcp.Description("New priority"),
	),
	mcp.WithString("tags",
		mcp.Description("New comma-separated tags (replaces the existing list)"),
	),
)

var deleteToolDef = mcp.NewTool("note_delete",
	mcp.WithDescription("Delete a note by id."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Note id"),
	),
)

var batchDeleteToolDef = mcp.NewTool("note_batch_delete",
	mcp.WithDescription("Delete several notes at once. Unknown ids produce per-id errors without aborting the batch."),
	mcp.WithString("ids",
		mcp.Required(),
		mcp.Description("Comma-separated note ids"),
	),
)

var toggleToolDef = mcp.NewTool("note_toggle",
	mcp.WithDescription("Flip a note's completion status."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Note id"),
	),
)

var clearCompletedToolDef = mcp.NewTool("note_clear_completed",
	mcp.WithDescription("Delete every completed note."),
)

var statsToolDef = mcp.NewTool("note_stats",
	mcp.WithDescription("Aggregate statistics: totals, completion rate, per-category and per-priority counts, distinct tags."),
)

var tagsToolDef = mcp.NewTool("note_tags",
	mcp.WithDescription("List the distinct tags across all notes, alphabetically."),
)

var exportToolDef = mcp.NewTool("note_export",
	mcp.WithDescription("Export all notes (plus statistics) as a JSON document."),
)

var importToolDef = mcp.NewTool("note_import",
	mcp.WithDescription("Import notes from a JSON export document. Invalid records are skipped with per-record errors."),
	mcp.WithString("data",
		mcp.Required(),
		mcp.Description("JSON export document as produced by note_export"),
	),
	mcp.WithBoolean("merge",
		mcp.Description("Merge into the existing collection instead of replacing it (default: false)"),
	),
)
