package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"jot/internal/config"
	"jot/internal/errors"
	"jot/internal/kv"
	"jot/internal/note"
	"jot/internal/notes"
	"jot/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(repo *notes.Repository, adapter *kv.Adapter, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "jot",
		Usage:   "Single-user note keeper",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(repo),
			getCmd(repo),
			listCmd(repo),
			updateCmd(repo),
			deleteCmd(repo),
			toggleCmd(repo),
			clearCompletedCmd(repo),
			statsCmd(repo),
			tagsCmd(repo),
			exportCmd(repo),
			importCmd(repo),
			backupCmd(adapter),
			restoreCmd(adapter),
			serveCmd(repo, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(repo *notes.Repository) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a new note (content from --content or stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Note title"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Note content"},
			&cli.StringFlag{Name: "category", Usage: "Category: Work|Life|Study|Other"},
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "Priority: High|Medium|Low"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
		},
		Action: func(c *cli.Context) error {
			content := c.String("content")
			if content == "" && stdinHasData() {
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				content = text
			}

			created, err := repo.Create(note.Note{
				Title:    c.String("title"),
				Content:  content,
				Category: note.Category(c.String("category")),
				Priority: note.Priority(c.String("priority")),
				Tags:     parseTags(c.String("tags")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(created)
		},
	}
}

// getCmd creates the get command.
func getCmd(repo *notes.Repository) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get a note by ID",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}

			n, err := repo.Get(c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(n)
		},
	}
}

// listCmd creates the list command.
func listCmd(repo *notes.Repository) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List notes with optional filters and sorting",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "keyword", Aliases: []string{"k"}, Usage: "Substring match against title and content"},
			&cli.StringFlag{Name: "category", Usage: "Filter by category (or 'all')"},
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "Filter by priority (or 'all')"},
			&cli.StringFlag{Name: "tag", Usage: "Filter by tag"},
			&cli.BoolFlag{Name: "completed", Usage: "Only completed notes"},
			&cli.BoolFlag{Name: "pending", Usage: "Only pending notes"},
			&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "Sort by: createdAt|updatedAt|priority|title"},
			&cli.BoolFlag{Name: "desc", Usage: "Sort descending"},
		},
		Action: func(c *cli.Context) error {
			criteria := notes.Criteria{
				Keyword:  c.String("keyword"),
				Category: note.Category(c.String("category")),
				Priority: note.Priority(c.String("priority")),
				Tag:      c.String("tag"),
			}
			if c.Bool("completed") {
				completed := true
				criteria.Completed = &completed
			} else if c.Bool("pending") {
				completed := false
				criteria.Completed = &completed
			}

			result := repo.Filter(criteria)

			if sortFlag := c.String("sort"); sortFlag != "" {
				field, ok := notes.ParseSortField(sortFlag)
				if !ok {
					return outputError(errors.NewInvalidRequest(
						"sort must be one of: createdAt, updatedAt, priority, title"))
				}
				result = notes.SortNotes(result, field, c.Bool("desc"))
			}

			return outputJSON(map[string]any{
				"items": result,
				"total": len(result),
			})
		},
	}
}

// updateCmd creates the update command.
func updateCmd(repo *notes.Repository) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a note (content from --content or stdin)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "New content"},
			&cli.StringFlag{Name: "category", Usage: "New category"},
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "New priority"},
			&cli.StringFlag{Name: "tags", Usage: "New comma-separated tags (replaces all)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}

			var patch note.Patch
			if c.IsSet("title") {
				title := c.String("title")
				patch.Title = &title
			}
			if c.IsSet("content") {
				content := c.String("content")
				patch.Content = &content
			} else if stdinHasData() {
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if text != "" {
					patch.Content = &text
				}
			}
			if c.IsSet("category") {
				category := note.Category(c.String("category"))
				patch.Category = &category
			}
			if c.IsSet("priority") {
				priority := note.Priority(c.String("priority"))
				patch.Priority = &priority
			}
			if c.IsSet("tags") {
				tags := parseTags(c.String("tags"))
				patch.Tags = &tags
			}

			updated, err := repo.Update(c.Args().First(), patch)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(updated)
		},
	}
}

// deleteCmd creates the delete command. More than one ID becomes a batch
// delete with per-ID error reporting.
func deleteCmd(repo *notes.Repository) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete one or more notes by ID",
		ArgsUsage: "<id> [id...]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("at least one id is required"))
			}

			ids := c.Args().Slice()
			if len(ids) == 1 {
				if err := repo.Delete(ids[0]); err != nil {
					return outputError(err)
				}
				return outputJSON(map[string]any{"deleted": 1})
			}

			result, err := repo.BatchDelete(ids)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(result)
		},
	}
}

// toggleCmd creates the toggle command.
func toggleCmd(repo *notes.Repository) *cli.Command {
	return &cli.Command{
		Name:      "toggle",
		Usage:     "Toggle a note's completion status",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}

			n, err := repo.ToggleComplete(c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(n)
		},
	}
}

// clearCompletedCmd creates the clear-completed command.
func clearCompletedCmd(repo *notes.Repository) *cli.Command {
	return &cli.Command{
		Name:  "clear-completed",
		Usage: "Delete all completed notes",
		Action: func(c *cli.Context) error {
			result, err := repo.ClearCompleted()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(result)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(repo *notes.Repository) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show aggregate statistics",
		Action: func(c *cli.Context) error {
			return outputJSON(repo.Statistics())
		},
	}
}

// tagsCmd creates the tags command.
func tagsCmd(repo *notes.Repository) *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "List distinct tags across all notes",
		Action: func(c *cli.Context) error {
			return outputJSON(map[string]any{"tags": repo.TagList()})
		},
	}
}

// exportCmd creates the export command.
func exportCmd(repo *notes.Repository) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all notes as JSON (to --path or stdout)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: stdout)"},
		},
		Action: func(c *cli.Context) error {
			payload := repo.Export()

			path := c.String("path")
			if path == "" {
				return outputJSON(payload)
			}
			if err := writeJSONFile(path, payload); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return outputJSON(map[string]any{
				"path":  path,
				"count": len(payload.Notes),
			})
		},
	}
}

// importCmd creates the import command.
func importCmd(repo *notes.Repository) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import notes from a JSON export file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.BoolFlag{Name: "merge", Aliases: []string{"m"}, Usage: "Merge into existing notes instead of replacing them"},
		},
		Action: func(c *cli.Context) error {
			data, err := os.ReadFile(c.String("path"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			payload, perr := notes.ParseExportPayload(data)
			if perr != nil {
				return outputError(perr)
			}

			result, ierr := repo.Import(payload, c.Bool("merge"))
			if ierr != nil {
				return outputError(ierr)
			}
			return outputJSON(result)
		},
	}
}

// backupCmd creates the backup command (whole-namespace store snapshot).
func backupCmd(adapter *kv.Adapter) *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Snapshot every key in the store namespace (to --path or stdout)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Backup file path (default: stdout)"},
		},
		Action: func(c *cli.Context) error {
			snap, err := adapter.ExportAll()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			path := c.String("path")
			if path == "" {
				return outputJSON(snap)
			}
			if err := writeJSONFile(path, snap); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return outputJSON(map[string]any{
				"path":       path,
				"snapshotId": snap.SnapshotID,
				"keys":       len(snap.Data),
			})
		},
	}
}

// restoreCmd creates the restore command.
func restoreCmd(adapter *kv.Adapter) *cli.Command {
	return &cli.Command{
		Name:  "restore",
		Usage: "Restore a store snapshot produced by backup",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Snapshot file path"},
			&cli.BoolFlag{Name: "overwrite", Usage: "Clear the namespace before restoring"},
		},
		Action: func(c *cli.Context) error {
			data, err := os.ReadFile(c.String("path"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			var snap kv.Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				return outputError(errors.NewInvalidFormat(fmt.Sprintf("invalid snapshot: %v", err)))
			}

			report, err := adapter.ImportAll(&snap, c.Bool("overwrite"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return outputJSON(report)
		},
	}
}

// serveCmd creates the serve command (web UI).
func serveCmd(repo *notes.Repository, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 8390, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(repo, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError emits the uniform error envelope to stdout and exits non-zero.
func outputError(err error) error {
	jErr, ok := err.(*errors.JotError)
	if !ok {
		jErr = errors.NewInternal(err)
	}

	errorObj := map[string]any{
		"code":    jErr.Code,
		"message": jErr.Message,
		"status":  jErr.Status,
	}
	if jErr.Details != nil {
		errorObj["details"] = jErr.Details
	}
	_ = outputJSON(map[string]any{"error": errorObj})
	return cli.Exit("", 1)
}

// writeJSONFile writes v as indented JSON to path with owner-only permissions.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
