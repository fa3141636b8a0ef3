package notes

import (
	"encoding/json"
	"testing"

	"jot/internal/errors"
	"jot/internal/note"
)

func TestExport_Shape(t *testing.T) {
	repo, _ := newTestRepo(t)
	mustCreate(t, repo, note.Note{Title: "a", Tags: []string{"x"}})
	mustCreate(t, repo, note.Note{Title: "b"})

	payload := repo.Export()
	if payload.Version != ExportVersion {
		t.Errorf("Version = %q, want %q", payload.Version, ExportVersion)
	}
	if payload.Timestamp == 0 {
		t.Error("Timestamp should be set")
	}
	if len(payload.Notes) != 2 {
		t.Errorf("Notes = %d, want 2", len(payload.Notes))
	}
	if payload.Statistics == nil || payload.Statistics.Total != 2 {
		t.Error("export should carry consistent statistics")
	}
	if repo.Len() != 2 {
		t.Error("export must not mutate the collection")
	}
}

func TestParseExportPayload_RejectsNonArrayNotes(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"missing notes", `{"version":"1.0"}`},
		{"notes is object", `{"notes":{"id":"1"}}`},
		{"notes is string", `{"notes":"nope"}`},
		{"not json", `{{{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseExportPayload([]byte(tc.data))
			if !errors.Is(err, errors.ErrInvalidFormat) {
				t.Errorf("err = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestParseExportPayload_AcceptsEmptyArray(t *testing.T) {
	payload, err := ParseExportPayload([]byte(`{"notes":[]}`))
	if err != nil {
		t.Fatalf("ParseExportPayload failed: %v", err)
	}
	if payload.Notes == nil || len(payload.Notes) != 0 {
		t.Errorf("Notes = %v, want empty array", payload.Notes)
	}
}

func TestImport_Replace(t *testing.T) {
	src, _ := newTestRepo(t)
	mustCreate(t, src, note.Note{Title: "exported", Tags: []string{"keep"}})
	payload := src.Export()

	dst, _ := newTestRepo(t)
	mustCreate(t, dst, note.Note{Title: "stale"})

	result, err := dst.Import(payload, false)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if !result.Success || result.Imported != 1 {
		t.Errorf("result = %+v, want 1 imported, success", result)
	}

	got := dst.List()
	if len(got) != 1 || got[0].Title != "exported" {
		t.Errorf("replace import should discard existing notes, got %v", got)
	}
}

func TestImport_MergeKeepsExisting(t *testing.T) {
	src, _ := newTestRepo(t)
	mustCreate(t, src, note.Note{Title: "incoming"})
	payload := src.Export()

	dst, _ := newTestRepo(t)
	mustCreate(t, dst, note.Note{Title: "existing"})

	result, err := dst.Import(payload, true)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}
	if dst.Len() != 2 {
		t.Errorf("Len = %d, want 2", dst.Len())
	}
}

func TestImport_MergeIDCollisionGetsFreshID(t *testing.T) {
	dst, _ := newTestRepo(t)
	existing := mustCreate(t, dst, note.Note{Title: "existing"})

	payload := &ExportPayload{
		Version: ExportVersion,
		Notes: []note.Note{
			{ID: existing.ID, Title: "colliding"},
		},
	}

	result, err := dst.Import(payload, true)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}

	// Both notes survive, with distinct ids
	all := dst.List()
	if len(all) != 2 {
		t.Fatalf("Len = %d, want 2", len(all))
	}
	if all[0].ID == all[1].ID {
		t.Error("colliding import must get a fresh id")
	}
	// The original is untouched
	got, err := dst.Get(existing.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "existing" {
		t.Errorf("existing note overwritten: %q", got.Title)
	}
}

func TestImport_SkipsInvalidRecordsAndContinues(t *testing.T) {
	dst, _ := newTestRepo(t)

	payload := &ExportPayload{
		Notes: []note.Note{
			{Title: "valid one"},
			{Title: ""}, // invalid
			{Title: "valid two"},
		},
	}

	result, err := dst.Import(payload, false)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Success {
		t.Error("Success should be false when records were skipped")
	}
	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if len(result.Errors) != 1 || result.Errors[0].Index != 1 {
		t.Errorf("Errors = %v, want one error at index 1", result.Errors)
	}
	if dst.Len() != 2 {
		t.Errorf("Len = %d, want 2", dst.Len())
	}
}

func TestImport_NilNotesRejected(t *testing.T) {
	dst, _ := newTestRepo(t)

	if _, err := dst.Import(nil, false); !errors.Is(err, errors.ErrInvalidFormat) {
		t.Errorf("nil payload: err = %v, want INVALID_FORMAT", err)
	}
	if _, err := dst.Import(&ExportPayload{}, false); !errors.Is(err, errors.ErrInvalidFormat) {
		t.Errorf("nil notes: err = %v, want INVALID_FORMAT", err)
	}
}

func TestImport_PersistFailureRollsBackEntirely(t *testing.T) {
	dst, store := newTestRepo(t)
	mustCreate(t, dst, note.Note{Title: "precious"})
	before := snapshotJSON(t, dst)

	store.failSets = true
	payload := &ExportPayload{Notes: []note.Note{{Title: "incoming"}}}
	_, err := dst.Import(payload, false)
	if !errors.Is(err, errors.ErrSaveFailed) {
		t.Fatalf("err = %v, want SAVE_FAILED", err)
	}

	if got := snapshotJSON(t, dst); got != before {
		t.Errorf("import not rolled back:\nbefore: %s\nafter:  %s", before, got)
	}
}

func TestExportImport_WireRoundTrip(t *testing.T) {
	src, _ := newTestRepo(t)
	orig := mustCreate(t, src, note.Note{
		Title:    "full fidelity",
		Content:  "body *with markdown*",
		Category: note.CategoryStudy,
		Priority: note.PriorityHigh,
		Tags:     []string{"a", "b"},
	})
	if _, err := src.ToggleComplete(orig.ID); err != nil {
		t.Fatal(err)
	}

	// Serialize to bytes and back, as the CLI export/import path does
	data, err := json.Marshal(src.Export())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	payload, err := ParseExportPayload(data)
	if err != nil {
		t.Fatalf("ParseExportPayload failed: %v", err)
	}

	dst, _ := newTestRepo(t)
	result, err := dst.Import(payload, false)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if !result.Success {
		t.Errorf("result = %+v, want success", result)
	}

	got, err := dst.Get(orig.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want, _ := src.Get(orig.ID)
	if got.Title != want.Title || got.Content != want.Content ||
		got.Category != want.Category || got.Priority != want.Priority ||
		got.CreatedAt != want.CreatedAt || got.UpdatedAt != want.UpdatedAt ||
		got.IsCompleted != want.IsCompleted {
		t.Errorf("round trip lost fields:\ngot:  %+v\nwant: %+v", got, want)
	}
}
