package notes

import (
	"reflect"
	"testing"

	"jot/internal/note"
)

func TestStatistics_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)

	stats := repo.Statistics()
	if stats.Total != 0 || stats.Completed != 0 || stats.Pending != 0 {
		t.Errorf("empty stats = %+v, want zeros", stats)
	}
	if stats.CompletionRate != 0 {
		t.Errorf("CompletionRate = %d, want 0 for empty collection", stats.CompletionRate)
	}
	// Fixed keys are always present, even at zero
	for _, c := range note.Categories {
		if _, ok := stats.ByCategory[c]; !ok {
			t.Errorf("ByCategory missing fixed key %s", c)
		}
	}
	for _, p := range note.Priorities {
		if _, ok := stats.ByPriority[p]; !ok {
			t.Errorf("ByPriority missing fixed key %s", p)
		}
	}
}

func TestStatistics_CountsAndRate(t *testing.T) {
	repo, _ := newTestRepo(t)
	a := mustCreate(t, repo, note.Note{Title: "a", Category: note.CategoryWork, Priority: note.PriorityHigh, Tags: []string{"x", "y"}})
	mustCreate(t, repo, note.Note{Title: "b", Category: note.CategoryWork, Tags: []string{"y"}})
	mustCreate(t, repo, note.Note{Title: "c", Category: note.CategoryLife})

	if _, err := repo.ToggleComplete(a.ID); err != nil {
		t.Fatal(err)
	}

	stats := repo.Statistics()
	if stats.Total != 3 || stats.Completed != 1 || stats.Pending != 2 {
		t.Errorf("counts = %d/%d/%d, want 3/1/2", stats.Total, stats.Completed, stats.Pending)
	}
	// 1/3 rounds to 33
	if stats.CompletionRate != 33 {
		t.Errorf("CompletionRate = %d, want 33", stats.CompletionRate)
	}
	if stats.ByCategory[note.CategoryWork] != 2 || stats.ByCategory[note.CategoryLife] != 1 {
		t.Errorf("ByCategory = %v", stats.ByCategory)
	}
	if stats.ByPriority[note.PriorityHigh] != 1 || stats.ByPriority[note.PriorityMedium] != 2 {
		t.Errorf("ByPriority = %v", stats.ByPriority)
	}
	if stats.DistinctTags != 2 {
		t.Errorf("DistinctTags = %d, want 2", stats.DistinctTags)
	}
}

func TestStatistics_RateRoundsHalfUp(t *testing.T) {
	repo, _ := newTestRepo(t)
	a := mustCreate(t, repo, note.Note{Title: "a"})
	mustCreate(t, repo, note.Note{Title: "b"})

	if _, err := repo.ToggleComplete(a.ID); err != nil {
		t.Fatal(err)
	}

	if rate := repo.Statistics().CompletionRate; rate != 50 {
		t.Errorf("CompletionRate = %d, want 50", rate)
	}
}

func TestTagList_DistinctSorted(t *testing.T) {
	repo, _ := newTestRepo(t)
	mustCreate(t, repo, note.Note{Title: "a", Tags: []string{"zeta", "alpha"}})
	mustCreate(t, repo, note.Note{Title: "b", Tags: []string{"alpha", "mid"}})

	got := repo.TagList()
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TagList = %v, want %v", got, want)
	}
}

func TestTagList_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)

	if got := repo.TagList(); len(got) != 0 {
		t.Errorf("TagList = %v, want empty", got)
	}
}
