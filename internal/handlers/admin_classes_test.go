package handlers

import (
	"testing"
	"time"

	"github.com/stillpoint/studio/internal/models"
)

func adminTestClasses() []models.Class {
	return []models.Class{
		{ID: 1, Name: "Alpha Class", Instructor: "Alice", Price: 15,
			StartTime: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "Beta Class", Instructor: "Bob", Price: 10,
			StartTime: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
		{ID: 3, Name: "charlie class", Instructor: "Charlie", Price: 20, IsCancelled: true,
			StartTime: time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)},
	}
}

func names(classes []models.Class) []string {
	out := make([]string, len(classes))
	for i, c := range classes {
		out[i] = c.Name
	}
	return out
}

func TestSortClasses(t *testing.T) {
	cases := []struct {
		key, dir string
		want     []string
	}{
		{"date", "asc", []string{"Alpha Class", "Beta Class", "charlie class"}},
		{"date", "desc", []string{"charlie class", "Beta Class", "Alpha Class"}},
		{"name", "asc", []string{"Alpha Class", "Beta Class", "charlie class"}}, // case-insensitive
		{"name", "desc", []string{"charlie class", "Beta Class", "Alpha Class"}},
		{"instructor", "asc", []string{"Alpha Class", "Beta Class", "charlie class"}},
		{"price", "asc", []string{"Beta Class", "Alpha Class", "charlie class"}},
		{"price", "desc", []string{"charlie class", "Alpha Class", "Beta Class"}},
		{"bogus", "asc", []string{"Alpha Class", "Beta Class", "charlie class"}}, // falls back to date
	}
	for _, tc := range cases {
		classes := adminTestClasses()
		sortClasses(classes, tc.key, tc.dir)
		got := names(classes)
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("sort %s/%s: got %v, want %v", tc.key, tc.dir, got, tc.want)
				break
			}
		}
	}
}

func TestFilterClasses(t *testing.T) {
	classes := adminTestClasses()

	if got := filterClasses(classes, "alpha", "all"); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("query alpha: got %v", names(got))
	}
	// Instructor matches too.
	if got := filterClasses(classes, "BOB", "all"); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("query BOB: got %v", names(got))
	}
	if got := filterClasses(classes, "", "active"); len(got) != 2 {
		t.Errorf("show active: got %v", names(got))
	}
	if got := filterClasses(classes, "", "cancelled"); len(got) != 1 || got[0].ID != 3 {
		t.Errorf("show cancelled: got %v", names(got))
	}
	if got := filterClasses(classes, "class", "all"); len(got) != 3 {
		t.Errorf("query class: got %v", names(got))
	}
	if got := filterClasses(classes, "zzz", "all"); len(got) != 0 {
		t.Errorf("query zzz: got %v", names(got))
	}
}
