package collection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type lesson struct {
	ID       int
	Title    string
	Category string
	Tags     []string
}

func (l lesson) SearchText() []string { return append([]string{l.Title}, l.Tags...) }
func (l lesson) Facet() string        { return l.Category }

func lessons() []lesson {
	return []lesson{
		{ID: 1, Title: "Python Basics", Category: "Technical"},
		{ID: 2, Title: "Leadership", Category: "Soft Skills"},
	}
}

func ids(items []lesson) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestDeriveView_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		term     string
		category string
		want     []int
	}{
		{"search is case insensitive", "python", "", []int{1}},
		{"category only", "", "Soft Skills", []int{2}},
		{"no match", "x", "", []int{}},
		{"search and category intersect", "python", "Soft Skills", []int{}},
		{"substring", "ERSH", "", []int{2}},
		{"category is exact", "", "soft skills", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(DeriveView(lessons(), tt.term, tt.category))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("DeriveView(%q, %q) mismatch (-want +got):\n%s", tt.term, tt.category, diff)
			}
		})
	}
}

func TestDeriveView_IdentityAndIdempotence(t *testing.T) {
	items := lessons()
	if diff := cmp.Diff(items, DeriveView(items, "", "")); diff != "" {
		t.Fatalf("identity case changed items (-want +got):\n%s", diff)
	}

	once := DeriveView(items, "a", "")
	twice := DeriveView(once, "a", "")
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("DeriveView not idempotent (-once +twice):\n%s", diff)
	}

	if DeriveView[lesson](nil, "a", "") != nil {
		t.Fatalf("nil input should stay nil")
	}
}

func TestDeriveView_DoesNotMutateInput(t *testing.T) {
	items := []lesson{
		{ID: 3, Title: "Go", Category: "Technical"},
		{ID: 1, Title: "Rust", Category: "Technical"},
		{ID: 2, Title: "Golf", Category: "Hobby"},
	}
	before := append([]lesson(nil), items...)

	got := DeriveView(items, "go", "")
	if diff := cmp.Diff([]int{3, 2}, ids(got)); diff != "" {
		t.Fatalf("order not preserved (-want +got):\n%s", diff)
	}
	got[0].Title = "changed"
	if diff := cmp.Diff(before, items); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
}

func TestDeriveView_MatchesAnySearchField(t *testing.T) {
	items := []lesson{{ID: 1, Title: "Mentor", Tags: []string{"Kubernetes", "Go"}}}
	if got := DeriveView(items, "kube", ""); len(got) != 1 {
		t.Fatalf("expected tag match, got %v", got)
	}
}

func TestDeriveView_TermIsNotTrimmed(t *testing.T) {
	items := []lesson{{ID: 1, Title: "Data"}, {ID: 2, Title: "Data Science"}}
	if diff := cmp.Diff([]int{2}, ids(DeriveView(items, " ", ""))); diff != "" {
		t.Fatalf("space term mismatch (-want +got):\n%s", diff)
	}
}

func TestCategories_FirstAppearanceOrder(t *testing.T) {
	items := []lesson{
		{Category: "Technical"},
		{Category: ""},
		{Category: "Business"},
		{Category: "Technical"},
		{Category: "Design"},
	}
	want := []string{"Technical", "Business", "Design"}
	if diff := cmp.Diff(want, Categories(items)); diff != "" {
		t.Fatalf("Categories mismatch (-want +got):\n%s", diff)
	}
}
