package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Matches(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		issue  string
		want   bool
	}{
		{"same issue", Record{Issue: "A", HasIssue: true}, "A", true},
		{"other issue", Record{Issue: "B", HasIssue: true}, "A", false},
		{"null issue never matches", Record{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Matches(tt.issue))
		})
	}
}

func TestBoundary_Bounds(t *testing.T) {
	b := Boundary{
		Name: "Square",
		Polygons: []Polygon{
			{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 0, Y: 5}}},
			{{{X: -3, Y: 2}, {X: -1, Y: 2}, {X: -1, Y: 8}}},
		},
	}

	got := b.Bounds()
	assert.Equal(t, Bounds{MinX: -3, MinY: 0, MaxX: 10, MaxY: 8}, got)
	assert.InDelta(t, 13.0, got.Width(), 1e-9)
	assert.InDelta(t, 8.0, got.Height(), 1e-9)
}

func TestBoundsOf_SkipsEmptyGeometry(t *testing.T) {
	all := BoundsOf([]Boundary{
		{Name: "Empty"},
		{Name: "Point", Polygons: []Polygon{{{{X: 1, Y: 1}, {X: 2, Y: 3}}}}},
	})
	assert.Equal(t, Bounds{MinX: 1, MinY: 1, MaxX: 2, MaxY: 3}, all)
	assert.True(t, BoundsOf(nil).IsEmpty())
}

func TestAggregate_Helpers(t *testing.T) {
	agg := Aggregate{
		Issue: "A",
		Rows: []CountryCount{
			{Name: "United States of America", Count: 2},
			{Name: "United Kingdom", Count: 1},
			{Name: "France", Count: 0},
		},
		Max:         2,
		Total:       6,
		Matched:     3,
		Unmatched:   map[string]int{"Atlantis": 1, "Mars": 2},
		NullCountry: 1,
	}

	assert.Equal(t, []int{2, 1, 0}, agg.Counts())
	assert.Equal(t, 1, agg.Count("United Kingdom"))
	assert.Equal(t, 0, agg.Count("Narnia"))
	assert.Equal(t, []string{"Mars", "Atlantis"}, agg.UnmatchedNames())
	assert.Equal(t, 4, agg.Dropped())
}

func TestDataset_BoundaryNames(t *testing.T) {
	ds := &Dataset{Boundaries: []Boundary{{Name: "France"}, {Name: "Chile"}}}
	names := ds.BoundaryNames()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "France")
	assert.Contains(t, names, "Chile")
}
