package aggregate

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/repostmap/internal/domain"
	"github.com/listenupapp/repostmap/internal/normalize"
)

func rec(issue, country string) domain.Record {
	return domain.Record{Issue: issue, Country: country, HasIssue: issue != "", HasCountry: country != ""}
}

func world() []domain.Boundary {
	return []domain.Boundary{
		{Name: "United States of America"},
		{Name: "United Kingdom"},
		{Name: "France"},
		{Name: "Brazil"},
	}
}

func TestIssues_FirstOccurrenceOrder(t *testing.T) {
	records := []domain.Record{
		rec("Trade", "USA"),
		rec("", "UK"),
		rec("Climate", "France"),
		rec("Trade", "UK"),
		rec("Asylum", ""),
		rec("Climate", "USA"),
	}

	assert.Equal(t, []string{"Trade", "Climate", "Asylum"}, slices.Collect(Issues(records)))
}

func TestIssues_EarlyStopAndReuse(t *testing.T) {
	records := []domain.Record{rec("A", "x"), rec("B", "x"), rec("C", "x")}
	seq := Issues(records)

	var first []string
	for issue := range seq {
		first = append(first, issue)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"A", "B"}, first)
	assert.Equal(t, []string{"A", "B", "C"}, slices.Collect(seq))
	assert.Empty(t, slices.Collect(Issues(nil)))
}

func TestAggregate_AliasExample(t *testing.T) {
	records := []domain.Record{rec("A", "USA"), rec("A", "USA"), rec("A", "UK")}
	normalize.New(map[string]string{
		"USA": "United States of America",
		"UK":  "United Kingdom",
	}).Apply(records)

	agg := Aggregate(&domain.Dataset{Records: records, Boundaries: world()}, "A")

	assert.Equal(t, "A", agg.Issue)
	assert.Equal(t, []domain.CountryCount{
		{Name: "United States of America", Count: 2},
		{Name: "United Kingdom", Count: 1},
		{Name: "France", Count: 0},
		{Name: "Brazil", Count: 0},
	}, agg.Rows)
	assert.Equal(t, 2, agg.Max)
	assert.Equal(t, 3, agg.Total)
	assert.Equal(t, 3, agg.Matched)
	assert.Empty(t, agg.Unmatched)
}

func TestAggregate_RowsCoverEveryBoundary(t *testing.T) {
	records := []domain.Record{
		rec("A", "France"),
		rec("B", "Brazil"),
		rec("A", "Atlantis"),
		rec("A", ""),
		rec("A", "France"),
		rec("", "France"),
	}
	for i := range records {
		records[i].Row = i + 2
	}
	ds := &domain.Dataset{Records: records, Boundaries: world()}

	agg := Aggregate(ds, "A")

	var rowNames []string
	sum := 0
	for _, row := range agg.Rows {
		rowNames = append(rowNames, row.Name)
		sum += row.Count
	}
	assert.Equal(t, []string{"United States of America", "United Kingdom", "France", "Brazil"}, rowNames)
	assert.Equal(t, 2, sum)
	assert.Equal(t, sum, agg.Matched)
	assert.Equal(t, 3, agg.Total)
	assert.Equal(t, map[string]int{"Atlantis": 1}, agg.Unmatched)
	assert.Equal(t, 1, agg.NullCountry)
	assert.Equal(t, []int{5}, agg.NullRows)
	assert.Equal(t, 2, agg.Dropped())
}

func TestAggregate_ZeroRecordIssue(t *testing.T) {
	ds := &domain.Dataset{Records: []domain.Record{rec("B", "France")}, Boundaries: world()}

	agg := Aggregate(ds, "A")

	require.Len(t, agg.Rows, 4)
	assert.Equal(t, 0, agg.Max)
	assert.Equal(t, 0, agg.Total)
	for _, row := range agg.Rows {
		assert.Zero(t, row.Count)
	}
}

func TestAggregate_EmptyNamesNeverJoin(t *testing.T) {
	records := []domain.Record{{Issue: "A", HasIssue: true, HasCountry: true}}
	ds := &domain.Dataset{Records: records, Boundaries: []domain.Boundary{{Name: ""}, {Name: "France"}}}

	agg := Aggregate(ds, "A")

	assert.Zero(t, agg.Rows[0].Count)
	assert.Equal(t, map[string]int{"": 1}, agg.Unmatched)
}

func TestAggregate_DuplicateBoundaryNames(t *testing.T) {
	records := []domain.Record{rec("A", "France"), rec("A", "France")}
	ds := &domain.Dataset{Records: records, Boundaries: []domain.Boundary{{Name: "France"}, {Name: "France"}}}

	agg := Aggregate(ds, "A")

	assert.Equal(t, []int{2, 2}, agg.Counts())
	assert.Equal(t, 2, agg.Matched)
	assert.Equal(t, 0, agg.Dropped())
}

func TestAggregate_DoesNotMutateDataset(t *testing.T) {
	records := []domain.Record{rec("A", "France")}
	ds := &domain.Dataset{Records: records, Boundaries: world()}

	_ = Aggregate(ds, "A")
	again := Aggregate(ds, "A")

	assert.Equal(t, 1, again.Count("France"))
	assert.Equal(t, rec("A", "France"), ds.Records[0])
}
