package domain

import (
	"cmp"
	"slices"
)

// CountryCount is one row of an issue aggregate, aligned with a boundary.
type CountryCount struct {
	Name  string
	Count int
}

// Aggregate holds the per-country retweet counts for one issue.
// Rows follow the boundary order of the dataset it was built from, and every
// boundary has a row (Count is zero when nothing matched).
type Aggregate struct {
	Issue string
	Rows  []CountryCount

	// Max is the largest Count in Rows.
	Max int
	// Total is the number of records for the issue with a non-null country.
	Total int
	// Matched is the sum of Rows counts.
	Matched int

	// Unmatched counts normalized country names with no boundary.
	Unmatched map[string]int
	// NullCountry counts records for the issue whose country was missing.
	NullCountry int
	// NullRows lists the spreadsheet rows of those records.
	NullRows []int
}

// Counts returns the row counts in boundary order.
func (a Aggregate) Counts() []int {
	counts := make([]int, len(a.Rows))
	for i, row := range a.Rows {
		counts[i] = row.Count
	}
	return counts
}

// Count returns the count for a boundary name, or zero.
func (a Aggregate) Count(name string) int {
	for _, row := range a.Rows {
		if row.Name == name {
			return row.Count
		}
	}
	return 0
}

// UnmatchedNames returns unmatched names sorted by descending count, then name.
func (a Aggregate) UnmatchedNames() []string {
	names := make([]string, 0, len(a.Unmatched))
	for name := range a.Unmatched {
		names = append(names, name)
	}
	slices.SortFunc(names, func(x, y string) int {
		if c := cmp.Compare(a.Unmatched[y], a.Unmatched[x]); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})
	return names
}

// Dropped returns how many records for the issue did not reach the map.
func (a Aggregate) Dropped() int {
	return a.Total - a.Matched + a.NullCountry
}
