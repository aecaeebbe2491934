// Package aggregate enumerates issues and counts retweets per country.
// Everything here is pure: no I/O, no shared state.
package aggregate

import (
	"iter"

	"github.com/listenupapp/repostmap/internal/domain"
)

// Issues yields the distinct non-null issues of records in order of first
// occurrence. Each call to the returned sequence walks records again.
func Issues(records []domain.Record) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]struct{})
		for _, r := range records {
			if !r.HasIssue {
				continue
			}
			if _, ok := seen[r.Issue]; ok {
				continue
			}
			seen[r.Issue] = struct{}{}
			if !yield(r.Issue) {
				return
			}
		}
	}
}

// Aggregate counts the records of one issue per normalized country and left
// joins the boundaries onto those counts: every boundary gets a row, in
// boundary order, with zero when no record matched. Country names with no
// boundary are left out of the rows and tallied in Unmatched.
func Aggregate(ds *domain.Dataset, issue string) domain.Aggregate {
	counts := make(map[string]int)
	agg := domain.Aggregate{
		Issue:     issue,
		Unmatched: make(map[string]int),
	}

	for _, r := range ds.Records {
		if !r.Matches(issue) {
			continue
		}
		if !r.HasCountry {
			agg.NullCountry++
			agg.NullRows = append(agg.NullRows, r.Row)
			continue
		}
		counts[r.Country]++
		agg.Total++
	}

	agg.Rows = make([]domain.CountryCount, len(ds.Boundaries))
	joined := make(map[string]struct{}, len(ds.Boundaries))
	for i, b := range ds.Boundaries {
		row := domain.CountryCount{Name: b.Name}
		if b.Name != "" {
			row.Count = counts[b.Name]
			// A name split over several boundaries colors each of them
			// but its records are only matched once.
			if _, dup := joined[b.Name]; !dup {
				agg.Matched += row.Count
			}
			joined[b.Name] = struct{}{}
		}
		agg.Rows[i] = row
		agg.Max = max(agg.Max, row.Count)
	}

	for name, n := range counts {
		if _, ok := joined[name]; !ok {
			agg.Unmatched[name] = n
		}
	}

	return agg
}
