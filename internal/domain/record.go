// Package domain holds the data model shared by the loading, aggregation and
// rendering stages.
package domain

// Record is one retweet row from the input spreadsheet.
// A missing cell is "null": its Has flag is false and the value is empty.
type Record struct {
	Row        int // 1-based spreadsheet row, reported for dropped records
	Issue      string
	Country    string
	HasIssue   bool
	HasCountry bool
}

// Matches reports whether the record carries the given issue.
func (r Record) Matches(issue string) bool {
	return r.HasIssue && r.Issue == issue
}
