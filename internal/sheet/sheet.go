// Package sheet reads retweet records from an Excel workbook.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/listenupapp/repostmap/internal/domain"
	domainerrors "github.com/listenupapp/repostmap/internal/errors"
)

// Required header names.
const (
	IssueColumn   = "Issues"
	CountryColumn = "Countries"
)

// Load opens the workbook at path and reads its records. An empty sheet name
// selects the first worksheet.
func Load(path, sheetName string) ([]domain.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domainerrors.Wrapf(err, domainerrors.CodeNotFound, "spreadsheet %s", path)
		}
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInvalidInput, "open spreadsheet %s", path)
	}
	defer f.Close()

	return readFile(f, sheetName)
}

// Read parses a workbook from r. An empty sheet name selects the first worksheet.
func Read(r io.Reader, sheetName string) ([]domain.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInvalidInput, "open spreadsheet")
	}
	defer f.Close()

	return readFile(f, sheetName)
}

func readFile(f *excelize.File, sheetName string) ([]domain.Record, error) {
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, domainerrors.InvalidInput("no sheets found in spreadsheet")
		}
	}

	rows, err := f.Rows(sheetName)
	if err != nil {
		var notExist excelize.ErrSheetNotExist
		if errors.As(err, &notExist) {
			return nil, domainerrors.Wrapf(err, domainerrors.CodeNotFound, "sheet %q", sheetName)
		}
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, domainerrors.InvalidInputf("sheet %q is empty", sheetName)
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	issueCol, countryCol := columnIndex(header, IssueColumn), columnIndex(header, CountryColumn)
	var missing []string
	if issueCol < 0 {
		missing = append(missing, IssueColumn)
	}
	if countryCol < 0 {
		missing = append(missing, CountryColumn)
	}
	if len(missing) > 0 {
		return nil, domainerrors.InvalidInputWithDetails(
			fmt.Sprintf("sheet %q is missing required column(s): %s", sheetName, strings.Join(missing, ", ")),
			missing)
	}

	var records []domain.Record
	rowNum := 1
	for rows.Next() {
		rowNum++
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", rowNum, err)
		}
		if isBlank(cols) {
			continue
		}

		issue, hasIssue := cell(cols, issueCol)
		country, hasCountry := cell(cols, countryCol)
		records = append(records, domain.Record{
			Row:        rowNum,
			Issue:      issue,
			Country:    country,
			HasIssue:   hasIssue,
			HasCountry: hasCountry,
		})
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	return records, nil
}

// columnIndex returns the position of name in the header, or -1.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// cell returns the value at i and whether it is present. Short rows and
// empty cells are null.
func cell(cols []string, i int) (string, bool) {
	if i >= len(cols) || cols[i] == "" {
		return "", false
	}
	return cols[i], true
}

func isBlank(cols []string) bool {
	for _, c := range cols {
		if c != "" {
			return false
		}
	}
	return true
}
