// =============================================================================
// Farm-to-Fork Document Generator - Contacts Parser
// =============================================================================
//
// This module parses the buyer-contacts spreadsheet into Buyer records.
//
// SHEET CONVENTION (fixed, fails loudly when violated):
//   - One sheet named "Contacts"
//   - Row 1 is the header row, matched by exact label text
//   - One buyer per subsequent row; rows without a key or name are skipped
//
//   | Buyer Key as in Spreadsheet | Buyer Full Name | Address Line 1 | ... |
//   | ACME                        | Acme Ltd        | 1 High Street  | ... |
//
// Missing headers and required-but-empty cells are recorded as validation
// errors; the parse always completes so the user sees every problem in one
// pass. Only a missing sheet or unreadable file aborts immediately.
//
// =============================================================================

package contacts

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/oxfarmtofork/docgen/internal/domain"
	"github.com/oxfarmtofork/docgen/internal/validation"
)

// SheetName is the worksheet the contacts must live in.
const SheetName = "Contacts"

// headerRow is the 1-based row holding the column labels.
const headerRow = 1

// Column labels as they must appear in row 1.
const (
	labelBuyerKey     = "Buyer Key as in Spreadsheet"
	labelBuyerName    = "Buyer Full Name"
	labelAddressLine1 = "Address Line 1"
	labelAddressLine2 = "Address Line 2"
	labelCity         = "City"
	labelPostcode     = "Postcode"
	labelCountry      = "Country"
)

// headerIndex maps each contact field to its resolved column index.
// -1 means the header was not found; cells sourced from an unresolved column
// default to the empty string.
type headerIndex struct {
	key          int
	name         int
	addressLine1 int
	addressLine2 int
	city         int
	postcode     int
	country      int
}

// ParseFile opens the spreadsheet at path and parses its contacts.
func ParseFile(path string) ([]domain.Buyer, *validation.Report, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open contacts file %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f, filepath.Base(path))
}

// Parse reads the contacts sheet into a deduplicated, key-sorted buyer set.
//
// PARAMETERS:
//   - f: the open workbook.
//   - source: the file name, used to scope the validation report.
//
// RETURNS:
//   - The buyer set, sorted by key.
//   - The validation report for this source.
//   - A fatal error when the Contacts sheet is missing or unreadable.
func Parse(f *excelize.File, source string) ([]domain.Buyer, *validation.Report, error) {
	report := validation.NewReport(source)

	idx, err := f.GetSheetIndex(SheetName)
	if err != nil || idx < 0 {
		report.Errorf("Expected %s worksheet, but it does not exist.", SheetName)
		return nil, report, fmt.Errorf("expected %s worksheet in %s, but it does not exist", SheetName, source)
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, report, fmt.Errorf("failed to read %s sheet in %s: %w", SheetName, source, err)
	}
	if len(rows) < headerRow {
		report.Errorf("The %s sheet has no header row.", SheetName)
		return nil, report, nil
	}

	headers := parseHeaders(rows[headerRow-1], report)
	buyers := parseRows(rows, headers, report)

	return buyers, report, nil
}

// parseHeaders resolves each required label to a column index by exact text
// match against the header row, recording one error per missing label.
func parseHeaders(headerCells []string, report *validation.Report) headerIndex {
	find := func(label string) int {
		for i, cell := range headerCells {
			if cell == label {
				return i
			}
		}
		report.Errorf("Header %s could not be found in the contacts sheet.", label)
		return -1
	}

	return headerIndex{
		key:          find(labelBuyerKey),
		name:         find(labelBuyerName),
		addressLine1: find(labelAddressLine1),
		addressLine2: find(labelAddressLine2),
		city:         find(labelCity),
		postcode:     find(labelPostcode),
		country:      find(labelCountry),
	}
}

func parseRows(rows [][]string, headers headerIndex, report *validation.Report) []domain.Buyer {
	seen := make(map[domain.Buyer]struct{})
	var buyers []domain.Buyer

	for i := headerRow; i < len(rows); i++ {
		row := rows[i]
		rowNumber := i + 1

		// Rows without a buyer key or name are spacers, not contacts.
		if rawCell(row, headers.key) == "" || rawCell(row, headers.name) == "" {
			continue
		}

		buyer := domain.Buyer{
			Key:          loadCell(row, headers.key, rowNumber, false, report),
			Name:         loadCell(row, headers.name, rowNumber, false, report),
			AddressLine1: loadCell(row, headers.addressLine1, rowNumber, false, report),
			AddressLine2: loadCell(row, headers.addressLine2, rowNumber, true, report),
			City:         loadCell(row, headers.city, rowNumber, false, report),
			Postcode:     loadCell(row, headers.postcode, rowNumber, false, report),
			Country:      loadCell(row, headers.country, rowNumber, true, report),
		}

		// Identical rows collapse under set semantics.
		if _, ok := seen[buyer]; ok {
			continue
		}
		seen[buyer] = struct{}{}
		buyers = append(buyers, buyer)
	}

	return domain.SortBuyers(buyers)
}

// rawCell returns the trimmed cell value, or "" for unresolved or
// out-of-range columns.
func rawCell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// loadCell reads one field from a contact row.
//
// A cell that must not be empty (canBeNull=false) but is empty or the
// literal "None" appends a row-specific validation error and still yields
// the empty string, so the row survives with every problem reported.
func loadCell(row []string, col, rowNumber int, canBeNull bool, report *validation.Report) string {
	value := rawCell(row, col)
	if value == "" || value == "None" {
		if !canBeNull {
			report.Errorf("Row %d and item %d is empty and should not be.", rowNumber, col)
		}
		return ""
	}
	return value
}
