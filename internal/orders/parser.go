// =============================================================================
// Farm-to-Fork Document Generator - Order Sheet Parser
// =============================================================================
//
// This module parses one weekly marketplace spreadsheet into a MarketPlace
// snapshot.
//
// SHEET CONVENTION (fixed, fails loudly when violated):
//   - One sheet named "GROWERS' PAGE"
//   - Rows 1-2 are decorative/merged; row 3 is the header row
//   - Fixed headers: Produce Name, Additional Info, UNIT, Price/UNIT (£),
//     Growers. The price label varies between a plain and a non-breaking
//     space across sheet revisions, so fixed headers are matched after
//     whitespace normalization.
//   - The literal cell "BUYERS:" marks the start of the variable-width
//     buyer-columns block: every populated header cell to its right is a
//     buyer key that must exist in the contacts sheet.
//   - One produce line per data row; a buyer's cell holds the ordered
//     quantity (free text, e.g. "2.5kg").
//
// HEADER DISCOVERY is a two-pass algorithm: pass 1 resolves the fixed
// headers into a typed index and locates the sentinel; pass 2 walks the
// columns right of the sentinel building a column -> Buyer map, one
// diagnostic per unresolvable column. Unknown buyer keys register a nil
// placeholder so their data cells are skipped while the error still blocks
// generation downstream.
//
// =============================================================================

package orders

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/oxfarmtofork/docgen/internal/domain"
	"github.com/oxfarmtofork/docgen/internal/validation"
)

// SheetName is the worksheet the weekly orders must live in.
const SheetName = "GROWERS' PAGE"

// headerRow is the 1-based row holding the column labels. Rows 1-2 are
// decorative.
const headerRow = 3

// buyerColumnSoftLimit is the buyer-block width beyond which a warning is
// raised. A block this wide usually means the header row is misaligned, but
// every populated column is still parsed.
const buyerColumnSoftLimit = 100

// Fixed header labels, compared after whitespace normalization.
const (
	labelProduce = "Produce Name"
	labelVariant = "Additional Info"
	labelUnit    = "UNIT"
	labelPrice   = "Price/   UNIT (£)"
	labelSeller  = "Growers"

	// buyersSentinel marks the left edge of the buyer-columns block.
	buyersSentinel = "BUYERS:"
)

// nonNumeric strips everything except digits and the decimal point from
// free-text price/quantity cells ("£3.50", "2.5kg").
var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// headerIndex maps each fixed order-sheet field to its resolved column
// index. -1 means the header was not found (recorded as a validation error
// during resolution).
type headerIndex struct {
	produce int
	variant int
	unit    int
	price   int
	seller  int
}

// Parser parses weekly order sheets against a known contacts roster.
type Parser struct {
	// Buyers is the full contact roster the buyer-column headers are
	// checked against. The resulting MarketPlace carries this whole set,
	// not just the buyers who ordered.
	Buyers []domain.Buyer

	// VATRate is stamped onto every parsed order line.
	VATRate float64
}

// NewParser creates a parser for the given contact roster.
func NewParser(buyers []domain.Buyer) *Parser {
	return &Parser{Buyers: buyers}
}

// ParseFile opens the spreadsheet at path and parses it.
func (p *Parser) ParseFile(path string, deliveryDate time.Time, useFileNameForDate bool) (domain.MarketPlace, *validation.Report, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.MarketPlace{}, nil, fmt.Errorf("failed to open order sheet %s: %w", path, err)
	}
	defer f.Close()

	return p.Parse(f, baseName(path), deliveryDate, useFileNameForDate)
}

// Parse reads one weekly order sheet into a MarketPlace snapshot.
//
// PARAMETERS:
//   - f: the open workbook.
//   - source: the file name; scopes the validation report and carries the
//     week number ("... week 7 - 12_02_2024.xlsx") required for the parse.
//   - deliveryDate: the delivery date stamped onto every order.
//   - useFileNameForDate: when true, the delivery date is taken from the
//     trailing DD_MM_YYYY token of the file name instead.
//
// RETURNS:
//   - The MarketPlace snapshot (all orders, the seller set, the full
//     contacts roster, the week number).
//   - The validation report for this source.
//   - A fatal error when the sheet, the BUYERS: sentinel or the week-number
//     token is missing; no valid result set can be derived without them.
func (p *Parser) Parse(f *excelize.File, source string, deliveryDate time.Time, useFileNameForDate bool) (domain.MarketPlace, *validation.Report, error) {
	report := validation.NewReport(source)

	week, err := ParseWeekNumber(source)
	if err != nil {
		report.Errorf("%v", err)
		return domain.MarketPlace{}, report, err
	}

	idx, err := f.GetSheetIndex(SheetName)
	if err != nil || idx < 0 {
		report.Errorf("Expected %s worksheet, but it does not exist.", SheetName)
		return domain.MarketPlace{}, report, fmt.Errorf("expected %s worksheet in %s, but it does not exist", SheetName, source)
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return domain.MarketPlace{}, report, fmt.Errorf("failed to read %s sheet in %s: %w", SheetName, source, err)
	}
	if len(rows) < headerRow {
		report.Errorf("The %s sheet has no header row (expected row %d).", SheetName, headerRow)
		return domain.MarketPlace{}, report, fmt.Errorf("order sheet %s has no header row", source)
	}

	headerCells := rows[headerRow-1]

	headers := parseFixedHeaders(headerCells, report)
	buyerColumns, err := p.parseBuyerColumns(headerCells, report)
	if err != nil {
		return domain.MarketPlace{}, report, err
	}

	if useFileNameForDate {
		if extracted, dateErr := ExtractDeliveryDate(source); dateErr != nil {
			report.Errorf("%v", dateErr)
		} else {
			deliveryDate = extracted
		}
	}

	orders, sellers := p.parseOrderRows(rows, headers, buyerColumns, deliveryDate, report)

	return domain.NewMarketPlace(sellers, p.Buyers, orders, week), report, nil
}

// =============================================================================
// HEADER DISCOVERY
// =============================================================================

// parseFixedHeaders is pass 1: it resolves the fixed-name headers into a
// typed index, recording one error per missing label.
func parseFixedHeaders(headerCells []string, report *validation.Report) headerIndex {
	find := func(label string) int {
		want := normalizeHeader(label)
		for i, cell := range headerCells {
			if normalizeHeader(cell) == want {
				return i
			}
		}
		report.Errorf("Header %s could not be found in the sheet.", label)
		return -1
	}

	return headerIndex{
		produce: find(labelProduce),
		variant: find(labelVariant),
		unit:    find(labelUnit),
		price:   find(labelPrice),
		seller:  find(labelSeller),
	}
}

// parseBuyerColumns is pass 2: it locates the BUYERS: sentinel and walks
// every header cell to its right, mapping column index -> resolved Buyer.
//
// Empty header cells are spacers. A populated cell whose key is not in the
// contacts roster records an error and registers a nil placeholder: the
// column's data cells are skipped, and the error blocks generation after the
// parse completes.
func (p *Parser) parseBuyerColumns(headerCells []string, report *validation.Report) (map[int]*domain.Buyer, error) {
	sentinel := -1
	for i, cell := range headerCells {
		if strings.TrimSpace(cell) == buyersSentinel {
			sentinel = i
			break
		}
	}
	if sentinel == -1 {
		report.Errorf("Header %s could not be found in the sheet.", buyersSentinel)
		return nil, fmt.Errorf("header %q could not be found in the order sheet", buyersSentinel)
	}

	byKey := make(map[string]domain.Buyer, len(p.Buyers))
	for _, buyer := range p.Buyers {
		byKey[buyer.Key] = buyer
	}

	columns := make(map[int]*domain.Buyer)
	populated := 0

	for col := sentinel + 1; col < len(headerCells); col++ {
		key := strings.TrimSpace(headerCells[col])
		if key == "" {
			continue
		}
		populated++

		if buyer, ok := byKey[key]; ok {
			resolved := buyer
			columns[col] = &resolved
			continue
		}

		report.Errorf("Buyer %s not found in contacts sheet.", key)
		columns[col] = nil
	}

	if populated > buyerColumnSoftLimit {
		report.Warnf("It looks like there were lots of buyers (%d columns), check that any headers without buyers are empty.", populated)
	}

	return columns, nil
}

// =============================================================================
// ROW PROCESSING
// =============================================================================

// parseOrderRows walks every data row after the header, emitting one Order
// per (row, buyer column) pair with a non-zero quantity.
func (p *Parser) parseOrderRows(rows [][]string, headers headerIndex, buyerColumns map[int]*domain.Buyer, deliveryDate time.Time, report *validation.Report) ([]domain.Order, []domain.Seller) {
	// Ascending column order keeps diagnostics and output deterministic.
	columns := make([]int, 0, len(buyerColumns))
	for col := range buyerColumns {
		columns = append(columns, col)
	}
	sort.Ints(columns)

	var orders []domain.Order
	var sellers []domain.Seller

	for i := headerRow; i < len(rows); i++ {
		row := rows[i]
		rowNumber := i + 1

		// An empty price cell means the produce line is not offered this
		// week; the whole row is skipped.
		rawPrice := cell(row, headers.price)
		if rawPrice == "" {
			continue
		}

		price := parsePrice(rawPrice, cellRef(headers.price, rowNumber), report)

		produce := cell(row, headers.produce)
		variant := cell(row, headers.variant)
		unit := cell(row, headers.unit)
		sellerName := cell(row, headers.seller)
		seller := domain.Seller{Name: sellerName}

		for _, col := range columns {
			buyer := buyerColumns[col]
			if buyer == nil {
				// Unresolved buyer column; its error is already recorded.
				continue
			}

			quantity := parseQuantity(cell(row, col), cellRef(col, rowNumber), report)
			if quantity == 0 {
				// Zero or unparsable quantity means the buyer did not
				// order this line.
				continue
			}

			orders = append(orders, domain.Order{
				Produce:   produce,
				Unit:      unit,
				Variant:   variant,
				Seller:    seller,
				Buyer:     *buyer,
				Price:     price,
				Quantity:  quantity,
				VATRate:   p.VATRate,
				OrderDate: deliveryDate,
			})
			sellers = append(sellers, seller)
		}
	}

	return orders, sellers
}

// =============================================================================
// CELL COERCION
// =============================================================================

// parsePrice coerces a free-text price cell ("£3.50", "3.50") into integer
// pence.
//
// All non-digit/non-decimal characters are stripped before parsing; the
// float result is multiplied by 100 and rounded half-away-from-zero (the
// single rounding policy used throughout). A cell that fails to parse
// records an error and yields price 0 so the row is still emitted; a price
// that rounds to exactly 0 records a warning prompting manual verification.
func parsePrice(raw, ref string, report *validation.Report) int {
	cleaned := nonNumeric.ReplaceAllString(raw, "")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		report.Errorf("Price at %s could not be parsed.", ref)
		return 0
	}

	pence := int(math.Round(value * 100))
	if pence == 0 {
		report.Warnf("Price at %s is 0, please verify.", ref)
	}
	return pence
}

// parseQuantity coerces a free-text quantity cell ("2.5kg", "3") into a
// float. An empty cell is 0 with no diagnostic (the buyer did not order); a
// populated cell that fails to parse records an error and yields 0, so the
// line contributes no Order.
func parseQuantity(raw, ref string, report *validation.Report) float64 {
	if raw == "" {
		return 0
	}

	cleaned := nonNumeric.ReplaceAllString(raw, "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		report.Errorf("Quantity at %s could not be parsed.", ref)
		return 0
	}
	return value
}

// =============================================================================
// HELPERS
// =============================================================================

// cell returns the trimmed cell value, or "" for unresolved or out-of-range
// columns.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// cellRef formats a 0-based column and 1-based row as an A1-style reference
// for diagnostics.
func cellRef(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return fmt.Sprintf("row %d column %d", row, col+1)
	}
	return name
}

// normalizeHeader collapses all whitespace runs (including non-breaking
// spaces) to single spaces. Sheet revisions vary between a plain and a
// non-breaking space in the price header.
func normalizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
