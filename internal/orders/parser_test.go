package orders

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/oxfarmtofork/docgen/internal/domain"
)

const testSource = "OxFarmToFork spreadsheet week 7 - 12_02_2024.xlsx"

var (
	acme = domain.Buyer{Key: "ACME", Name: "Acme Ltd", AddressLine1: "1 High Street", City: "Oxford", Postcode: "OX1 1AA"}
	bobs = domain.Buyer{Key: "BOBS", Name: "Bob's Bistro", AddressLine1: "2 Low Street", City: "Oxford", Postcode: "OX2 2BB"}

	roster = []domain.Buyer{acme, bobs}
)

// orderHeader is the fixed block plus the buyer block for the test roster:
// columns A-E fixed, F the sentinel, G and H the buyers.
func orderHeader() []interface{} {
	return []interface{}{
		labelProduce, labelVariant, labelUnit, labelPrice, labelSeller,
		buyersSentinel, "ACME", "BOBS",
	}
}

// orderWorkbook builds an in-memory GROWERS' PAGE sheet. Rows 1-2 are left
// decorative; header goes to row 3 and data rows follow.
func orderWorkbook(t *testing.T, header []interface{}, dataRows ...[]interface{}) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", SheetName))
	require.NoError(t, f.SetCellValue(SheetName, "A1", "OxFarmToFork weekly marketplace"))

	require.NoError(t, f.SetSheetRow(SheetName, "A3", &header))
	for i, row := range dataRows {
		cell, err := excelize.CoordinatesToCellName(1, headerRow+1+i)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(SheetName, cell, &row))
	}
	return f
}

func TestParseEndToEnd(t *testing.T) {
	f := orderWorkbook(t, orderHeader(),
		[]interface{}{"Carrots", "", "kg", "£2.00", "Green Farm", "", "3", ""},
	)

	parser := NewParser(roster)
	deliveryDate := time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC)

	marketPlace, report, err := parser.Parse(f, testSource, deliveryDate, false)
	require.NoError(t, err)
	require.NoError(t, report.Err())

	assert.Equal(t, 7, marketPlace.Week)
	assert.Equal(t, []domain.Seller{{Name: "Green Farm"}}, marketPlace.Sellers)
	assert.Equal(t, roster, marketPlace.Buyers)

	require.Len(t, marketPlace.Orders, 1)
	order := marketPlace.Orders[0]
	assert.Equal(t, "Carrots", order.Produce)
	assert.Equal(t, "kg", order.Unit)
	assert.Equal(t, 200, order.Price)
	assert.Equal(t, 3.0, order.Quantity)
	assert.Equal(t, acme, order.Buyer)
	assert.Equal(t, deliveryDate, order.OrderDate)
}

func TestParseCarriesFullRoster(t *testing.T) {
	f := orderWorkbook(t, orderHeader(),
		[]interface{}{"Carrots", "", "kg", "2.00", "Green Farm", "", "3", ""},
	)

	marketPlace, report, err := NewParser(roster).Parse(f, testSource, time.Time{}, false)
	require.NoError(t, err)
	require.NoError(t, report.Err())

	// BOBS ordered nothing but stays in the snapshot's buyer set.
	assert.True(t, marketPlace.HasBuyer(bobs))
	assert.Empty(t, marketPlace.OrdersForBuyer(bobs))
}

func TestParsePriceFormats(t *testing.T) {
	cases := []struct {
		raw   string
		pence int
	}{
		{"£3.50", 350},
		{"3.50", 350},
		{"3", 300},
		{"£0.05", 5},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			f := orderWorkbook(t, orderHeader(),
				[]interface{}{"Carrots", "", "kg", tc.raw, "Green Farm", "", "1", ""},
			)

			marketPlace, report, err := NewParser(roster).Parse(f, testSource, time.Time{}, false)
			require.NoError(t, err)
			require.NoError(t, report.Err())
			require.Len(t, marketPlace.Orders, 1)
			assert.Equal(t, tc.pence, marketPlace.Orders[0].Price)
		})
	}
}

func TestParseUnparsablePrice(t *testing.T) {
	f := orderWorkbook(t, orderHeader(),
		[]interface{}{"Carrots", "", "kg", "ask me", "Green Farm", "", "3", ""},
	)

	marketPlace, report, err := NewParser(roster).Parse(f, testSource, time.Time{}, false)
	require.NoError(t, err)

	// The row is still emitted with price 0 so the rest of the sheet gets
	// checked, but the error blocks generation.
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "Price at D4 could not be parsed.")
	require.Len(t, marketPlace.Orders, 1)
	assert.Equal(t, 0, marketPlace.Orders[0].Price)
}

func TestParseZeroPriceWarns(t *testing.T) {
	f := orderWorkbook(t, orderHeader(),
		[]interface{}{"Carrots", "", "kg", "0", "Green Farm", "", "3", ""},
	)

	_, report, err := NewParser(roster).Parse(f, testSource, time.Time{}, false)
	require.NoError(t, err)

	assert.False(t, report.HasErrors())
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0].Message, "Price at D4 is 0")
}

func TestParseQuantityCoercion(t *testing.T) {
	f := orderWorkbook(t, orderHeader(),
		[]interface{}{"Carrots", "", "kg", "2.00", "Green Farm", "", "2.5kg", "3"},
	)

	marketPlace, report, err := NewParser(roster).Parse(f, testSource, time.Time{}, false)
	require.NoError(t, err)
	require.NoError(t, report.Err())

	require.Len(t, marketPlace.Orders, 2)
	assert.Equal(t, 2.5, marketPlace.OrdersForBuyer(acme)[0].Quantity)
	assert.Equal(t, 3.0, marketPlace.OrdersForBuyer(bobs)[0].Quantity)
}

func TestParseEmptyAndZeroQuantitiesProduceNoOrder(t *testing.T) {
	f := orderWorkbook(t, orderHeader(),
		[]interface{}{"Carrots", "", "kg", "2.00", "Green Farm", "", "", "0"},
	)

	marketPlace, report, err := NewParser(roster).Parse(f, testSource, time.Time{}, false)
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Empty(t, marketPlace.Orders)
}

func TestParseUnparsableQuantity(t *testing.T) {
	f := orderWorkbook(t, orderHeader(),
		[]interface{}{"Carrots", "", "kg", "2.00", "Green Farm", "", "a few", ""},
	)

	marketPlace, report, err := NewParser(roster).Parse(f, testSource, time.Time{}, false)
	require.NoError(t, err)

	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "Quantity at G4 could not be parsed.")
	assert.Empty(t, marketPlace.Orders)
}

func TestParseSkipsRowsWithoutPrice(t *testing.T) {
	f := orderWorkbook(t, orderHeader(),
		[]interface{}{"Carrots", "", "kg", "", "Green Farm", "", "3", ""},
		[]interface{}{"Potatoes", "", "kg", "1.00", "Hill Farm", "", "", "5"},
	)

	marketPlace, report, err := NewParser(roster).Parse(f, testSource, time.Time{}, false)
	require.NoError(t, err)
	require.NoError(t, report.Err())

	require.Len(t, marketPlace.Orders, 1)
	assert.Equal(t, "Potatoes", marketPlace.Orders[0].Produce)
}

func TestParseUnknownBuyerColumn(t *testing.T) {
	header := []interface{}{
		labelProduce, labelVariant, labelUnit, labelPrice, labelSeller,
		buyersSentinel, "ACME", "GHOST",
	}
	f := orderWorkbook(t, header,
		[]interface{}{"Carrots", "", "kg", "2.00", "Green Farm", "", "3", "4"},
	)

	marketPlace, report, err := NewParser(roster).Parse(f, testSource, time.Time{}, false)
	require.NoError(t, err)

	require.Len(t, report.Errors, 1)
	assert.Equal(t, "Buyer GHOST not found in contacts sheet.", report.Errors[0].Message)

	// The unknown column's cells are skipped; the known column still parses.
	require.Len(t, marketPlace.Orders, 1)
	assert.Equal(t, acme, marketPlace.Orders[0].Buyer)
}

func TestParseNonBreakingSpacePriceHeader(t *testing.T) {
	header := orderHeader()
	header[3] = "Price/\u00a0\u00a0\u00a0UNIT (£)"
	f := orderWorkbook(t, header,
		[]interface{}{"Carrots", "", "kg", "2.00", "Green Farm", "", "3", ""},
	)

	marketPlace, report, err := NewParser(roster).Parse(f, testSource, time.Time{}, false)
	require.NoError(t, err)
	require.NoError(t, report.Err())
	require.Len(t, marketPlace.Orders, 1)
	assert.Equal(t, 200, marketPlace.Orders[0].Price)
}

func TestParseMissingFixedHeaders(t *testing.T) {
	header := []interface{}{labelProduce, labelVariant, labelUnit, labelPrice, labelSeller, buyersSentinel}
	header[2] = "Units"
	f := orderWorkbook(t, header)

	_, report, err := NewParser(roster).Parse(f, testSource, time.Time{}, false)
	require.NoError(t, err)

	require.True(t, report.HasErrors())
	assert.Contains(t, report.Err().Error(), fmt.Sprintf("Header %s could not be found in the sheet.", labelUnit))
}

func TestParseMissingBuyersSentinelIsFatal(t *testing.T) {
	header := []interface{}{labelProduce, labelVariant, labelUnit, labelPrice, labelSeller, "ACME"}
	f := orderWorkbook(t, header)

	_, report, err := NewParser(roster).Parse(f, testSource, time.Time{}, false)
	require.Error(t, err)
	assert.True(t, report.HasErrors())
}

func TestParseMissingSheetIsFatal(t *testing.T) {
	f := excelize.NewFile()

	_, report, err := NewParser(roster).Parse(f, testSource, time.Time{}, false)
	require.Error(t, err)
	assert.True(t, report.HasErrors())
}

func TestParseMissingWeekTokenIsFatal(t *testing.T) {
	f := orderWorkbook(t, orderHeader())

	_, report, err := NewParser(roster).Parse(f, "orders.xlsx", time.Time{}, false)
	require.Error(t, err)
	assert.True(t, report.HasErrors())
}

func TestParseDateFromFileName(t *testing.T) {
	f := orderWorkbook(t, orderHeader(),
		[]interface{}{"Carrots", "", "kg", "2.00", "Green Farm", "", "3", ""},
	)

	marketPlace, report, err := NewParser(roster).Parse(f, testSource, time.Time{}, true)
	require.NoError(t, err)
	require.NoError(t, report.Err())

	require.Len(t, marketPlace.Orders, 1)
	assert.Equal(t,
		time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC),
		marketPlace.Orders[0].OrderDate)
}

func TestParseDateFromFileNameFailureIsReported(t *testing.T) {
	f := orderWorkbook(t, orderHeader(),
		[]interface{}{"Carrots", "", "kg", "2.00", "Green Farm", "", "3", ""},
	)

	_, report, err := NewParser(roster).Parse(f, "week 7 - not_a_date.xlsx", time.Time{}, true)
	require.NoError(t, err)
	assert.True(t, report.HasErrors())
}

func TestParseWideBuyerBlockWarnsAndStillParses(t *testing.T) {
	width := buyerColumnSoftLimit + 50

	header := []interface{}{labelProduce, labelVariant, labelUnit, labelPrice, labelSeller, buyersSentinel}
	row := []interface{}{"Carrots", "", "kg", "2.00", "Green Farm", ""}
	wide := make([]domain.Buyer, 0, width)
	for i := 0; i < width; i++ {
		key := fmt.Sprintf("BUYER%03d", i)
		header = append(header, key)
		row = append(row, "1")
		wide = append(wide, domain.Buyer{Key: key, Name: key})
	}
	f := orderWorkbook(t, header, row)

	marketPlace, report, err := NewParser(wide).Parse(f, testSource, time.Time{}, false)
	require.NoError(t, err)

	assert.False(t, report.HasErrors())
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0].Message, "lots of buyers")

	// Every column past the soft limit still parses; the warning is advisory.
	require.Len(t, marketPlace.Orders, width)
	for _, order := range marketPlace.Orders {
		assert.Equal(t, 200, order.Price)
		assert.Equal(t, 1.0, order.Quantity)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	f := orderWorkbook(t, orderHeader(),
		[]interface{}{"Carrots", "Rainbow", "kg", "2.00", "Green Farm", "", "3", "1.5"},
		[]interface{}{"Potatoes", "", "kg", "1.00", "Hill Farm", "", "", "5"},
	)
	deliveryDate := time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC)

	first, firstReport, err := NewParser(roster).Parse(f, testSource, deliveryDate, false)
	require.NoError(t, err)
	require.NoError(t, firstReport.Err())

	second, secondReport, err := NewParser(roster).Parse(f, testSource, deliveryDate, false)
	require.NoError(t, err)
	require.NoError(t, secondReport.Err())

	// Parsing the same workbook twice yields value-equal snapshots, so
	// reference numbers derived from iteration order are reproducible.
	assert.Equal(t, first, second)
}

func TestParseVATRateStamped(t *testing.T) {
	f := orderWorkbook(t, orderHeader(),
		[]interface{}{"Carrots", "", "kg", "2.00", "Green Farm", "", "3", ""},
	)

	parser := NewParser(roster)
	parser.VATRate = 0.2

	marketPlace, report, err := parser.Parse(f, testSource, time.Time{}, false)
	require.NoError(t, err)
	require.NoError(t, report.Err())
	require.Len(t, marketPlace.Orders, 1)
	assert.Equal(t, 0.2, marketPlace.Orders[0].VATRate)
}
