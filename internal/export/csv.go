// =============================================================================
// Farm-to-Fork Document Generator - CSV Exports
// =============================================================================
//
// Flat tabular exports offered directly for download, bypassing the
// rendering collaborator: a row-per-order dump of one or more weekly
// marketplaces, and the per-seller total-sold rollup.
//
// =============================================================================

package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/oxfarmtofork/docgen/internal/domain"
	"github.com/oxfarmtofork/docgen/internal/documents"
)

// ordersCSVHeader is the column order of the flat orders export.
var ordersCSVHeader = []string{
	"delivery_date",
	"seller",
	"buyer",
	"produce",
	"additional info",
	"quantity",
	"unit",
	"price",
	"total price",
}

// WriteOrdersCSV writes every order across the given marketplaces as one
// CSV row. Prices are converted from pence back to pounds; total price is
// price x quantity.
func WriteOrdersCSV(w io.Writer, marketPlaces []domain.MarketPlace) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ordersCSVHeader); err != nil {
		return fmt.Errorf("failed to write orders CSV header: %w", err)
	}

	for _, marketPlace := range marketPlaces {
		for _, order := range marketPlace.Orders {
			price := float64(order.Price) / 100
			record := []string{
				formatDate(order.OrderDate),
				order.Seller.Name,
				order.Buyer.Name,
				order.Produce,
				order.Variant,
				formatFloat(order.Quantity),
				order.Unit,
				formatFloat(price),
				formatFloat(price * order.Quantity),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write orders CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSellerSummariesCSV writes the per-seller total-sold rollup for the
// given marketplaces.
func WriteSellerSummariesCSV(w io.Writer, marketPlaces []domain.MarketPlace) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"seller", "total_sold"}); err != nil {
		return fmt.Errorf("failed to write seller summaries CSV header: %w", err)
	}

	for _, summary := range documents.SellerSummaries(marketPlaces) {
		record := []string{summary.Seller.Name, formatFloat(summary.TotalSold)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write seller summaries CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatFloat renders quantities and pound amounts without a forced
// precision, so "3" stays "3" and "2.5" stays "2.5".
func formatFloat(value float64) string {
	return fmt.Sprintf("%g", value)
}
