// =============================================================================
// Farm-to-Fork Document Generator - Delivery Note Builder
// =============================================================================
//
// Builders in this package are pure grouping/aggregation functions: they
// partition a validated MarketPlace's orders by buyer or seller, synthesize
// reference numbers and never mutate their inputs.
//
// REFERENCE NUMBERS encode document type, week, two-digit year and a
// sequence counter, e.g. F2FD7241 = delivery note, week 7, 2024, first
// buyer. Counters advance only for buyers/sellers that actually produce a
// document, and buyers/sellers are visited in the MarketPlace's canonical
// order so references are reproducible.
//
// =============================================================================

package documents

import (
	"fmt"
	"time"

	"github.com/oxfarmtofork/docgen/internal/domain"
)

// CreateDeliveryNotes builds one delivery note per buyer with at least one
// order in the marketplace. Buyers with no orders produce no document and do
// not advance the sequence counter.
func CreateDeliveryNotes(marketPlace domain.MarketPlace, deliveryDate time.Time, weekNumber int) []domain.DeliveryNote {
	var notes []domain.DeliveryNote

	i := 0
	for _, buyer := range marketPlace.Buyers {
		orders := marketPlace.OrdersForBuyer(buyer)
		if len(orders) == 0 {
			continue
		}
		i++

		notes = append(notes, domain.DeliveryNote{
			NoteDate:  deliveryDate,
			Buyer:     buyer,
			Orders:    orders,
			Reference: fmt.Sprintf("F2FD%d%02d%d", weekNumber, deliveryDate.Year()%100, i),
		})
	}

	return notes
}
