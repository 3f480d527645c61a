// =============================================================================
// Farm-to-Fork Document Generator - Pick List Builder
// =============================================================================

package documents

import (
	"fmt"
	"sort"
	"time"

	"github.com/oxfarmtofork/docgen/internal/domain"
)

// TotalBuyer is the placeholder buyer that summary total lines are
// attributed to. It never appears in a contacts sheet.
var TotalBuyer = domain.Buyer{Key: "TOTAL", Name: "Total"}

// CreatePickLists builds one pick list per seller with at least one order in
// the marketplace. Sellers with no orders produce no document and do not
// advance the sequence counter.
//
// When includeSummary is set, each pick list additionally carries one
// synthetic zero-price line per distinct (produce, variant) pair, holding
// the summed quantity across all buyers and attributed to TotalBuyer. The
// summary lines follow the real per-buyer lines so the seller gets a
// total-to-pick view without the real lines changing.
func CreatePickLists(marketPlace domain.MarketPlace, mondayOfOrderWeek time.Time, weekNumber int, includeSummary bool) []domain.PickList {
	var pickLists []domain.PickList

	i := 0
	for _, seller := range marketPlace.Sellers {
		orders := marketPlace.OrdersForSeller(seller)
		if len(orders) == 0 {
			continue
		}
		i++

		if includeSummary {
			orders = append(orders, summaryLines(seller, orders, mondayOfOrderWeek)...)
		}

		pickLists = append(pickLists, domain.PickList{
			MondayOfOrderWeek: mondayOfOrderWeek,
			Seller:            seller,
			Orders:            orders,
			Reference:         fmt.Sprintf("F2FP%d%02d%d", weekNumber, mondayOfOrderWeek.Year()%100, i),
		})
	}

	return pickLists
}

// summaryLines computes one zero-price total line per distinct
// (produce, variant) pair among the seller's orders.
func summaryLines(seller domain.Seller, orders []domain.Order, mondayOfOrderWeek time.Time) []domain.Order {
	type produceLine struct {
		produce string
		variant string
	}

	quantities := make(map[produceLine]float64)
	units := make(map[produceLine]string)
	for _, order := range orders {
		line := produceLine{produce: order.Produce, variant: order.Variant}
		quantities[line] += order.Quantity
		if _, ok := units[line]; !ok {
			units[line] = order.Unit
		}
	}

	lines := make([]produceLine, 0, len(quantities))
	for line := range quantities {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].produce != lines[j].produce {
			return lines[i].produce < lines[j].produce
		}
		return lines[i].variant < lines[j].variant
	})

	totals := make([]domain.Order, 0, len(lines))
	for _, line := range lines {
		totals = append(totals, domain.Order{
			Produce:   line.produce,
			Variant:   line.variant,
			Unit:      units[line],
			Seller:    seller,
			Buyer:     TotalBuyer,
			Price:     0,
			Quantity:  quantities[line],
			OrderDate: mondayOfOrderWeek,
		})
	}
	return totals
}
