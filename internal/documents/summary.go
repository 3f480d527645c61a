// =============================================================================
// Farm-to-Fork Document Generator - Seller Summaries
// =============================================================================

package documents

import (
	"github.com/oxfarmtofork/docgen/internal/domain"
)

// SellerSummaries computes the total value sold per seller across the given
// weekly marketplaces: sum(price x quantity) over every order, converted
// from pence back to pounds. Sellers are returned in name order.
func SellerSummaries(marketPlaces []domain.MarketPlace) []domain.SellerSummary {
	var allOrders []domain.Order
	sellerSet := make(map[domain.Seller]struct{})

	for _, marketPlace := range marketPlaces {
		allOrders = append(allOrders, marketPlace.Orders...)
		for _, seller := range marketPlace.Sellers {
			sellerSet[seller] = struct{}{}
		}
	}

	sellers := make([]domain.Seller, 0, len(sellerSet))
	for seller := range sellerSet {
		sellers = append(sellers, seller)
	}
	domain.SortSellers(sellers)

	summaries := make([]domain.SellerSummary, 0, len(sellers))
	for _, seller := range sellers {
		totalPence := 0.0
		for _, order := range allOrders {
			if order.Seller == seller {
				totalPence += float64(order.Price) * order.Quantity
			}
		}
		summaries = append(summaries, domain.SellerSummary{
			Seller:    seller,
			TotalSold: totalPence / 100,
		})
	}

	return summaries
}
