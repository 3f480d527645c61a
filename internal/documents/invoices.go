// =============================================================================
// Farm-to-Fork Document Generator - Invoice Builder
// =============================================================================

package documents

import (
	"fmt"
	"time"

	"github.com/oxfarmtofork/docgen/internal/domain"
)

// DefaultPaymentTermsDays is the standard offset from invoice date to due
// date.
const DefaultPaymentTermsDays = 14

// deliveryFeeSeller is the synthetic seller attributed to delivery-fee
// lines added by ApplyDeliveryFee.
var deliveryFeeSeller = domain.Seller{Name: "Farm to Fork"}

// CreateInvoices builds one invoice per buyer covering every order across
// the given weekly marketplaces.
//
// All marketplaces are assumed to share the same contact roster, so buyers
// are iterated from the first marketplace's buyer set only. Buyers with no
// orders across the whole period produce no invoice and do not advance the
// sequence counter.
//
// The reference and invoice number are derived from the previous calendar
// month relative to the invoice date: invoicing happens at the start of a
// month for the month just traded. Reference is F2F-{ShortMonth}; invoice
// number is F2F{month}{yy}{i}.
func CreateInvoices(marketPlaces []domain.MarketPlace, invoiceDate time.Time) []domain.Invoice {
	return CreateInvoicesWithTerms(marketPlaces, invoiceDate, DefaultPaymentTermsDays)
}

// CreateInvoicesWithTerms is CreateInvoices with a configurable payment
// terms offset.
func CreateInvoicesWithTerms(marketPlaces []domain.MarketPlace, invoiceDate time.Time, paymentTermsDays int) []domain.Invoice {
	if len(marketPlaces) == 0 {
		return nil
	}

	dueDate := invoiceDate.AddDate(0, 0, paymentTermsDays)
	billingMonth := previousMonth(invoiceDate)

	var allOrders []domain.Order
	for _, marketPlace := range marketPlaces {
		allOrders = append(allOrders, marketPlace.Orders...)
	}

	var invoices []domain.Invoice

	i := 0
	for _, buyer := range marketPlaces[0].Buyers {
		orders := ordersForBuyer(allOrders, buyer)
		if len(orders) == 0 {
			continue
		}
		i++

		invoices = append(invoices, domain.Invoice{
			Buyer:         buyer,
			InvoiceDate:   invoiceDate,
			DueDate:       dueDate,
			Orders:        domain.SortOrders(orders),
			Reference:     fmt.Sprintf("F2F-%s", billingMonth.Format("Jan")),
			InvoiceNumber: fmt.Sprintf("F2F%d%02d%d", int(billingMonth.Month()), billingMonth.Year()%100, i),
		})
	}

	return invoices
}

// ApplyDeliveryFee appends one delivery-fee line to each invoice, with
// quantity equal to the number of distinct delivery dates covered (one fee
// per delivery run). Fee is in pence. This is post-processing on built
// invoices; the parsers never see fee lines.
func ApplyDeliveryFee(invoices []domain.Invoice, feePence int) []domain.Invoice {
	if feePence <= 0 {
		return invoices
	}

	out := make([]domain.Invoice, 0, len(invoices))
	for _, invoice := range invoices {
		deliveries := distinctOrderDates(invoice.Orders)
		if deliveries == 0 {
			out = append(out, invoice)
			continue
		}

		withFee := invoice
		withFee.Orders = append(append([]domain.Order{}, invoice.Orders...), domain.Order{
			Produce:   "Delivery fee",
			Unit:      "delivery",
			Seller:    deliveryFeeSeller,
			Buyer:     invoice.Buyer,
			Price:     feePence,
			Quantity:  float64(deliveries),
			OrderDate: invoice.InvoiceDate,
		})
		out = append(out, withFee)
	}

	return out
}

// previousMonth returns the first day of the calendar month before the
// given date.
func previousMonth(date time.Time) time.Time {
	firstOfMonth := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, -1, 0)
}

func ordersForBuyer(orders []domain.Order, buyer domain.Buyer) []domain.Order {
	var matched []domain.Order
	for _, order := range orders {
		if order.Buyer == buyer {
			matched = append(matched, order)
		}
	}
	return matched
}

func distinctOrderDates(orders []domain.Order) int {
	dates := make(map[time.Time]struct{})
	for _, order := range orders {
		if order.OrderDate.IsZero() {
			continue
		}
		dates[order.OrderDate] = struct{}{}
	}
	return len(dates)
}
