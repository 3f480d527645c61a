// =============================================================================
// Farm-to-Fork Document Generator - Domain Model
// =============================================================================
//
// This package contains the shared value types used across the pipeline to
// avoid import cycles. Types defined here are used by:
//   - contacts (parser output)
//   - orders (parser output)
//   - documents (builder input/output)
//   - export (serializer input)
//
// All types are plain comparable structs. "Set" semantics (deduplication,
// membership) come from using them as map keys; deterministic ordering comes
// from the canonical sort applied by NewMarketPlace.
//
// =============================================================================

package domain

import (
	"sort"
	"time"
)

// =============================================================================
// PARTICIPANTS
// =============================================================================

// Seller is a grower supplying produce. Identity is the trimmed name as it
// appears in the order sheet's "Growers" column.
type Seller struct {
	Name string
}

// Buyer is one contact record from the contacts spreadsheet.
//
// Key is the spreadsheet-stable identifier that matches the buyer-column
// headers in the weekly order sheets. Name is the display/legal name used on
// generated documents. Two rows with identical content are the same buyer.
type Buyer struct {
	Key          string
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	Postcode     string
	Country      string
}

// =============================================================================
// ORDERS
// =============================================================================

// Order is one buyer's purchase of one produce/variant line from one seller
// in one week.
//
// Price is an integer number of pence (display price x100) to avoid
// floating-point currency errors. Quantity may be fractional for weight-based
// units. OrderDate is the delivery date for the week the order belongs to; a
// zero time means the date was not supplied.
type Order struct {
	Produce   string
	Unit      string
	Variant   string
	Seller    Seller
	Buyer     Buyer
	Price     int
	Quantity  float64
	VATRate   float64
	OrderDate time.Time
}

// MarketPlace is an immutable snapshot of one week's trading activity,
// derived entirely from one order-sheet parse.
//
// Sellers, Buyers and Orders are deduplicated and canonically sorted by
// NewMarketPlace: sellers by name, buyers by key, orders by
// (produce, variant, seller name, buyer key). Iterating the slices in order
// is the canonical enumeration used for sequential reference numbers, which
// makes generated references reproducible across parses.
//
// Invariant: every Order's Buyer is a member of Buyers and every Order's
// Seller is a member of Sellers.
type MarketPlace struct {
	Sellers []Seller
	Buyers  []Buyer
	Orders  []Order
	Week    int
}

// NewMarketPlace builds a canonical snapshot from possibly-duplicated inputs.
func NewMarketPlace(sellers []Seller, buyers []Buyer, orders []Order, week int) MarketPlace {
	return MarketPlace{
		Sellers: SortSellers(dedupeSellers(sellers)),
		Buyers:  SortBuyers(dedupeBuyers(buyers)),
		Orders:  SortOrders(dedupeOrders(orders)),
		Week:    week,
	}
}

// HasBuyer reports whether the buyer belongs to the snapshot's buyer set.
func (m MarketPlace) HasBuyer(b Buyer) bool {
	for _, candidate := range m.Buyers {
		if candidate == b {
			return true
		}
	}
	return false
}

// HasSeller reports whether the seller belongs to the snapshot's seller set.
func (m MarketPlace) HasSeller(s Seller) bool {
	for _, candidate := range m.Sellers {
		if candidate == s {
			return true
		}
	}
	return false
}

// OrdersForBuyer returns the snapshot's orders placed by the given buyer, in
// canonical order.
func (m MarketPlace) OrdersForBuyer(b Buyer) []Order {
	var matched []Order
	for _, order := range m.Orders {
		if order.Buyer == b {
			matched = append(matched, order)
		}
	}
	return matched
}

// OrdersForSeller returns the snapshot's orders supplied by the given seller,
// in canonical order.
func (m MarketPlace) OrdersForSeller(s Seller) []Order {
	var matched []Order
	for _, order := range m.Orders {
		if order.Seller == s {
			matched = append(matched, order)
		}
	}
	return matched
}

// =============================================================================
// DERIVED DOCUMENTS
// =============================================================================

// DeliveryNote is one buyer's document for one delivery run. All contained
// orders share the note's buyer.
type DeliveryNote struct {
	NoteDate  time.Time
	Buyer     Buyer
	Reference string
	Orders    []Order
}

// Invoice covers one buyer's orders over a billing period, possibly spanning
// several weekly marketplaces. All contained orders share the invoice's
// buyer. DueDate is InvoiceDate plus the payment-terms offset.
type Invoice struct {
	InvoiceDate   time.Time
	DueDate       time.Time
	Buyer         Buyer
	Reference     string
	InvoiceNumber string
	Orders        []Order
}

// PickList is one seller's document listing everything that seller must
// supply across all buyers for one week. All contained orders share the
// list's seller.
type PickList struct {
	MondayOfOrderWeek time.Time
	Seller            Seller
	Reference         string
	Orders            []Order
}

// SellerSummary is a per-seller rollup of total value sold, in pounds.
type SellerSummary struct {
	Seller    Seller
	TotalSold float64
}

// =============================================================================
// CANONICAL ORDERING
// =============================================================================

// SortSellers sorts sellers by name, in place, and returns the slice.
func SortSellers(sellers []Seller) []Seller {
	sort.Slice(sellers, func(i, j int) bool {
		return sellers[i].Name < sellers[j].Name
	})
	return sellers
}

// SortBuyers sorts buyers by key (then name, for safety against reused
// keys), in place, and returns the slice.
func SortBuyers(buyers []Buyer) []Buyer {
	sort.Slice(buyers, func(i, j int) bool {
		if buyers[i].Key != buyers[j].Key {
			return buyers[i].Key < buyers[j].Key
		}
		return buyers[i].Name < buyers[j].Name
	})
	return buyers
}

// SortOrders sorts orders by (produce, variant, seller name, buyer key), in
// place, and returns the slice.
func SortOrders(orders []Order) []Order {
	sort.Slice(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if a.Produce != b.Produce {
			return a.Produce < b.Produce
		}
		if a.Variant != b.Variant {
			return a.Variant < b.Variant
		}
		if a.Seller.Name != b.Seller.Name {
			return a.Seller.Name < b.Seller.Name
		}
		return a.Buyer.Key < b.Buyer.Key
	})
	return orders
}

func dedupeSellers(sellers []Seller) []Seller {
	seen := make(map[Seller]struct{}, len(sellers))
	out := make([]Seller, 0, len(sellers))
	for _, s := range sellers {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func dedupeBuyers(buyers []Buyer) []Buyer {
	seen := make(map[Buyer]struct{}, len(buyers))
	out := make([]Buyer, 0, len(buyers))
	for _, b := range buyers {
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}

func dedupeOrders(orders []Order) []Order {
	seen := make(map[Order]struct{}, len(orders))
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}
