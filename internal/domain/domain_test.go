package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	greenFarm = Seller{Name: "Green Farm"}
	hillFarm  = Seller{Name: "Hill Farm"}

	acme = Buyer{Key: "ACME", Name: "Acme Ltd", AddressLine1: "1 High Street", City: "Oxford", Postcode: "OX1 1AA"}
	bobs = Buyer{Key: "BOBS", Name: "Bob's Bistro", AddressLine1: "2 Low Street", City: "Oxford", Postcode: "OX2 2BB"}
)

func TestNewMarketPlaceDeduplicates(t *testing.T) {
	order := Order{Produce: "Carrots", Unit: "kg", Seller: greenFarm, Buyer: acme, Price: 200, Quantity: 3}

	marketPlace := NewMarketPlace(
		[]Seller{greenFarm, greenFarm, hillFarm},
		[]Buyer{acme, bobs, acme},
		[]Order{order, order},
		7,
	)

	assert.Equal(t, []Seller{greenFarm, hillFarm}, marketPlace.Sellers)
	assert.Equal(t, []Buyer{acme, bobs}, marketPlace.Buyers)
	assert.Equal(t, []Order{order}, marketPlace.Orders)
	assert.Equal(t, 7, marketPlace.Week)
}

func TestNewMarketPlaceCanonicalOrder(t *testing.T) {
	orders := []Order{
		{Produce: "Potatoes", Seller: hillFarm, Buyer: bobs, Price: 100, Quantity: 1},
		{Produce: "Carrots", Variant: "Rainbow", Seller: greenFarm, Buyer: acme, Price: 200, Quantity: 2},
		{Produce: "Carrots", Variant: "Baby", Seller: greenFarm, Buyer: acme, Price: 250, Quantity: 1},
	}

	marketPlace := NewMarketPlace([]Seller{hillFarm, greenFarm}, []Buyer{bobs, acme}, orders, 7)

	require.Len(t, marketPlace.Orders, 3)
	assert.Equal(t, "Baby", marketPlace.Orders[0].Variant)
	assert.Equal(t, "Rainbow", marketPlace.Orders[1].Variant)
	assert.Equal(t, "Potatoes", marketPlace.Orders[2].Produce)

	assert.Equal(t, []Seller{greenFarm, hillFarm}, marketPlace.Sellers)
	assert.Equal(t, []Buyer{acme, bobs}, marketPlace.Buyers)
}

func TestMarketPlaceMembership(t *testing.T) {
	marketPlace := NewMarketPlace([]Seller{greenFarm}, []Buyer{acme}, nil, 7)

	assert.True(t, marketPlace.HasSeller(greenFarm))
	assert.False(t, marketPlace.HasSeller(hillFarm))
	assert.True(t, marketPlace.HasBuyer(acme))
	assert.False(t, marketPlace.HasBuyer(bobs))
}

func TestOrdersForBuyerAndSeller(t *testing.T) {
	orders := []Order{
		{Produce: "Carrots", Seller: greenFarm, Buyer: acme, Price: 200, Quantity: 3},
		{Produce: "Potatoes", Seller: hillFarm, Buyer: acme, Price: 100, Quantity: 5},
		{Produce: "Carrots", Seller: greenFarm, Buyer: bobs, Price: 200, Quantity: 1},
	}
	marketPlace := NewMarketPlace([]Seller{greenFarm, hillFarm}, []Buyer{acme, bobs}, orders, 7)

	acmeOrders := marketPlace.OrdersForBuyer(acme)
	require.Len(t, acmeOrders, 2)
	for _, order := range acmeOrders {
		assert.Equal(t, acme, order.Buyer)
	}

	greenOrders := marketPlace.OrdersForSeller(greenFarm)
	require.Len(t, greenOrders, 2)
	for _, order := range greenOrders {
		assert.Equal(t, greenFarm, order.Seller)
	}

	assert.Empty(t, marketPlace.OrdersForBuyer(Buyer{Key: "NOPE"}))
}

func TestSortBuyersBreaksTiesByName(t *testing.T) {
	first := Buyer{Key: "SAME", Name: "Alpha"}
	second := Buyer{Key: "SAME", Name: "Beta"}

	sorted := SortBuyers([]Buyer{second, first})
	assert.Equal(t, []Buyer{first, second}, sorted)
}
