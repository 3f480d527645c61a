package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxfarmtofork/docgen/internal/domain"
)

var (
	greenFarm = domain.Seller{Name: "Green Farm"}
	hillFarm  = domain.Seller{Name: "Hill Farm"}

	acme  = domain.Buyer{Key: "ACME", Name: "Acme Ltd"}
	bobs  = domain.Buyer{Key: "BOBS", Name: "Bob's Bistro"}
	quiet = domain.Buyer{Key: "QUIET", Name: "Quiet Cafe"}
)

func testMarketPlace(week int, orders ...domain.Order) domain.MarketPlace {
	sellers := make([]domain.Seller, 0, len(orders))
	for _, order := range orders {
		sellers = append(sellers, order.Seller)
	}
	return domain.NewMarketPlace(sellers, []domain.Buyer{acme, bobs, quiet}, orders, week)
}

func TestCreateDeliveryNotesPartitionsByBuyer(t *testing.T) {
	deliveryDate := time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC)
	marketPlace := testMarketPlace(7,
		domain.Order{Produce: "Carrots", Seller: greenFarm, Buyer: acme, Price: 200, Quantity: 3},
		domain.Order{Produce: "Potatoes", Seller: hillFarm, Buyer: acme, Price: 100, Quantity: 5},
		domain.Order{Produce: "Carrots", Seller: greenFarm, Buyer: bobs, Price: 200, Quantity: 1},
	)

	notes := CreateDeliveryNotes(marketPlace, deliveryDate, 7)
	require.Len(t, notes, 2)

	// Every order lands on exactly one note, and each note only carries its
	// buyer's orders.
	total := 0
	for _, note := range notes {
		total += len(note.Orders)
		for _, order := range note.Orders {
			assert.Equal(t, note.Buyer, order.Buyer)
		}
		assert.Equal(t, deliveryDate, note.NoteDate)
	}
	assert.Equal(t, len(marketPlace.Orders), total)
}

func TestCreateDeliveryNotesReferences(t *testing.T) {
	deliveryDate := time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC)
	marketPlace := testMarketPlace(7,
		domain.Order{Produce: "Carrots", Seller: greenFarm, Buyer: acme, Price: 200, Quantity: 3},
		domain.Order{Produce: "Carrots", Seller: greenFarm, Buyer: bobs, Price: 200, Quantity: 1},
	)

	notes := CreateDeliveryNotes(marketPlace, deliveryDate, 7)
	require.Len(t, notes, 2)

	// Buyers are visited in key order, so references are reproducible.
	assert.Equal(t, acme, notes[0].Buyer)
	assert.Equal(t, "F2FD7241", notes[0].Reference)
	assert.Equal(t, bobs, notes[1].Buyer)
	assert.Equal(t, "F2FD7242", notes[1].Reference)
}

func TestCreateDeliveryNotesSkipsBuyersWithoutOrders(t *testing.T) {
	deliveryDate := time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC)
	marketPlace := testMarketPlace(7,
		domain.Order{Produce: "Carrots", Seller: greenFarm, Buyer: bobs, Price: 200, Quantity: 1},
	)

	notes := CreateDeliveryNotes(marketPlace, deliveryDate, 7)
	require.Len(t, notes, 1)

	// ACME and QUIET ordered nothing; the counter does not advance for them.
	assert.Equal(t, bobs, notes[0].Buyer)
	assert.Equal(t, "F2FD7241", notes[0].Reference)
}

func TestCreateDeliveryNotesEmptyMarketPlace(t *testing.T) {
	marketPlace := testMarketPlace(7)
	assert.Empty(t, CreateDeliveryNotes(marketPlace, time.Now(), 7))
}
