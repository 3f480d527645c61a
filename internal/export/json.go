// =============================================================================
// Farm-to-Fork Document Generator - JSON Export Serializers
// =============================================================================
//
// This module converts derived documents into the JSON payload shape
// expected by the external rendering collaborator. Each payload has a
// single top-level key identifying the document type:
//
//   {"orders":   [...]}   delivery notes
//   {"invoices": [...]}   invoices
//   {"picks":    [...]}   pick lists
//
// Free-text variant values are truncated to a fixed maximum length with an
// ellipsis marker so they fit the rendered document layout.
//
// =============================================================================

package export

import (
	"encoding/json"
	"time"

	"github.com/oxfarmtofork/docgen/internal/domain"
)

// DefaultVariantMaxLength is the truncation limit for the free-text
// "Additional Info" value in rendered lines.
const DefaultVariantMaxLength = 25

// isoDate is the date layout the rendering collaborator expects.
const isoDate = "2006-01-02"

// =============================================================================
// PAYLOAD SHAPES
// =============================================================================

// BuyerPayload is the buyer identity block on delivery notes and invoices.
// Number carries the document reference.
type BuyerPayload struct {
	Name     string `json:"name"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
	Number   string `json:"number"`
}

// DeliveryLinePayload is one order line on a delivery note or pick list.
type DeliveryLinePayload struct {
	Produce string  `json:"produce"`
	Variant string  `json:"variant"`
	Unit    string  `json:"unit"`
	Price   int     `json:"price"`
	Qty     float64 `json:"qty"`
	Seller  string  `json:"seller"`
}

// DeliveryNotePayload is one delivery note document.
type DeliveryNotePayload struct {
	Date  string                `json:"date"`
	Buyer BuyerPayload          `json:"buyer"`
	Lines []DeliveryLinePayload `json:"lines"`
}

// DeliveryNotesExport is the top-level delivery notes payload.
type DeliveryNotesExport struct {
	Orders []DeliveryNotePayload `json:"orders"`
}

// InvoiceLinePayload is one order line on an invoice. Item combines produce
// and variant; Date is the order's delivery date in ISO form.
type InvoiceLinePayload struct {
	Item    string  `json:"item"`
	Price   int     `json:"price"`
	Qty     float64 `json:"qty"`
	Seller  string  `json:"seller"`
	VATRate float64 `json:"vat_rate"`
	Date    string  `json:"date"`
}

// InvoicePayload is one invoice document.
type InvoicePayload struct {
	Date      string               `json:"date"`
	DueDate   string               `json:"due_date"`
	Reference string               `json:"reference"`
	Number    string               `json:"number"`
	Buyer     BuyerPayload         `json:"buyer"`
	Lines     []InvoiceLinePayload `json:"lines"`
}

// InvoicesExport is the top-level invoices payload.
type InvoicesExport struct {
	Invoices []InvoicePayload `json:"invoices"`
}

// SellerPayload is the seller identity block on pick lists.
type SellerPayload struct {
	Name string `json:"name"`
}

// PickLinePayload is one order line on a pick list, carrying the buyer the
// produce must be picked for ("Total" on summary lines).
type PickLinePayload struct {
	Produce string  `json:"produce"`
	Variant string  `json:"variant"`
	Unit    string  `json:"unit"`
	Price   int     `json:"price"`
	Qty     float64 `json:"qty"`
	Buyer   string  `json:"buyer"`
}

// PickListPayload is one pick list document.
type PickListPayload struct {
	Date      string            `json:"date"`
	Seller    SellerPayload     `json:"seller"`
	Reference string            `json:"reference"`
	Lines     []PickLinePayload `json:"lines"`
}

// PickListsExport is the top-level pick lists payload.
type PickListsExport struct {
	Picks []PickListPayload `json:"picks"`
}

// =============================================================================
// SERIALIZER
// =============================================================================

// Serializer converts derived documents to collaborator payloads.
type Serializer struct {
	// VariantMaxLength is the truncation limit applied to variant text.
	VariantMaxLength int
}

// NewSerializer creates a serializer with the default truncation limit.
func NewSerializer() *Serializer {
	return &Serializer{VariantMaxLength: DefaultVariantMaxLength}
}

// DeliveryNotesJSON serializes delivery notes to the {"orders": [...]}
// payload.
func (s *Serializer) DeliveryNotesJSON(notes []domain.DeliveryNote) ([]byte, error) {
	payload := DeliveryNotesExport{Orders: make([]DeliveryNotePayload, 0, len(notes))}

	for _, note := range notes {
		lines := make([]DeliveryLinePayload, 0, len(note.Orders))
		for _, order := range note.Orders {
			lines = append(lines, DeliveryLinePayload{
				Produce: order.Produce,
				Variant: s.truncateVariant(order.Variant),
				Unit:    order.Unit,
				Price:   order.Price,
				Qty:     order.Quantity,
				Seller:  order.Seller.Name,
			})
		}

		payload.Orders = append(payload.Orders, DeliveryNotePayload{
			Date:  formatDate(note.NoteDate),
			Buyer: buyerPayload(note.Buyer, note.Reference),
			Lines: lines,
		})
	}

	return json.MarshalIndent(payload, "", "    ")
}

// InvoicesJSON serializes invoices to the {"invoices": [...]} payload.
func (s *Serializer) InvoicesJSON(invoices []domain.Invoice) ([]byte, error) {
	payload := InvoicesExport{Invoices: make([]InvoicePayload, 0, len(invoices))}

	for _, invoice := range invoices {
		lines := make([]InvoiceLinePayload, 0, len(invoice.Orders))
		for _, order := range invoice.Orders {
			lines = append(lines, InvoiceLinePayload{
				Item:    s.itemText(order),
				Price:   order.Price,
				Qty:     order.Quantity,
				Seller:  order.Seller.Name,
				VATRate: order.VATRate,
				Date:    formatDate(order.OrderDate),
			})
		}

		payload.Invoices = append(payload.Invoices, InvoicePayload{
			Date:      formatDate(invoice.InvoiceDate),
			DueDate:   formatDate(invoice.DueDate),
			Reference: invoice.Reference,
			Number:    invoice.InvoiceNumber,
			Buyer:     buyerPayload(invoice.Buyer, invoice.Reference),
			Lines:     lines,
		})
	}

	return json.MarshalIndent(payload, "", "    ")
}

// PickListsJSON serializes pick lists to the {"picks": [...]} payload.
func (s *Serializer) PickListsJSON(pickLists []domain.PickList) ([]byte, error) {
	payload := PickListsExport{Picks: make([]PickListPayload, 0, len(pickLists))}

	for _, pickList := range pickLists {
		lines := make([]PickLinePayload, 0, len(pickList.Orders))
		for _, order := range pickList.Orders {
			lines = append(lines, PickLinePayload{
				Produce: order.Produce,
				Variant: s.truncateVariant(order.Variant),
				Unit:    order.Unit,
				Price:   order.Price,
				Qty:     order.Quantity,
				Buyer:   order.Buyer.Name,
			})
		}

		payload.Picks = append(payload.Picks, PickListPayload{
			Date:      formatDate(pickList.MondayOfOrderWeek),
			Seller:    SellerPayload{Name: pickList.Seller.Name},
			Reference: pickList.Reference,
			Lines:     lines,
		})
	}

	return json.MarshalIndent(payload, "", "    ")
}

// =============================================================================
// HELPERS
// =============================================================================

func buyerPayload(buyer domain.Buyer, reference string) BuyerPayload {
	return BuyerPayload{
		Name:     buyer.Name,
		Address1: buyer.AddressLine1,
		Address2: buyer.AddressLine2,
		City:     buyer.City,
		Postcode: buyer.Postcode,
		Country:  buyer.Country,
		Number:   reference,
	}
}

// itemText builds an invoice line description from produce and variant.
func (s *Serializer) itemText(order domain.Order) string {
	if order.Variant == "" {
		return order.Produce
	}
	return order.Produce + " - " + s.truncateVariant(order.Variant)
}

// truncateVariant limits free-text variant values to the configured length,
// marking truncation with an ellipsis.
func (s *Serializer) truncateVariant(variant string) string {
	max := s.VariantMaxLength
	if max <= 0 {
		max = DefaultVariantMaxLength
	}
	runes := []rune(variant)
	if len(runes) <= max {
		return variant
	}
	return string(runes[:max]) + "..."
}

func formatDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(isoDate)
}
