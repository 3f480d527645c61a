// =============================================================================
// Farm-to-Fork Document Generator - Delivery Notes Command
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxfarmtofork/docgen/internal/documents"
	"github.com/oxfarmtofork/docgen/internal/domain"
	"github.com/oxfarmtofork/docgen/internal/export"
	"github.com/oxfarmtofork/docgen/internal/orders"
)

var (
	deliveryNotesOrders   []string
	deliveryNotesContacts string
	deliveryNotesDate     string
	deliveryNotesArchive  bool
)

// deliveryNotesCmd generates one delivery note per ordering buyer for each
// weekly order sheet.
var deliveryNotesCmd = &cobra.Command{
	Use:   "delivery-notes",
	Short: "Generate delivery notes from weekly order sheets",
	Long: `Generate one delivery note per buyer with orders, for each weekly order
sheet. Sheets are taken from --orders or discovered in the input
directory. The delivery date comes from --date, or from each sheet's
file name when the flag is omitted.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var deliveryDate time.Time
		useFileNameForDate := deliveryNotesDate == ""
		if !useFileNameForDate {
			deliveryDate, err = parseDateFlag("date", deliveryNotesDate)
			if err != nil {
				return err
			}
		}

		contactsFile := deliveryNotesContacts
		if contactsFile == "" {
			contactsFile = cfg.ContactsFile
		}
		buyers, err := loadContacts(contactsFile)
		if err != nil {
			return err
		}

		sheets, err := resolveOrderSheets(cfg, deliveryNotesOrders)
		if err != nil {
			return err
		}

		parser := orders.NewParser(buyers)
		parser.VATRate = cfg.Documents.VATRate

		marketPlaces, err := loadMarketPlaces(parser, sheets, deliveryDate, useFileNameForDate)
		if err != nil {
			return err
		}

		serializer := export.NewSerializer()
		serializer.VariantMaxLength = cfg.Documents.VariantMaxLength

		for _, marketPlace := range marketPlaces {
			noteDate := marketPlaceDate(marketPlace, deliveryDate)
			notes := documents.CreateDeliveryNotes(marketPlace, noteDate, marketPlace.Week)

			payload, err := serializer.DeliveryNotesJSON(notes)
			if err != nil {
				return fmt.Errorf("failed to serialize delivery notes: %w", err)
			}

			fileName := fmt.Sprintf("delivery_notes_week_%d.json", marketPlace.Week)
			archiveName := fmt.Sprintf("%s Delivery Notes", noteDate.Format(flagDateLayout))
			if err := publishPayload(cmd.Context(), cfg, cfg.Renderer.OrdersFunction, fileName, archiveName, payload); err != nil {
				return err
			}
		}

		if deliveryNotesArchive {
			return archiveSheets(cfg, sheets)
		}
		return nil
	},
}

// marketPlaceDate picks the delivery date for a parsed marketplace: the
// date stamped on its orders when present, otherwise the flag value.
func marketPlaceDate(marketPlace domain.MarketPlace, fallback time.Time) time.Time {
	for _, order := range marketPlace.Orders {
		if !order.OrderDate.IsZero() {
			return order.OrderDate
		}
	}
	return fallback
}

func init() {
	rootCmd.AddCommand(deliveryNotesCmd)

	deliveryNotesCmd.Flags().StringArrayVar(&deliveryNotesOrders, "orders", nil,
		"Order sheet to process (repeatable; default: discover in the input directory)")
	deliveryNotesCmd.Flags().StringVar(&deliveryNotesContacts, "contacts", "",
		"Contacts spreadsheet (default: contacts_file from config)")
	deliveryNotesCmd.Flags().StringVar(&deliveryNotesDate, "date", "",
		"Delivery date as YYYY-MM-DD (default: the date in each sheet's file name)")
	deliveryNotesCmd.Flags().BoolVar(&deliveryNotesArchive, "archive", false,
		"Move processed order sheets to the input archive on success")
}
