// =============================================================================
// Farm-to-Fork Document Generator - Invoices Command
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxfarmtofork/docgen/internal/documents"
	"github.com/oxfarmtofork/docgen/internal/export"
	"github.com/oxfarmtofork/docgen/internal/orders"
)

var (
	invoicesOrders   []string
	invoicesContacts string
	invoicesDate     string
	invoicesArchive  bool
)

// invoicesCmd generates one invoice per buyer covering every order across
// the processed weekly sheets. Meant to run at the start of a month over
// the sheets of the month just traded.
var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Generate monthly invoices from weekly order sheets",
	Long: `Generate one invoice per buyer covering all orders across the given
weekly order sheets. Each order line is dated with the delivery date
from its sheet's file name. The invoice reference and number come from
the calendar month before --date, matching the start-of-month billing
run.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		invoiceDate := time.Now()
		if invoicesDate != "" {
			invoiceDate, err = parseDateFlag("date", invoicesDate)
			if err != nil {
				return err
			}
		}

		contactsFile := invoicesContacts
		if contactsFile == "" {
			contactsFile = cfg.ContactsFile
		}
		buyers, err := loadContacts(contactsFile)
		if err != nil {
			return err
		}

		sheets, err := resolveOrderSheets(cfg, invoicesOrders)
		if err != nil {
			return err
		}

		parser := orders.NewParser(buyers)
		parser.VATRate = cfg.Documents.VATRate

		marketPlaces, err := loadMarketPlaces(parser, sheets, time.Time{}, true)
		if err != nil {
			return err
		}

		invoices := documents.CreateInvoicesWithTerms(marketPlaces, invoiceDate, cfg.Documents.PaymentTermsDays)
		if cfg.Documents.DeliveryFee.Enabled {
			invoices = documents.ApplyDeliveryFee(invoices, cfg.Documents.DeliveryFee.FeePence)
		}

		serializer := export.NewSerializer()
		serializer.VariantMaxLength = cfg.Documents.VariantMaxLength

		payload, err := serializer.InvoicesJSON(invoices)
		if err != nil {
			return fmt.Errorf("failed to serialize invoices: %w", err)
		}

		fileName := fmt.Sprintf("invoices_%s.json", invoiceDate.Format("2006_01"))
		archiveName := fmt.Sprintf("%s Invoices", invoiceDate.Format(flagDateLayout))
		if err := publishPayload(cmd.Context(), cfg, cfg.Renderer.InvoicesFunction, fileName, archiveName, payload); err != nil {
			return err
		}

		for _, summary := range documents.SellerSummaries(marketPlaces) {
			fmt.Printf("%s sold for a total of %.2f\n", summary.Seller.Name, summary.TotalSold)
		}

		if invoicesArchive {
			return archiveSheets(cfg, sheets)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(invoicesCmd)

	invoicesCmd.Flags().StringArrayVar(&invoicesOrders, "orders", nil,
		"Order sheet to include (repeatable; default: discover in the input directory)")
	invoicesCmd.Flags().StringVar(&invoicesContacts, "contacts", "",
		"Contacts spreadsheet (default: contacts_file from config)")
	invoicesCmd.Flags().StringVar(&invoicesDate, "date", "",
		"Invoice date as YYYY-MM-DD (default: today)")
	invoicesCmd.Flags().BoolVar(&invoicesArchive, "archive", false,
		"Move processed order sheets to the input archive on success")
}
