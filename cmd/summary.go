// =============================================================================
// Farm-to-Fork Document Generator - Summary Command
// =============================================================================

package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxfarmtofork/docgen/internal/export"
	"github.com/oxfarmtofork/docgen/internal/orders"
	"github.com/oxfarmtofork/docgen/pkg/utils"
)

var (
	summaryOrders   []string
	summaryContacts string
	summaryArchive  bool
)

// summaryCmd exports the processed order sheets as flat CSV files: every
// order as one row, plus the per-seller total-sold rollup. These go
// straight to the output directory; the renderer is not involved.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Export flat CSV summaries of weekly order sheets",
	Long: `Export every order across the given weekly order sheets as one CSV row
(orders.csv), plus the per-seller total-sold rollup
(seller_summaries.csv). Order lines are dated with the delivery date
from each sheet's file name.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		contactsFile := summaryContacts
		if contactsFile == "" {
			contactsFile = cfg.ContactsFile
		}
		buyers, err := loadContacts(contactsFile)
		if err != nil {
			return err
		}

		sheets, err := resolveOrderSheets(cfg, summaryOrders)
		if err != nil {
			return err
		}

		parser := orders.NewParser(buyers)
		parser.VATRate = cfg.Documents.VATRate

		marketPlaces, err := loadMarketPlaces(parser, sheets, time.Time{}, true)
		if err != nil {
			return err
		}

		var ordersCSV bytes.Buffer
		if err := export.WriteOrdersCSV(&ordersCSV, marketPlaces); err != nil {
			return err
		}
		path, err := utils.WriteOutput(cfg.OutputDir, "orders.csv", ordersCSV.Bytes())
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)

		var summariesCSV bytes.Buffer
		if err := export.WriteSellerSummariesCSV(&summariesCSV, marketPlaces); err != nil {
			return err
		}
		path, err = utils.WriteOutput(cfg.OutputDir, "seller_summaries.csv", summariesCSV.Bytes())
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)

		if summaryArchive {
			return archiveSheets(cfg, sheets)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringArrayVar(&summaryOrders, "orders", nil,
		"Order sheet to include (repeatable; default: discover in the input directory)")
	summaryCmd.Flags().StringVar(&summaryContacts, "contacts", "",
		"Contacts spreadsheet (default: contacts_file from config)")
	summaryCmd.Flags().BoolVar(&summaryArchive, "archive", false,
		"Move processed order sheets to the input archive on success")
}
