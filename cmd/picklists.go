// =============================================================================
// Farm-to-Fork Document Generator - Pick Lists Command
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
	pickListsOrders   []string
	pickListsContacts string
	pickListsMonday   string
	pickListsSummary  bool
	pickListsArchive  bool
)

// pickListsCmd generates one pick list per selling grower for each weekly
// order sheet.
var pickListsCmd = &cobra.Command{
	Use:   "picklists",
	Short: "Generate per-grower pick lists from weekly order sheets",
	Long: `Generate one pick list per grower with orders, for each weekly order
sheet. --monday stamps the Monday of the order week on the documents;
when omitted it falls back to each sheet's file-name date. With
--summary each list ends with per-produce total lines for quick
packing checks.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var monday time.Time
		useFileNameForDate := pickListsMonday == ""
		if !useFileNameForDate {
			monday, err = parseDateFlag("monday", pickListsMonday)
			if err != nil {
				return err
			}
		}

		contactsFile := pickListsContacts
		if contactsFile == "" {
			contactsFile = cfg.ContactsFile
		}
		buyers, err := loadContacts(contactsFile)
		if err != nil {
			return err
		}

		sheets, err := resolveOrderSheets(cfg, pickListsOrders)
		if err != nil {
			return err
		}

		parser := orders.NewParser(buyers)
		parser.VATRate = cfg.Documents.VATRate

		marketPlaces, err := loadMarketPlaces(parser, sheets, monday, useFileNameForDate)
		if err != nil {
			return err
		}

		serializer := export.NewSerializer()
		serializer.VariantMaxLength = cfg.Documents.VariantMaxLength

		for _, marketPlace := range marketPlaces {
			listDate := marketPlaceDate(marketPlace, monday)
			pickLists := documents.CreatePickLists(marketPlace, listDate, marketPlace.Week, pickListsSummary)

			payload, err := serializer.PickListsJSON(pickLists)
			if err != nil {
				return fmt.Errorf("failed to serialize pick lists: %w", err)
			}

			fileName := fmt.Sprintf("pick_lists_week_%d.json", marketPlace.Week)
			archiveName := fmt.Sprintf("%s Pick Lists", listDate.Format(flagDateLayout))
			if err := publishPayload(cmd.Context(), cfg, cfg.Renderer.PicksFunction, fileName, archiveName, payload); err != nil {
				return err
			}
		}

		if pickListsArchive {
			return archiveSheets(cfg, sheets)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pickListsCmd)

	pickListsCmd.Flags().StringArrayVar(&pickListsOrders, "orders", nil,
		"Order sheet to process (repeatable; default: discover in the input directory)")
	pickListsCmd.Flags().StringVar(&pickListsContacts, "contacts", "",
		"Contacts spreadsheet (default: contacts_file from config)")
	pickListsCmd.Flags().StringVar(&pickListsMonday, "monday", "",
		"Monday of the order week as YYYY-MM-DD (default: the date in each sheet's file name)")
	pickListsCmd.Flags().BoolVar(&pickListsSummary, "summary", false,
		"Append per-produce total lines to each pick list")
	pickListsCmd.Flags().BoolVar(&pickListsArchive, "archive", false,
		"Move processed order sheets to the input archive on success")
}
