// =============================================================================
// Farm-to-Fork Document Generator - Shared Command Pipeline
// =============================================================================
//
// Every document command follows the same shape:
//
//   1. Load configuration
//   2. Parse the contacts spreadsheet, gate on its validation report
//   3. Resolve the order sheets (explicit --orders or input-dir discovery)
//   4. Parse each order sheet, gate on its validation report
//   5. Build documents and serialize the payload
//   6. Write the payload to the output directory
//   7. Optionally invoke the rendering collaborator and the zipper
//   8. Optionally archive the processed order sheets
//
// This file holds the shared steps; the per-document commands only
// contribute steps 5 and their flag surface.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/oxfarmtofork/docgen/internal/config"
	"github.com/oxfarmtofork/docgen/internal/contacts"
	"github.com/oxfarmtofork/docgen/internal/domain"
	"github.com/oxfarmtofork/docgen/internal/orders"
	"github.com/oxfarmtofork/docgen/internal/render"
	"github.com/oxfarmtofork/docgen/internal/validation"
	"github.com/oxfarmtofork/docgen/pkg/utils"
)

// flagDateLayout is the layout accepted by all date flags.
const flagDateLayout = "2006-01-02"

// parseDateFlag parses a --date / --monday style flag value.
func parseDateFlag(name, value string) (time.Time, error) {
	date, err := time.Parse(flagDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s value %q, expected YYYY-MM-DD", name, value)
	}
	return date, nil
}

// loadContacts parses the contacts spreadsheet and gates on its report.
// Warnings are printed either way; errors abort the run.
func loadContacts(path string) ([]domain.Buyer, error) {
	buyers, report, err := contacts.ParseFile(path)
	if err != nil {
		return nil, err
	}

	printReport(report)
	if err := report.Err(); err != nil {
		return nil, err
	}

	if verbose {
		fmt.Printf("Loaded %d buyers from %s\n", len(buyers), path)
	}
	return buyers, nil
}

// resolveOrderSheets returns the order sheets to process: the explicit
// --orders paths when given, otherwise every conventionally named sheet in
// the input directory.
func resolveOrderSheets(cfg *config.MainConfig, explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}

	matched, skipped, err := utils.DiscoverOrderSheets(cfg.InputDir)
	if err != nil {
		return nil, err
	}

	for _, name := range skipped {
		fmt.Printf("Warning: skipping %s, file name does not match the order sheet convention\n", name)
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("no order sheets found in %s, pass --orders or add files named like \"week 7 - 12_02_2024.xlsx\"", cfg.InputDir)
	}

	return matched, nil
}

// loadMarketPlaces parses each order sheet and gates on its report. A sheet
// with validation errors aborts the whole run so the user fixes the data
// before any document goes out.
func loadMarketPlaces(parser *orders.Parser, paths []string, deliveryDate time.Time, useFileNameForDate bool) ([]domain.MarketPlace, error) {
	marketPlaces := make([]domain.MarketPlace, 0, len(paths))

	for _, path := range paths {
		marketPlace, report, err := parser.ParseFile(path, deliveryDate, useFileNameForDate)
		if err != nil {
			return nil, err
		}

		printReport(report)
		if err := report.Err(); err != nil {
			return nil, err
		}

		if verbose {
			fmt.Printf("Parsed week %d: %d orders, %d sellers\n",
				marketPlace.Week, len(marketPlace.Orders), len(marketPlace.Sellers))
		}
		marketPlaces = append(marketPlaces, marketPlace)
	}

	return marketPlaces, nil
}

// printReport surfaces a validation report to the user. Clean reports print
// nothing; reports with only warnings print the warnings and continue.
func printReport(report *validation.Report) {
	if report.HasErrors() {
		fmt.Println(report.Summary())
	}
	for _, warning := range report.Warnings {
		fmt.Printf("Warning in %s: %s\n", report.Source, warning.Message)
	}
}

// publishPayload writes the serialized payload to the output directory and,
// when the renderer is enabled, invokes it and bundles the resulting
// document links into one zip download.
func publishPayload(ctx context.Context, cfg *config.MainConfig, function, fileName, archiveName string, payload []byte) error {
	path, err := utils.WriteOutput(cfg.OutputDir, fileName, payload)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)

	if !cfg.Renderer.Enabled || noRender {
		return nil
	}

	client, err := render.NewLambdaClient(ctx, cfg.Renderer.Region)
	if err != nil {
		return err
	}

	links, err := client.Render(ctx, function, payload)
	if err != nil {
		return err
	}
	for name, link := range links {
		fmt.Printf("  %s: %s\n", name, link)
	}

	linkList := make([]string, 0, len(links))
	for _, link := range links {
		linkList = append(linkList, link)
	}

	zipLink, err := client.Zip(ctx, cfg.Renderer.ZipperFunction, linkList, archiveName)
	if err != nil {
		return err
	}
	fmt.Printf("Download all: %s\n", zipLink)

	return nil
}

// archiveSheets moves processed order sheets into the input archive. This
// only runs after a fully clean generation, so failed runs leave the input
// directory untouched for a re-run.
func archiveSheets(cfg *config.MainConfig, paths []string) error {
	for _, path := range paths {
		target, err := utils.ArchiveFile(path, cfg.InputArchiveDir)
		if err != nil {
			return err
		}
		if verbose {
			fmt.Printf("Archived %s\n", target)
		}
	}
	return nil
}
