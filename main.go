// =============================================================================
// Farm-to-Fork Document Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Farm-to-Fork document generator CLI.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   docgen delivery-notes   - Generate delivery notes from weekly order sheets
//   docgen invoices         - Generate monthly invoices from weekly order sheets
//   docgen picklists        - Generate per-grower pick lists
//   docgen summary          - Export flat CSV summaries of all orders
//   docgen version          - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"github.com/oxfarmtofork/docgen/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
