// =============================================================================
// Farm-to-Fork Document Generator - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration.
//
// CONFIGURATION FILES:
//   config.yaml: directories, document policy (VAT, payment terms,
//   truncation), renderer collaborator settings and feature flags.
//
// Values not present in the file fall back to defaults; the renderer
// function names additionally accept DOCGEN_* environment overrides applied
// by the root command.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration, loaded from
// config.yaml.
type MainConfig struct {
	// InputDir is the directory scanned for weekly order spreadsheets.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir is where generated payloads and CSV exports are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir is where order sheets are moved after successful
	// processing. Files with validation errors stay in InputDir.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// ContactsFile is the default path to the buyer-contacts spreadsheet.
	// Commands accept --contacts to override per run.
	// Default: "./contacts.xlsx"
	ContactsFile string `yaml:"contacts_file"`

	// Documents holds document-derivation policy.
	Documents DocumentsConfig `yaml:"documents"`

	// Renderer holds settings for the external document-rendering
	// collaborator.
	Renderer RendererConfig `yaml:"renderer"`
}

// DocumentsConfig holds the policy knobs applied by the document builders
// and export serializers.
type DocumentsConfig struct {
	// VATRate is applied to every parsed order line.
	// Default: 0.0 (the marketplace trades zero-rated fresh produce)
	VATRate float64 `yaml:"vat_rate"`

	// PaymentTermsDays is the offset from invoice date to due date.
	// Default: 14
	PaymentTermsDays int `yaml:"payment_terms_days"`

	// VariantMaxLength is the truncation limit applied to the free-text
	// "Additional Info" value in rendered document lines.
	// Default: 25
	VariantMaxLength int `yaml:"variant_max_length"`

	// DeliveryFee adds a post-processing fee line to generated invoices
	// when enabled.
	DeliveryFee DeliveryFeeConfig `yaml:"delivery_fee"`
}

// DeliveryFeeConfig is the delivery-fee feature flag. The fee is applied to
// built invoices only, never inside the parser.
type DeliveryFeeConfig struct {
	// Enabled turns the fee line on. Default: false
	Enabled bool `yaml:"enabled"`

	// FeePence is the per-delivery fee in pence. Default: 0
	FeePence int `yaml:"fee_pence"`
}

// RendererConfig identifies the external Lambda collaborators that turn the
// JSON payloads into downloadable documents and zip archives.
type RendererConfig struct {
	// Enabled controls whether commands invoke the renderer at all. When
	// false the JSON payload is only written to the output directory.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Region is the AWS region the functions are deployed in.
	// Default: "eu-west-2"
	Region string `yaml:"region"`

	// OrdersFunction renders delivery notes. Default: "create_orders"
	OrdersFunction string `yaml:"orders_function"`

	// InvoicesFunction renders invoices. Default: "create_invoices"
	InvoicesFunction string `yaml:"invoices_function"`

	// PicksFunction renders pick lists. Default: "create_picks"
	PicksFunction string `yaml:"picks_function"`

	// ZipperFunction bundles rendered document links into one zip download.
	// Default: "zipper"
	ZipperFunction string `yaml:"zipper_function"`
}

// =============================================================================
// LOADING
// =============================================================================

// LoadMainConfig reads and validates the main configuration file.
//
// A missing file is not an error: all defaults apply, so the tool works out
// of the box in a directory with the conventional layout.
func LoadMainConfig(path string) (*MainConfig, error) {
	cfg := defaultMainConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return cfg, nil
}

func defaultMainConfig() *MainConfig {
	return &MainConfig{
		InputDir:        "./input",
		OutputDir:       "./output",
		InputArchiveDir: "./input_archive",
		ContactsFile:    "./contacts.xlsx",
		Documents: DocumentsConfig{
			VATRate:          0.0,
			PaymentTermsDays: 14,
			VariantMaxLength: 25,
		},
		Renderer: RendererConfig{
			Enabled:          false,
			Region:           "eu-west-2",
			OrdersFunction:   "create_orders",
			InvoicesFunction: "create_invoices",
			PicksFunction:    "create_picks",
			ZipperFunction:   "zipper",
		},
	}
}

// applyDefaults re-fills any field an explicit config file blanked out.
// yaml.Unmarshal writes zero values for keys that are present but empty,
// which would otherwise produce unusable paths.
func applyDefaults(cfg *MainConfig) {
	def := defaultMainConfig()

	if cfg.InputDir == "" {
		cfg.InputDir = def.InputDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = def.OutputDir
	}
	if cfg.InputArchiveDir == "" {
		cfg.InputArchiveDir = def.InputArchiveDir
	}
	if cfg.ContactsFile == "" {
		cfg.ContactsFile = def.ContactsFile
	}
	if cfg.Documents.PaymentTermsDays == 0 {
		cfg.Documents.PaymentTermsDays = def.Documents.PaymentTermsDays
	}
	if cfg.Documents.VariantMaxLength == 0 {
		cfg.Documents.VariantMaxLength = def.Documents.VariantMaxLength
	}
	if cfg.Renderer.Region == "" {
		cfg.Renderer.Region = def.Renderer.Region
	}
	if cfg.Renderer.OrdersFunction == "" {
		cfg.Renderer.OrdersFunction = def.Renderer.OrdersFunction
	}
	if cfg.Renderer.InvoicesFunction == "" {
		cfg.Renderer.InvoicesFunction = def.Renderer.InvoicesFunction
	}
	if cfg.Renderer.PicksFunction == "" {
		cfg.Renderer.PicksFunction = def.Renderer.PicksFunction
	}
	if cfg.Renderer.ZipperFunction == "" {
		cfg.Renderer.ZipperFunction = def.Renderer.ZipperFunction
	}
}

func validate(cfg *MainConfig) error {
	if cfg.Documents.PaymentTermsDays < 0 {
		return fmt.Errorf("documents.payment_terms_days must not be negative (got %d)", cfg.Documents.PaymentTermsDays)
	}
	if cfg.Documents.VariantMaxLength < 1 {
		return fmt.Errorf("documents.variant_max_length must be positive (got %d)", cfg.Documents.VariantMaxLength)
	}
	if cfg.Documents.VATRate < 0 {
		return fmt.Errorf("documents.vat_rate must not be negative (got %g)", cfg.Documents.VATRate)
	}
	if cfg.Documents.DeliveryFee.Enabled && cfg.Documents.DeliveryFee.FeePence <= 0 {
		return fmt.Errorf("documents.delivery_fee.fee_pence must be positive when the fee is enabled (got %d)", cfg.Documents.DeliveryFee.FeePence)
	}
	return nil
}
