// =============================================================================
// Farm-to-Fork Document Generator - File Manager Utility
// =============================================================================
//
// File management for the pipeline:
//   - Order sheet discovery and file-name convention checks
//   - Archival of successfully processed order sheets
//   - Output writing for payloads and CSV exports
//
// ARCHIVAL STRATEGY:
//   - Order sheets are moved to the input archive only after every parse of
//     the generation request came back clean
//   - Files with validation errors stay where they are so the user can fix
//     and re-run
//   - Archive collisions are resolved with a short unique suffix rather
//     than overwriting the earlier copy
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// orderSheetNamePattern is the required file-name convention for weekly
// order sheets: "...week N - DD_MM_YYYY.xlsx".
var orderSheetNamePattern = regexp.MustCompile(`\d+ - \d{2}_\d{2}_\d{4}\.xlsx$`)

// CheckOrderSheetName reports whether a file name follows the weekly order
// sheet convention.
func CheckOrderSheetName(name string) bool {
	return orderSheetNamePattern.MatchString(name)
}

// DiscoverOrderSheets scans the input directory for spreadsheets following
// the order sheet naming convention. Files with other names are left alone
// and reported back so the user can rename them.
func DiscoverOrderSheets(inputDir string) (matched, skipped []string, err error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read input directory %s: %w", inputDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		if CheckOrderSheetName(name) {
			matched = append(matched, filepath.Join(inputDir, name))
		} else {
			skipped = append(skipped, name)
		}
	}

	return matched, skipped, nil
}

// EnsureDir creates the directory (and parents) when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// WriteOutput writes data to name inside the output directory, creating the
// directory when missing.
func WriteOutput(outputDir, name string, data []byte) (string, error) {
	if err := EnsureDir(outputDir); err != nil {
		return "", err
	}

	path := filepath.Join(outputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return path, nil
}

// ArchiveFile moves a processed file into the archive directory. When a
// file of the same name already exists there, the new copy gets a short
// unique suffix instead of overwriting it.
func ArchiveFile(path, archiveDir string) (string, error) {
	if err := EnsureDir(archiveDir); err != nil {
		return "", err
	}

	name := filepath.Base(path)
	target := filepath.Join(archiveDir, name)

	if _, err := os.Stat(target); err == nil {
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		target = filepath.Join(archiveDir, fmt.Sprintf("%s_%s%s", base, uuid.New().String()[:8], ext))
	}

	if err := os.Rename(path, target); err == nil {
		return target, nil
	}

	// Rename fails across filesystems; fall back to copy and remove.
	if err := copyFile(path, target); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("failed to remove %s after archiving: %w", path, err)
	}
	return target, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
