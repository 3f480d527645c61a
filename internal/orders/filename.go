// =============================================================================
// Farm-to-Fork Document Generator - Order Sheet File Name Convention
// =============================================================================
//
// Weekly order sheets follow the naming convention:
//
//   OxFarmToFork spreadsheet week N - DD_MM_YYYY.xlsx
//
// where N is the week number and DD_MM_YYYY is the delivery date. The week
// token is required for a parse to succeed; the date token is optional and
// only consulted when the caller asks for the delivery date to come from the
// file name.
//
// =============================================================================

package orders

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// weekPattern matches "k " followed by digits, which covers both "week 7"
// and "Week 7" via the shared "k " substring.
var weekPattern = regexp.MustCompile(`k (\d+)`)

// deliveryDateLayout is the DD_MM_YYYY token at the end of the file name.
const deliveryDateLayout = "02_01_2006"

// ParseWeekNumber extracts the week number from an order sheet file name.
// A file name without the token is a fatal condition for the whole parse.
func ParseWeekNumber(source string) (int, error) {
	match := weekPattern.FindStringSubmatch(source)
	if match == nil {
		return 0, fmt.Errorf("invalid order sheet name %s, please use the format: OxFarmToFork spreadsheet week N - DD_MM_YYYY.xlsx", source)
	}

	week, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("invalid week number in order sheet name %s: %w", source, err)
	}
	return week, nil
}

// ExtractDeliveryDate parses the trailing DD_MM_YYYY token of an order sheet
// file name into the delivery date.
func ExtractDeliveryDate(source string) (time.Time, error) {
	parts := strings.Split(source, " - ")
	token := parts[len(parts)-1]
	if dot := strings.Index(token, "."); dot >= 0 {
		token = token[:dot]
	}

	date, err := time.Parse(deliveryDateLayout, token)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to extract date from order sheet %s, make sure the file name is in the format '...N - DD_MM_YYYY.xlsx'", source)
	}
	return date.UTC(), nil
}

func baseName(path string) string {
	return filepath.Base(path)
}
