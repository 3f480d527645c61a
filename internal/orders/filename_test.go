package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekNumber(t *testing.T) {
	cases := []struct {
		source string
		week   int
	}{
		{"OxFarmToFork spreadsheet week 7 - 12_02_2024.xlsx", 7},
		{"Week 12 - 25_03_2024.xlsx", 12},
		{"week 1.xlsx", 1},
	}

	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			week, err := ParseWeekNumber(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.week, week)
		})
	}
}

func TestParseWeekNumberMissingToken(t *testing.T) {
	_, err := ParseWeekNumber("orders.xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OxFarmToFork spreadsheet week N - DD_MM_YYYY.xlsx")
}

func TestExtractDeliveryDate(t *testing.T) {
	date, err := ExtractDeliveryDate("OxFarmToFork spreadsheet week 7 - 12_02_2024.xlsx")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC), date)
}

func TestExtractDeliveryDateInvalidToken(t *testing.T) {
	_, err := ExtractDeliveryDate("week 7 - tomorrow.xlsx")
	require.Error(t, err)
}

func TestExtractDeliveryDateNoDateToken(t *testing.T) {
	_, err := ExtractDeliveryDate("week 7.xlsx")
	require.Error(t, err)
}
