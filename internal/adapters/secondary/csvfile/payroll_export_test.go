package csvfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lorrc/lab-dashboard-backend/internal/core/errors"
)

const payrollPreamble = `Payroll Report,,
Generated,2025-08-16,
Company,Example Lab,
Period,2025-08-11 to 2025-08-15,
,,
,,
,,
,,
`

func TestPayrollExportReader_Read(t *testing.T) {
	raw := payrollPreamble + `Name,Total hours,Rest break
"Adams, Alice",40,2.5
"Baker, Bob",38,
"Blank, Betty",,
,,
Totals,116,2.5
`

	entries, err := NewPayrollExportReader().Read([]byte(raw))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Adams, Alice", entries[0].Name)
	require.NotNil(t, entries[0].TotalHours)
	assert.Equal(t, 40.0, *entries[0].TotalHours)
	require.NotNil(t, entries[0].RestBreak)
	assert.Equal(t, 2.5, *entries[0].RestBreak)

	// Blank cells stay nil so the join can tell "no value" from zero.
	assert.Nil(t, entries[1].RestBreak)
	assert.Nil(t, entries[2].TotalHours)

	// The totals row after the blank separator never parses as data.
	for _, e := range entries {
		assert.NotEqual(t, "Totals", e.Name)
	}
}

func TestPayrollExportReader_MissingColumn(t *testing.T) {
	raw := payrollPreamble + `Name,Hours worked
"Adams, Alice",40
`

	_, err := NewPayrollExportReader().Read([]byte(raw))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMissingPayrollColumn)
}

func TestPayrollExportReader_Empty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no rows past the preamble", strings.TrimSuffix(payrollPreamble, "\n")},
		{"header but no data", payrollPreamble + "Name,Total hours,Rest break\n"},
		{"only the separator", payrollPreamble + "Name,Total hours,Rest break\n,,\nTotals,0,0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPayrollExportReader().Read([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrEmptyPayrollExport)
		})
	}
}

func TestPayrollExportReader_HeaderCaseInsensitive(t *testing.T) {
	raw := payrollPreamble + `NAME,TOTAL HOURS,REST BREAK
"Adams, Alice",40,2.5
`

	entries, err := NewPayrollExportReader().Read([]byte(raw))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Adams, Alice", entries[0].Name)
}
