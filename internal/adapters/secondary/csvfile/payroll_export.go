package csvfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/lorrc/lab-dashboard-backend/internal/core/domain"
	apperrors "github.com/lorrc/lab-dashboard-backend/internal/core/errors"
	"github.com/lorrc/lab-dashboard-backend/internal/core/ports"
)

// payrollPreambleRows is the fixed block of title and summary lines the
// payroll system emits before the column header.
const payrollPreambleRows = 8

// PayrollExportReader parses the raw payroll export format: a fixed preamble,
// a header row, data rows, and a blank separator line before trailing totals.
type PayrollExportReader struct{}

var _ ports.PayrollReader = (*PayrollExportReader)(nil)

func NewPayrollExportReader() *PayrollExportReader {
	return &PayrollExportReader{}
}

// Read parses the export bytes into payroll entries. Missing required columns
// and an empty data section are input-format errors surfaced to the uploader,
// never silently defaulted.
func (r *PayrollExportReader) Read(data []byte) ([]domain.PayrollEntry, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse payroll export: %w", err)
	}
	if len(records) <= payrollPreambleRows {
		return nil, apperrors.ErrEmptyPayrollExport
	}

	header := indexHeader(records[payrollPreambleRows])
	nameCol, ok := header["name"]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrMissingPayrollColumn, "Name")
	}
	totalCol, ok := header["total_hours"]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrMissingPayrollColumn, "Total hours")
	}
	restCol, ok := header["rest_break"]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrMissingPayrollColumn, "Rest break")
	}

	var entries []domain.PayrollEntry
	for _, record := range records[payrollPreambleRows+1:] {
		// The blank separator line marks the end of the data section;
		// everything after it is summary totals.
		if isBlankRecord(record) {
			break
		}
		name := cell(record, nameCol)
		if name == "" {
			continue
		}
		entries = append(entries, domain.PayrollEntry{
			Name:       name,
			TotalHours: parseOptionalFloat(cell(record, totalCol)),
			RestBreak:  parseOptionalFloat(cell(record, restCol)),
		})
	}

	if len(entries) == 0 {
		return nil, apperrors.ErrEmptyPayrollExport
	}
	return entries, nil
}

func cell(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseOptionalFloat maps blank and unparsable cells to nil, preserving the
// distinction between "no value" and an explicit zero.
func parseOptionalFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
