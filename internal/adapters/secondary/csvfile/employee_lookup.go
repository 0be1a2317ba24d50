// Package csvfile holds the file-based secondary adapters: the employee
// reference table, the optional holiday list, and the payroll export parser.
// These inputs are maintained by the lab office as spreadsheets, so every
// reader is lenient about padding and blank lines.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lorrc/lab-dashboard-backend/internal/core/domain"
	"github.com/lorrc/lab-dashboard-backend/internal/core/ports"
)

// EmployeeLookup reads the employee reference table from a CSV file with the
// columns: id, payroll_name, display_name, team, training_plan.
type EmployeeLookup struct {
	path   string
	logger *slog.Logger
}

var _ ports.EmployeeDirectory = (*EmployeeLookup)(nil)

func NewEmployeeLookup(path string, logger *slog.Logger) *EmployeeLookup {
	return &EmployeeLookup{
		path:   path,
		logger: logger.With("component", "employee_lookup"),
	}
}

// Employees loads and parses the reference table. The file is read on every
// call so directory edits take effect on the next pipeline run without a
// restart.
func (l *EmployeeLookup) Employees(ctx context.Context) ([]domain.Employee, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open employee lookup: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse employee lookup: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("employee lookup %q has no data rows", l.path)
	}

	header := indexHeader(records[0])
	for _, col := range []string{"id", "payroll_name", "display_name", "team"} {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("employee lookup %q is missing column %q", l.path, col)
		}
	}

	employees := make([]domain.Employee, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		id, err := strconv.ParseInt(field(record, header, "id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("employee lookup %q row %d: bad id: %w", l.path, i+2, err)
		}
		trainingPlan := 0
		if raw := field(record, header, "training_plan"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				trainingPlan = v
			}
		}
		employees = append(employees, domain.Employee{
			ID:           id,
			PayrollName:  field(record, header, "payroll_name"),
			DisplayName:  field(record, header, "display_name"),
			Team:         field(record, header, "team"),
			TrainingPlan: trainingPlan,
		})
	}

	l.logger.DebugContext(ctx, "employee lookup loaded", "rows", len(employees))
	return employees, nil
}

// indexHeader maps normalized column names to their positions.
func indexHeader(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.ReplaceAll(key, " ", "_")
		index[key] = i
	}
	return index
}

func field(record []string, header map[string]int, name string) string {
	i, ok := header[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
