package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrBadReportFilename flags a payroll upload whose filename does not carry
// the pay-period range.
var ErrBadReportFilename = errors.New("payroll filename must contain a YYYY-MM-DD-to-YYYY-MM-DD period")

// reportPeriodPattern is the filename convention carried by payroll exports:
// the pay-period range is embedded as YYYY-MM-DD-to-YYYY-MM-DD.
var reportPeriodPattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})-to-(\d{4}-\d{2}-\d{2})`)

// PayrollEntry is one parsed row of a payroll export. Hours fields are
// pointers because the export leaves cells blank for unpaid rows.
type PayrollEntry struct {
	Name       string
	TotalHours *float64
	RestBreak  *float64
}

// PayrollHours is one employee's Stage 2 output: worked hours joined against
// the employee directory and stamped with the pay-period start date.
type PayrollHours struct {
	Date         time.Time
	EmployeeID   string
	PayrollName  string
	DisplayName  string
	Team         string
	TrainingPlan int
	WorkHours    float64
}

// ParseReportPeriod extracts the pay-period start and end dates from a
// payroll export filename. The filename convention is part of the upload
// contract; a filename without the pattern is an input-format error.
func ParseReportPeriod(filename string) (start, end time.Time, err error) {
	m := reportPeriodPattern.FindStringSubmatch(filename)
	if m == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadReportFilename, filename)
	}
	start, err = time.ParseInLocation("2006-01-02", m[1], time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadReportFilename, filename)
	}
	end, err = time.ParseInLocation("2006-01-02", m[2], time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadReportFilename, filename)
	}
	return start, end, nil
}

// JoinPayrollHours is Stage 2 of the efficiency pipeline: compute worked
// hours per payroll row and left-join the employee directory by payroll
// name. Rows without a directory match are kept with employee id 0 and no
// training plan; dropping them would silently lose paid hours.
func JoinPayrollHours(entries []PayrollEntry, employees []Employee, periodStart time.Time) []PayrollHours {
	byName := employeesByPayrollName(employees)
	periodStart = DateOnly(periodStart)

	out := make([]PayrollHours, 0, len(entries))
	for _, entry := range entries {
		// A missing rest break means none was recorded, not unknown.
		// Negative results pass through as computed.
		var worked float64
		if entry.TotalHours != nil {
			worked = *entry.TotalHours
			if entry.RestBreak != nil {
				worked -= *entry.RestBreak
			}
		}

		row := PayrollHours{
			Date:        periodStart,
			EmployeeID:  EmployeeKey(0),
			PayrollName: entry.Name,
			WorkHours:   worked,
		}
		if e, ok := byName[entry.Name]; ok {
			row.EmployeeID = EmployeeKey(e.ID)
			row.DisplayName = e.DisplayName
			row.Team = e.Team
			row.TrainingPlan = e.TrainingPlan
		}
		out = append(out, row)
	}
	return out
}
