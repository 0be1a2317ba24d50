package domain

import "strconv"

// Employee is one row of the static employee reference table. It exists only
// to join task and payroll data; the pipeline never mutates it.
type Employee struct {
	ID           int64
	PayrollName  string
	DisplayName  string
	Team         string
	TrainingPlan int
}

// TeamExcludedFromReports marks directory rows that never appear on any
// dashboard output.
const TeamExcludedFromReports = "z_Not On Report"

// EmployeeKey renders an employee id in the stable textual form used for all
// joins. Task and payroll data disagree on numeric vs. text ids, so both
// sides are coerced to this form before matching.
func EmployeeKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// employeesByPayrollName indexes a directory slice for the Stage 2 join.
func employeesByPayrollName(employees []Employee) map[string]Employee {
	byName := make(map[string]Employee, len(employees))
	for _, e := range employees {
		byName[e.PayrollName] = e
	}
	return byName
}

// employeesByID indexes a directory slice for snapshot team lookup.
func employeesByID(employees []Employee) map[int64]Employee {
	byID := make(map[int64]Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}
	return byID
}
