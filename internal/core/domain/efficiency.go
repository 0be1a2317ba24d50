package domain

import (
	"sort"
	"time"
)

// DailyRow is one employee's efficiency record for one payroll period date.
// The historical table holds at most one row per (employee, date).
type DailyRow struct {
	Date              time.Time `json:"date"`
	EmployeeID        string    `json:"employeeId"`
	PayrollName       string    `json:"payrollName"`
	DisplayName       string    `json:"displayName"`
	Team              string    `json:"team"`
	TrainingPlan      int       `json:"trainingPlan"`
	WorkHours         float64   `json:"workHours"`
	CasesWorked       int       `json:"casesWorked"`
	TasksCompleted    int       `json:"tasksCompleted"`
	TaskDurationHours float64   `json:"taskDurationHours"`
	Efficiency        float64   `json:"efficiency"`
}

// CombineDaily is Stage 3 of the efficiency pipeline: inner-join Stage 2
// payroll hours with Stage 1 task aggregates on the textual employee id and
// compute the efficiency percentage. Rows missing either side are dropped:
// efficiency needs both hours and tasks. Division by zero worked hours maps
// to 0 efficiency, never NaN.
func CombineDaily(hours []PayrollHours, tasks []TaskAggregate) []DailyRow {
	byEmployee := make(map[string]TaskAggregate, len(tasks))
	for _, t := range tasks {
		byEmployee[t.EmployeeID] = t
	}

	out := make([]DailyRow, 0, len(hours))
	for _, h := range hours {
		t, ok := byEmployee[h.EmployeeID]
		if !ok {
			continue
		}
		efficiency := 0.0
		if h.WorkHours != 0 {
			efficiency = Round2(t.TaskDurationHours / h.WorkHours * 100)
		}
		out = append(out, DailyRow{
			Date:              h.Date,
			EmployeeID:        h.EmployeeID,
			PayrollName:       h.PayrollName,
			DisplayName:       h.DisplayName,
			Team:              h.Team,
			TrainingPlan:      h.TrainingPlan,
			WorkHours:         Round2(h.WorkHours),
			CasesWorked:       t.CasesWorked,
			TasksCompleted:    t.TasksCompleted,
			TaskDurationHours: t.TaskDurationHours,
			Efficiency:        efficiency,
		})
	}
	return out
}

// MergeDaily folds freshly imported rows into the historical table:
// existing rows for any date present in the import are replaced wholesale
// (delete-then-insert keyed on date, never a row-level upsert), and the
// result is re-sorted by date descending, then employee id ascending.
func MergeDaily(existing, incoming []DailyRow) []DailyRow {
	if len(incoming) == 0 {
		merged := append([]DailyRow(nil), existing...)
		sortDaily(merged)
		return merged
	}

	replaced := make(map[time.Time]bool)
	for _, row := range incoming {
		replaced[DateOnly(row.Date)] = true
	}

	merged := make([]DailyRow, 0, len(existing)+len(incoming))
	for _, row := range existing {
		if !replaced[DateOnly(row.Date)] {
			merged = append(merged, row)
		}
	}
	merged = append(merged, incoming...)
	sortDaily(merged)
	return merged
}

func sortDaily(rows []DailyRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		di, dj := DateOnly(rows[i].Date), DateOnly(rows[j].Date)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return lessEmployeeID(rows[i].EmployeeID, rows[j].EmployeeID)
	})
}
