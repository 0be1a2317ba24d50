package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TaskRow is one raw row from the task-completion query. Duration and the
// rejected flag arrive as text because the upstream table mixes numeric and
// free-form values; Stage 1 normalizes both.
type TaskRow struct {
	EmployeeID   string
	EmployeeName string
	CaseNumber   string
	Task         string
	CompletedAt  time.Time
	Duration     string
	Rejected     string
}

// TaskAggregate is one employee's Stage 1 output for a pay period.
type TaskAggregate struct {
	EmployeeID        string
	CasesWorked       int
	TasksCompleted    int
	TaskDurationHours float64
}

// taskKey is the natural key used to cancel a task against its
// rejection-flagged duplicate.
type taskKey struct {
	caseNumber  string
	completedAt int64
	task        string
	employeeID  string
}

// AggregateTasks is Stage 1 of the efficiency pipeline: normalize raw task
// rows, re-filter to the closed interval [start, end] (dates), cancel tasks
// against identically-keyed rejected rows, and aggregate per employee.
//
// The cancellation matches on (case, timestamp, task, employee) without
// row-level identity, so a legitimate completion and a rejected one sharing
// that key cancel together. Known, accepted looseness.
func AggregateTasks(rows []TaskRow, start, end time.Time) []TaskAggregate {
	start = DateOnly(start)
	endExclusive := DateOnly(end).AddDate(0, 0, 1)

	kept := make([]TaskRow, 0, len(rows))
	rejected := make(map[taskKey]bool)
	for _, row := range rows {
		if row.CompletedAt.Before(start) || !row.CompletedAt.Before(endExclusive) {
			continue
		}
		if parseRejectedFlag(row.Rejected) {
			rejected[rowKey(row)] = true
		}
		kept = append(kept, row)
	}

	type bucket struct {
		cases    map[string]bool
		tasks    int
		duration float64
	}
	byEmployee := make(map[string]*bucket)
	for _, row := range kept {
		if rejected[rowKey(row)] {
			continue
		}
		b := byEmployee[row.EmployeeID]
		if b == nil {
			b = &bucket{cases: make(map[string]bool)}
			byEmployee[row.EmployeeID] = b
		}
		b.cases[row.CaseNumber] = true
		b.tasks++
		b.duration += ParseHours(row.Duration)
	}

	aggregates := make([]TaskAggregate, 0, len(byEmployee))
	for id, b := range byEmployee {
		aggregates = append(aggregates, TaskAggregate{
			EmployeeID:        id,
			CasesWorked:       len(b.cases),
			TasksCompleted:    b.tasks,
			TaskDurationHours: Round2(b.duration),
		})
	}
	sort.Slice(aggregates, func(i, j int) bool {
		return lessEmployeeID(aggregates[i].EmployeeID, aggregates[j].EmployeeID)
	})
	return aggregates
}

func rowKey(row TaskRow) taskKey {
	return taskKey{
		caseNumber:  row.CaseNumber,
		completedAt: row.CompletedAt.Unix(),
		task:        row.Task,
		employeeID:  row.EmployeeID,
	}
}

// parseRejectedFlag normalizes the mixed-origin rejected column.
func parseRejectedFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "1", "true", "y":
		return true
	default:
		return false
	}
}

// ParseHours converts a raw duration field to hours; unparsable values
// degrade to 0 rather than failing the batch.
func ParseHours(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// lessEmployeeID orders employee ids numerically when both parse as
// integers, lexicographically otherwise.
func lessEmployeeID(a, b string) bool {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

// Round2 rounds to two decimal places, the precision used across all
// reported hour and efficiency figures.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
