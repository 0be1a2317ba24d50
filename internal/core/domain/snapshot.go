package domain

import (
	"sort"
	"strconv"
	"time"
)

// SnapshotWindow selects the same-day time window for an intraday snapshot.
type SnapshotWindow string

const (
	// WindowNoon covers 3:00 AM through 12:00 PM.
	WindowNoon SnapshotWindow = "noon"
	// Window3PM covers 3:00 AM through 3:00 PM.
	Window3PM SnapshotWindow = "3pm"
)

// Valid reports whether w names a known snapshot window.
func (w SnapshotWindow) Valid() bool {
	return w == WindowNoon || w == Window3PM
}

// endHour returns the window's closing hour.
func (w SnapshotWindow) endHour() int {
	if w == Window3PM {
		return 15
	}
	return 12
}

// SnapshotRow is one employee's intraday task tally.
type SnapshotRow struct {
	Team           string  `json:"team"`
	DisplayName    string  `json:"displayName"`
	Cases          int     `json:"cases"`
	TasksCompleted int     `json:"tasksCompleted"`
	DurationHours  float64 `json:"durationHours"`
}

// BuildSnapshot filters raw task rows to today's snapshot window (both ends
// inclusive) and tallies distinct cases, completed tasks and task duration
// per employee. Teams come from the directory, defaulting to "Unknown";
// directory rows excluded from reports are dropped.
func BuildSnapshot(rows []TaskRow, employees []Employee, window SnapshotWindow, now time.Time) []SnapshotRow {
	day := DateOnly(now)
	start := day.Add(3 * time.Hour)
	end := day.Add(time.Duration(window.endHour()) * time.Hour)

	type key struct {
		employeeID string
		name       string
	}
	type bucket struct {
		cases    map[string]bool
		tasks    int
		duration float64
	}
	byEmployee := make(map[key]*bucket)
	var order []key
	for _, row := range rows {
		t := row.CompletedAt.UTC()
		if t.Before(start) || t.After(end) {
			continue
		}
		k := key{employeeID: row.EmployeeID, name: row.EmployeeName}
		b := byEmployee[k]
		if b == nil {
			b = &bucket{cases: make(map[string]bool)}
			byEmployee[k] = b
			order = append(order, k)
		}
		b.cases[row.CaseNumber] = true
		b.tasks++
		b.duration += ParseHours(row.Duration)
	}

	byID := employeesByID(employees)
	out := make([]SnapshotRow, 0, len(order))
	for _, k := range order {
		team := "Unknown"
		if id, err := strconv.ParseInt(k.employeeID, 10, 64); err == nil {
			if e, ok := byID[id]; ok && e.Team != "" {
				team = e.Team
			}
		}
		if team == TeamExcludedFromReports {
			continue
		}
		b := byEmployee[k]
		out = append(out, SnapshotRow{
			Team:           team,
			DisplayName:    k.name,
			Cases:          len(b.cases),
			TasksCompleted: b.tasks,
			DurationHours:  Round2(b.duration),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	return out
}
