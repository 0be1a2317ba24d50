package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskAt(employeeID, caseNumber, task string, at time.Time, duration, rejected string) TaskRow {
	return TaskRow{
		EmployeeID:  employeeID,
		CaseNumber:  caseNumber,
		Task:        task,
		CompletedAt: at,
		Duration:    duration,
		Rejected:    rejected,
	}
}

func TestAggregateTasks(t *testing.T) {
	start := Date(2025, time.August, 11)
	end := Date(2025, time.August, 15)
	mid := time.Date(2025, time.August, 12, 9, 30, 0, 0, time.UTC)

	rows := []TaskRow{
		taskAt("101", "C-1", "extraction", mid, "1.5", ""),
		taskAt("101", "C-1", "analysis", mid.Add(time.Hour), "2.25", "no"),
		taskAt("101", "C-2", "extraction", mid.Add(2*time.Hour), "0.75", ""),
		taskAt("102", "C-3", "review", mid, "3.0", ""),
	}

	got := AggregateTasks(rows, start, end)
	require.Len(t, got, 2)

	assert.Equal(t, TaskAggregate{
		EmployeeID:        "101",
		CasesWorked:       2,
		TasksCompleted:    3,
		TaskDurationHours: 4.5,
	}, got[0])
	assert.Equal(t, TaskAggregate{
		EmployeeID:        "102",
		CasesWorked:       1,
		TasksCompleted:    1,
		TaskDurationHours: 3,
	}, got[1])
}

func TestAggregateTasks_RejectionCancelsMatchingRow(t *testing.T) {
	start := Date(2025, time.August, 11)
	end := Date(2025, time.August, 15)
	at := time.Date(2025, time.August, 12, 9, 0, 0, 0, time.UTC)

	rows := []TaskRow{
		// Identical key, one flagged rejected: both cancel.
		taskAt("101", "C-1", "extraction", at, "1.5", ""),
		taskAt("101", "C-1", "extraction", at, "1.5", "Yes"),
		// Same case, different task: survives.
		taskAt("101", "C-1", "analysis", at, "2.0", ""),
	}

	got := AggregateTasks(rows, start, end)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].TasksCompleted)
	assert.Equal(t, 2.0, got[0].TaskDurationHours)
}

func TestAggregateTasks_RejectionOnlyEmployeeDropsOut(t *testing.T) {
	start := Date(2025, time.August, 11)
	end := Date(2025, time.August, 15)
	at := time.Date(2025, time.August, 12, 9, 0, 0, 0, time.UTC)

	rows := []TaskRow{
		taskAt("101", "C-1", "extraction", at, "1.5", "1"),
	}

	got := AggregateTasks(rows, start, end)
	assert.Empty(t, got)
}

func TestAggregateTasks_FiltersToPeriod(t *testing.T) {
	start := Date(2025, time.August, 11)
	end := Date(2025, time.August, 15)

	rows := []TaskRow{
		taskAt("101", "C-1", "extraction", time.Date(2025, time.August, 10, 23, 59, 0, 0, time.UTC), "1", ""),
		taskAt("101", "C-2", "extraction", time.Date(2025, time.August, 15, 23, 59, 0, 0, time.UTC), "1", ""),
		taskAt("101", "C-3", "extraction", Date(2025, time.August, 16), "1", ""),
	}

	got := AggregateTasks(rows, start, end)
	require.Len(t, got, 1)
	// The end date is inclusive through its whole day.
	assert.Equal(t, 1, got[0].TasksCompleted)
	assert.Equal(t, 1, got[0].CasesWorked)
}

func TestAggregateTasks_SortsNumerically(t *testing.T) {
	start := Date(2025, time.August, 11)
	end := Date(2025, time.August, 15)
	at := time.Date(2025, time.August, 12, 9, 0, 0, 0, time.UTC)

	rows := []TaskRow{
		taskAt("12", "C-1", "a", at, "1", ""),
		taskAt("2", "C-2", "a", at, "1", ""),
		taskAt("101", "C-3", "a", at, "1", ""),
	}

	got := AggregateTasks(rows, start, end)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"2", "12", "101"},
		[]string{got[0].EmployeeID, got[1].EmployeeID, got[2].EmployeeID})
}

func TestParseHours(t *testing.T) {
	assert.Equal(t, 1.5, ParseHours("1.5"))
	assert.Equal(t, 2.0, ParseHours(" 2 "))
	assert.Equal(t, 0.0, ParseHours("n/a"))
	assert.Equal(t, 0.0, ParseHours(""))
	assert.Equal(t, 0.0, ParseHours("NaN"))
	assert.Equal(t, 0.0, ParseHours("+Inf"))
}

func TestParseRejectedFlag(t *testing.T) {
	for _, raw := range []string{"yes", "Yes", " YES ", "1", "true", "y"} {
		assert.True(t, parseRejectedFlag(raw), "raw=%q", raw)
	}
	for _, raw := range []string{"", "no", "0", "false", "rejected"} {
		assert.False(t, parseRejectedFlag(raw), "raw=%q", raw)
	}
}
