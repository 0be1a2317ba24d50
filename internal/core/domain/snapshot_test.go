package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotWindow(t *testing.T) {
	assert.True(t, WindowNoon.Valid())
	assert.True(t, Window3PM.Valid())
	assert.False(t, SnapshotWindow("midnight").Valid())

	assert.Equal(t, 12, WindowNoon.endHour())
	assert.Equal(t, 15, Window3PM.endHour())
}

func TestBuildSnapshot(t *testing.T) {
	now := time.Date(2025, time.August, 29, 16, 0, 0, 0, time.UTC)
	employees := []Employee{
		{ID: 101, DisplayName: "Alice Adams", Team: "Chemistry"},
		{ID: 102, DisplayName: "Bob Baker", Team: "Hematology"},
	}

	at := func(hour, min int) time.Time {
		return time.Date(2025, time.August, 29, hour, min, 0, 0, time.UTC)
	}
	rows := []TaskRow{
		{EmployeeID: "101", EmployeeName: "Alice Adams", CaseNumber: "C-1", Task: "extraction", CompletedAt: at(9, 30), Duration: "1.5"},
		{EmployeeID: "101", EmployeeName: "Alice Adams", CaseNumber: "C-1", Task: "analysis", CompletedAt: at(11, 0), Duration: "2"},
		{EmployeeID: "101", EmployeeName: "Alice Adams", CaseNumber: "C-2", Task: "review", CompletedAt: at(14, 0), Duration: "1"},
		{EmployeeID: "102", EmployeeName: "Bob Baker", CaseNumber: "C-3", Task: "review", CompletedAt: at(10, 0), Duration: "0.5"},
		// Before the window opens.
		{EmployeeID: "102", EmployeeName: "Bob Baker", CaseNumber: "C-4", Task: "review", CompletedAt: at(2, 0), Duration: "4"},
	}

	t.Run("noon window", func(t *testing.T) {
		got := BuildSnapshot(rows, employees, WindowNoon, now)
		require.Len(t, got, 2)

		assert.Equal(t, SnapshotRow{
			Team:           "Chemistry",
			DisplayName:    "Alice Adams",
			Cases:          1,
			TasksCompleted: 2,
			DurationHours:  3.5,
		}, got[0])
		assert.Equal(t, SnapshotRow{
			Team:           "Hematology",
			DisplayName:    "Bob Baker",
			Cases:          1,
			TasksCompleted: 1,
			DurationHours:  0.5,
		}, got[1])
	})

	t.Run("3pm window includes the afternoon row", func(t *testing.T) {
		got := BuildSnapshot(rows, employees, Window3PM, now)
		require.Len(t, got, 2)
		assert.Equal(t, 2, got[0].Cases)
		assert.Equal(t, 3, got[0].TasksCompleted)
		assert.Equal(t, 4.5, got[0].DurationHours)
	})
}

func TestBuildSnapshot_WindowEndsInclusive(t *testing.T) {
	now := time.Date(2025, time.August, 29, 16, 0, 0, 0, time.UTC)
	rows := []TaskRow{
		{EmployeeID: "101", EmployeeName: "Alice Adams", CaseNumber: "C-1", CompletedAt: time.Date(2025, time.August, 29, 12, 0, 0, 0, time.UTC), Duration: "1"},
		{EmployeeID: "101", EmployeeName: "Alice Adams", CaseNumber: "C-2", CompletedAt: time.Date(2025, time.August, 29, 3, 0, 0, 0, time.UTC), Duration: "1"},
		{EmployeeID: "101", EmployeeName: "Alice Adams", CaseNumber: "C-3", CompletedAt: time.Date(2025, time.August, 29, 12, 0, 1, 0, time.UTC), Duration: "1"},
	}

	got := BuildSnapshot(rows, nil, WindowNoon, now)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].TasksCompleted, "both boundary instants count, a second past noon does not")
}

func TestBuildSnapshot_TeamHandling(t *testing.T) {
	now := time.Date(2025, time.August, 29, 16, 0, 0, 0, time.UTC)
	at := time.Date(2025, time.August, 29, 10, 0, 0, 0, time.UTC)
	employees := []Employee{
		{ID: 101, DisplayName: "Alice Adams", Team: "Chemistry"},
		{ID: 103, DisplayName: "Zed Zero", Team: TeamExcludedFromReports},
	}

	rows := []TaskRow{
		{EmployeeID: "103", EmployeeName: "Zed Zero", CaseNumber: "C-1", CompletedAt: at, Duration: "1"},
		{EmployeeID: "999", EmployeeName: "Eve External", CaseNumber: "C-2", CompletedAt: at, Duration: "1"},
		{EmployeeID: "101", EmployeeName: "Alice Adams", CaseNumber: "C-3", CompletedAt: at, Duration: "1"},
	}

	got := BuildSnapshot(rows, employees, WindowNoon, now)
	require.Len(t, got, 2)

	// Excluded directory rows disappear; unknown ids fall back to "Unknown".
	assert.Equal(t, "Chemistry", got[0].Team)
	assert.Equal(t, "Alice Adams", got[0].DisplayName)
	assert.Equal(t, "Unknown", got[1].Team)
	assert.Equal(t, "Eve External", got[1].DisplayName)
}
