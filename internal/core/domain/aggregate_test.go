package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricJSON(t *testing.T) {
	tests := []struct {
		name   string
		metric Metric
		json   string
	}{
		{"value", Value(0.85), "0.85"},
		{"not applicable", NotApplicable(), `"x"`},
		{"no data", NoData(), "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.metric)
			require.NoError(t, err)
			assert.Equal(t, tt.json, string(data))

			var back Metric
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.metric, back)
		})
	}
}

func TestMetricUnmarshal_RejectsUnknownMarker(t *testing.T) {
	var m Metric
	assert.Error(t, json.Unmarshal([]byte(`"pending"`), &m))
}

func TestMetricColumns(t *testing.T) {
	cols := MetricColumns()
	require.Len(t, cols, 19)
	assert.Equal(t, "Efficiency_1_Day_Ago", cols[0])
	assert.Equal(t, "Efficiency_Last_Week_Average", cols[5])
	assert.Equal(t, "Efficiency_Previous_Month", cols[7])
	assert.Equal(t, "Efficiency_12_Months_Ago", cols[18])
}

func TestAggregateHistory(t *testing.T) {
	// 2025-08-29 is a Friday with no nearby holidays, so the five preceding
	// business days are Aug 28, 27, 26, 25 and 22.
	reference := Date(2025, time.August, 29)
	cal := NewComputedCalendar(2024, 2026)

	history := []DailyRow{
		{Date: Date(2025, time.August, 28), EmployeeID: "101", DisplayName: "Alice Adams", Team: "Chemistry", TrainingPlan: 1, Efficiency: 50},
		{Date: Date(2025, time.August, 28), EmployeeID: "102", DisplayName: "Bob Baker", Team: "Hematology", Efficiency: 0},
		{Date: Date(2025, time.July, 10), EmployeeID: "101", DisplayName: "Alice Adams", Team: "Chemistry", Efficiency: 80},
	}

	got := AggregateHistory(history, cal, reference)

	// Columns with no data for anyone are dropped from the schema.
	assert.Equal(t, []string{
		"Efficiency_1_Day_Ago",
		"Efficiency_Last_Week_Average",
		"Efficiency_Month_To_Date",
		"Efficiency_Previous_Month",
	}, got.Columns)

	require.Len(t, got.Rows, 2)
	alice, bob := got.Rows[0], got.Rows[1]

	assert.Equal(t, "Alice Adams", alice.DisplayName)
	assert.Equal(t, "Chemistry", alice.Team)
	assert.Equal(t, 1, alice.TrainingPlan)
	assert.Equal(t, Value(0.5), alice.Metrics["Efficiency_1_Day_Ago"])
	assert.Equal(t, Value(0.5), alice.Metrics["Efficiency_Last_Week_Average"])
	assert.Equal(t, Value(0.5), alice.Metrics["Efficiency_Month_To_Date"])
	assert.Equal(t, Value(0.8), alice.Metrics["Efficiency_Previous_Month"])

	// A zero reading means "did not work": Bob has no qualifying data, so
	// every surviving column shows the per-employee marker.
	assert.Equal(t, "Bob Baker", bob.DisplayName)
	for _, col := range got.Columns {
		assert.Equal(t, NotApplicable(), bob.Metrics[col], "column %s", col)
	}

	// Dropped columns are gone from the row maps too.
	_, present := alice.Metrics["Efficiency_2_Day_Ago"]
	assert.False(t, present)
}

func TestAggregateHistory_MonthRollover(t *testing.T) {
	reference := Date(2026, time.January, 15)
	cal := NewComputedCalendar(2024, 2027)

	history := []DailyRow{
		{Date: Date(2025, time.December, 22), EmployeeID: "101", DisplayName: "Alice Adams", Team: "Chemistry", Efficiency: 60},
		{Date: Date(2025, time.February, 14), EmployeeID: "101", DisplayName: "Alice Adams", Team: "Chemistry", Efficiency: 40},
	}

	got := AggregateHistory(history, cal, reference)

	// December 2025 is the previous month of a January 2026 reference, and
	// February 2025 sits eleven months back.
	assert.Equal(t, []string{"Efficiency_Previous_Month", "Efficiency_11_Months_Ago"}, got.Columns)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, Value(0.6), got.Rows[0].Metrics["Efficiency_Previous_Month"])
	assert.Equal(t, Value(0.4), got.Rows[0].Metrics["Efficiency_11_Months_Ago"])
}

func TestAggregateHistory_MeansAverageNonZeroOnly(t *testing.T) {
	reference := Date(2025, time.August, 29)
	cal := NewComputedCalendar(2024, 2026)

	history := []DailyRow{
		{Date: Date(2025, time.August, 25), EmployeeID: "101", DisplayName: "Alice Adams", Efficiency: 40},
		{Date: Date(2025, time.August, 26), EmployeeID: "101", DisplayName: "Alice Adams", Efficiency: 60},
		{Date: Date(2025, time.August, 27), EmployeeID: "101", DisplayName: "Alice Adams", Efficiency: 0},
	}

	got := AggregateHistory(history, cal, reference)
	require.Len(t, got.Rows, 1)
	// (40+60)/2 scaled to a fraction; the zero row is not in the denominator.
	assert.Equal(t, Value(0.5), got.Rows[0].Metrics["Efficiency_Last_Week_Average"])
}

func TestAggregateHistory_TrainingPlanFromLatestDate(t *testing.T) {
	reference := Date(2025, time.August, 29)
	cal := NewComputedCalendar(2024, 2026)

	history := []DailyRow{
		{Date: Date(2025, time.August, 11), EmployeeID: "101", DisplayName: "Alice Adams", TrainingPlan: 1, Efficiency: 50},
		{Date: Date(2025, time.August, 25), EmployeeID: "101", DisplayName: "Alice Adams", TrainingPlan: 0, Efficiency: 50},
	}

	got := AggregateHistory(history, cal, reference)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, 0, got.Rows[0].TrainingPlan)
}

func TestAggregateHistory_Empty(t *testing.T) {
	got := AggregateHistory(nil, NewComputedCalendar(2025, 2025), Date(2025, time.August, 29))
	assert.Empty(t, got.Columns)
	assert.Empty(t, got.Rows)
}

func TestAggregateHistory_SkipsUnmatchedPayrollRows(t *testing.T) {
	reference := Date(2025, time.August, 29)
	cal := NewComputedCalendar(2024, 2026)

	history := []DailyRow{
		{Date: Date(2025, time.August, 28), EmployeeID: "0", DisplayName: "", Efficiency: 50},
		{Date: Date(2025, time.August, 28), EmployeeID: "101", DisplayName: "Alice Adams", Efficiency: 50},
	}

	got := AggregateHistory(history, cal, reference)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "Alice Adams", got.Rows[0].DisplayName)
}
