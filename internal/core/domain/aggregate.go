package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// MetricKind tags the three states an aggregated metric cell can hold.
type MetricKind int

const (
	// MetricValue is a computed mean efficiency, 0–1 scale.
	MetricValue MetricKind = iota
	// MetricNoData means no qualifying rows fell inside the period.
	MetricNoData
	// MetricNotApplicable is the "x" cell: the employee has no data for
	// this period but other employees do.
	MetricNotApplicable
)

// Metric is a tagged aggregated-efficiency cell. The tag survives JSON
// round-trips exactly: values marshal as numbers, not-applicable as "x",
// no-data as null.
type Metric struct {
	Kind  MetricKind
	Value float64
}

// Value wraps a computed metric value.
func Value(v float64) Metric { return Metric{Kind: MetricValue, Value: v} }

// NoData is the "no qualifying data" sentinel, distinct from a true zero.
func NoData() Metric { return Metric{Kind: MetricNoData} }

// NotApplicable is the per-employee "x" marker.
func NotApplicable() Metric { return Metric{Kind: MetricNotApplicable} }

// MarshalJSON implements json.Marshaler.
func (m Metric) MarshalJSON() ([]byte, error) {
	switch m.Kind {
	case MetricValue:
		return json.Marshal(m.Value)
	case MetricNotApplicable:
		return json.Marshal("x")
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Metric) UnmarshalJSON(data []byte) error {
	switch {
	case string(data) == "null":
		*m = NoData()
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "x" {
			return fmt.Errorf("unknown metric marker %q", s)
		}
		*m = NotApplicable()
		return nil
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*m = Value(v)
		return nil
	}
}

// AggregatedRow is one employee's multi-period efficiency summary.
// Employees are keyed by display name: payroll ids rotate, display names do
// not.
type AggregatedRow struct {
	DisplayName  string            `json:"displayName"`
	Team         string            `json:"team"`
	TrainingPlan int               `json:"trainingPlan"`
	Metrics      map[string]Metric `json:"metrics"`
}

// AggregatedTable is the Stage 4 output: rows plus the surviving metric
// columns in presentation order. Columns whose every cell reduced to the
// no-data sentinel are dropped from the schema.
type AggregatedTable struct {
	Columns []string        `json:"columns"`
	Rows    []AggregatedRow `json:"rows"`
}

// MetricColumns lists every candidate metric column in canonical order.
func MetricColumns() []string {
	cols := make([]string, 0, 19)
	for n := 1; n <= 5; n++ {
		cols = append(cols, fmt.Sprintf("Efficiency_%d_Day_Ago", n))
	}
	cols = append(cols, "Efficiency_Last_Week_Average", "Efficiency_Month_To_Date", "Efficiency_Previous_Month")
	for m := 2; m <= 12; m++ {
		cols = append(cols, fmt.Sprintf("Efficiency_%d_Months_Ago", m))
	}
	return cols
}

// AggregateHistory is Stage 4 of the efficiency pipeline: recompute the full
// multi-period view from the complete historical table. It is a derived
// view, never updated incrementally.
//
// Every period mean uses only rows with nonzero efficiency; a zero reading
// means "did not work", not a measurement. Periods without qualifying rows
// yield the no-data sentinel, which finalizeColumns later converts to the
// per-cell "x" marker or drops column-wide.
func AggregateHistory(history []DailyRow, cal *Calendar, reference time.Time) AggregatedTable {
	if len(history) == 0 {
		return AggregatedTable{}
	}
	reference = DateOnly(reference)

	names, teams := distinctEmployees(history)
	latestTraining := latestTrainingPlans(history)

	columns := MetricColumns()
	rows := make([]AggregatedRow, 0, len(names))
	for _, name := range names {
		row := AggregatedRow{
			DisplayName:  name,
			Team:         teams[name],
			TrainingPlan: latestTraining[name],
			Metrics:      make(map[string]Metric, len(columns)),
		}

		for n := 1; n <= 5; n++ {
			day := cal.NthBusinessDayBefore(reference, n)
			row.Metrics[fmt.Sprintf("Efficiency_%d_Day_Ago", n)] = meanNonZero(history, name, day, day)
		}

		row.Metrics["Efficiency_Last_Week_Average"] = meanNonZero(history, name,
			reference.AddDate(0, 0, -7), reference.AddDate(0, 0, -1))

		row.Metrics["Efficiency_Month_To_Date"] = meanNonZero(history, name,
			Date(reference.Year(), reference.Month(), 1), reference)

		for m := 1; m <= 12; m++ {
			start, end := trailingMonth(reference, m)
			label := "Efficiency_Previous_Month"
			if m > 1 {
				label = fmt.Sprintf("Efficiency_%d_Months_Ago", m)
			}
			row.Metrics[label] = meanNonZero(history, name, start, end)
		}

		// Percentages become 0–1 fractions in the aggregated view.
		for col, metric := range row.Metrics {
			if metric.Kind == MetricValue {
				row.Metrics[col] = Value(Round2(metric.Value * 0.01))
			}
		}
		rows = append(rows, row)
	}

	return finalizeColumns(AggregatedTable{Columns: columns, Rows: rows})
}

// distinctEmployees returns display names sorted ascending with each name's
// first-seen team. Rows without a display name (unmatched payroll joins)
// carry no stable identity and are excluded.
func distinctEmployees(history []DailyRow) ([]string, map[string]string) {
	teams := make(map[string]string)
	var names []string
	for _, row := range history {
		if row.DisplayName == "" {
			continue
		}
		if _, seen := teams[row.DisplayName]; !seen {
			teams[row.DisplayName] = row.Team
			names = append(names, row.DisplayName)
		}
	}
	sort.Strings(names)
	return names, teams
}

// latestTrainingPlans picks each employee's training-plan flag from the
// single most recent date in the table, not per period.
func latestTrainingPlans(history []DailyRow) map[string]int {
	var maxDate time.Time
	for _, row := range history {
		if d := DateOnly(row.Date); d.After(maxDate) {
			maxDate = d
		}
	}
	latest := make(map[string]int)
	for _, row := range history {
		if !DateOnly(row.Date).Equal(maxDate) || row.DisplayName == "" {
			continue
		}
		if _, seen := latest[row.DisplayName]; !seen {
			latest[row.DisplayName] = row.TrainingPlan
		}
	}
	return latest
}

// meanNonZero averages an employee's nonzero efficiency readings over the
// inclusive date range [start, end].
func meanNonZero(history []DailyRow, displayName string, start, end time.Time) Metric {
	sum, count := 0.0, 0
	for _, row := range history {
		if row.DisplayName != displayName || row.Efficiency == 0 {
			continue
		}
		d := DateOnly(row.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		sum += row.Efficiency
		count++
	}
	if count == 0 {
		return NoData()
	}
	return Value(sum / float64(count))
}

// trailingMonth returns the first and last day of the calendar month m
// months before the reference, with correct December→January and leap-year
// rollover.
func trailingMonth(reference time.Time, m int) (start, end time.Time) {
	year, month := reference.Year(), int(reference.Month())-m
	for month < 1 {
		month += 12
		year--
	}
	start = Date(year, time.Month(month), 1)
	end = start.AddDate(0, 1, 0).AddDate(0, 0, -1)
	return start, end
}

// finalizeColumns applies the column-wide sentinel rules: a column in which
// literally every employee lacks data is dropped from the schema; in
// surviving columns, per-employee gaps become the "x" marker. Columns whose
// every computed value is exactly zero are dropped as well.
func finalizeColumns(table AggregatedTable) AggregatedTable {
	if len(table.Rows) == 0 {
		return AggregatedTable{}
	}

	var surviving []string
	for _, col := range table.Columns {
		allNoData, anyNoData, allZero := true, false, true
		for _, row := range table.Rows {
			m := row.Metrics[col]
			if m.Kind == MetricNoData {
				anyNoData = true
			} else {
				allNoData = false
				if m.Value != 0 {
					allZero = false
				}
			}
		}
		if allNoData || (!anyNoData && allZero) {
			for _, row := range table.Rows {
				delete(row.Metrics, col)
			}
			continue
		}
		for _, row := range table.Rows {
			if row.Metrics[col].Kind == MetricNoData {
				row.Metrics[col] = NotApplicable()
			}
		}
		surviving = append(surviving, col)
	}
	table.Columns = surviving
	return table
}
