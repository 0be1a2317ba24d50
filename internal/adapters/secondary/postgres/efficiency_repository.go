package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/lab-dashboard-backend/internal/core/domain"
	"github.com/lorrc/lab-dashboard-backend/internal/core/ports"
)

// Logical names for the jsonb report documents.
const (
	tableAggregated     = "aggregated_view"
	tableSnapshotPrefix = "snapshot_"
)

// EfficiencyRepository persists the report tables. The daily history is a
// real table; the aggregated view and snapshots are derived documents stored
// whole as jsonb, since they are always read and replaced as a unit.
type EfficiencyRepository struct {
	pool *pgxpool.Pool
	txm  *TransactionManager
}

var _ ports.EfficiencyStore = (*EfficiencyRepository)(nil)

func NewEfficiencyRepository(pool *pgxpool.Pool) *EfficiencyRepository {
	return &EfficiencyRepository{pool: pool, txm: NewTransactionManager(pool)}
}

func (r *EfficiencyRepository) LoadDaily(ctx context.Context) ([]domain.DailyRow, error) {
	const query = `
SELECT date, employee_id, payroll_name, display_name, team, training_plan,
       work_hours, cases_worked, tasks_completed, task_duration_hours, efficiency
FROM daily_efficiency
ORDER BY date DESC, employee_id
`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.DailyRow, 0)
	for rows.Next() {
		var row domain.DailyRow
		if err := rows.Scan(&row.Date, &row.EmployeeID, &row.PayrollName,
			&row.DisplayName, &row.Team, &row.TrainingPlan, &row.WorkHours,
			&row.CasesWorked, &row.TasksCompleted, &row.TaskDurationHours,
			&row.Efficiency); err != nil {
			return nil, err
		}
		row.Date = domain.DateOnly(row.Date)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveDaily replaces the full historical table in one transaction. The
// pipeline already merged old and new rows, so a wholesale swap keeps the
// stored table exactly equal to the in-memory one.
func (r *EfficiencyRepository) SaveDaily(ctx context.Context, rows []domain.DailyRow) error {
	const insert = `
INSERT INTO daily_efficiency (date, employee_id, payroll_name, display_name, team,
                              training_plan, work_hours, cases_worked, tasks_completed,
                              task_duration_hours, efficiency)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

	return r.txm.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM daily_efficiency`); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, row := range rows {
			batch.Queue(insert, domain.DateOnly(row.Date), row.EmployeeID,
				row.PayrollName, row.DisplayName, row.Team, row.TrainingPlan,
				row.WorkHours, row.CasesWorked, row.TasksCompleted,
				row.TaskDurationHours, row.Efficiency)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

func (r *EfficiencyRepository) LoadAggregated(ctx context.Context) (domain.AggregatedTable, error) {
	var table domain.AggregatedTable
	found, err := r.loadDocument(ctx, tableAggregated, &table)
	if err != nil || !found {
		return domain.AggregatedTable{}, err
	}
	return table, nil
}

func (r *EfficiencyRepository) SaveAggregated(ctx context.Context, table domain.AggregatedTable) error {
	return r.saveDocument(ctx, tableAggregated, table)
}

func (r *EfficiencyRepository) LoadSnapshot(ctx context.Context, window domain.SnapshotWindow) ([]domain.SnapshotRow, error) {
	rows := make([]domain.SnapshotRow, 0)
	found, err := r.loadDocument(ctx, snapshotTableName(window), &rows)
	if err != nil || !found {
		return nil, err
	}
	return rows, nil
}

func (r *EfficiencyRepository) SaveSnapshot(ctx context.Context, window domain.SnapshotWindow, rows []domain.SnapshotRow) error {
	if rows == nil {
		rows = []domain.SnapshotRow{}
	}
	return r.saveDocument(ctx, snapshotTableName(window), rows)
}

func snapshotTableName(window domain.SnapshotWindow) string {
	return tableSnapshotPrefix + string(window)
}

func (r *EfficiencyRepository) loadDocument(ctx context.Context, name string, dest any) (bool, error) {
	const query = `SELECT payload FROM report_tables WHERE name = $1`

	var payload []byte
	if err := r.pool.QueryRow(ctx, query, name).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("report table %q is corrupt: %w", name, err)
	}
	return true, nil
}

func (r *EfficiencyRepository) saveDocument(ctx context.Context, name string, doc any) error {
	const query = `
INSERT INTO report_tables (name, payload, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
`

	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, name, payload)
	return err
}
