package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/lab-dashboard-backend/internal/core/domain"
	"github.com/lorrc/lab-dashboard-backend/internal/core/ports"
)

// TaskRepository reads raw task-completion rows from the lab activity log.
// Duration and the rejected flag come back as text: the upstream table mixes
// numeric and free-form values, and normalizing them is pipeline work, not
// query work.
type TaskRepository struct {
	pool     *pgxpool.Pool
	lookback time.Duration
}

var _ ports.TaskSource = (*TaskRepository)(nil)

// NewTaskRepository creates a task source. The lookback bounds RecentTasks
// queries behind intraday snapshots.
func NewTaskRepository(pool *pgxpool.Pool, lookback time.Duration) *TaskRepository {
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	return &TaskRepository{pool: pool, lookback: lookback}
}

const taskColumns = `
SELECT employee_id, employee_name, case_number, task, completed_at, duration, rejected
FROM task_log
`

func (r *TaskRepository) TasksBetween(ctx context.Context, start, endExclusive time.Time) ([]domain.TaskRow, error) {
	const query = taskColumns + `
WHERE completed_at >= $1 AND completed_at < $2
ORDER BY completed_at
`

	rows, err := r.pool.Query(ctx, query, start, endExclusive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTaskRows(rows)
}

func (r *TaskRepository) RecentTasks(ctx context.Context) ([]domain.TaskRow, error) {
	const query = taskColumns + `
WHERE completed_at >= $1
ORDER BY completed_at
`

	rows, err := r.pool.Query(ctx, query, time.Now().UTC().Add(-r.lookback))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTaskRows(rows)
}

func scanTaskRows(rows pgx.Rows) ([]domain.TaskRow, error) {
	out := make([]domain.TaskRow, 0)
	for rows.Next() {
		var (
			row      domain.TaskRow
			duration pgtype.Text
			rejected pgtype.Text
		)
		if err := rows.Scan(&row.EmployeeID, &row.EmployeeName, &row.CaseNumber,
			&row.Task, &row.CompletedAt, &duration, &rejected); err != nil {
			return nil, err
		}
		row.Duration = textOrEmpty(duration)
		row.Rejected = textOrEmpty(rejected)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func textOrEmpty(text pgtype.Text) string {
	if text.Valid {
		return text.String
	}
	return ""
}
