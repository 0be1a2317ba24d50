package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/lab-dashboard-backend/internal/core/domain"
)

// TaskSource returns raw task-completion rows from the lab activity
// database. Queries are consumed as opaque row producers; the pipeline
// re-filters and normalizes whatever comes back.
type TaskSource interface {
	// TasksBetween returns task rows completed in [start, endExclusive).
	TasksBetween(ctx context.Context, start, endExclusive time.Time) ([]domain.TaskRow, error)
	// RecentTasks returns the trailing lookback window used by intraday
	// snapshots.
	RecentTasks(ctx context.Context) ([]domain.TaskRow, error)
}

// EmployeeDirectory loads the static employee reference table.
type EmployeeDirectory interface {
	Employees(ctx context.Context) ([]domain.Employee, error)
}

// HolidayOverrideSource loads the optional external holiday list. An empty
// result means "not supplied" and the computed calendar applies.
type HolidayOverrideSource interface {
	Overrides(ctx context.Context) ([]time.Time, error)
}

// PayrollReader parses a raw payroll export into structured entries.
type PayrollReader interface {
	Read(data []byte) ([]domain.PayrollEntry, error)
}

// EfficiencyStore persists the report tables. Saves are full-table
// replacements keyed by logical table; loads of absent tables return empty,
// correctly-shaped results.
type EfficiencyStore interface {
	LoadDaily(ctx context.Context) ([]domain.DailyRow, error)
	SaveDaily(ctx context.Context, rows []domain.DailyRow) error
	LoadAggregated(ctx context.Context) (domain.AggregatedTable, error)
	SaveAggregated(ctx context.Context, table domain.AggregatedTable) error
	LoadSnapshot(ctx context.Context, window domain.SnapshotWindow) ([]domain.SnapshotRow, error)
	SaveSnapshot(ctx context.Context, window domain.SnapshotWindow, rows []domain.SnapshotRow) error
}

// UserRepository persists dashboard login accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
