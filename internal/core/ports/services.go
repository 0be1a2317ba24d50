package ports

import (
	"context"
	"time"

	"github.com/lorrc/lab-dashboard-backend/internal/core/domain"
)

// EfficiencyService defines the port for the employee-efficiency pipeline.
type EfficiencyService interface {
	// RunUpload executes the full four-stage pipeline for one payroll
	// export, merges the result into the historical table and recomputes
	// the aggregated view. Invocations serialize: two concurrent uploads
	// never interleave against the same tables.
	RunUpload(ctx context.Context, payroll []byte, filename string) (*domain.UploadResult, error)
	// RunSnapshot recomputes and persists the intraday snapshot for the
	// given window.
	RunSnapshot(ctx context.Context, window domain.SnapshotWindow) ([]domain.SnapshotRow, error)

	DailyHistory(ctx context.Context) ([]domain.DailyRow, error)
	Aggregated(ctx context.Context) (domain.AggregatedTable, error)
	Snapshot(ctx context.Context, window domain.SnapshotWindow) ([]domain.SnapshotRow, error)
}

// CalendarService defines the port for business-day utilities and follow-up
// date resolution. The external override list, when supplied and non-empty,
// is authoritative over the computed calendar.
type CalendarService interface {
	// BusinessCalendar materializes the holiday calendar covering the
	// years around the reference date.
	BusinessCalendar(ctx context.Context, reference time.Time) (*domain.Calendar, error)
	IsBusinessDay(ctx context.Context, date time.Time) (bool, error)
	PreviousBusinessDay(ctx context.Context, reference time.Time) (time.Time, error)
	NthBusinessDayAfter(ctx context.Context, reference time.Time, n int) (time.Time, error)
	NthBusinessDayBefore(ctx context.Context, reference time.Time, n int) (time.Time, error)
	// ResolveFollowUp extracts a follow-up date from hold-reason text.
	// Best-effort: returns false when no marker resolves.
	ResolveFollowUp(text string, reference time.Time) (time.Time, bool)
}

// AuthService defines the port for authentication business logic.
type AuthService interface {
	Register(ctx context.Context, params domain.UserRegistrationParams) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// NotificationParams carries one outbound notification.
type NotificationParams struct {
	Subject string
	Message string
}

// Notifier sends operational notifications (upload completed, snapshot
// written).
type Notifier interface {
	Notify(ctx context.Context, params NotificationParams)
}

// EventBroadcaster pushes real-time refresh events to connected dashboards.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
