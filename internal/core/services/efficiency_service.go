package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lorrc/lab-dashboard-backend/internal/core/domain"
	apperrors "github.com/lorrc/lab-dashboard-backend/internal/core/errors"
	"github.com/lorrc/lab-dashboard-backend/internal/core/ports"
)

// EfficiencyService orchestrates the four-stage efficiency pipeline.
// Pipeline runs (upload or snapshot) serialize on a single mutex: the
// historical table has one writer at a time, while readers may observe the
// previous snapshot concurrently.
type EfficiencyService struct {
	tasks       ports.TaskSource
	directory   ports.EmployeeDirectory
	payroll     ports.PayrollReader
	store       ports.EfficiencyStore
	calendar    ports.CalendarService
	notifier    ports.Notifier
	broadcaster ports.EventBroadcaster
	logger      *slog.Logger

	mu  sync.Mutex
	now func() time.Time
}

var _ ports.EfficiencyService = (*EfficiencyService)(nil)

// NewEfficiencyService creates a new efficiency pipeline service.
func NewEfficiencyService(
	tasks ports.TaskSource,
	directory ports.EmployeeDirectory,
	payroll ports.PayrollReader,
	store ports.EfficiencyStore,
	calendar ports.CalendarService,
	notifier ports.Notifier,
	broadcaster ports.EventBroadcaster,
	logger *slog.Logger,
) *EfficiencyService {
	return &EfficiencyService{
		tasks:       tasks,
		directory:   directory,
		payroll:     payroll,
		store:       store,
		calendar:    calendar,
		notifier:    notifier,
		broadcaster: broadcaster,
		logger:      logger.With("component", "efficiency_service"),
		now:         time.Now,
	}
}

// RunUpload executes Stages 1-3 for the uploaded payroll export, merges the
// new daily rows into the historical table (replace-by-date) and recomputes
// the Stage 4 aggregated view over the full table.
//
// Persistence happens only at stage boundaries: a crash mid-run can leave
// the historical table updated with the aggregated view stale, which the
// next run heals.
func (s *EfficiencyService) RunUpload(ctx context.Context, payroll []byte, filename string) (*domain.UploadResult, error) {
	start, end, err := domain.ParseReportPeriod(filename)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err, fmt.Sprintf("cannot extract pay period from filename %q", filename))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.logger.With("filename", filename,
		"period_start", start.Format("2006-01-02"),
		"period_end", end.Format("2006-01-02"))
	logger.Info("processing payroll upload")

	// Stage 1: task aggregation. The query window is end-exclusive one day
	// past the period end; AggregateTasks re-filters regardless.
	rawTasks, err := s.tasks.TasksBetween(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	taskAggregates := domain.AggregateTasks(rawTasks, start, end)

	// Stage 2: payroll hours joined to the employee directory.
	entries, err := s.payroll.Read(payroll)
	if err != nil {
		return nil, apperrors.NewValidationError(err, "payroll export could not be parsed", nil)
	}
	employees, err := s.directory.Employees(ctx)
	if err != nil {
		return nil, err
	}
	hours := domain.JoinPayrollHours(entries, employees, start)

	// Stage 3: combine into daily rows and merge into history.
	daily := domain.CombineDaily(hours, taskAggregates)
	existing, err := s.store.LoadDaily(ctx)
	if err != nil {
		return nil, err
	}
	merged := domain.MergeDaily(existing, daily)
	if err := s.store.SaveDaily(ctx, merged); err != nil {
		return nil, err
	}

	// Stage 4: full recompute of the aggregated view.
	cal, err := s.calendar.BusinessCalendar(ctx, s.now())
	if err != nil {
		return nil, err
	}
	aggregated := domain.AggregateHistory(merged, cal, s.now())
	if err := s.store.SaveAggregated(ctx, aggregated); err != nil {
		return nil, err
	}

	result := &domain.UploadResult{
		Status:         "ok",
		PeriodStart:    start,
		PeriodEnd:      end,
		NewRows:        len(daily),
		TotalRows:      len(merged),
		AggregatedRows: len(aggregated.Rows),
	}
	logger.Info("payroll upload processed",
		"new_rows", result.NewRows,
		"total_rows", result.TotalRows,
		"aggregated_rows", result.AggregatedRows,
	)

	s.notifier.Notify(ctx, ports.NotificationParams{
		Subject: fmt.Sprintf("Efficiency import %s to %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
		Message: fmt.Sprintf("%d new daily rows imported; %d employees aggregated.", result.NewRows, result.AggregatedRows),
	})
	_ = s.broadcaster.Broadcast(domain.Event{
		Type:    domain.EventEfficiencyUpdated,
		Channel: domain.ChannelEfficiency,
		Payload: result,
	})

	return result, nil
}

// RunSnapshot recomputes the intraday snapshot for the given window from
// the recent task feed and persists it.
func (s *EfficiencyService) RunSnapshot(ctx context.Context, window domain.SnapshotWindow) ([]domain.SnapshotRow, error) {
	if !window.Valid() {
		return nil, apperrors.NewBadRequestError(apperrors.ErrUnknownWindow, fmt.Sprintf("unknown snapshot window %q", window))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rawTasks, err := s.tasks.RecentTasks(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.directory.Employees(ctx)
	if err != nil {
		return nil, err
	}

	rows := domain.BuildSnapshot(rawTasks, employees, window, s.now())
	if err := s.store.SaveSnapshot(ctx, window, rows); err != nil {
		return nil, err
	}

	s.logger.Info("snapshot recomputed", "window", string(window), "rows", len(rows))
	_ = s.broadcaster.Broadcast(domain.Event{
		Type:    domain.EventSnapshotUpdated,
		Channel: domain.ChannelEfficiency,
		Payload: map[string]any{"window": window, "rows": len(rows)},
	})
	return rows, nil
}

// DailyHistory returns the full historical daily table.
func (s *EfficiencyService) DailyHistory(ctx context.Context) ([]domain.DailyRow, error) {
	return s.store.LoadDaily(ctx)
}

// Aggregated returns the persisted multi-period aggregated view.
func (s *EfficiencyService) Aggregated(ctx context.Context) (domain.AggregatedTable, error) {
	return s.store.LoadAggregated(ctx)
}

// Snapshot returns the last persisted snapshot for a window.
func (s *EfficiencyService) Snapshot(ctx context.Context, window domain.SnapshotWindow) ([]domain.SnapshotRow, error) {
	if !window.Valid() {
		return nil, apperrors.NewBadRequestError(apperrors.ErrUnknownWindow, fmt.Sprintf("unknown snapshot window %q", window))
	}
	return s.store.LoadSnapshot(ctx, window)
}
