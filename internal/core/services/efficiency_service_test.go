package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/lab-dashboard-backend/internal/core/domain"
	apperrors "github.com/lorrc/lab-dashboard-backend/internal/core/errors"
	"github.com/lorrc/lab-dashboard-backend/internal/core/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type efficiencyFixture struct {
	tasks       *mocks.MockTaskSource
	directory   *mocks.MockEmployeeDirectory
	payroll     *mocks.MockPayrollReader
	store       *mocks.MockEfficiencyStore
	calendar    *mocks.MockCalendarService
	notifier    *mocks.MockNotifier
	broadcaster *mocks.MockEventBroadcaster
	service     *EfficiencyService
}

func newEfficiencyFixture(now time.Time) *efficiencyFixture {
	f := &efficiencyFixture{
		tasks:       new(mocks.MockTaskSource),
		directory:   new(mocks.MockEmployeeDirectory),
		payroll:     new(mocks.MockPayrollReader),
		store:       new(mocks.MockEfficiencyStore),
		calendar:    new(mocks.MockCalendarService),
		notifier:    new(mocks.MockNotifier),
		broadcaster: new(mocks.MockEventBroadcaster),
	}
	f.service = NewEfficiencyService(
		f.tasks, f.directory, f.payroll, f.store, f.calendar,
		f.notifier, f.broadcaster, testLogger(),
	)
	f.service.now = func() time.Time { return now }
	return f
}

func TestEfficiencyService_RunUpload(t *testing.T) {
	now := time.Date(2025, time.August, 29, 10, 0, 0, 0, time.UTC)
	f := newEfficiencyFixture(now)

	periodStart := domain.Date(2025, time.August, 11)
	periodEnd := domain.Date(2025, time.August, 15)
	taskTime := time.Date(2025, time.August, 12, 9, 0, 0, 0, time.UTC)

	f.tasks.On("TasksBetween", mock.Anything, periodStart, periodEnd.AddDate(0, 0, 1)).
		Return([]domain.TaskRow{
			{EmployeeID: "101", CaseNumber: "C-1", Task: "extraction", CompletedAt: taskTime, Duration: "30"},
		}, nil)
	f.payroll.On("Read", mock.Anything).
		Return([]domain.PayrollEntry{
			{Name: "Adams, Alice", TotalHours: floatPtr(40)},
		}, nil)
	f.directory.On("Employees", mock.Anything).
		Return([]domain.Employee{
			{ID: 101, PayrollName: "Adams, Alice", DisplayName: "Alice Adams", Team: "Chemistry"},
		}, nil)
	f.store.On("LoadDaily", mock.Anything).
		Return([]domain.DailyRow{
			{Date: domain.Date(2025, time.July, 28), EmployeeID: "101", DisplayName: "Alice Adams", Efficiency: 60},
		}, nil)

	var savedDaily []domain.DailyRow
	f.store.On("SaveDaily", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedDaily = args.Get(1).([]domain.DailyRow)
		}).
		Return(nil)
	f.calendar.On("BusinessCalendar", mock.Anything, now).
		Return(domain.NewComputedCalendar(2024, 2026), nil)

	var savedTable domain.AggregatedTable
	f.store.On("SaveAggregated", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedTable = args.Get(1).(domain.AggregatedTable)
		}).
		Return(nil)
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return()
	f.broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventEfficiencyUpdated && e.Channel == domain.ChannelEfficiency
	})).Return(nil)

	result, err := f.service.RunUpload(context.Background(), []byte("csv"), "payroll-2025-08-11-to-2025-08-15.csv")
	require.NoError(t, err)

	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, periodStart, result.PeriodStart)
	assert.Equal(t, periodEnd, result.PeriodEnd)
	assert.Equal(t, 1, result.NewRows)
	assert.Equal(t, 2, result.TotalRows)

	require.Len(t, savedDaily, 2)
	// New period sorts first and carries the computed efficiency.
	assert.Equal(t, periodStart, savedDaily[0].Date)
	assert.Equal(t, 75.0, savedDaily[0].Efficiency)

	require.Len(t, savedTable.Rows, 1)
	assert.Equal(t, "Alice Adams", savedTable.Rows[0].DisplayName)

	f.store.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
	f.broadcaster.AssertExpectations(t)
}

func TestEfficiencyService_RunUpload_BadFilename(t *testing.T) {
	f := newEfficiencyFixture(time.Now())

	_, err := f.service.RunUpload(context.Background(), []byte("csv"), "payroll-august.csv")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.ErrorIs(t, err, domain.ErrBadReportFilename)

	f.tasks.AssertNotCalled(t, "TasksBetween", mock.Anything, mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "SaveDaily", mock.Anything, mock.Anything)
}

func TestEfficiencyService_RunUpload_UnparsablePayroll(t *testing.T) {
	f := newEfficiencyFixture(time.Now())

	f.tasks.On("TasksBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.TaskRow{}, nil)
	f.payroll.On("Read", mock.Anything).
		Return(nil, apperrors.ErrMissingPayrollColumn)

	_, err := f.service.RunUpload(context.Background(), []byte("garbage"), "payroll-2025-08-11-to-2025-08-15.csv")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 422, appErr.StatusCode)
	f.store.AssertNotCalled(t, "SaveDaily", mock.Anything, mock.Anything)
}

func TestEfficiencyService_RunSnapshot(t *testing.T) {
	now := time.Date(2025, time.August, 29, 15, 30, 0, 0, time.UTC)
	f := newEfficiencyFixture(now)

	f.tasks.On("RecentTasks", mock.Anything).
		Return([]domain.TaskRow{
			{EmployeeID: "101", EmployeeName: "Alice Adams", CaseNumber: "C-1", CompletedAt: time.Date(2025, time.August, 29, 10, 0, 0, 0, time.UTC), Duration: "1.5"},
		}, nil)
	f.directory.On("Employees", mock.Anything).
		Return([]domain.Employee{
			{ID: 101, DisplayName: "Alice Adams", Team: "Chemistry"},
		}, nil)
	f.store.On("SaveSnapshot", mock.Anything, domain.WindowNoon, mock.Anything).Return(nil)
	f.broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventSnapshotUpdated
	})).Return(nil)

	rows, err := f.service.RunSnapshot(context.Background(), domain.WindowNoon)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Chemistry", rows[0].Team)

	f.store.AssertExpectations(t)
	f.broadcaster.AssertExpectations(t)
}

func TestEfficiencyService_RunSnapshot_UnknownWindow(t *testing.T) {
	f := newEfficiencyFixture(time.Now())

	_, err := f.service.RunSnapshot(context.Background(), domain.SnapshotWindow("midnight"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnknownWindow)
	f.tasks.AssertNotCalled(t, "RecentTasks", mock.Anything)
}

func TestEfficiencyService_Snapshot_UnknownWindow(t *testing.T) {
	f := newEfficiencyFixture(time.Now())

	_, err := f.service.Snapshot(context.Background(), domain.SnapshotWindow("evening"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnknownWindow)
}

func floatPtr(v float64) *float64 { return &v }
