// Package mocks provides testify mocks for the core ports.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lorrc/lab-dashboard-backend/internal/core/domain"
	"github.com/lorrc/lab-dashboard-backend/internal/core/ports"
)

// MockTaskSource is a mock implementation of ports.TaskSource.
type MockTaskSource struct {
	mock.Mock
}

func (m *MockTaskSource) TasksBetween(ctx context.Context, start, endExclusive time.Time) ([]domain.TaskRow, error) {
	args := m.Called(ctx, start, endExclusive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaskRow), args.Error(1)
}

func (m *MockTaskSource) RecentTasks(ctx context.Context) ([]domain.TaskRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaskRow), args.Error(1)
}

// MockEmployeeDirectory is a mock implementation of ports.EmployeeDirectory.
type MockEmployeeDirectory struct {
	mock.Mock
}

func (m *MockEmployeeDirectory) Employees(ctx context.Context) ([]domain.Employee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Employee), args.Error(1)
}

// MockHolidayOverrideSource is a mock implementation of
// ports.HolidayOverrideSource.
type MockHolidayOverrideSource struct {
	mock.Mock
}

func (m *MockHolidayOverrideSource) Overrides(ctx context.Context) ([]time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

// MockPayrollReader is a mock implementation of ports.PayrollReader.
type MockPayrollReader struct {
	mock.Mock
}

func (m *MockPayrollReader) Read(data []byte) ([]domain.PayrollEntry, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollEntry), args.Error(1)
}

// MockEfficiencyStore is a mock implementation of ports.EfficiencyStore.
type MockEfficiencyStore struct {
	mock.Mock
}

func (m *MockEfficiencyStore) LoadDaily(ctx context.Context) ([]domain.DailyRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyRow), args.Error(1)
}

func (m *MockEfficiencyStore) SaveDaily(ctx context.Context, rows []domain.DailyRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockEfficiencyStore) LoadAggregated(ctx context.Context) (domain.AggregatedTable, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.AggregatedTable), args.Error(1)
}

func (m *MockEfficiencyStore) SaveAggregated(ctx context.Context, table domain.AggregatedTable) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockEfficiencyStore) LoadSnapshot(ctx context.Context, window domain.SnapshotWindow) ([]domain.SnapshotRow, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SnapshotRow), args.Error(1)
}

func (m *MockEfficiencyStore) SaveSnapshot(ctx context.Context, window domain.SnapshotWindow, rows []domain.SnapshotRow) error {
	args := m.Called(ctx, window, rows)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of ports.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockEfficiencyService is a mock implementation of ports.EfficiencyService.
type MockEfficiencyService struct {
	mock.Mock
}

func (m *MockEfficiencyService) RunUpload(ctx context.Context, payroll []byte, filename string) (*domain.UploadResult, error) {
	args := m.Called(ctx, payroll, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}

func (m *MockEfficiencyService) RunSnapshot(ctx context.Context, window domain.SnapshotWindow) ([]domain.SnapshotRow, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SnapshotRow), args.Error(1)
}

func (m *MockEfficiencyService) DailyHistory(ctx context.Context) ([]domain.DailyRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyRow), args.Error(1)
}

func (m *MockEfficiencyService) Aggregated(ctx context.Context) (domain.AggregatedTable, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.AggregatedTable), args.Error(1)
}

func (m *MockEfficiencyService) Snapshot(ctx context.Context, window domain.SnapshotWindow) ([]domain.SnapshotRow, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SnapshotRow), args.Error(1)
}

// MockCalendarService is a mock implementation of ports.CalendarService.
type MockCalendarService struct {
	mock.Mock
}

func (m *MockCalendarService) BusinessCalendar(ctx context.Context, reference time.Time) (*domain.Calendar, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calendar), args.Error(1)
}

func (m *MockCalendarService) IsBusinessDay(ctx context.Context, date time.Time) (bool, error) {
	args := m.Called(ctx, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockCalendarService) PreviousBusinessDay(ctx context.Context, reference time.Time) (time.Time, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockCalendarService) NthBusinessDayAfter(ctx context.Context, reference time.Time, n int) (time.Time, error) {
	args := m.Called(ctx, reference, n)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockCalendarService) NthBusinessDayBefore(ctx context.Context, reference time.Time, n int) (time.Time, error) {
	args := m.Called(ctx, reference, n)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockCalendarService) ResolveFollowUp(text string, reference time.Time) (time.Time, bool) {
	args := m.Called(text, reference)
	return args.Get(0).(time.Time), args.Bool(1)
}

// MockAuthService is a mock implementation of ports.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, params domain.UserRegistrationParams) (*domain.User, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotifier is a mock implementation of ports.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, params ports.NotificationParams) {
	m.Called(ctx, params)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster.
type MockEventBroadcaster struct {
	mock.Mock
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
