package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/lorrc/lab-dashboard-backend/internal/core/domain"
	"github.com/lorrc/lab-dashboard-backend/internal/core/ports"
)

// CalendarService resolves the company holiday calendar and exposes
// business-day utilities over it. An externally supplied override list is
// authoritative when non-empty; otherwise the fixed company rules apply.
type CalendarService struct {
	overrides ports.HolidayOverrideSource
	logger    *slog.Logger
}

var _ ports.CalendarService = (*CalendarService)(nil)

// NewCalendarService creates a new calendar service.
func NewCalendarService(overrides ports.HolidayOverrideSource, logger *slog.Logger) *CalendarService {
	return &CalendarService{
		overrides: overrides,
		logger:    logger.With("component", "calendar_service"),
	}
}

// BusinessCalendar materializes the holiday calendar covering the years
// around the reference date. Override loading cannot fail the request into
/// a broken calendar: a load error is surfaced, an empty list falls back to
// the computed rules.
func (s *CalendarService) BusinessCalendar(ctx context.Context, reference time.Time) (*domain.Calendar, error) {
	overrides, err := s.overrides.Overrides(ctx)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		return domain.NewCalendar(overrides), nil
	}
	year := reference.UTC().Year()
	return domain.NewComputedCalendar(year-1, year+2), nil
}

// IsBusinessDay reports whether the date is a weekday outside the holiday
// set.
func (s *CalendarService) IsBusinessDay(ctx context.Context, date time.Time) (bool, error) {
	cal, err := s.BusinessCalendar(ctx, date)
	if err != nil {
		return false, err
	}
	return cal.IsBusinessDay(date), nil
}

// PreviousBusinessDay returns the most recent business day strictly before
// the reference date.
func (s *CalendarService) PreviousBusinessDay(ctx context.Context, reference time.Time) (time.Time, error) {
	cal, err := s.BusinessCalendar(ctx, reference)
	if err != nil {
		return time.Time{}, err
	}
	return cal.PreviousBusinessDay(reference), nil
}

// NthBusinessDayAfter returns the nth business day after the reference
// date, excluding the reference itself.
func (s *CalendarService) NthBusinessDayAfter(ctx context.Context, reference time.Time, n int) (time.Time, error) {
	cal, err := s.BusinessCalendar(ctx, reference)
	if err != nil {
		return time.Time{}, err
	}
	return cal.NthBusinessDayAfter(reference, n), nil
}

// NthBusinessDayBefore returns the nth business day before the reference
// date, excluding the reference itself.
func (s *CalendarService) NthBusinessDayBefore(ctx context.Context, reference time.Time, n int) (time.Time, error) {
	cal, err := s.BusinessCalendar(ctx, reference)
	if err != nil {
		return time.Time{}, err
	}
	return cal.NthBusinessDayBefore(reference, n), nil
}

// ResolveFollowUp extracts a follow-up date from hold-reason text.
func (s *CalendarService) ResolveFollowUp(text string, reference time.Time) (time.Time, bool) {
	return domain.ExtractFollowUpDate(text, reference)
}
