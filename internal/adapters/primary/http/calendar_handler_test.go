package http

import (
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/lab-dashboard-backend/internal/core/mocks"
)

func newCalendarRouter(service *mocks.MockCalendarService) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := NewErrorHandler(logger)
	handler := NewCalendarHandler(service, errorHandler, logger)

	router := chi.NewRouter()
	router.Route("/calendar", handler.RegisterRoutes)
	router.Post("/follow-up/resolve", handler.HandleResolveFollowUp)

	return router
}

func TestCalendarIsBusinessDay(t *testing.T) {
	service := new(mocks.MockCalendarService)
	router := newCalendarRouter(service)

	date := time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC)
	service.On("IsBusinessDay", mock.Anything, date).Return(false, nil)

	req := httptest.NewRequest(stdhttp.MethodGet, "/calendar/business-day?date=2025-11-28", nil)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response BusinessDayResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "2025-11-28", response.Date)
	assert.False(t, response.IsBusinessDay)
}

func TestCalendarIsBusinessDay_MissingDate(t *testing.T) {
	service := new(mocks.MockCalendarService)
	router := newCalendarRouter(service)

	req := httptest.NewRequest(stdhttp.MethodGet, "/calendar/business-day", nil)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusBadRequest, recorder.Code)
	service.AssertNotCalled(t, "IsBusinessDay", mock.Anything, mock.Anything)
}

func TestCalendarNthAfter(t *testing.T) {
	service := new(mocks.MockCalendarService)
	router := newCalendarRouter(service)

	reference := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	resolved := time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC)
	service.On("NthBusinessDayAfter", mock.Anything, reference, 2).Return(resolved, nil)

	req := httptest.NewRequest(stdhttp.MethodGet, "/calendar/nth-after?date=2025-12-24&n=2", nil)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response DateResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "2025-12-30", response.Date)
}

func TestCalendarNthAfter_BadCount(t *testing.T) {
	service := new(mocks.MockCalendarService)
	router := newCalendarRouter(service)

	for _, n := range []string{"0", "-3", "two", ""} {
		req := httptest.NewRequest(stdhttp.MethodGet, "/calendar/nth-after?date=2025-12-24&n="+n, nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusBadRequest, recorder.Code, "n=%q", n)
	}
	service.AssertNotCalled(t, "NthBusinessDayAfter", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveFollowUp(t *testing.T) {
	service := new(mocks.MockCalendarService)
	router := newCalendarRouter(service)

	reference := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	resolved := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	service.On("ResolveFollowUp", "(AFU) 12/15", reference).Return(resolved, true)

	body := strings.NewReader(`{"text":"(AFU) 12/15","reference":"2025-01-10"}`)
	req := httptest.NewRequest(stdhttp.MethodPost, "/follow-up/resolve", body)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response ResolveFollowUpResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.True(t, response.Resolved)
	assert.Equal(t, "2024-12-15", response.Date)
}

func TestResolveFollowUp_NoMarker(t *testing.T) {
	service := new(mocks.MockCalendarService)
	router := newCalendarRouter(service)

	reference := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	service.On("ResolveFollowUp", "waiting on customer", reference).Return(time.Time{}, false)

	body := strings.NewReader(`{"text":"waiting on customer","reference":"2025-01-10"}`)
	req := httptest.NewRequest(stdhttp.MethodPost, "/follow-up/resolve", body)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response ResolveFollowUpResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.False(t, response.Resolved)
	assert.Empty(t, response.Date)
}
