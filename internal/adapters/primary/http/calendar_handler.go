package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	apperrors "github.com/lorrc/lab-dashboard-backend/internal/core/errors"
	"github.com/lorrc/lab-dashboard-backend/internal/core/ports"
)

// CalendarHandler handles HTTP requests for business-day utilities and
// follow-up date resolution.
type CalendarHandler struct {
	calendarService ports.CalendarService
	errorHandler    *ErrorHandler
	logger          *slog.Logger
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(
	calendarService ports.CalendarService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		errorHandler:    errorHandler,
		logger:          logger.With("handler", "calendar"),
	}
}

// RegisterRoutes sets up the routing for the calendar endpoints.
func (h *CalendarHandler) RegisterRoutes(r chi.Router) {
	r.Get("/business-day", h.HandleIsBusinessDay)
	r.Get("/previous-business-day", h.HandlePreviousBusinessDay)
	r.Get("/nth-after", h.HandleNthAfter)
	r.Get("/nth-before", h.HandleNthBefore)
}

// --- Request/Response DTOs ---

// BusinessDayResponse reports whether a date is a business day.
type BusinessDayResponse struct {
	Date          string `json:"date"`
	IsBusinessDay bool   `json:"isBusinessDay"`
}

// DateResponse carries a single resolved date.
type DateResponse struct {
	Date string `json:"date"`
}

// ResolveFollowUpRequest defines the expected JSON body for follow-up
// resolution.
type ResolveFollowUpRequest struct {
	Text      string `json:"text"`
	Reference string `json:"reference,omitempty"`
}

// ResolveFollowUpResponse reports the resolved follow-up date, if any.
type ResolveFollowUpResponse struct {
	Resolved bool   `json:"resolved"`
	Date     string `json:"date,omitempty"`
}

// HandleIsBusinessDay handles GET /calendar/business-day?date=YYYY-MM-DD.
func (h *CalendarHandler) HandleIsBusinessDay(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	isBusiness, err := h.calendarService.IsBusinessDay(r.Context(), date)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, BusinessDayResponse{
		Date:          date.Format(time.DateOnly),
		IsBusinessDay: isBusiness,
	})
}

// HandlePreviousBusinessDay handles GET /calendar/previous-business-day?date=YYYY-MM-DD.
func (h *CalendarHandler) HandlePreviousBusinessDay(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	previous, err := h.calendarService.PreviousBusinessDay(r.Context(), date)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, DateResponse{Date: previous.Format(time.DateOnly)})
}

// HandleNthAfter handles GET /calendar/nth-after?date=YYYY-MM-DD&n=N.
func (h *CalendarHandler) HandleNthAfter(w http.ResponseWriter, r *http.Request) {
	h.handleNth(w, r, h.calendarService.NthBusinessDayAfter)
}

// HandleNthBefore handles GET /calendar/nth-before?date=YYYY-MM-DD&n=N.
func (h *CalendarHandler) HandleNthBefore(w http.ResponseWriter, r *http.Request) {
	h.handleNth(w, r, h.calendarService.NthBusinessDayBefore)
}

func (h *CalendarHandler) handleNth(
	w http.ResponseWriter,
	r *http.Request,
	walk func(ctx context.Context, reference time.Time, n int) (time.Time, error),
) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n < 1 {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Query parameter \"n\" must be a positive integer"))
		return
	}

	resolved, err := walk(r.Context(), date, n)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, DateResponse{Date: resolved.Format(time.DateOnly)})
}

// HandleResolveFollowUp handles POST /follow-up/resolve.
func (h *CalendarHandler) HandleResolveFollowUp(w http.ResponseWriter, r *http.Request) {
	var req ResolveFollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid request body"))
		return
	}

	reference := time.Now().UTC()
	if req.Reference != "" {
		parsed, err := time.Parse(time.DateOnly, req.Reference)
		if err != nil {
			h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Reference must be a YYYY-MM-DD date"))
			return
		}
		reference = parsed
	}

	resolved, ok := h.calendarService.ResolveFollowUp(req.Text, reference)
	if !ok {
		WriteJSON(w, http.StatusOK, ResolveFollowUpResponse{Resolved: false})
		return
	}

	WriteJSON(w, http.StatusOK, ResolveFollowUpResponse{
		Resolved: true,
		Date:     resolved.Format(time.DateOnly),
	})
}

// dateParam parses the required "date" query parameter.
func (h *CalendarHandler) dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(apperrors.ErrBadRequest, "Query parameter \"date\" is required"))
		return time.Time{}, false
	}

	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Date must be formatted YYYY-MM-DD"))
		return time.Time{}, false
	}
	return date, true
}
