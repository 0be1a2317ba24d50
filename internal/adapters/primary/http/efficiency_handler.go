package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/lab-dashboard-backend/internal/core/domain"
	apperrors "github.com/lorrc/lab-dashboard-backend/internal/core/errors"
	"github.com/lorrc/lab-dashboard-backend/internal/core/ports"
)

// EfficiencyHandler handles HTTP requests for the efficiency pipeline and
// its report tables.
type EfficiencyHandler struct {
	efficiencyService ports.EfficiencyService
	maxUploadBytes    int64
	errorHandler      *ErrorHandler
	logger            *slog.Logger
}

// NewEfficiencyHandler creates a new efficiency handler.
func NewEfficiencyHandler(
	efficiencyService ports.EfficiencyService,
	maxUploadBytes int64,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *EfficiencyHandler {
	return &EfficiencyHandler{
		efficiencyService: efficiencyService,
		maxUploadBytes:    maxUploadBytes,
		errorHandler:      errorHandler,
		logger:            logger.With("handler", "efficiency"),
	}
}

// RegisterReadRoutes sets up the read-only report endpoints.
func (h *EfficiencyHandler) RegisterReadRoutes(r chi.Router) {
	r.Get("/daily", h.HandleDailyHistory)
	r.Get("/aggregated", h.HandleAggregated)
	r.Get("/snapshots/{window}", h.HandleGetSnapshot)
}

// RegisterWriteRoutes sets up the pipeline-mutating endpoints. The caller
// gates these behind the admin role.
func (h *EfficiencyHandler) RegisterWriteRoutes(r chi.Router) {
	r.Post("/upload", h.HandleUpload)
	r.Post("/snapshots/{window}/run", h.HandleRunSnapshot)
}

// HandleUpload handles POST /efficiency/upload. It accepts a multipart
// form with a single "file" field holding the payroll export.
func (h *EfficiencyHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "A \"file\" form field is required"))
		return
	}
	defer func() { _ = file.Close() }()

	payload, err := io.ReadAll(file)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Could not read uploaded file"))
		return
	}

	h.logger.Info("payroll upload received",
		"request_id", GetRequestID(r.Context()),
		"filename", header.Filename,
		"size_bytes", len(payload),
	)

	result, err := h.efficiencyService.RunUpload(r.Context(), payload, header.Filename)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// HandleDailyHistory handles GET /efficiency/daily.
func (h *EfficiencyHandler) HandleDailyHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.efficiencyService.DailyHistory(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if rows == nil {
		rows = []domain.DailyRow{}
	}
	WriteList(w, rows)
}

// HandleAggregated handles GET /efficiency/aggregated.
func (h *EfficiencyHandler) HandleAggregated(w http.ResponseWriter, r *http.Request) {
	table, err := h.efficiencyService.Aggregated(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, table)
}

// HandleGetSnapshot handles GET /efficiency/snapshots/{window}.
func (h *EfficiencyHandler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	window := domain.SnapshotWindow(chi.URLParam(r, "window"))

	rows, err := h.efficiencyService.Snapshot(r.Context(), window)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if rows == nil {
		rows = []domain.SnapshotRow{}
	}
	WriteList(w, rows)
}

// HandleRunSnapshot handles POST /efficiency/snapshots/{window}/run.
func (h *EfficiencyHandler) HandleRunSnapshot(w http.ResponseWriter, r *http.Request) {
	window := domain.SnapshotWindow(chi.URLParam(r, "window"))

	rows, err := h.efficiencyService.RunSnapshot(r.Context(), window)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if rows == nil {
		rows = []domain.SnapshotRow{}
	}
	WriteList(w, rows)
}
