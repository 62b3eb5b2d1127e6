package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"dataapp-go/internal/models"
	"dataapp-go/internal/service"

	"github.com/go-chi/chi/v5"
)

// ServiceName is reported by the health check
const ServiceName = "data-app-backend"

type Handler struct {
	QueryService *service.QueryService
	Exporter     *service.Exporter
	Logger       *slog.Logger
}

func NewHandler(qs *service.QueryService, exp *service.Exporter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		QueryService: qs,
		Exporter:     exp,
		Logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", h.HealthCheck)

	r.Route("/api/plotting", func(r chi.Router) {
		r.Get("/line-data", h.GetLineData)
		r.Get("/bar-data", h.GetBarData)
	})

	r.Route("/api/dataframe", func(r chi.Router) {
		r.Get("/data", h.GetDataFrameData)
		r.Get("/stats", h.GetDataFrameStats)
	})

	r.Get("/api/export/{dataset}", h.ExportDataset)
}

// ============================================================================
// Health
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.HealthResponse{Status: "healthy", Service: ServiceName})
}

// ============================================================================
// Plotting
// ============================================================================

// GetLineData returns the stock series for line charts
func (h *Handler) GetLineData(w http.ResponseWriter, r *http.Request) {
	q, err := ParseLineQuery(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.QueryService.LineSeries(q))
}

// GetBarData returns per-category sales totals for bar charts
func (h *Handler) GetBarData(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	h.writeJSON(w, http.StatusOK, h.QueryService.BarAggregate(region))
}

// ============================================================================
// Data table
// ============================================================================

// GetDataFrameData returns one page of the employee table
func (h *Handler) GetDataFrameData(w http.ResponseWriter, r *http.Request) {
	q, err := ParseEmployeeQuery(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.QueryService.EmployeePage(q))
}

// GetDataFrameStats returns summary statistics for the employee table
func (h *Handler) GetDataFrameStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.QueryService.EmployeeStats())
}

// ============================================================================
// Export
// ============================================================================

// ExportDataset streams a dataset as CSV (default) or as a SQL script
func (h *Handler) ExportDataset(w http.ResponseWriter, r *http.Request) {
	dataset := chi.URLParam(r, "dataset")

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var write func(w http.ResponseWriter) error
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		write = func(w http.ResponseWriter) error { return h.Exporter.WriteCSV(w, dataset) }
	case "sql":
		w.Header().Set("Content-Type", "application/sql; charset=utf-8")
		write = func(w http.ResponseWriter) error { return h.Exporter.WriteSQL(w, dataset) }
	default:
		h.writeError(w, &ValidationError{Field: "format", Message: "must be 'csv' or 'sql'"})
		return
	}

	if !h.knownDataset(dataset) {
		h.writeError(w, fmt.Errorf("%w: %q", service.ErrUnknownDataset, dataset))
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, dataset, format))
	if err := write(w); err != nil {
		// Headers are already sent; all we can do is log.
		h.Logger.Error("export failed", slog.String("dataset", dataset), slog.String("format", format), slog.Any("error", err))
	}
}

func (h *Handler) knownDataset(name string) bool {
	for _, d := range h.Exporter.Datasets() {
		if d == name {
			return true
		}
	}
	return false
}

// ============================================================================
// Helpers
// ============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Debug("failed to write response", slog.Int("status", status), slog.Any("error", err))
	}
}

// writeError maps err onto the JSON error envelope
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		h.writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   err.Error(),
			Code:    "VALIDATION_ERROR",
			Details: map[string]string{verr.Field: verr.Message},
		})
	case errors.Is(err, service.ErrUnknownDataset):
		h.writeJSON(w, http.StatusNotFound, models.ErrorResponse{
			Error: err.Error(),
			Code:  "NOT_FOUND",
		})
	default:
		h.Logger.Error("request failed", slog.Any("error", err))
		h.writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error: "internal server error",
			Code:  "INTERNAL_ERROR",
		})
	}
}
