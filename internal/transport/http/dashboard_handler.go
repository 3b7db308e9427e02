package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"unidash/internal/dashboard"
	apperrors "unidash/internal/errors"
	"unidash/internal/services"
	"unidash/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the handlers need.
type DashboardServiceInterface interface {
	Render(ctx context.Context, surface string, sel domain.Selection) (domain.ViewModel, error)
	Options(ctx context.Context) (domain.FilterOptions, error)
	DatasetInfo(ctx context.Context) (domain.DatasetInfo, error)
	Export(ctx context.Context, w io.Writer, format, table string, sel domain.Selection) error
}

// RequestValidator validates and decodes request payloads.
type RequestValidator interface {
	ValidateStruct(v interface{}) error
	DecodeJSON(r *http.Request, dst interface{}) error
}

// Chart names served under /charts/{name}.
const (
	ChartRetention    = "retention"
	ChartSatisfaction = "satisfaction"
	ChartEnrollment   = "enrollment"
	ChartDepartments  = "departments"
)

// MetricsResponse is the summary tile payload.
type MetricsResponse struct {
	Metrics      domain.Metrics   `json:"metrics"`
	Tiles        []dashboard.Tile `json:"tiles"`
	TotalRows    int              `json:"total_rows"`
	FilteredRows int              `json:"filtered_rows"`
}

// ChartResponse wraps one chart with the notice shown in its place.
type ChartResponse struct {
	Name   string      `json:"name"`
	Notice string      `json:"notice,omitempty"`
	Chart  interface{} `json:"chart"`
}

// DashboardHandler serves the dashboard API.
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    RequestValidator
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(service DashboardServiceInterface, validator RequestValidator, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/", h.GetDashboard)
		r.Post("/", h.PostDashboard)
		r.Get("/options", h.GetOptions)
		r.Get("/metrics", h.GetMetrics)
		r.Get("/charts/{name}", h.GetChart)
	})

	r.Get("/export", h.Export)

	return r
}

// selection parses and validates the query selection.
func (h *DashboardHandler) selection(r *http.Request) (domain.Selection, error) {
	req, err := ParseSelection(r.URL.Query())
	if err != nil {
		return domain.Selection{}, err
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return domain.Selection{}, err
	}
	return req.ToSelection(), nil
}

// render runs the pipeline for the query selection and reports any error.
func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request) (domain.ViewModel, bool) {
	sel, err := h.selection(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return domain.ViewModel{}, false
	}
	return h.renderSelection(w, r, sel)
}

func (h *DashboardHandler) renderSelection(w http.ResponseWriter, r *http.Request, sel domain.Selection) (domain.ViewModel, bool) {
	vm, err := h.service.Render(r.Context(), services.SurfaceAPI, sel)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render dashboard",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		h.errorHandler.HandleError(w, r, err)
		return domain.ViewModel{}, false
	}
	return vm, true
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	vm, ok := h.render(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, vm)
}

// PostDashboard handles POST /api/dashboard with a JSON selection body.
func (h *DashboardHandler) PostDashboard(w http.ResponseWriter, r *http.Request) {
	var req domain.SelectionRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	vm, ok := h.renderSelection(w, r, req.ToSelection())
	if !ok {
		return
	}
	render.JSON(w, r, vm)
}

// GetOptions handles GET /api/dashboard/options
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}

// GetMetrics handles GET /api/dashboard/metrics
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	vm, ok := h.render(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, MetricsResponse{
		Metrics:      vm.Metrics,
		Tiles:        dashboard.Tiles(vm.Metrics),
		TotalRows:    vm.TotalRows,
		FilteredRows: vm.FilteredRows,
	})
}

// GetChart handles GET /api/dashboard/charts/{name}
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "name"))
	if !isChart(name) {
		h.errorHandler.HandleError(w, r, apperrors.NotFoundError(fmt.Sprintf("chart %q", name)))
		return
	}

	vm, ok := h.render(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, chartResponse(name, vm.Charts))
}

func isChart(name string) bool {
	switch name {
	case ChartRetention, ChartSatisfaction, ChartEnrollment, ChartDepartments:
		return true
	}
	return false
}

func chartResponse(name string, c domain.Charts) ChartResponse {
	switch name {
	case ChartRetention:
		return ChartResponse{Name: name, Chart: c.Retention, Notice: dashboard.SeriesNotice(c.Retention.Status, c.Retention.Column)}
	case ChartSatisfaction:
		return ChartResponse{Name: name, Chart: c.Satisfaction, Notice: dashboard.SeriesNotice(c.Satisfaction.Status, c.Satisfaction.Column)}
	case ChartEnrollment:
		return ChartResponse{Name: name, Chart: c.Enrollment, Notice: dashboard.SeriesNotice(c.Enrollment.Status, c.Enrollment.Column)}
	default:
		return ChartResponse{Name: name, Chart: c.Departments, Notice: dashboard.DistributionNotice(c.Departments)}
	}
}

// Export handles GET /api/dashboard/export?format=xlsx|csv&table=name
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = services.FormatXLSX
	}
	format = strings.ToLower(format)
	table := r.URL.Query().Get("table")

	contentType, err := services.ExportContentType(format)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if format == services.FormatCSV {
		if err := services.ValidateTable(table); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
	}

	sel, err := h.selection(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// Buffer so a failure can still be reported as a problem response.
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), &buf, format, table, sel); err != nil {
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("format", format),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := "dashboard.xlsx"
	if format == services.FormatCSV {
		filename = strings.ToLower(table) + ".csv"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export", slog.String("error", err.Error()))
	}
}

// GetDataset handles GET /api/dataset
func (h *DashboardHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.DatasetInfo(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}
