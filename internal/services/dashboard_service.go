package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"unidash/internal/dashboard"
	"unidash/internal/dataset"
	apperrors "unidash/internal/errors"
	"unidash/internal/exporter"
	"unidash/internal/infrastructure"
	"unidash/pkg/contracts/domain"
)

// Render surfaces, recorded as the "surface" metric attribute.
const (
	SurfaceAPI       = "api"
	SurfaceHTML      = "html"
	SurfaceWebSocket = "websocket"
	SurfaceExport    = "export"
	SurfaceReport    = "report"
)

// DatasetSource provides the process-wide dataset.
type DatasetSource interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
	Cached() (*dataset.Dataset, bool)
	Path() string
}

// DashboardService runs the render pipeline against the loaded dataset.
type DashboardService struct {
	source  DatasetSource
	metrics *infrastructure.DashboardMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
	csv     *exporter.CSVWriter
}

// NewDashboardService creates the service. metrics may be nil.
func NewDashboardService(source DatasetSource, metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dashboard_service"))

	logger.Info("DashboardService initialized", slog.String("data_file", source.Path()))

	return &DashboardService{
		source:  source,
		metrics: metrics,
		tracer:  otel.Tracer(infrastructure.MeterName),
		logger:  logger,
		csv:     exporter.NewCSVWriter(true, logger),
	}
}

// dataset returns the loaded dataset or a 503 API error.
func (s *DashboardService) dataset(ctx context.Context) (*dataset.Dataset, error) {
	ds, err := s.source.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		infrastructure.RecordError(ctx, err)
		return nil, apperrors.DatasetUnavailableError(err)
	}
	return ds, nil
}

// Render filters the dataset by sel and computes every view.
func (s *DashboardService) Render(ctx context.Context, surface string, sel domain.Selection) (domain.ViewModel, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.render",
		trace.WithAttributes(
			attribute.String("surface", surface),
			attribute.Int("selection.years", axisLen(len(sel.Years), sel.Years == nil)),
			attribute.Int("selection.terms", axisLen(len(sel.Terms), sel.Terms == nil)),
			attribute.Int("selection.departments", axisLen(len(sel.Departments), sel.Departments == nil)),
		),
	)
	defer span.End()

	ds, err := s.dataset(ctx)
	if err != nil {
		return domain.ViewModel{}, err
	}

	start := time.Now()
	vm := dashboard.Render(ds, sel)
	duration := time.Since(start)

	s.metrics.RecordRender(ctx, surface, duration, vm.FilteredRows)
	span.SetAttributes(
		attribute.Int("rows.total", vm.TotalRows),
		attribute.Int("rows.filtered", vm.FilteredRows),
	)

	s.logger.DebugContext(ctx, "dashboard rendered",
		slog.String("surface", surface),
		slog.Int("filtered_rows", vm.FilteredRows),
		slog.Int("total_rows", vm.TotalRows),
		slog.Duration("duration", duration))

	return vm, nil
}

// axisLen reports -1 for an unset axis so traces can tell "all" from "none".
func axisLen(n int, unset bool) int {
	if unset {
		return -1
	}
	return n
}

// Options returns the selectable filter values.
func (s *DashboardService) Options(ctx context.Context) (domain.FilterOptions, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return dashboard.Options(ds), nil
}

// DatasetInfo describes the loaded file.
func (s *DashboardService) DatasetInfo(ctx context.Context) (domain.DatasetInfo, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return domain.DatasetInfo{}, err
	}
	return ds.Info(), nil
}

// ExportWorkbook renders sel and writes it to w as an .xlsx workbook.
func (s *DashboardService) ExportWorkbook(ctx context.Context, w io.Writer, sel domain.Selection) error {
	vm, err := s.Render(ctx, SurfaceExport, sel)
	if err != nil {
		return err
	}
	return exporter.WriteWorkbook(w, vm)
}

// ExportCSV renders sel and writes the named table to w as CSV.
func (s *DashboardService) ExportCSV(ctx context.Context, w io.Writer, table string, sel domain.Selection) error {
	vm, err := s.Render(ctx, SurfaceExport, sel)
	if err != nil {
		return err
	}
	t, ok := exporter.FindTable(exporter.Tables(vm), table)
	if !ok {
		return apperrors.InvalidParameter("table", table)
	}
	return s.csv.Write(w, t)
}

// ValidateTable checks a CSV table name before any output is written.
func ValidateTable(table string) error {
	for _, name := range exporter.TableNames {
		if strings.EqualFold(name, table) {
			return nil
		}
	}
	return apperrors.InvalidParameter("table", table)
}

// Export formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// ExportContentType returns the media type for an export format.
func ExportContentType(format string) (string, error) {
	switch strings.ToLower(format) {
	case FormatXLSX:
		return exporter.WorkbookContentType, nil
	case FormatCSV:
		return "text/csv; charset=utf-8", nil
	}
	return "", apperrors.InvalidParameter("format", format)
}

// Export writes sel in the given format. table only applies to CSV.
func (s *DashboardService) Export(ctx context.Context, w io.Writer, format, table string, sel domain.Selection) error {
	switch strings.ToLower(format) {
	case FormatXLSX:
		return s.ExportWorkbook(ctx, w, sel)
	case FormatCSV:
		if err := ValidateTable(table); err != nil {
			return err
		}
		return s.ExportCSV(ctx, w, table, sel)
	}
	return apperrors.InvalidParameter("format", format)
}
