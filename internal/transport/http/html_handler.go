package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"unidash/internal/dashboard"
	apperrors "unidash/internal/errors"
	"unidash/internal/exporter"
	"unidash/internal/services"
	"unidash/pkg/contracts/domain"
)

//go:embed templates/dashboard.html templates/about.md
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// exportPath is where the dashboard handler serves downloads.
const exportPath = "/api/dashboard/export"

// Page titles.
const (
	PageTitle   = "University Students Dashboard"
	PageHeading = "University Admissions, Enrollment, Retention & Satisfaction"
)

// tableHeadings maps exported tables to their section headings on the page.
var tableHeadings = map[string]string{
	exporter.TableRetention:    "Retention Rate Trends Over Time",
	exporter.TableSatisfaction: "Student Satisfaction Scores by Year",
	exporter.TableEnrollment:   "Spring vs Fall Comparison (Enrolled)",
	exporter.TableDepartments:  "Department Enrollment Distribution",
}

type choice struct {
	Value    string
	Selected bool
}

type pageTable struct {
	Heading string
	Notice  string
	Headers []string
	Rows    [][]string
}

type pageData struct {
	PageTitle    string
	Heading      string
	Tiles        []dashboard.Tile
	Years        []choice
	Terms        []choice
	Departments  []choice
	Tables       []pageTable
	FilteredRows int
	TotalRows    int
	ExportURL    template.URL
	About        template.HTML
	DataSource   string
}

// HTMLHandler serves the server-rendered dashboard page.
type HTMLHandler struct {
	service      DashboardServiceInterface
	validator    RequestValidator
	dataSource   string
	about        template.HTML
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewHTMLHandler creates the page handler. dataFile is shown in the caption.
func NewHTMLHandler(service DashboardServiceInterface, validator RequestValidator, dataFile string, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) (*HTMLHandler, error) {
	about, err := templateFS.ReadFile("templates/about.md")
	if err != nil {
		return nil, err
	}

	return &HTMLHandler{
		service:      service,
		validator:    validator,
		dataSource:   filepath.Base(dataFile),
		about:        renderMarkdown(about),
		logger:       logger.With(slog.String("handler", "html")),
		errorHandler: errorHandler,
	}, nil
}

// renderMarkdown converts trusted embedded Markdown to HTML.
func renderMarkdown(md []byte) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return template.HTML(markdown.ToHTML(md, p, r))
}

// ServeDashboard handles GET /
func (h *HTMLHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	req, err := ParseSelection(r.URL.Query())
	if err == nil {
		err = h.validator.ValidateStruct(req)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	vm, err := h.service.Render(r.Context(), services.SurfaceHTML, req.ToSelection())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, h.page(vm)); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to execute page template", slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *HTMLHandler) page(vm domain.ViewModel) pageData {
	data := pageData{
		PageTitle:    PageTitle,
		Heading:      PageHeading,
		Tiles:        dashboard.Tiles(vm.Metrics),
		FilteredRows: vm.FilteredRows,
		TotalRows:    vm.TotalRows,
		ExportURL:    exportURL(vm.Selection),
		About:        h.about,
		DataSource:   h.dataSource,
	}

	selectedYears := make(map[string]bool, len(vm.Selection.Years))
	for _, y := range vm.Selection.Years {
		selectedYears[formatYear(y)] = true
	}
	for _, y := range vm.Options.Years {
		v := formatYear(y)
		data.Years = append(data.Years, choice{Value: v, Selected: selectedYears[v]})
	}
	data.Terms = choices(vm.Options.Terms, vm.Selection.Terms)
	data.Departments = choices(vm.Options.Departments, vm.Selection.Departments)

	for _, t := range exporter.Tables(vm) {
		heading, ok := tableHeadings[t.Name]
		if !ok {
			continue
		}
		data.Tables = append(data.Tables, pageTable{
			Heading: heading,
			Notice:  t.Notice,
			Headers: t.Headers,
			Rows:    t.StringRows(),
		})
	}

	return data
}

// exportURL links the workbook download to sel. The query is built by
// url.Values so it is safe to hand to the template unescaped.
func exportURL(sel domain.Selection) template.URL {
	return template.URL(exportPath + "?" + EncodeSelection(sel).Encode())
}

func choices(options, selected []string) []choice {
	set := make(map[string]bool, len(selected))
	for _, s := range selected {
		set[strings.TrimSpace(s)] = true
	}
	out := make([]choice, 0, len(options))
	for _, o := range options {
		out = append(out, choice{Value: o, Selected: set[o]})
	}
	return out
}
