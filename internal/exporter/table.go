package exporter

import (
	"strings"

	"unidash/internal/dashboard"
	"unidash/pkg/contracts/domain"
)

// Table names, also used as sheet names and CSV file stems.
const (
	TableSummary      = "Summary"
	TableRetention    = "Retention"
	TableSatisfaction = "Satisfaction"
	TableEnrollment   = "Enrollment"
	TableDepartments  = "Departments"
)

// TableNames lists the exported tables in output order.
var TableNames = []string{TableSummary, TableRetention, TableSatisfaction, TableEnrollment, TableDepartments}

// Table is one tabular section of a rendered dashboard. Cells keep their
// native types so spreadsheets receive numbers rather than text.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
	// Notice replaces the rows when the view could not be computed.
	Notice string
}

// Tables flattens a view-model into exportable tables.
func Tables(vm domain.ViewModel) []Table {
	return []Table{
		summaryTable(vm),
		yearSeriesTable(TableRetention, vm.Charts.Retention),
		yearSeriesTable(TableSatisfaction, vm.Charts.Satisfaction),
		enrollmentTable(vm.Charts.Enrollment),
		departmentsTable(vm.Charts.Departments),
	}
}

// FindTable returns the table called name, ignoring case.
func FindTable(tables []Table, name string) (Table, bool) {
	for _, t := range tables {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Table{}, false
}

func summaryTable(vm domain.ViewModel) Table {
	t := Table{Name: TableSummary, Headers: []string{"Metric", "Value"}}
	for _, tile := range dashboard.Tiles(vm.Metrics) {
		t.Rows = append(t.Rows, []interface{}{tile.Label, tile.Value})
	}
	t.Rows = append(t.Rows,
		[]interface{}{"Rows (filtered)", vm.FilteredRows},
		[]interface{}{"Rows (total)", vm.TotalRows},
		[]interface{}{"Years", joinYears(vm.Selection.Years)},
		[]interface{}{"Terms", strings.Join(vm.Selection.Terms, ", ")},
		[]interface{}{"Departments", strings.Join(vm.Selection.Departments, ", ")},
	)
	return t
}

func yearSeriesTable(name string, s domain.YearSeries) Table {
	t := Table{
		Name:    name,
		Headers: []string{domain.ColumnYear, s.Column},
		Notice:  dashboard.SeriesNotice(s.Status, s.Column),
	}
	for _, p := range s.Points {
		t.Rows = append(t.Rows, []interface{}{p.Year, p.Value})
	}
	return t
}

func enrollmentTable(s domain.YearTermSeries) Table {
	t := Table{
		Name:    TableEnrollment,
		Headers: []string{domain.ColumnYear, domain.ColumnTerm, s.Column},
		Notice:  dashboard.SeriesNotice(s.Status, s.Column),
	}
	for _, p := range s.Points {
		t.Rows = append(t.Rows, []interface{}{p.Year, p.Term, p.Enrolled})
	}
	return t
}

func departmentsTable(d domain.DepartmentDistribution) Table {
	t := Table{
		Name:    TableDepartments,
		Headers: []string{"Department", "Total", "Share (%)"},
		Notice:  dashboard.DistributionNotice(d),
	}
	for _, s := range d.Slices {
		t.Rows = append(t.Rows, []interface{}{s.Department, s.Total, s.Share})
	}
	return t
}

func joinYears(years []float64) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = formatFloat(y)
	}
	return strings.Join(parts, ", ")
}
