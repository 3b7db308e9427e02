package domain

import (
	"time"
)

// Source column names. Matching is exact after trimming surrounding whitespace.
const (
	ColumnYear         = "Year"
	ColumnTerm         = "Term"
	ColumnApplications = "Applications"
	ColumnAdmitted     = "Admitted"
	ColumnEnrolled     = "Enrolled"
	ColumnRetention    = "Retention Rate (%)"
	ColumnSatisfaction = "Student Satisfaction (%)"
	ColumnEngineering  = "Engineering Enrolled"
	ColumnBusiness     = "Business Enrolled"
	ColumnArts         = "Arts Enrolled"
	ColumnScience      = "Science Enrolled"
)

// RequiredColumns must be present in the source header or loading fails.
var RequiredColumns = []string{
	ColumnYear,
	ColumnTerm,
	ColumnApplications,
	ColumnAdmitted,
	ColumnEnrolled,
}

// DepartmentColumns lists the department sub-counts in display order.
var DepartmentColumns = []string{
	ColumnEngineering,
	ColumnBusiness,
	ColumnArts,
	ColumnScience,
}

// IsDepartmentColumn reports whether name is one of the department sub-counts.
func IsDepartmentColumn(name string) bool {
	for _, c := range DepartmentColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Status describes whether a metric or chart could be computed.
type Status string

const (
	// StatusOK means the value was computed from at least one row.
	StatusOK Status = "ok"
	// StatusUnavailable means the source schema lacks the column.
	StatusUnavailable Status = "unavailable"
	// StatusNoData means the column exists but the filtered view holds no values.
	StatusNoData Status = "no_data"
	// StatusEmpty means the caller selected nothing to aggregate.
	StatusEmpty Status = "empty"
)

// Selection is the user's current filter state.
// A nil axis means "all values"; a non-nil empty axis means "none".
type Selection struct {
	Years       []float64 `json:"years"`
	Terms       []string  `json:"terms"`
	Departments []string  `json:"departments"`
}

// SelectionRequest is the wire form of a Selection accepted by the API.
type SelectionRequest struct {
	Years       []float64 `json:"years,omitempty"`
	Terms       []string  `json:"terms,omitempty" validate:"omitempty,dive,min=1"`
	Departments []string  `json:"departments,omitempty" validate:"omitempty,dive,department"`
}

// ToSelection converts the request into a Selection, keeping nil/empty semantics.
func (r SelectionRequest) ToSelection() Selection {
	return Selection{
		Years:       r.Years,
		Terms:       r.Terms,
		Departments: r.Departments,
	}
}

// FilterOptions holds the selectable values for each filter control.
type FilterOptions struct {
	Years       []float64 `json:"years"`
	Terms       []string  `json:"terms"`
	Departments []string  `json:"departments"`
}

// Metric is a scalar statistic that may be unavailable.
type Metric struct {
	Status Status   `json:"status"`
	Value  *float64 `json:"value,omitempty"`
}

// Float returns the value or 0 when the metric has none.
func (m Metric) Float() float64 {
	if m.Value == nil {
		return 0
	}
	return *m.Value
}

// Metrics are the four summary tiles.
type Metrics struct {
	TotalApplications int64   `json:"total_applications"`
	AdmissionRate     float64 `json:"admission_rate"`
	AvgRetention      Metric  `json:"avg_retention"`
	AvgSatisfaction   Metric  `json:"avg_satisfaction"`
}

// YearPoint is one point of a per-year series.
type YearPoint struct {
	Year  float64 `json:"year"`
	Value float64 `json:"value"`
}

// YearSeries is a per-year mean of one measure.
type YearSeries struct {
	Column string      `json:"column"`
	Status Status      `json:"status"`
	Points []YearPoint `json:"points"`
}

// YearTermPoint is one (Year, Term) cell of the enrollment comparison.
type YearTermPoint struct {
	Year     float64 `json:"year"`
	Term     string  `json:"term"`
	Enrolled float64 `json:"enrolled"`
}

// YearTermSeries is the enrolled sum grouped by Year and Term.
type YearTermSeries struct {
	Column string          `json:"column"`
	Status Status          `json:"status"`
	Points []YearTermPoint `json:"points"`
}

// DepartmentSlice is one department's total and its share of the distribution.
type DepartmentSlice struct {
	Department string  `json:"department"`
	Total      float64 `json:"total"`
	Share      float64 `json:"share"`
}

// DepartmentDistribution is the department totals sorted descending.
type DepartmentDistribution struct {
	Status  Status            `json:"status"`
	Slices  []DepartmentSlice `json:"slices"`
	Missing []string          `json:"missing,omitempty"`
}

// Charts groups the aggregation views.
type Charts struct {
	Retention    YearSeries             `json:"retention"`
	Satisfaction YearSeries             `json:"satisfaction"`
	Enrollment   YearTermSeries         `json:"enrollment"`
	Departments  DepartmentDistribution `json:"departments"`
}

// ViewModel is everything the presentation layer needs for one render.
type ViewModel struct {
	Selection    Selection     `json:"selection"`
	Options      FilterOptions `json:"options"`
	TotalRows    int           `json:"total_rows"`
	FilteredRows int           `json:"filtered_rows"`
	Metrics      Metrics       `json:"metrics"`
	Charts       Charts        `json:"charts"`
}

// DatasetInfo describes the loaded source file.
type DatasetInfo struct {
	Source            string    `json:"source"`
	Rows              int       `json:"rows"`
	Columns           []string  `json:"columns"`
	LoadedAt          time.Time `json:"loaded_at"`
	InvalidYearCells  int       `json:"invalid_year_cells"`
	OptionalAvailable []string  `json:"optional_available"`
	OptionalMissing   []string  `json:"optional_missing"`
}
