package dataset

import (
	"math"
	"time"

	"unidash/pkg/contracts/domain"
)

// Float is a numeric cell that may be null.
type Float struct {
	Value float64
	Valid bool
}

// Num returns a valid Float.
func Num(v float64) Float {
	return Float{Value: v, Valid: true}
}

// Text is a string cell that may be null.
type Text struct {
	Value string
	Valid bool
}

// Str returns a valid Text.
func Str(s string) Text {
	return Text{Value: s, Valid: true}
}

// Record is one row of the source table.
type Record struct {
	Year         Float
	Term         Text
	Applications Float
	Admitted     Float
	Enrolled     Float
	Retention    Float
	Satisfaction Float
	Engineering  Float
	Business     Float
	Arts         Float
	Science      Float
}

// Number returns the numeric cell stored under column.
// ok is false when column is not a numeric column of the record layout.
func (r Record) Number(column string) (f Float, ok bool) {
	switch column {
	case domain.ColumnYear:
		return r.Year, true
	case domain.ColumnApplications:
		return r.Applications, true
	case domain.ColumnAdmitted:
		return r.Admitted, true
	case domain.ColumnEnrolled:
		return r.Enrolled, true
	case domain.ColumnRetention:
		return r.Retention, true
	case domain.ColumnSatisfaction:
		return r.Satisfaction, true
	case domain.ColumnEngineering:
		return r.Engineering, true
	case domain.ColumnBusiness:
		return r.Business, true
	case domain.ColumnArts:
		return r.Arts, true
	case domain.ColumnScience:
		return r.Science, true
	}
	return Float{}, false
}

// setNumber stores f under column. Unknown columns are ignored.
func (r *Record) setNumber(column string, f Float) {
	switch column {
	case domain.ColumnYear:
		r.Year = f
	case domain.ColumnApplications:
		r.Applications = f
	case domain.ColumnAdmitted:
		r.Admitted = f
	case domain.ColumnEnrolled:
		r.Enrolled = f
	case domain.ColumnRetention:
		r.Retention = f
	case domain.ColumnSatisfaction:
		r.Satisfaction = f
	case domain.ColumnEngineering:
		r.Engineering = f
	case domain.ColumnBusiness:
		r.Business = f
	case domain.ColumnArts:
		r.Arts = f
	case domain.ColumnScience:
		r.Science = f
	}
}

// IsNumericColumn reports whether column is stored as a number.
func IsNumericColumn(column string) bool {
	_, ok := Record{}.Number(column)
	return ok
}

// Dataset is the full table loaded from the source file.
// It is never modified after construction.
type Dataset struct {
	source       string
	columns      []string
	schema       map[string]bool
	records      []Record
	loadedAt     time.Time
	invalidYears int
}

// New builds a Dataset from already-typed records. columns is the schema:
// only the columns listed are considered present.
func New(source string, columns []string, records []Record) *Dataset {
	schema := make(map[string]bool, len(columns))
	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		if schema[c] {
			continue
		}
		schema[c] = true
		cols = append(cols, c)
	}
	recs := make([]Record, len(records))
	copy(recs, records)
	return &Dataset{
		source:   source,
		columns:  cols,
		schema:   schema,
		records:  recs,
		loadedAt: time.Now(),
	}
}

// Source returns the path or label the data was read from.
func (d *Dataset) Source() string { return d.source }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// At returns the i-th record.
func (d *Dataset) At(i int) Record { return d.records[i] }

// HasColumn reports whether the source schema contains column.
func (d *Dataset) HasColumn(column string) bool { return d.schema[column] }

// Columns returns the header in source order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// LoadedAt returns when the dataset was built.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// InvalidYearCells counts non-blank Year cells that failed numeric coercion.
func (d *Dataset) InvalidYearCells() int { return d.invalidYears }

// All returns a view over every record.
func (d *Dataset) All() View {
	idx := make([]int, len(d.records))
	for i := range idx {
		idx[i] = i
	}
	return View{ds: d, idx: idx}
}

// Info summarises the dataset for the API.
func (d *Dataset) Info() domain.DatasetInfo {
	optional := []string{domain.ColumnRetention, domain.ColumnSatisfaction}
	optional = append(optional, domain.DepartmentColumns...)

	info := domain.DatasetInfo{
		Source:            d.source,
		Rows:              len(d.records),
		Columns:           d.Columns(),
		LoadedAt:          d.loadedAt,
		InvalidYearCells:  d.invalidYears,
		OptionalAvailable: []string{},
		OptionalMissing:   []string{},
	}
	for _, c := range optional {
		if d.schema[c] {
			info.OptionalAvailable = append(info.OptionalAvailable, c)
		} else {
			info.OptionalMissing = append(info.OptionalMissing, c)
		}
	}
	return info
}

// View is an ordered, non-owning subset of a Dataset's records.
type View struct {
	ds  *Dataset
	idx []int
}

// Dataset returns the dataset the view reads from.
func (v View) Dataset() *Dataset { return v.ds }

// Len returns the number of records in the view.
func (v View) Len() int { return len(v.idx) }

// At returns the i-th record of the view.
func (v View) At(i int) Record { return v.ds.records[v.idx[i]] }

// Indices returns the dataset positions the view covers.
func (v View) Indices() []int {
	out := make([]int, len(v.idx))
	copy(out, v.idx)
	return out
}

// HasColumn reports whether the underlying schema contains column.
func (v View) HasColumn(column string) bool {
	return v.ds != nil && v.ds.HasColumn(column)
}

// Where returns the records for which keep is true, in view order.
func (v View) Where(keep func(Record) bool) View {
	idx := make([]int, 0, len(v.idx))
	for _, i := range v.idx {
		if keep(v.ds.records[i]) {
			idx = append(idx, i)
		}
	}
	return View{ds: v.ds, idx: idx}
}

// Numbers collects the non-null values of a numeric column.
func (v View) Numbers(column string) []float64 {
	out := make([]float64, 0, len(v.idx))
	for _, i := range v.idx {
		f, ok := v.ds.records[i].Number(column)
		if ok && f.Valid {
			out = append(out, f.Value)
		}
	}
	return out
}

// finite reports whether v is a usable number.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
