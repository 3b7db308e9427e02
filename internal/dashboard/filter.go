package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"unidash/internal/dataset"
	"unidash/pkg/contracts/domain"
)

// ErrUnknownColumn is returned when a column is not part of the record layout.
var ErrUnknownColumn = errors.New("unknown column")

// DistinctYears returns the non-null years in the view, ascending and unique.
func DistinctYears(v dataset.View) []float64 {
	seen := make(map[float64]bool)
	out := make([]float64, 0)
	for i := 0; i < v.Len(); i++ {
		y := v.At(i).Year
		if !y.Valid || seen[y.Value] {
			continue
		}
		seen[y.Value] = true
		out = append(out, y.Value)
	}
	sort.Float64s(out)
	return out
}

// DistinctTerms returns the non-null terms in the view, ascending and unique.
func DistinctTerms(v dataset.View) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for i := 0; i < v.Len(); i++ {
		t := v.At(i).Term
		if !t.Valid || seen[t.Value] {
			continue
		}
		seen[t.Value] = true
		out = append(out, t.Value)
	}
	sort.Strings(out)
	return out
}

// DistinctValues returns the distinct non-null values of any column as
// strings. Numeric columns are ordered numerically, Term lexically.
func DistinctValues(v dataset.View, column string) ([]string, error) {
	if column == domain.ColumnTerm {
		return DistinctTerms(v), nil
	}
	if !dataset.IsNumericColumn(column) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}

	values := v.Numbers(column)
	sort.Float64s(values)
	out := make([]string, 0, len(values))
	for i, f := range values {
		if i > 0 && f == values[i-1] {
			continue
		}
		out = append(out, strconv.FormatFloat(f, 'f', -1, 64))
	}
	return out, nil
}

// Filter keeps the records whose Year is in years and whose Term is in
// terms. An empty list on either axis yields an empty view. Null years and
// terms never match. Record order is preserved.
func Filter(v dataset.View, years []float64, terms []string) dataset.View {
	yearSet := make(map[float64]bool, len(years))
	for _, y := range years {
		yearSet[y] = true
	}
	termSet := make(map[string]bool, len(terms))
	for _, t := range terms {
		termSet[t] = true
	}

	return v.Where(func(r dataset.Record) bool {
		return r.Year.Valid && yearSet[r.Year.Value] &&
			r.Term.Valid && termSet[r.Term.Value]
	})
}

// Options lists the selectable values for each filter control. Departments
// are always the four department columns; ones absent from the schema are
// reported by the distribution rather than hidden.
func Options(ds *dataset.Dataset) domain.FilterOptions {
	all := ds.All()
	depts := make([]string, len(domain.DepartmentColumns))
	copy(depts, domain.DepartmentColumns)
	return domain.FilterOptions{
		Years:       DistinctYears(all),
		Terms:       DistinctTerms(all),
		Departments: depts,
	}
}
