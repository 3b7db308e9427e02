package dashboard

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"unidash/internal/dataset"
	"unidash/pkg/contracts/domain"
)

// RetentionByYear is the mean retention rate per year.
func RetentionByYear(v dataset.View) domain.YearSeries {
	return MeanByYear(v, domain.ColumnRetention)
}

// SatisfactionByYear is the mean satisfaction score per year.
func SatisfactionByYear(v dataset.View) domain.YearSeries {
	return MeanByYear(v, domain.ColumnSatisfaction)
}

// MeanByYear groups the view by Year and averages column within each group,
// ascending by year. Rows with a null year are skipped, as are years with
// no non-null values for column.
func MeanByYear(v dataset.View, column string) domain.YearSeries {
	series := domain.YearSeries{Column: column, Points: []domain.YearPoint{}}
	if !v.HasColumn(column) {
		series.Status = domain.StatusUnavailable
		return series
	}

	groups := make(map[float64][]float64)
	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		f, _ := r.Number(column)
		if !r.Year.Valid || !f.Valid {
			continue
		}
		groups[r.Year.Value] = append(groups[r.Year.Value], f.Value)
	}

	for year, values := range groups {
		if mean, ok := meanOf(values); ok {
			series.Points = append(series.Points, domain.YearPoint{Year: year, Value: mean})
		}
	}
	sort.Slice(series.Points, func(i, j int) bool {
		return series.Points[i].Year < series.Points[j].Year
	})

	series.Status = domain.StatusOK
	if len(series.Points) == 0 {
		series.Status = domain.StatusNoData
	}
	return series
}

type yearTerm struct {
	year float64
	term string
}

// EnrolledByYearAndTerm sums Enrolled per (Year, Term), ordered by year
// then term. Null enrolled cells add nothing but still create their group.
func EnrolledByYearAndTerm(v dataset.View) domain.YearTermSeries {
	series := domain.YearTermSeries{Column: domain.ColumnEnrolled, Points: []domain.YearTermPoint{}}
	if !v.HasColumn(domain.ColumnEnrolled) {
		series.Status = domain.StatusUnavailable
		return series
	}

	sums := make(map[yearTerm]float64)
	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		if !r.Year.Valid || !r.Term.Valid {
			continue
		}
		key := yearTerm{year: r.Year.Value, term: r.Term.Value}
		if r.Enrolled.Valid {
			sums[key] += r.Enrolled.Value
		} else if _, ok := sums[key]; !ok {
			sums[key] = 0
		}
	}

	for key, total := range sums {
		series.Points = append(series.Points, domain.YearTermPoint{
			Year:     key.year,
			Term:     key.term,
			Enrolled: total,
		})
	}
	sort.Slice(series.Points, func(i, j int) bool {
		a, b := series.Points[i], series.Points[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Term < b.Term
	})

	series.Status = domain.StatusOK
	if len(series.Points) == 0 {
		series.Status = domain.StatusNoData
	}
	return series
}

// DepartmentDistribution sums each selected department column over the
// view and orders the totals descending; equal totals keep selection order.
// Selecting nothing yields the empty status. Selected columns the schema
// lacks are listed in Missing, and the status is unavailable when none of
// the selection is present.
func DepartmentDistribution(v dataset.View, departments []string) domain.DepartmentDistribution {
	dist := domain.DepartmentDistribution{Slices: []domain.DepartmentSlice{}}
	if len(departments) == 0 {
		dist.Status = domain.StatusEmpty
		return dist
	}

	seen := make(map[string]bool, len(departments))
	for _, dept := range departments {
		if seen[dept] {
			continue
		}
		seen[dept] = true
		if !domain.IsDepartmentColumn(dept) || !v.HasColumn(dept) {
			dist.Missing = append(dist.Missing, dept)
			continue
		}
		dist.Slices = append(dist.Slices, domain.DepartmentSlice{
			Department: dept,
			Total:      floats.Sum(v.Numbers(dept)),
		})
	}

	if len(dist.Slices) == 0 {
		dist.Status = domain.StatusUnavailable
		return dist
	}

	sort.SliceStable(dist.Slices, func(i, j int) bool {
		return dist.Slices[i].Total > dist.Slices[j].Total
	})

	grand := 0.0
	for _, s := range dist.Slices {
		grand += s.Total
	}
	if grand == 0 {
		dist.Status = domain.StatusNoData
		return dist
	}
	for i := range dist.Slices {
		dist.Slices[i].Share = 100 * dist.Slices[i].Total / grand
	}
	dist.Status = domain.StatusOK
	return dist
}
