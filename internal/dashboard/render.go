package dashboard

import (
	"unidash/internal/dataset"
	"unidash/pkg/contracts/domain"
)

// Render runs the whole pipeline for one selection: resolve defaults,
// filter, then compute every metric and chart. It performs no I/O and
// never mutates ds, so it is safe to call concurrently.
func Render(ds *dataset.Dataset, sel domain.Selection) domain.ViewModel {
	if ds == nil {
		ds = dataset.New("", nil, nil)
	}

	opts := Options(ds)
	sel = Resolve(sel, opts)
	view := Filter(ds.All(), sel.Years, sel.Terms)

	return domain.ViewModel{
		Selection:    sel,
		Options:      opts,
		TotalRows:    ds.Len(),
		FilteredRows: view.Len(),
		Metrics:      ComputeMetrics(view),
		Charts: domain.Charts{
			Retention:    RetentionByYear(view),
			Satisfaction: SatisfactionByYear(view),
			Enrollment:   EnrolledByYearAndTerm(view),
			Departments:  DepartmentDistribution(view, sel.Departments),
		},
	}
}

// Resolve replaces every nil axis of sel with the full option list.
// Explicitly empty axes stay empty.
func Resolve(sel domain.Selection, opts domain.FilterOptions) domain.Selection {
	out := domain.Selection{
		Years:       sel.Years,
		Terms:       sel.Terms,
		Departments: sel.Departments,
	}
	if out.Years == nil {
		out.Years = append([]float64{}, opts.Years...)
	}
	if out.Terms == nil {
		out.Terms = append([]string{}, opts.Terms...)
	}
	if out.Departments == nil {
		out.Departments = append([]string{}, opts.Departments...)
	}
	return out
}
