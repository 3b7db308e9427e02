package dashboard

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"unidash/internal/dataset"
	"unidash/pkg/contracts/domain"
)

// ComputeMetrics calculates the four summary tiles for a filtered view.
// Each tile is computed on its own; a missing optional column only affects
// the tile that reads it.
func ComputeMetrics(v dataset.View) domain.Metrics {
	return domain.Metrics{
		TotalApplications: TotalApplications(v),
		AdmissionRate:     AdmissionRate(v),
		AvgRetention:      ColumnMean(v, domain.ColumnRetention),
		AvgSatisfaction:   ColumnMean(v, domain.ColumnSatisfaction),
	}
}

// TotalApplications sums the Applications column. Null cells count as zero.
func TotalApplications(v dataset.View) int64 {
	return int64(floats.Sum(v.Numbers(domain.ColumnApplications)))
}

// AdmissionRate is 100 * sum(Admitted) / sum(Applications), or 0 when
// there are no applications.
func AdmissionRate(v dataset.View) float64 {
	applications := floats.Sum(v.Numbers(domain.ColumnApplications))
	if applications <= 0 {
		return 0
	}
	return 100 * floats.Sum(v.Numbers(domain.ColumnAdmitted)) / applications
}

// ColumnMean averages the non-null values of column. The result is
// unavailable when the schema lacks the column and no_data when the view
// holds no values for it.
func ColumnMean(v dataset.View, column string) domain.Metric {
	if !v.HasColumn(column) {
		return domain.Metric{Status: domain.StatusUnavailable}
	}
	mean, ok := meanOf(v.Numbers(column))
	if !ok {
		return domain.Metric{Status: domain.StatusNoData}
	}
	return domain.Metric{Status: domain.StatusOK, Value: &mean}
}

// meanOf wraps stats.Mean, which rejects empty input.
func meanOf(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0, false
	}
	return mean, true
}
