package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"unidash/pkg/contracts/domain"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234, "1,234"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCount(tt.in))
	}
}

func TestFormatMetric(t *testing.T) {
	v := 85.25
	assert.Equal(t, "85.2%", FormatMetric(domain.Metric{Status: domain.StatusOK, Value: &v}))
	assert.Equal(t, NotAvailable, FormatMetric(domain.Metric{Status: domain.StatusUnavailable}))
	assert.Equal(t, NotAvailable, FormatMetric(domain.Metric{Status: domain.StatusNoData}))
	assert.Equal(t, "50.0%", FormatPercent(50))
}

func TestTiles(t *testing.T) {
	v := 90.0
	tiles := Tiles(domain.Metrics{
		TotalApplications: 1234,
		AdmissionRate:     50,
		AvgRetention:      domain.Metric{Status: domain.StatusOK, Value: &v},
		AvgSatisfaction:   domain.Metric{Status: domain.StatusUnavailable},
	})

	assert.Equal(t, []Tile{
		{Label: "Total Applications", Value: "1,234"},
		{Label: "Admission Rate", Value: "50.0%"},
		{Label: "Avg. Retention", Value: "90.0%"},
		{Label: "Avg. Satisfaction", Value: "N/A"},
	}, tiles)
}

func TestNotices(t *testing.T) {
	assert.Equal(t, "Column 'Retention Rate (%)' not found.",
		SeriesNotice(domain.StatusUnavailable, domain.ColumnRetention))
	assert.Empty(t, SeriesNotice(domain.StatusOK, domain.ColumnRetention))
	assert.NotEmpty(t, SeriesNotice(domain.StatusNoData, domain.ColumnRetention))

	assert.Equal(t, "Select at least one department in the sidebar to see the distribution.",
		DistributionNotice(domain.DepartmentDistribution{Status: domain.StatusEmpty}))
	assert.Equal(t, "Column 'Arts Enrolled' not found.",
		DistributionNotice(domain.DepartmentDistribution{Status: domain.StatusUnavailable, Missing: []string{domain.ColumnArts}}))
	assert.Empty(t, DistributionNotice(domain.DepartmentDistribution{Status: domain.StatusOK}))

	// Partially drawn charts still name the columns they left out.
	assert.Equal(t, "Column 'Arts Enrolled', 'Science Enrolled' not found.",
		DistributionNotice(domain.DepartmentDistribution{
			Status:  domain.StatusOK,
			Missing: []string{domain.ColumnArts, domain.ColumnScience},
		}))
	assert.Equal(t, "No data for the current selection. Column 'Arts Enrolled' not found.",
		DistributionNotice(domain.DepartmentDistribution{
			Status:  domain.StatusNoData,
			Missing: []string{domain.ColumnArts},
		}))
}
