package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"unidash/pkg/contracts/domain"
)

// NotAvailable is shown in place of a metric that could not be computed.
const NotAvailable = "N/A"

// Tile is one formatted summary metric.
type Tile struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Tiles formats the summary metrics in display order.
func Tiles(m domain.Metrics) []Tile {
	return []Tile{
		{Label: "Total Applications", Value: FormatCount(m.TotalApplications)},
		{Label: "Admission Rate", Value: FormatPercent(m.AdmissionRate)},
		{Label: "Avg. Retention", Value: FormatMetric(m.AvgRetention)},
		{Label: "Avg. Satisfaction", Value: FormatMetric(m.AvgSatisfaction)},
	}
}

// FormatCount renders n with comma thousands separators.
func FormatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

// FormatPercent renders v with one decimal place and a percent sign.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatMetric renders an optional percentage, or N/A when it has no value.
func FormatMetric(m domain.Metric) string {
	if m.Status != domain.StatusOK || m.Value == nil {
		return NotAvailable
	}
	return FormatPercent(*m.Value)
}

// SeriesNotice is the inline message shown instead of a chart for column,
// or "" when the chart can be drawn.
func SeriesNotice(status domain.Status, column string) string {
	switch status {
	case domain.StatusUnavailable:
		return fmt.Sprintf("Column '%s' not found.", column)
	case domain.StatusNoData:
		return "No data for the current selection."
	}
	return ""
}

// DistributionNotice is the inline message shown with the department chart,
// or "" when every selected column was drawn.
func DistributionNotice(d domain.DepartmentDistribution) string {
	switch d.Status {
	case domain.StatusEmpty:
		return "Select at least one department in the sidebar to see the distribution."
	case domain.StatusUnavailable:
		return missingColumns(d.Missing)
	}

	var parts []string
	if d.Status == domain.StatusNoData {
		parts = append(parts, "No data for the current selection.")
	}
	if len(d.Missing) > 0 {
		parts = append(parts, missingColumns(d.Missing))
	}
	return strings.Join(parts, " ")
}

func missingColumns(columns []string) string {
	return fmt.Sprintf("Column '%s' not found.", strings.Join(columns, "', '"))
}
