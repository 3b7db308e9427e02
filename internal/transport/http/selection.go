package http

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	apperrors "unidash/internal/errors"
	"unidash/pkg/contracts/domain"
)

// Query parameters accepted by the dashboard endpoints. Each may repeat.
const (
	ParamYear       = "year"
	ParamTerm       = "term"
	ParamDepartment = "department"
)

// ParseSelection reads a selection from query parameters. An absent key
// leaves the axis unset (everything); a key whose values are all blank
// selects nothing.
func ParseSelection(q url.Values) (domain.SelectionRequest, error) {
	var req domain.SelectionRequest

	if raw, ok := q[ParamYear]; ok {
		req.Years = make([]float64, 0, len(raw))
		for _, v := range nonBlank(raw) {
			year, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(year) || math.IsInf(year, 0) {
				return domain.SelectionRequest{}, apperrors.InvalidParameter(ParamYear, v)
			}
			req.Years = append(req.Years, year)
		}
	}
	if raw, ok := q[ParamTerm]; ok {
		req.Terms = append(make([]string, 0, len(raw)), nonBlank(raw)...)
	}
	if raw, ok := q[ParamDepartment]; ok {
		req.Departments = append(make([]string, 0, len(raw)), nonBlank(raw)...)
	}

	return req, nil
}

// EncodeSelection is the inverse of ParseSelection for a resolved selection.
func EncodeSelection(sel domain.Selection) url.Values {
	q := url.Values{}
	q[ParamYear] = []string{""}
	q[ParamTerm] = []string{""}
	q[ParamDepartment] = []string{""}
	for _, y := range sel.Years {
		q.Add(ParamYear, formatYear(y))
	}
	for _, t := range sel.Terms {
		q.Add(ParamTerm, t)
	}
	for _, d := range sel.Departments {
		q.Add(ParamDepartment, d)
	}
	return q
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func formatYear(y float64) string {
	return strconv.FormatFloat(y, 'f', -1, 64)
}
