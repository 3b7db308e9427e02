package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unidash/internal/dataset"
	"unidash/pkg/contracts/domain"
)

func TestComputeMetrics(t *testing.T) {
	ds := sampleDataset()
	view := Filter(ds.All(), []float64{2015}, []string{"Fall", "Spring"})

	m := ComputeMetrics(view)
	assert.Equal(t, int64(5100), m.TotalApplications)
	assert.InDelta(t, 100*3050.0/5100.0, m.AdmissionRate, 1e-9)

	require.Equal(t, domain.StatusOK, m.AvgRetention.Status)
	assert.InDelta(t, 85.5, m.AvgRetention.Float(), 1e-9)
	require.Equal(t, domain.StatusOK, m.AvgSatisfaction.Status)
	assert.InDelta(t, 78.5, m.AvgSatisfaction.Float(), 1e-9)
}

func TestAdmissionRate(t *testing.T) {
	tests := []struct {
		name    string
		records []dataset.Record
		want    float64
	}{
		{name: "half admitted", records: []dataset.Record{row(2020, "Fall", 100, 50, 40)}, want: 50},
		{name: "all admitted", records: []dataset.Record{row(2020, "Fall", 10, 10, 10)}, want: 100},
		{name: "none admitted", records: []dataset.Record{row(2020, "Fall", 10, 0, 0)}, want: 0},
		{name: "zero applications", records: []dataset.Record{row(2020, "Fall", 0, 0, 0)}, want: 0},
		{name: "empty view", records: nil, want: 0},
		{
			name: "pooled across rows",
			records: []dataset.Record{
				row(2020, "Fall", 300, 100, 50),
				row(2020, "Spring", 100, 100, 50),
			},
			want: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := dataset.New("t", allColumns, tt.records)
			got := AdmissionRate(ds.All())
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestTotalApplications_SkipsNulls(t *testing.T) {
	r := row(2020, "Fall", 0, 0, 0)
	r.Applications = dataset.Float{}
	ds := dataset.New("t", allColumns, []dataset.Record{r, row(2020, "Fall", 1234, 1, 1)})

	assert.Equal(t, int64(1234), TotalApplications(ds.All()))
}

func TestColumnMean(t *testing.T) {
	withNull := row(2020, "Fall", 1, 1, 1)
	withNull.Retention = dataset.Float{}

	tests := []struct {
		name       string
		columns    []string
		records    []dataset.Record
		wantStatus domain.Status
		wantValue  float64
	}{
		{
			name:       "column absent",
			columns:    domain.RequiredColumns,
			records:    []dataset.Record{row(2020, "Fall", 1, 1, 1)},
			wantStatus: domain.StatusUnavailable,
		},
		{
			name:       "no rows",
			columns:    allColumns,
			wantStatus: domain.StatusNoData,
		},
		{
			name:       "only nulls",
			columns:    allColumns,
			records:    []dataset.Record{withNull},
			wantStatus: domain.StatusNoData,
		},
		{
			name:    "nulls skipped",
			columns: allColumns,
			records: []dataset.Record{
				withNull,
				withRates(row(2020, "Fall", 1, 1, 1), 80, 0),
				withRates(row(2021, "Fall", 1, 1, 1), 90, 0),
			},
			wantStatus: domain.StatusOK,
			wantValue:  85,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := dataset.New("t", tt.columns, tt.records)
			m := ColumnMean(ds.All(), domain.ColumnRetention)
			assert.Equal(t, tt.wantStatus, m.Status)
			if tt.wantStatus == domain.StatusOK {
				require.NotNil(t, m.Value)
				assert.InDelta(t, tt.wantValue, *m.Value, 1e-9)
			} else {
				assert.Nil(t, m.Value)
			}
		})
	}
}

func TestComputeMetrics_SingleRowScenario(t *testing.T) {
	r := row(2020, "Fall", 100, 50, 40)
	r.Retention = dataset.Num(90)
	columns := append(append([]string{}, domain.RequiredColumns...), domain.ColumnRetention)
	ds := dataset.New("t", columns, []dataset.Record{r})

	t.Run("all years and terms", func(t *testing.T) {
		vm := Render(ds, domain.Selection{})
		assert.Equal(t, int64(100), vm.Metrics.TotalApplications)
		assert.InDelta(t, 50.0, vm.Metrics.AdmissionRate, 1e-9)
		require.Equal(t, domain.StatusOK, vm.Metrics.AvgRetention.Status)
		assert.InDelta(t, 90.0, vm.Metrics.AvgRetention.Float(), 1e-9)
		assert.Equal(t, domain.StatusUnavailable, vm.Metrics.AvgSatisfaction.Status)
	})

	t.Run("year with no rows", func(t *testing.T) {
		vm := Render(ds, domain.Selection{Years: []float64{2021}})
		assert.Equal(t, 0, vm.FilteredRows)
		assert.Equal(t, int64(0), vm.Metrics.TotalApplications)
		assert.Equal(t, 0.0, vm.Metrics.AdmissionRate)
		assert.Equal(t, domain.StatusNoData, vm.Metrics.AvgRetention.Status)
		assert.Nil(t, vm.Metrics.AvgRetention.Value)
	})
}

func TestComputeMetrics_SatisfactionColumnAbsent(t *testing.T) {
	columns := []string{
		domain.ColumnYear, domain.ColumnTerm, domain.ColumnApplications,
		domain.ColumnAdmitted, domain.ColumnEnrolled, domain.ColumnRetention,
	}
	ds := dataset.New("t", columns, []dataset.Record{
		withRates(row(2020, "Fall", 100, 50, 40), 90, 0),
		withRates(row(2021, "Spring", 200, 50, 40), 80, 0),
	})

	selections := []domain.Selection{
		{},
		{Years: []float64{2020}},
		{Terms: []string{"Spring"}},
		{Years: []float64{}},
	}
	for _, sel := range selections {
		m := Render(ds, sel).Metrics
		assert.Equal(t, domain.StatusUnavailable, m.AvgSatisfaction.Status)
		assert.Nil(t, m.AvgSatisfaction.Value)
	}

	m := Render(ds, domain.Selection{}).Metrics
	assert.Equal(t, int64(300), m.TotalApplications)
	assert.InDelta(t, 100.0/3.0, m.AdmissionRate, 1e-9)
	assert.InDelta(t, 85.0, m.AvgRetention.Float(), 1e-9)
}
