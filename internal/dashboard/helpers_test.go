package dashboard

import (
	"io"
	"strings"

	"unidash/internal/dataset"
	"unidash/pkg/contracts/domain"
)

var allColumns = []string{
	domain.ColumnYear, domain.ColumnTerm, domain.ColumnApplications,
	domain.ColumnAdmitted, domain.ColumnEnrolled, domain.ColumnRetention,
	domain.ColumnSatisfaction, domain.ColumnEngineering, domain.ColumnBusiness,
	domain.ColumnArts, domain.ColumnScience,
}

func row(year float64, term string, apps, admitted, enrolled float64) dataset.Record {
	return dataset.Record{
		Year:         dataset.Num(year),
		Term:         dataset.Str(term),
		Applications: dataset.Num(apps),
		Admitted:     dataset.Num(admitted),
		Enrolled:     dataset.Num(enrolled),
	}
}

func withRates(r dataset.Record, retention, satisfaction float64) dataset.Record {
	r.Retention = dataset.Num(retention)
	r.Satisfaction = dataset.Num(satisfaction)
	return r
}

func withDepts(r dataset.Record, eng, bus, arts, sci float64) dataset.Record {
	r.Engineering = dataset.Num(eng)
	r.Business = dataset.Num(bus)
	r.Arts = dataset.Num(arts)
	r.Science = dataset.Num(sci)
	return r
}

// sampleDataset has two years, two terms, a null-year row and a null-term row.
func sampleDataset() *dataset.Dataset {
	nullYear := withRates(row(0, "Fall", 1000, 1000, 1000), 10, 10)
	nullYear.Year = dataset.Float{}
	nullTerm := row(2016, "", 500, 100, 50)
	nullTerm.Term = dataset.Text{}

	return dataset.New("sample", allColumns, []dataset.Record{
		withDepts(withRates(row(2015, "Spring", 2500, 1500, 800), 85, 78), 200, 150, 100, 350),
		withDepts(withRates(row(2015, "Fall", 2600, 1550, 820), 86, 79), 210, 160, 110, 340),
		withDepts(withRates(row(2016, "Spring", 2700, 1600, 850), 87, 80), 220, 170, 120, 340),
		withDepts(withRates(row(2016, "Fall", 2800, 1650, 900), 88, 81), 230, 180, 130, 360),
		nullYear,
		nullTerm,
	})
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}
