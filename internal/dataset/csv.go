package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"unidash/pkg/contracts/domain"
)

// Load errors. All of them are fatal at startup.
var (
	ErrFileUnreadable = errors.New("dataset file unreadable")
	ErrMissingColumn  = errors.New("required column missing")
	ErrEmptyFile      = errors.New("dataset file has no header row")
)

const utf8BOM = "\ufeff"

// ReadFile loads and parses the CSV file at path.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileUnreadable, path, err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads a header row followed by data rows from r.
// Cells that cannot be parsed as numbers become null; only a missing
// header or a missing required column is an error.
func Parse(r io.Reader, source string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to read header: %v", ErrFileUnreadable, source, err)
	}

	columns := make([]string, len(header))
	position := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		columns[i] = name
		if _, dup := position[name]; !dup {
			position[name] = i
		}
	}

	for _, required := range domain.RequiredColumns {
		if _, ok := position[required]; !ok {
			return nil, fmt.Errorf("%w: %q in %s", ErrMissingColumn, required, source)
		}
	}

	ds := New(source, columns, nil)

	termAt := position[domain.ColumnTerm]
	numeric := make(map[string]int)
	for name, i := range position {
		if IsNumericColumn(name) {
			numeric[name] = i
		}
	}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %s: line %d: %v", ErrFileUnreadable, source, line, err)
		}

		var rec Record
		rec.Term = parseText(cell(row, termAt))
		for name, i := range numeric {
			raw := cell(row, i)
			f := parseFloat(raw)
			if name == domain.ColumnYear && !f.Valid && strings.TrimSpace(raw) != "" {
				ds.invalidYears++
			}
			rec.setNumber(name, f)
		}
		ds.records = append(ds.records, rec)
	}

	ds.loadedAt = time.Now()
	return ds, nil
}

// cell returns row[i] or "" for short rows.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseFloat coerces a cell to a number. Blank, malformed, NaN and
// infinite values are null.
func parseFloat(raw string) Float {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Float{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return Float{}
	}
	return Num(v)
}

// parseText trims a categorical cell; blank cells are null.
func parseText(raw string) Text {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Text{}
	}
	return Str(s)
}
