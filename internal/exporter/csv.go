package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes dashboard tables as CSV.
type CSVWriter struct {
	// BOMPrefix adds a UTF-8 BOM so Excel recognises the encoding.
	BOMPrefix bool
	logger    *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(bom bool, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{BOMPrefix: bom, logger: logger}
}

// Write writes the header row, a "Notice" row when t carries one, and the
// rows of t to w.
func (c *CSVWriter) Write(w io.Writer, t Table) error {
	if c.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(t.Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	if t.Notice != "" {
		if err := writer.Write([]string{"Notice", t.Notice}); err != nil {
			return fmt.Errorf("failed to write notice: %w", err)
		}
	}
	for i, row := range t.Rows {
		if err := writer.Write(formatRow(row)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteDir writes every table to dir as <name>.csv and returns the paths written.
func (c *CSVWriter) WriteDir(dir string, tables []Table) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := filepath.Join(dir, strings.ToLower(t.Name)+".csv")
		if err := c.writeFile(path, t); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	c.logger.Info("CSV tables written",
		slog.String("dir", dir),
		slog.Int("tables", len(paths)))
	return paths, nil
}

func (c *CSVWriter) writeFile(path string, t Table) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return c.Write(file, t)
}
