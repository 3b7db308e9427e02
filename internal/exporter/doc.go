// Package exporter turns a rendered dashboard into downloadable files.
//
// A view-model is first flattened into Tables (Summary, Retention,
// Satisfaction, Enrollment, Departments). The tables can then be written as:
//
//   - an .xlsx workbook with one sheet per table (WriteWorkbook)
//   - CSV, one table per stream or per file in a directory (CSVWriter)
//   - aligned plain text for terminals (WriteText)
//
// Example usage:
//
//	vm := dashboard.Render(ds, domain.Selection{})
//	if err := exporter.WriteWorkbook(w, vm); err != nil {
//		return err
//	}
package exporter
