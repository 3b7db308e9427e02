package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"unidash/pkg/contracts/domain"
)

// WorkbookContentType is the media type of an .xlsx file.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultSheet = "Sheet1"

// WriteWorkbook renders vm as an .xlsx workbook with one sheet per table.
func WriteWorkbook(w io.Writer, vm domain.ViewModel) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, t := range Tables(vm) {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, t.Name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", t.Name, err)
		}
		if err := writeSheet(f, t, header); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t Table, headerStyle int) error {
	headers := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(t.Name, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write %s headers: %w", t.Name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.Name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s headers: %w", t.Name, err)
	}

	first := 2
	if t.Notice != "" {
		if err := f.SetCellValue(t.Name, "A2", t.Notice); err != nil {
			return fmt.Errorf("failed to write %s notice: %w", t.Name, err)
		}
		first = 3
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+first)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(t.Name, cell, &r); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", t.Name, i+1, err)
		}
	}
	return nil
}
