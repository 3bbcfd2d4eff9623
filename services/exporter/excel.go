package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"sjsage522/seafoodcrawler/internal/crawler"
	"sjsage522/seafoodcrawler/pkg/errors"
)

const sheetName = "Sheet1"

// ExcelExporter writes the dataset to a single-sheet workbook
type ExcelExporter struct {
	path string
}

// NewExcelExporter creates a new XLSX exporter
func NewExcelExporter(path string) *ExcelExporter {
	return &ExcelExporter{path: path}
}

// Format returns "xlsx"
func (e *ExcelExporter) Format() string {
	return "xlsx"
}

// Export writes the header to row 1 and each record to the following rows.
// Cells are written as strings, matching the other exporters.
func (e *ExcelExporter) Export(records []crawler.Record) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return "", errors.NewExport(e.path, "failed to open sheet writer", err)
	}

	if err := sw.SetRow("A1", toCells(crawler.Columns)); err != nil {
		return "", errors.NewExport(e.path, "failed to write header", err)
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", errors.NewExport(e.path, fmt.Sprintf("invalid row %d", i+2), err)
		}
		if err := sw.SetRow(cell, toCells(r.Values())); err != nil {
			return "", errors.NewExport(e.path, fmt.Sprintf("failed to write row %d", i+2), err)
		}
	}

	if err := sw.Flush(); err != nil {
		return "", errors.NewExport(e.path, "failed to flush sheet", err)
	}
	if err := f.SaveAs(e.path); err != nil {
		return "", errors.NewExport(e.path, "failed to save workbook", err)
	}
	return e.path, nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
