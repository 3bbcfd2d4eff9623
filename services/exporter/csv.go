package exporter

import (
	"encoding/csv"
	"os"

	"sjsage522/seafoodcrawler/internal/crawler"
	"sjsage522/seafoodcrawler/pkg/errors"
)

// CSVExporter writes a header row followed by one line per record
type CSVExporter struct {
	path string
}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{path: path}
}

// Format returns "csv"
func (e *CSVExporter) Format() string {
	return "csv"
}

// Export writes records; an empty dataset produces a header-only file
func (e *CSVExporter) Export(records []crawler.Record) (string, error) {
	f, err := os.Create(e.path)
	if err != nil {
		return "", errors.NewExport(e.path, "failed to create file", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(crawler.Columns); err != nil {
		return "", errors.NewExport(e.path, "failed to write header", err)
	}
	for _, r := range records {
		if err := w.Write(r.Values()); err != nil {
			return "", errors.NewExport(e.path, "failed to write row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.NewExport(e.path, "failed to flush rows", err)
	}
	if err := f.Close(); err != nil {
		return "", errors.NewExport(e.path, "failed to close file", err)
	}
	return e.path, nil
}
