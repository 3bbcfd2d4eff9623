package exporter

import (
	"path/filepath"

	"sjsage522/seafoodcrawler/internal/crawler"
)

// Exporter represents a writer of the canonical dataset to one output artifact
type Exporter interface {
	// Export writes records and returns the path written
	Export(records []crawler.Record) (string, error)

	// Format returns the artifact format name for logging
	Format() string
}

// NewFileExporters returns the JSON, CSV and XLSX exporters writing
// {baseName}.json, {baseName}.csv and {baseName}.xlsx into dir
func NewFileExporters(dir, baseName string) []Exporter {
	base := filepath.Join(dir, baseName)
	return []Exporter{
		NewJSONExporter(base + ".json"),
		NewCSVExporter(base + ".csv"),
		NewExcelExporter(base + ".xlsx"),
	}
}
