package exporter

import (
	"encoding/json"
	"os"

	"sjsage522/seafoodcrawler/internal/crawler"
	"sjsage522/seafoodcrawler/pkg/errors"
)

// JSONExporter writes the dataset as an indented array of objects
type JSONExporter struct {
	path string
}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter(path string) *JSONExporter {
	return &JSONExporter{path: path}
}

// Format returns "json"
func (e *JSONExporter) Format() string {
	return "json"
}

// Export writes records as UTF-8 JSON; an empty dataset becomes []
func (e *JSONExporter) Export(records []crawler.Record) (string, error) {
	if records == nil {
		records = []crawler.Record{}
	}

	f, err := os.Create(e.path)
	if err != nil {
		return "", errors.NewExport(e.path, "failed to create file", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return "", errors.NewExport(e.path, "failed to encode records", err)
	}

	if err := f.Close(); err != nil {
		return "", errors.NewExport(e.path, "failed to close file", err)
	}
	return e.path, nil
}
