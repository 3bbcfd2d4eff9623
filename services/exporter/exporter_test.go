package exporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sjsage522/seafoodcrawler/internal/crawler"
	"sjsage522/seafoodcrawler/pkg/errors"
)

var testRecords = []crawler.Record{
	{
		HighPrice:   "83.0",
		LowPrice:    "37.6",
		MidPrice:    "64.6",
		TradeDate:   "1131010",
		Volume:      "9872.5",
		SpeciesCode: "1011",
		MarketName:  "台北",
		AvgPrice:    "64.7",
		FishName:    "吳郭魚",
	},
	{
		HighPrice:   "100.3",
		LowPrice:    "44.0",
		MidPrice:    "63.7",
		TradeDate:   "1131010",
		Volume:      "38.6",
		SpeciesCode: "1011",
		MarketName:  "新營",
		AvgPrice:    "67.1",
		FishName:    "吳郭魚",
	},
}

func TestJSONExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table_outer.json")

	written, err := NewJSONExporter(path).Export(testRecords)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	// Chinese keys are written unescaped and in canonical order
	assert.Contains(t, content, `"魚貨名稱": "吳郭魚"`)
	last := -1
	for _, col := range crawler.Columns {
		idx := strings.Index(content, `"`+col+`"`)
		require.GreaterOrEqual(t, idx, 0, col)
		assert.Greater(t, idx, last, col)
		last = idx
	}

	var decoded []crawler.Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, testRecords, decoded)
}

func TestJSONExporterEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	_, err := NewJSONExporter(path).Export(nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func TestCSVExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table_outer.csv")

	_, err := NewCSVExporter(path).Export(testRecords)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, crawler.Columns, rows[0])
	assert.Equal(t, testRecords[0].Values(), rows[1])
	assert.Equal(t, "新營", rows[2][6])
}

func TestCSVExporterEmptyWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	_, err := NewCSVExporter(path).Export([]crawler.Record{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(crawler.Columns, ",")+"\n", string(data))
}

func TestExcelExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table_outer.xlsx")

	_, err := NewExcelExporter(path).Export(testRecords)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, crawler.Columns, rows[0])
	assert.Equal(t, testRecords[1].Values(), rows[2])
}

func TestExcelExporterEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	_, err := NewExcelExporter(path).Export(nil)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, crawler.Columns, rows[0])
}

func TestNewFileExporters(t *testing.T) {
	dir := t.TempDir()
	exporters := NewFileExporters(dir, "table_outer")
	require.Len(t, exporters, 3)

	var formats []string
	for _, e := range exporters {
		formats = append(formats, e.Format())
		written, err := e.Export(testRecords)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "table_outer."+e.Format()), written)
	}
	assert.Equal(t, []string{"json", "csv", "xlsx"}, formats)
}

func TestExportToMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does", "not", "exist")

	for _, e := range NewFileExporters(dir, "table_outer") {
		_, err := e.Export(testRecords)
		assert.True(t, errors.IsType(err, errors.ErrorTypeExport), e.Format())
	}
}
