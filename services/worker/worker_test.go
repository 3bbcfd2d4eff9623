package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/seafoodcrawler/helpers"
	"sjsage522/seafoodcrawler/internal/crawler"
	"sjsage522/seafoodcrawler/services/exporter"
	"sjsage522/seafoodcrawler/services/publisher"
)

// MockCrawler implements the crawler.Crawler interface for testing
type MockCrawler struct {
	result   *crawler.Result
	fetchErr error
	start    time.Time
	end      time.Time
}

// Ensure MockCrawler implements crawler.Crawler
var _ crawler.Crawler = (*MockCrawler)(nil)

func (m *MockCrawler) FetchRecords(_ context.Context, start, end time.Time) (*crawler.Result, error) {
	m.start, m.end = start, end
	return m.result, m.fetchErr
}

func (m *MockCrawler) GetName() string {
	return "mock"
}

// MockPublisher implements the publisher.Publisher interface for testing
type MockPublisher struct {
	mu         sync.Mutex
	messages   map[string][][]byte
	trimmed    int
	publishErr error
}

// Ensure MockPublisher implements publisher.Publisher
var _ publisher.Publisher = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{messages: make(map[string][][]byte)}
}

func (m *MockPublisher) Publish(key string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.publishErr != nil {
		return m.publishErr
	}

	messageCopy := make([]byte, len(message))
	copy(messageCopy, message)
	m.messages[key] = append(m.messages[key], messageCopy)
	return nil
}

func (m *MockPublisher) TrimStreams() error {
	m.trimmed++
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// MockLogger implements the helpers.LoggerInterface for testing
type MockLogger struct {
	mu     sync.Mutex
	errors []string
	infos  []string
}

// Ensure MockLogger implements helpers.LoggerInterface
var _ helpers.LoggerInterface = (*MockLogger)(nil)

func (m *MockLogger) LogError(target string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, fmt.Sprintf("%s: %v", target, err))
}

func (m *MockLogger) LogInfo(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, fmt.Sprintf(format, args...))
}

// MockExporter records what it was asked to export
type MockExporter struct {
	format   string
	exported [][]crawler.Record
	err      error
}

var _ exporter.Exporter = (*MockExporter)(nil)

func (m *MockExporter) Export(records []crawler.Record) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.exported = append(m.exported, records)
	return "out." + m.format, nil
}

func (m *MockExporter) Format() string {
	return m.format
}

var (
	day1 = time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 10, 11, 0, 0, 0, 0, time.UTC)
)

func sampleResult() *crawler.Result {
	return &crawler.Result{
		Records: []crawler.Record{
			{TradeDate: "1131010", MarketName: "台北", FishName: "吳郭魚", Volume: "9872.5"},
			{TradeDate: "1131010", MarketName: "三重", FishName: "白鯧", Volume: "12.0"},
		},
		Failures: []crawler.Failure{
			{Pair: crawler.Pair{Date: day1, MarketCode: "F300"}, Attempts: 3, Err: errors.New("exhausted 3 attempts")},
		},
		Requests: 5,
		Pairs:    3,
	}
}

func TestWorkerRun(t *testing.T) {
	mockCrawler := &MockCrawler{result: sampleResult()}
	mockPublisher := NewMockPublisher()
	mockLogger := &MockLogger{}
	jsonExp := &MockExporter{format: "json"}
	csvExp := &MockExporter{format: "csv"}

	w := NewWorker(context.Background(), mockCrawler, []exporter.Exporter{jsonExp, csvExp}, mockPublisher, mockLogger)

	report, err := w.Run(day1, day2)
	require.NoError(t, err)

	assert.Equal(t, day1, mockCrawler.start)
	assert.Equal(t, day2, mockCrawler.end)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, 5, report.Requests)
	assert.Len(t, report.Failures, 1)
	assert.Equal(t, []string{"out.json", "out.csv"}, report.Artifacts)

	require.Len(t, jsonExp.exported, 1)
	assert.Len(t, jsonExp.exported[0], 2)
	require.Len(t, csvExp.exported, 1)

	// Failed pairs land in the error log
	require.Len(t, mockLogger.errors, 1)
	assert.Contains(t, mockLogger.errors[0], "F300@2024-10-10")

	// Every record is published under its market name
	require.Len(t, mockPublisher.messages["台北"], 1)
	var published crawler.Record
	require.NoError(t, json.Unmarshal(mockPublisher.messages["台北"][0], &published))
	assert.Equal(t, "吳郭魚", published.FishName)
	assert.Len(t, mockPublisher.messages["三重"], 1)
	assert.Equal(t, 1, mockPublisher.trimmed)

	require.Len(t, mockLogger.infos, 1)
	assert.Contains(t, mockLogger.infos[0], report.RunID)
	assert.Contains(t, mockLogger.infos[0], "2 records to 2 artifacts")
}

func TestWorkerRunWithoutPublisher(t *testing.T) {
	exp := &MockExporter{format: "json"}
	w := NewWorker(context.Background(), &MockCrawler{result: sampleResult()}, []exporter.Exporter{exp}, nil, &MockLogger{})

	report, err := w.Run(day1, day2)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Records)
	assert.Len(t, exp.exported, 1)
}

func TestWorkerRunEmptyDatasetStillExports(t *testing.T) {
	exp := &MockExporter{format: "csv"}
	mockCrawler := &MockCrawler{result: &crawler.Result{Records: []crawler.Record{}}}
	w := NewWorker(context.Background(), mockCrawler, []exporter.Exporter{exp}, nil, &MockLogger{})

	report, err := w.Run(day1, day1)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Records)
	require.Len(t, exp.exported, 1)
	assert.Empty(t, exp.exported[0])
}

func TestWorkerRunExportError(t *testing.T) {
	failing := &MockExporter{format: "xlsx", err: errors.New("disk full")}
	after := &MockExporter{format: "csv"}
	mockLogger := &MockLogger{}
	w := NewWorker(context.Background(), &MockCrawler{result: sampleResult()}, []exporter.Exporter{failing, after}, nil, mockLogger)

	_, err := w.Run(day1, day2)
	assert.EqualError(t, err, "disk full")
	assert.Empty(t, after.exported)
	assert.Empty(t, mockLogger.infos)
}

func TestWorkerRunCrawlInterrupted(t *testing.T) {
	exp := &MockExporter{format: "json"}
	mockLogger := &MockLogger{}
	mockCrawler := &MockCrawler{result: sampleResult(), fetchErr: context.Canceled}
	w := NewWorker(context.Background(), mockCrawler, []exporter.Exporter{exp}, nil, mockLogger)

	report, err := w.Run(day1, day2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, exp.exported)
	assert.Empty(t, mockLogger.infos)
	assert.Len(t, report.Failures, 1)
	assert.Len(t, mockLogger.errors, 1)
}

func TestWorkerPublishErrorsAreLogged(t *testing.T) {
	mockPublisher := NewMockPublisher()
	mockPublisher.publishErr = errors.New("redis down")
	mockLogger := &MockLogger{}
	w := NewWorker(context.Background(), &MockCrawler{result: sampleResult()}, nil, mockPublisher, mockLogger)

	_, err := w.Run(day1, day2)
	require.NoError(t, err)

	// one failed pair plus two failed publishes
	assert.Len(t, mockLogger.errors, 3)
	assert.Equal(t, 1, mockPublisher.trimmed)
}
