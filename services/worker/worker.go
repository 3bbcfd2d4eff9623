package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"sjsage522/seafoodcrawler/helpers"
	"sjsage522/seafoodcrawler/internal/crawler"
	"sjsage522/seafoodcrawler/logger"
	"sjsage522/seafoodcrawler/services/exporter"
	"sjsage522/seafoodcrawler/services/publisher"
)

// Report summarizes one worker run
type Report struct {
	RunID     string
	Records   int
	Requests  int
	Failures  []crawler.Failure
	Artifacts []string
	Elapsed   time.Duration
}

// Worker handles the crawling, export and publishing process
type Worker struct {
	ctx       context.Context
	crawler   crawler.Crawler
	exporters []exporter.Exporter
	publisher publisher.Publisher
	logger    helpers.LoggerInterface
}

// NewWorker creates a new worker. pub may be nil when publishing is disabled.
func NewWorker(
	ctx context.Context,
	c crawler.Crawler,
	exporters []exporter.Exporter,
	pub publisher.Publisher,
	logger helpers.LoggerInterface,
) *Worker {
	return &Worker{
		ctx:       ctx,
		crawler:   c,
		exporters: exporters,
		publisher: pub,
		logger:    logger,
	}
}

// Run crawls [start, end), writes every artifact and publishes the records.
// Failed pairs are logged and reported but do not fail the run; an export
// error does.
func (w *Worker) Run(start, end time.Time) (*Report, error) {
	began := time.Now()
	report := &Report{RunID: uuid.NewString()}
	log := logger.ForWorker().WithField("run_id", report.RunID)

	result, err := w.crawler.FetchRecords(w.ctx, start, end)
	if result != nil {
		report.Requests = result.Requests
		report.Failures = result.Failures
		for _, f := range result.Failures {
			w.logger.LogError(f.Pair.String(), f.Err)
		}
	}
	if err != nil {
		log.WithError(err).Error().Msg("Crawl interrupted")
		return report, err
	}
	report.Records = len(result.Records)

	for _, e := range w.exporters {
		path, err := e.Export(result.Records)
		if err != nil {
			logger.LogError("exporter", err, "run %s: %s export failed", report.RunID, e.Format())
			return report, err
		}
		logger.ForExporter(e.Format()).Info().
			Str("path", path).
			Int("records", len(result.Records)).
			Msg("Exported dataset")
		report.Artifacts = append(report.Artifacts, path)
	}

	if w.publisher != nil {
		w.publish(result.Records)
	}

	report.Elapsed = time.Since(began)
	log.Info().
		Int("records", report.Records).
		Int("requests", report.Requests).
		Int("failures", len(report.Failures)).
		Dur("elapsed", report.Elapsed).
		Msg("Run complete")
	w.logger.LogInfo("Run %s wrote %d records to %d artifacts", report.RunID, report.Records, len(report.Artifacts))

	return report, nil
}

// publish sends each record to the stream keyed by its market name and then
// trims the streams. Publishing errors are logged, not returned.
func (w *Worker) publish(records []crawler.Record) {
	log := logger.ForPublisher()

	published := 0
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			w.logger.LogError(r.MarketName, err)
			continue
		}
		if err := w.publisher.Publish(r.MarketName, data); err != nil {
			w.logger.LogError(r.MarketName, err)
			continue
		}
		published++
	}

	if err := w.publisher.TrimStreams(); err != nil {
		w.logger.LogError("StreamTrimming", err)
	}

	log.Info().Int("published", published).Int("records", len(records)).Msg("Published records")
}
