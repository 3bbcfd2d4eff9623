package crawler

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/go-resty/resty/v2"

	"sjsage522/seafoodcrawler/helpers"
	"sjsage522/seafoodcrawler/logger"
	"sjsage522/seafoodcrawler/pkg/errors"
)

// EfishCrawler walks days × markets against the efish daily market page
type EfishCrawler struct {
	BaseCrawler
	Registry  RegistryLookup
	client    *resty.Client
	fetchFunc func(ctx context.Context, pair Pair, form Payload) (io.Reader, error)
	log       *logger.Logger
}

// Ensure EfishCrawler implements Crawler
var _ Crawler = (*EfishCrawler)(nil)

// NewEfishCrawler creates a new crawler
func NewEfishCrawler(config CrawlerConfig) *EfishCrawler {
	c := &EfishCrawler{
		BaseCrawler: BaseCrawler{
			URL:         config.URL,
			MaxAttempts: config.MaxAttempts,
		},
		Registry: config.Registry,
		client:   helpers.NewFormClient(config.Timeout),
	}
	c.fetchFunc = c.postForm
	c.log = logger.ForCrawler(c.GetName())
	return c
}

// GetName returns the crawler's name
func (c *EfishCrawler) GetName() string {
	return "efish"
}

// Days returns the days to crawl for [start, end): end minus start in whole
// days, but at least one day when start equals end. A start after end yields
// no days.
func Days(start, end time.Time) []time.Time {
	n := int(end.Sub(start).Hours() / 24)
	if n == 0 && !start.After(end) {
		n = 1
	}

	days := make([]time.Time, 0, max(n, 0))
	for i := 0; i < n; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}
	return days
}

// FetchRecords crawls every registry market for every day, date-major and
// then in registry order. Failed pairs are reported in the result and do not
// stop the run. Cancellation of ctx stops the run and returns what was
// collected so far together with the context error.
func (c *EfishCrawler) FetchRecords(ctx context.Context, start, end time.Time) (*Result, error) {
	result := &Result{Records: []Record{}}
	codes := c.Registry.Codes()
	days := Days(start, end)

	c.log.Info().
		Str("start", start.Format("2006-01-02")).
		Str("end", end.Format("2006-01-02")).
		Int("days", len(days)).
		Int("markets", len(codes)).
		Msg("Starting crawl")

	for _, day := range days {
		for _, code := range codes {
			pair := Pair{Date: day, MarketCode: code}
			result.Pairs++

			records, attempts, err := c.fetchPair(ctx, pair)
			result.Requests += attempts
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return result, ctxErr
				}
				c.log.Warn().
					Err(err).
					Str("pair", pair.String()).
					Int("attempts", attempts).
					Msg("Pair contributed no records")
				result.Failures = append(result.Failures, Failure{Pair: pair, Attempts: attempts, Err: err})
				continue
			}

			c.log.Debug().
				Str("pair", pair.String()).
				Int("records", len(records)).
				Int("attempts", attempts).
				Msg("Pair fetched")
			result.Records = append(result.Records, records...)
		}
	}

	c.log.Info().
		Int("records", len(result.Records)).
		Int("requests", result.Requests).
		Int("failures", len(result.Failures)).
		Msg("Crawl finished")

	return result, nil
}

// fetchPair requests one (day, market) pair with retries, then parses and
// normalizes the 200 response. It returns the number of requests issued.
func (c *EfishCrawler) fetchPair(ctx context.Context, pair Pair) ([]Record, int, error) {
	// Fail fast before any request for a market the registry cannot name
	if _, err := c.Registry.NameFor(pair.MarketCode); err != nil {
		return nil, 0, err
	}

	form := BuildPayload(pair.Date, pair.MarketCode)

	var body io.Reader
	attempts, err := c.withRetry(ctx, func(attempt int) error {
		r, err := c.fetchFunc(ctx, pair, form)
		if err != nil {
			c.log.Debug().
				Err(err).
				Str("pair", pair.String()).
				Int("attempt", attempt).
				Msg("Request failed")
			return err
		}
		body = r
		return nil
	})
	if err != nil {
		return nil, attempts, err
	}

	table, err := c.parseTable(body, pair.String())
	if err != nil {
		return nil, attempts, err
	}

	records, err := normalize(table, pair.Date, pair.MarketCode, c.Registry)
	if err != nil {
		return nil, attempts, err
	}

	return records, attempts, nil
}

// IsTableNotFound reports whether a failure was caused by a missing price table
func (f Failure) IsTableNotFound() bool {
	return stderrors.Is(f.Err, errors.ErrTableNotFound)
}
