package crawler

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/seafoodcrawler/pkg/errors"
)

// BaseCrawler provides common functionality for all crawlers
type BaseCrawler struct {
	URL         string
	MaxAttempts int
}

// createDocument creates a goquery document from a reader
func (c *BaseCrawler) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, errors.NewParsing(c.URL, "failed to parse HTML", err)
	}
	return doc, nil
}

// withRetry runs op until it succeeds, fails permanently, or MaxAttempts is
// reached. There is no delay between attempts. It returns the number of
// attempts made.
func (c *BaseCrawler) withRetry(ctx context.Context, op func(attempt int) error) (int, error) {
	maxAttempts := c.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		lastErr = op(attempt)
		if lastErr == nil {
			return attempt, nil
		}
		if errors.IsPermanent(lastErr) {
			return attempt, lastErr
		}
	}

	return maxAttempts, fmt.Errorf("exhausted %d attempts: %w", maxAttempts, lastErr)
}

// GetName returns the crawler's type name for logging
func (c *BaseCrawler) GetName() string {
	return reflect.TypeOf(c).Elem().Name()
}
