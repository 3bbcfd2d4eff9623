package crawler

import (
	"context"
	"io"
	"net/http"

	"sjsage522/seafoodcrawler/helpers"
	"sjsage522/seafoodcrawler/pkg/errors"
)

// postForm performs one POST of form for pair and returns the UTF-8 body of
// a 200 response. Transport failures and other statuses are retryable errors.
func (c *EfishCrawler) postForm(ctx context.Context, pair Pair, form Payload) (io.Reader, error) {
	resp, err := helpers.PostForm(ctx, c.client, c.URL, form)
	if err != nil {
		return nil, errors.NewNetwork(pair.String(), "request failed", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, errors.NewHTTPStatus(pair.String(), resp.StatusCode())
	}

	body, err := helpers.ToUTF8(resp.Body(), resp.Header().Get("Content-Type"))
	if err != nil {
		return nil, errors.NewParsing(pair.String(), "failed to decode response body", err)
	}

	return body, nil
}
