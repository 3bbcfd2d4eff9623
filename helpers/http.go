package helpers

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
)

// UserAgent is the static browser user agent sent with every request
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36"

// browser-like header set for the statistics site
var formHeaders = map[string]string{
	"User-Agent":      UserAgent,
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language": "zh-TW,zh;q=0.9,en-US;q=0.8,en;q=0.7",
	"Accept-Encoding": "gzip, br",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
}

var gzipMagic = []byte{0x1f, 0x8b}

// NewFormClient creates a resty client that posts forms with browser headers
// and transparently decompresses gzip/br bodies.
func NewFormClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeaders(formHeaders).
		OnAfterResponse(DecompressMiddleware)
}

// PostForm sends form as an application/x-www-form-urlencoded POST to url.
// Non-200 responses are returned without error; callers inspect the status.
func PostForm(ctx context.Context, client *resty.Client, url string, form map[string]string) (*resty.Response, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetFormData(form).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("failed to post form: %w", err)
	}
	return resp, nil
}

// DecompressMiddleware replaces a gzip or br encoded body with its decoded bytes
func DecompressMiddleware(c *resty.Client, resp *resty.Response) error {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header().Get("Content-Encoding")))
	if encoding == "" || len(resp.Body()) == 0 {
		return nil
	}

	var reader io.ReadCloser
	var err error

	switch encoding {
	case "br":
		reader = io.NopCloser(brotli.NewReader(bytes.NewReader(resp.Body())))
	case "gzip":
		// resty already gunzips bodies when Accept-Encoding is set explicitly
		if !bytes.HasPrefix(resp.Body(), gzipMagic) {
			resp.Header().Del("Content-Encoding")
			return nil
		}
		reader, err = gzip.NewReader(bytes.NewReader(resp.Body()))
		if err != nil {
			return fmt.Errorf("failed to open gzip body: %w", err)
		}
		defer reader.Close()
	default:
		return nil
	}

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to decompress %s body: %w", encoding, err)
	}

	resp.SetBody(decompressed)
	resp.Header().Del("Content-Encoding")
	return nil
}

// ToUTF8 converts body to UTF-8 using the Content-Type header and any
// <meta charset> in the document, returning it as an io.Reader.
// Without a declared charset a valid UTF-8 body is kept as is, since the
// sniffer falls back to windows-1252 when the first 1024 bytes are ASCII.
func ToUTF8(body []byte, contentType string) (io.Reader, error) {
	encoding, name, certain := charset.DetermineEncoding(body, contentType)

	// If already UTF-8, return as is
	if strings.EqualFold(name, "utf-8") || (!certain && utf8.Valid(body)) {
		return bytes.NewReader(body), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(body))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}

	return &buf, nil
}
