// Package scraper provides the retrying HTTP client used by the college
// site scrapers (announcements, admission pages, library OPAC, paper
// repository).
package scraper

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/corpix/uarand"
	"golang.org/x/sync/singleflight"

	domerrors "github.com/lnmiit-dev/campusbot-go/internal/errors"
)

// Client is an HTTP client for web scraping with retries and request
// deduplication. Concurrent scrapes of the same URL collapse into one
// outbound request via singleflight.
type Client struct {
	httpClient *http.Client
	maxRetries int
	group      singleflight.Group
}

// NewClient creates a new scraper client with a bounded per-call timeout.
func NewClient(timeout time.Duration, maxRetries int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		maxRetries: maxRetries,
	}
}

// Get performs a GET request with retries.
// Caller is responsible for closing the response body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	var resp *http.Response

	err := RetryWithBackoff(ctx, c.maxRetries, 1*time.Second, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		req.Header.Set("User-Agent", uarand.GetRandom())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Encoding", "gzip, deflate")

		resp, err = c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Close body for non-success responses since we won't return it
			_ = resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
				return domerrors.NewScraperError(url, resp.StatusCode, domerrors.ErrServiceUnavailable)
			case http.StatusNotFound:
				return Permanent(domerrors.NewScraperError(url, resp.StatusCode, domerrors.ErrNotFound))
			case http.StatusForbidden, http.StatusUnauthorized:
				return Permanent(domerrors.NewScraperError(url, resp.StatusCode, errors.New("access denied")))
			default:
				return domerrors.NewScraperError(url, resp.StatusCode, domerrors.ErrServiceUnavailable)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return resp, nil
}

// GetDocument performs a GET request and parses the response as HTML.
func (c *Client) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Handle gzip encoding
	var reader io.Reader
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress gzip: %w", err)
		}
		defer func() { _ = gzipReader.Close() }()
		reader = gzipReader
	} else {
		reader = resp.Body
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}

// GetDocumentShared performs GetDocument deduplicated by URL: concurrent
// requests for the same URL execute the fetch once and share the result.
func (c *Client) GetDocumentShared(ctx context.Context, url string) (*goquery.Document, error) {
	v, err, _ := c.group.Do(url, func() (interface{}, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		return c.GetDocument(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	return v.(*goquery.Document), nil
}
