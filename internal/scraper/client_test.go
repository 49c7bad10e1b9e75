package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/lnmiit-dev/campusbot-go/internal/errors"
)

func TestGetDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1>Announcements</h1></body></html>`))
	}))
	defer server.Close()

	c := NewClient(5*time.Second, 0)
	doc, err := c.GetDocument(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Announcements", doc.Find("h1").Text())
}

func TestGetNotFoundIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(5*time.Second, 3)
	_, err := c.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, domerrors.ErrNotFound)

	var scrapeErr *domerrors.ScraperError
	require.True(t, errors.As(err, &scrapeErr))
	assert.Equal(t, http.StatusNotFound, scrapeErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load(), "404 must not be retried")
}

func TestGetRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := NewClient(5*time.Second, 2)
	resp, err := c.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetExhaustedRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(5*time.Second, 1)
	_, err := c.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, domerrors.ErrServiceUnavailable)
}

func TestRetryWithBackoffStopsOnPermanent(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return Permanent(errors.New("broken"))
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "broken", err.Error())
}

func TestRetryWithBackoffEventualSuccess(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestBackoffDelayBounds(t *testing.T) {
	for attempt := 1; attempt <= 10; attempt++ {
		d := backoffDelay(attempt, time.Second)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 30*time.Second)
	}
}
