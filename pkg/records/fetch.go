package records

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/barchart/pkg/buildinfo"
	"github.com/matzehuels/barchart/pkg/cache"
)

// httpTimeout bounds a single fetch attempt.
const httpTimeout = 30 * time.Second

// maxBody caps how much of a remote CSV is read.
const maxBody = 64 << 20

// IsURL reports whether src names a remote http(s) source.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// NewHTTPClient returns the client the loader fetches remote files with.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// fetch downloads url. Network failures and 5xx responses are retried.
func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, err = l.get(ctx, url)
		return err
	})
	return data, err
}

func (l *Loader) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, cache.Retryable(err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, cache.Retryable(err)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code >= 500:
		return cache.Retryable(fmt.Errorf("status %d", code))
	default:
		return fmt.Errorf("status %d", code)
	}
}
