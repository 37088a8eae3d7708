// Package probe checks that a target URL answers before it is shortened.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vadimbarashkov/clicktrail/internal/entity"
)

const defaultTimeout = 5 * time.Second

// HTTPProber sends a HEAD request to the target URL.
type HTTPProber struct {
	client  *http.Client
	timeout time.Duration
}

// New creates an HTTPProber. A non-positive timeout falls back to 5 seconds.
func New(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &HTTPProber{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Probe returns an *entity.UnreachableError when the URL cannot be fetched in
// time or answers with a status >= 400. 405 Method Not Allowed counts as
// reachable since some servers reject HEAD.
func (p *HTTPProber) Probe(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return &entity.UnreachableError{URL: url, Reason: fmt.Sprintf("invalid request: %v", err)}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &entity.UnreachableError{URL: url, Reason: fmt.Sprintf("timed out after %s", p.timeout)}
		}
		return &entity.UnreachableError{URL: url, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusMethodNotAllowed {
		return &entity.UnreachableError{URL: url, Reason: fmt.Sprintf("responded with status %d", resp.StatusCode)}
	}

	return nil
}
