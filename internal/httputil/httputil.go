// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the search sources.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/backoff"
)

// Get issues a GET against url with the given User-Agent and extra headers,
// classifying failures for the retry layer: transport errors and non-200
// statuses are retryable. There is no inner retry loop; the caller's backoff
// wrapper owns the retry discipline. A non-200 body is drained and closed
// before returning.
func Get(ctx context.Context, client *http.Client, name, url, userAgent string, header map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, backoff.Retryable(fmt.Errorf("%s request: %w", name, err))
	}

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, backoff.Retryablef("%s returned HTTP %d", name, resp.StatusCode)
	}
	return resp, nil
}
