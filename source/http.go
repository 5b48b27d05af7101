package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/jmgilman/go/imgcache/errors"
)

// HTTPConfig configures the HTTP fetcher.
type HTTPConfig struct {
	// RetryMax is the maximum number of retries per request.
	RetryMax int
	// Timeout bounds a single request, including retries. Zero means no limit.
	Timeout time.Duration
	// MaxBytes caps the response body. Zero means no limit.
	MaxBytes int64
	// Client overrides the underlying HTTP client.
	Client *http.Client
}

// HTTP fetches http:// and https:// URIs with retries on transient failures.
type HTTP struct {
	client   *retryablehttp.Client
	maxBytes int64
}

// NewHTTP creates an HTTP fetcher.
func NewHTTP(config HTTPConfig) *HTTP {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = config.RetryMax
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if config.Client != nil {
		c := *config.Client
		client.HTTPClient = &c
	}
	if config.Timeout > 0 {
		client.HTTPClient.Timeout = config.Timeout
	}
	return &HTTP{client: client, maxBytes: config.MaxBytes}
}

// Fetch implements Fetcher. The MIME type is the response Content-Type.
func (h *HTTP) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.CodeInvalidInput, "invalid request URI")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", errors.Wrap(err, errors.CodeTimeout, "request cancelled")
		}
		return nil, "", errors.Wrap(err, errors.CodeNetwork, "failed to fetch image")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", statusError(resp.StatusCode, uri)
	}

	var body io.Reader = resp.Body
	if h.maxBytes > 0 {
		body = io.LimitReader(resp.Body, h.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.CodeNetwork, "failed to read response body")
	}
	if h.maxBytes > 0 && int64(len(data)) > h.maxBytes {
		return nil, "", errors.Newf(errors.CodeInvalidInput, "response exceeds %d bytes", h.maxBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func statusError(status int, uri string) error {
	code := errors.CodeSourceFailed
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		code = errors.CodeNotFound
	case status == http.StatusTooManyRequests || status >= 500:
		code = errors.CodeUnavailable
	}
	err := errors.New(code, fmt.Sprintf("unexpected status %d", status))
	return errors.WithContextMap(err, map[string]interface{}{
		"status": status,
		"uri":    uri,
	})
}
