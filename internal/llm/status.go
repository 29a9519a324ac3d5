package llm

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// classifyStatus maps a vendor failure onto the typed errors the retry layer
// understands. Context errors pass through untouched so cancellation is never
// mistaken for an outage.
func classifyStatus(code int, header http.Header, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	switch {
	case code == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: retryAfter(header, time.Now()), Err: err}
	case code >= 400 && code < 500 && code != http.StatusRequestTimeout:
		return &ErrRejected{Status: code, Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date.
func retryAfter(header http.Header, now time.Time) time.Duration {
	v := header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names pass through so callers can use vendor IDs directly.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
