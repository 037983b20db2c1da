package llm

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// APIError is returned by EmbeddingsClient for non-200 responses.
type APIError struct {
	StatusCode int
	Message    string
	// RetryAfter is the wait the provider asked for, zero when it gave none.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bad status %d: %s", e.StatusCode, e.Message)
}

var retryHintPattern = regexp.MustCompile(`(?i)try again in ([0-9]+(?:\.[0-9]+)?)\s*(ms|s)`)

// IsRateLimited reports whether err is a provider rate-limit rejection.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "rate_limit")
}

// IsBatchTooLarge reports whether the provider rejected a request because
// it carried too many inputs or too many tokens.
func IsBatchTooLarge(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusRequestEntityTooLarge {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	for _, hint := range []string{"too large", "too many inputs", "maximum context", "too many tokens"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

// RetryAfter returns the provider-suggested wait carried by err, or zero.
func RetryAfter(err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter
	}
	return 0
}

// parseRetryAfter reads a wait hint from the Retry-After header (whole
// seconds) or, failing that, from a "try again in 1.5s" style message.
func parseRetryAfter(header, message string) time.Duration {
	if header = strings.TrimSpace(header); header != "" {
		if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}

	m := retryHintPattern.FindStringSubmatch(message)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v <= 0 {
		return 0
	}
	if strings.EqualFold(m[2], "ms") {
		return time.Duration(v * float64(time.Millisecond))
	}
	return time.Duration(v * float64(time.Second))
}
