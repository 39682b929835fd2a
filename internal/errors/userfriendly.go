package errors

import (
	"fmt"
	"strings"
)

// UserFriendlyError provides user-friendly error messages with context and hints
type UserFriendlyError struct {
	Message string
	Reason  string
	Hint    string
	Try     string
	Err     error
}

func (e UserFriendlyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Try != "" {
		buf.WriteString("\n  Try: " + e.Try)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e UserFriendlyError) Unwrap() error {
	return e.Err
}

// Summary returns the message and reason on one line, for status bars.
func (e UserFriendlyError) Summary() string {
	if e.Reason == "" {
		return e.Message
	}
	return e.Message + ": " + e.Reason
}

// NetworkError reports a failed catalog request: a transport failure or a
// non-success HTTP status.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("GET %s: request failed", e.URL)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that could not be decoded.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapNetworkError wraps catalog request errors with user-friendly context
func WrapNetworkError(err error, operation string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Failed to %s", operation),
		Reason:  extractNetworkReason(err),
		Hint:    "The catalog API may be unreachable or rate limiting requests",
		Try:     "artsel page --page 1 --log-level debug",
		Err:     err,
	}
}

// WrapConfigError wraps configuration errors with user-friendly context
func WrapConfigError(err error, configPath string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Configuration error in %s", configPath),
		Reason:  err.Error(),
		Hint:    "Run 'artsel config init' to write a config with every default filled in",
		Try:     fmt.Sprintf("artsel config show --config %s", configPath),
		Err:     err,
	}
}

func extractNetworkReason(err error) string {
	var parseErr *ParseError
	if As(err, &parseErr) {
		return "Received a malformed response from the catalog"
	}
	var netErr *NetworkError
	if As(err, &netErr) && netErr.StatusCode != 0 {
		switch {
		case netErr.StatusCode == 429:
			return "Rate limited by the catalog (HTTP 429)"
		case netErr.StatusCode == 404:
			return "Page not found (HTTP 404)"
		case netErr.StatusCode == 403:
			return "Request rejected by the catalog (HTTP 403)"
		case netErr.StatusCode >= 500:
			return fmt.Sprintf("Catalog server error (HTTP %d)", netErr.StatusCode)
		default:
			return fmt.Sprintf("Unexpected HTTP status %d", netErr.StatusCode)
		}
	}

	errStr := err.Error()
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return "Request timed out"
	}
	if strings.Contains(errStr, "connection refused") {
		return "Connection refused"
	}
	if strings.Contains(errStr, "no such host") {
		return "Host not found - check the base URL or DNS"
	}
	if strings.Contains(errStr, "connection reset") {
		return "Connection reset by the catalog"
	}

	return "Network communication failed"
}
