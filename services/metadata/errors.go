package metadata

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotConfigured is returned when the catalog base URL or credential is
	// missing. It is never retried.
	ErrNotConfigured = errors.New("tmdb client not configured")
	// ErrMalformedResponse is returned for payloads that do not have the
	// expected shape, such as a list response without "results".
	ErrMalformedResponse = errors.New("malformed tmdb response")
	// ErrUnknownCategory is returned for list categories outside the allow-list.
	ErrUnknownCategory = errors.New("unknown movie category")
	// ErrNoTrailer is returned when a movie has no YouTube trailer.
	ErrNoTrailer = errors.New("no trailer available")
)

// ConfigMessage is shown in place of any catalog view while the catalog
// settings are incomplete.
const ConfigMessage = "The movie catalog is not configured. Set TMDB_BASE_URL and TMDB_API_TOKEN."

// APIError is a non-2xx answer from TMDB.
type APIError struct {
	StatusCode int
	// Message is the status_message of the error payload, if any.
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tmdb request failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("tmdb request failed: status %d: %s", e.StatusCode, e.Message)
}

// PublicMessage is the upstream status_message.
func (e *APIError) PublicMessage() string {
	return e.Message
}

// NotFound reports a 404 from upstream.
func (e *APIError) NotFound() bool {
	return e.StatusCode == 404
}

type configError struct {
	missing []string
}

func (e *configError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrNotConfigured.Error(), strings.Join(e.missing, ", "))
}

func (e *configError) Unwrap() error { return ErrNotConfigured }

func (e *configError) PublicMessage() string { return ConfigMessage }

// IsConfigError reports whether err stems from missing catalog settings.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}
