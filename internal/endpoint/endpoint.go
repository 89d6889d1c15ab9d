// Package endpoint derives the translation service URLs from the raw
// endpoint string a user types in.
//
// Nothing here is cached: callers resolve the raw value again on every
// submission so an edited field only affects the next job. A job in flight
// keeps the Endpoints it was submitted with.
package endpoint

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultBase is used when the raw endpoint is empty.
	DefaultBase = "http://localhost:8000"
	// SubmissionPath is the upload route appended to the base.
	SubmissionPath = "/translate-manga"
	// ResultPath is the status route under the poll base.
	ResultPath = "/result"
	// HealthPath is the liveness route under the poll base.
	HealthPath = "/health"
)

// Endpoints holds the URLs derived from one raw endpoint value.
type Endpoints struct {
	Raw           string
	SubmissionURL string
	PollBaseURL   string
}

// Resolve normalizes raw into the submission URL and the poll base URL.
func Resolve(raw string) Endpoints {
	base := trimSlashes(strings.TrimSpace(raw))
	if base == "" {
		base = DefaultBase
	}

	submission := base
	if !strings.HasSuffix(submission, SubmissionPath) {
		submission += SubmissionPath
	}

	poll := base
	if strings.HasSuffix(poll, SubmissionPath) {
		poll = trimSlashes(strings.TrimSuffix(poll, SubmissionPath))
	}
	if poll == "" {
		poll = DefaultBase
	}

	return Endpoints{
		Raw:           raw,
		SubmissionURL: submission,
		PollBaseURL:   poll,
	}
}

// ResultURL returns the status query URL for taskID.
func (e Endpoints) ResultURL(taskID string) string {
	values := url.Values{}
	values.Set("id", taskID)
	return e.PollBaseURL + ResultPath + "?" + values.Encode()
}

// HealthURL returns the liveness probe URL.
func (e Endpoints) HealthURL() string {
	return e.PollBaseURL + HealthPath
}

// Validate reports whether raw resolves to an absolute http(s) URL.
func Validate(raw string) error {
	resolved := Resolve(raw)
	u, err := url.Parse(resolved.SubmissionURL)
	if err != nil {
		return fmt.Errorf("parse endpoint %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint %q: host is empty", raw)
	}
	return nil
}

func trimSlashes(value string) string {
	return strings.TrimRight(value, "/")
}
