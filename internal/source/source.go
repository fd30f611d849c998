// Package source contains the clients for the external data APIs the
// dashboard modules read from. Each client issues exactly one outbound
// request per invocation (no retries) and reports failures as *RequestError.
package source

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrorKind classifies a request failure.
type ErrorKind string

const (
	KindNetwork ErrorKind = "network" // transport failure, timeout, cancellation
	KindAuth    ErrorKind = "auth"    // HTTP 401/403
	KindStatus  ErrorKind = "status"  // any other non-2xx response
	KindDecode  ErrorKind = "decode"  // malformed response body
)

// RequestError describes a failed request to an external API.
type RequestError struct {
	Kind   ErrorKind
	URL    string
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (HTTP %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

func newClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// getJSON performs a single GET and decodes the JSON body into out.
// Non-2xx statuses are classified before the body is decoded.
func getJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return &RequestError{Kind: KindNetwork, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
		return &RequestError{Kind: KindDecode, URL: req.URL.String(), Err: err}
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	kind := KindStatus
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		kind = KindAuth
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &RequestError{
		Kind:   kind,
		URL:    resp.Request.URL.String(),
		Status: resp.StatusCode,
		Err:    fmt.Errorf("%s", firstLine(string(body))),
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' || r == '\r' {
			return s[:i]
		}
	}
	if s == "" {
		return "no response body"
	}
	return s
}
