package runner

import (
	"context"
	"io"
	"net/http"

	"pkt.systems/pslog"
)

// Tester is the public interface exposed by this module. It runs one case at a
// time and accumulates the outcomes in its ledger. It is not safe for
// concurrent use.
type Tester interface {
	Invoke(ctx context.Context, c Case) bool
	Ledger() Ledger
	Session() Session
}

// Case describes a single endpoint call.
type Case struct {
	Method   string
	Endpoint string
	// Body is sent for POST and PUT only. Strings and byte slices are treated
	// as JSON or JS object literals; any other value is JSON encoded.
	Body any
	// ExpectedStatus defaults to 200 when zero.
	ExpectedStatus int
	Description    string
}

// Expected returns the status the case must answer with.
func (c Case) Expected() int {
	if c.ExpectedStatus == 0 {
		return http.StatusOK
	}
	return c.ExpectedStatus
}

// Label is the text shown in traces: the description, or the endpoint when
// no description was given.
func (c Case) Label() string {
	if c.Description != "" {
		return c.Description
	}
	return c.Endpoint
}

// Outcome captures the result of one Invoke call. A failed outcome carries
// either the expected/actual status pair or an error message, never both.
type Outcome struct {
	Endpoint       string
	Method         string
	Description    string
	Passed         bool
	ExpectedStatus int
	ActualStatus   int
	Error          string // set when the call never produced a comparable status
}

// Mismatch reports whether the outcome is a status mismatch failure.
func (o Outcome) Mismatch() bool {
	return !o.Passed && o.Error == ""
}

// BodyKind tags how a response body was rendered.
type BodyKind int

const (
	// BodyRaw is a body that did not parse as JSON.
	BodyRaw BodyKind = iota
	// BodyJSON is a body that parsed as JSON and was re-indented.
	BodyJSON
)

// ResponseBody is the rendered response payload.
type ResponseBody struct {
	Kind BodyKind
	Text string
}

// Option modifies a Tester at construction time.
type Option func(*runnerConfig)

// WithLogger overrides the default logger (pslog console).
func WithLogger(logger pslog.Base) Option {
	return func(rc *runnerConfig) { rc.logger = logger }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(rc *runnerConfig) { rc.httpClient = client }
}

// WithOutput redirects the human readable trace (stdout by default).
func WithOutput(w io.Writer) Option {
	return func(rc *runnerConfig) { rc.out = w }
}
