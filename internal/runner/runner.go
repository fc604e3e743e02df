package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"pkt.systems/pslog"
)

const separatorWidth = 80

// Separator is the rule printed before every case and before the summary.
var Separator = strings.Repeat("=", separatorWidth)

// runner implements Tester.
type runner struct {
	logger     pslog.Base
	httpClient *http.Client
	out        io.Writer
	session    Session
	ledger     Ledger
}

type runnerConfig struct {
	logger     pslog.Base
	httpClient *http.Client
	out        io.Writer
}

// New constructs a Tester bound to session.
func New(ctx context.Context, session Session, opts ...Option) (Tester, error) {
	if ctx == nil {
		return nil, errors.New("nil context")
	}
	cfg := runnerConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = pslog.New(os.Stdout)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{}
	}
	if cfg.out == nil {
		cfg.out = os.Stdout
	}
	return &runner{
		logger:     cfg.logger,
		httpClient: cfg.httpClient,
		out:        cfg.out,
		session:    session,
	}, nil
}

func (r *runner) Session() Session { return r.session }

// Ledger returns a snapshot of the outcomes recorded so far.
func (r *runner) Ledger() Ledger { return r.ledger.clone() }

// Invoke sends one case, prints its trace and records exactly one outcome.
// It returns true iff the call completed with the expected status.
func (r *runner) Invoke(ctx context.Context, c Case) bool {
	url := r.session.URL(c.Endpoint)
	fmt.Fprintf(r.out, "\n%s\n", Separator)
	fmt.Fprintf(r.out, "Test: %s\n", c.Label())
	fmt.Fprintf(r.out, "URL: %s\n", url)
	fmt.Fprintf(r.out, "Method: %s\n", c.Method)

	if !supportedMethod(c.Method) {
		fmt.Fprintf(r.out, "Unsupported method: %s\n", c.Method)
		r.fail(c, fmt.Errorf("unsupported method: %s", c.Method))
		return false
	}

	req, err := buildHTTPRequest(ctx, c, url, r.session.Headers())
	if err != nil {
		fmt.Fprintf(r.out, "❌ Error during test: %v\n", err)
		r.fail(c, err)
		return false
	}

	r.logger.Debug("invoke.request", "method", c.Method, "url", url)
	start := time.Now()
	status, raw, err := r.do(req)
	duration := time.Since(start)
	if err != nil {
		// Connection/refused/etc become a case-level failure; the run carries on.
		r.logger.Debug("invoke.error", "method", c.Method, "url", url, "dur", duration.String(), "err", err)
		fmt.Fprintf(r.out, "❌ Error during test: %v\n", err)
		r.fail(c, err)
		return false
	}
	r.logger.Debug("invoke.response", "method", c.Method, "url", url, "status", status, "bytes", len(raw), "dur", duration.String())

	fmt.Fprintf(r.out, "Status: %d\n", status)
	body := renderBody(raw)
	switch body.Kind {
	case BodyJSON:
		fmt.Fprintln(r.out, "Response:")
		fmt.Fprintln(r.out, body.Text)
	default:
		fmt.Fprintf(r.out, "Response (non-JSON): %s...\n", truncateRunes(body.Text, rawPreviewLimit))
	}

	expected := c.Expected()
	if status == expected {
		r.ledger.record(Outcome{Endpoint: c.Endpoint, Method: c.Method, Description: c.Description, Passed: true})
		fmt.Fprintln(r.out, "✅ Test passed")
		return true
	}
	r.ledger.record(Outcome{
		Endpoint:       c.Endpoint,
		Method:         c.Method,
		Description:    c.Description,
		ExpectedStatus: expected,
		ActualStatus:   status,
	})
	fmt.Fprintf(r.out, "❌ Test failed (expected status: %d, got: %d)\n", expected, status)
	return false
}

// do sends req and drains the body. A body that cannot be read counts as a
// transport error, like a refused connection.
func (r *runner) do(req *http.Request) (int, []byte, error) {
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, raw, nil
}

func (r *runner) fail(c Case, err error) {
	r.ledger.record(Outcome{
		Endpoint:    c.Endpoint,
		Method:      c.Method,
		Description: c.Description,
		Error:       err.Error(),
	})
}
