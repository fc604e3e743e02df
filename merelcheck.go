package merelcheck

import (
	"context"
	"io"

	"pkt.systems/merelcheck/internal/runner"
	"pkt.systems/merelcheck/internal/suite"
	"pkt.systems/merelcheck/internal/surface"
	"pkt.systems/pslog"
	"pkt.systems/version"
)

// Public type aliases to runner package

// Tester runs cases and keeps their outcomes.
type (
	Tester = runner.Tester
	// Session is the normalized base URL plus headers.
	Session = runner.Session
	// Case describes a single endpoint call.
	Case = runner.Case
	// Outcome captures the result of a single case.
	Outcome = runner.Outcome
	// Ledger aggregates outcomes in call order.
	Ledger = runner.Ledger
	// Surface is the documented endpoint surface of the target API.
	Surface = surface.Surface
	// Operation is one documented method + path template.
	Operation = surface.Operation
)

// Option tweaks tester construction.
type Option = runner.Option

var (
	// WithLogger supplies a custom pslog logger.
	WithLogger = runner.WithLogger
	// WithHTTPClient injects a custom HTTP client.
	WithHTTPClient = runner.WithHTTPClient
	// WithOutput redirects the human readable trace.
	WithOutput = runner.WithOutput
)

// NewSession builds the session for baseURL and an optional bearer token.
func NewSession(baseURL, token string) Session {
	return runner.NewSession(baseURL, token)
}

// New constructs a Tester for session.
func New(ctx context.Context, session Session, opts ...Option) (Tester, error) {
	return runner.New(ctx, session, opts...)
}

// Cases returns the fixed MerelFormation suite.
func Cases() []Case {
	return suite.Cases()
}

// LoadSurface parses the embedded description of the probed endpoints.
func LoadSurface(ctx context.Context, log pslog.Base) (*Surface, error) {
	return surface.Load(ctx, log)
}

// RunSuite invokes every suite case in order on t and returns its ledger.
// The trace banner goes to w; api is optional and only feeds debug logs.
func RunSuite(ctx context.Context, t Tester, api *Surface, w io.Writer, log pslog.Base) Ledger {
	suite.Run(ctx, t, api, w, log)
	return t.Ledger()
}

// Version returns the current module version (best effort).
func Version() string {
	return moduleVersion(modulePath)
}

const modulePath = "pkt.systems/merelcheck"

var moduleVersion = version.ModuleVersion
