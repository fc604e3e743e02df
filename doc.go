// Package merelcheck exposes a Go API for smoke testing the MerelFormation
// HTTP API in-process.
//
// Quick start:
//
//	ctx := context.Background()
//	t, _ := merelcheck.New(ctx, merelcheck.NewSession("http://localhost:8000", token))
//	ledger := merelcheck.RunSuite(ctx, t, nil, os.Stdout, nil)
//	_ = merelcheck.WriteSummary(os.Stdout, ledger)
//
// Run a single case:
//
//	ok := t.Invoke(ctx, merelcheck.Case{
//		Method:      "GET",
//		Endpoint:    "/student/dashboard",
//		Description: "Student Dashboard - Index",
//	})
//
// POST and PUT bodies may be any value encoding/json accepts. A string or
// []byte body is normalized first: valid JSON is re-encoded as is, and a
// loose JavaScript object literal with bare keys or values is evaluated and
// sent as JSON:
//
//	t.Invoke(ctx, merelcheck.Case{
//		Method:   "PUT",
//		Endpoint: "/admin/reservations/1/status",
//		Body:     `{ status: confirmed }`, // sent as {"status":"confirmed"}
//	})
//
// A json.RawMessage body is sent verbatim.
//
// Transport knobs:
//
//	custom := &http.Client{Timeout: 5 * time.Second}
//	t, _ := merelcheck.New(ctx, session, merelcheck.WithHTTPClient(custom))
//
// Every call records exactly one Outcome in the tester's Ledger, including
// transport errors and unsupported methods; nothing aborts a run.
package merelcheck
