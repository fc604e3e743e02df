package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"pkt.systems/pslog"
)

func newTestRunner(t *testing.T, baseURL, token string, opts ...Option) (*runner, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	all := append([]Option{
		WithOutput(out),
		WithLogger(pslog.NewWithOptions(io.Discard, pslog.Options{MinLevel: pslog.InfoLevel})),
	}, opts...)
	g, err := New(context.Background(), NewSession(baseURL, token), all...)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return g.(*runner), out
}

func TestInvokeSuccessPrintsIndentedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[],"titre":"Détail"}`))
	}))
	defer srv.Close()

	r, out := newTestRunner(t, srv.URL, "")
	ok := r.Invoke(context.Background(), Case{Method: "GET", Endpoint: "/admin/formations", Description: "X"})
	if !ok {
		t.Fatalf("expected success, output=%s", out.String())
	}

	got := out.String()
	for _, want := range []string{
		Separator,
		"Test: X\n",
		"URL: " + srv.URL + "/admin/formations\n",
		"Method: GET\n",
		"Status: 200\n",
		"Response:\n{\n  \"items\": [],\n  \"titre\": \"Détail\"\n}\n",
		"✅ Test passed",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output, got %q", want, got)
		}
	}

	l := r.Ledger()
	if len(l.Successes) != 1 || len(l.Failures) != 0 {
		t.Fatalf("unexpected ledger %+v", l)
	}
	want := Outcome{Endpoint: "/admin/formations", Method: "GET", Description: "X", Passed: true}
	if l.Successes[0] != want {
		t.Fatalf("unexpected outcome %+v", l.Successes[0])
	}
}

func TestInvokeStatusMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	r, out := newTestRunner(t, srv.URL, "")
	if r.Invoke(context.Background(), Case{Method: "GET", Endpoint: "/admin/formations", Description: "X"}) {
		t.Fatalf("expected failure")
	}
	l := r.Ledger()
	if len(l.Failures) != 1 || len(l.Successes) != 0 {
		t.Fatalf("unexpected ledger %+v", l)
	}
	f := l.Failures[0]
	if !f.Mismatch() || f.ExpectedStatus != 200 || f.ActualStatus != 404 || f.Error != "" {
		t.Fatalf("unexpected failure %+v", f)
	}
	if !strings.Contains(out.String(), "❌ Test failed (expected status: 200, got: 404)") {
		t.Fatalf("missing mismatch line: %s", out.String())
	}
	if !strings.Contains(out.String(), "Response (non-JSON): 404 page not found\n...") {
		t.Fatalf("missing raw body preview: %q", out.String())
	}
}

func TestInvokeExpectedStatusOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	r, _ := newTestRunner(t, srv.URL, "")
	if !r.Invoke(context.Background(), Case{Method: "POST", Endpoint: "/admin/formations", ExpectedStatus: http.StatusCreated}) {
		t.Fatalf("expected 201 to match")
	}
	if r.Invoke(context.Background(), Case{Method: "POST", Endpoint: "/admin/formations"}) {
		t.Fatalf("expected default 200 to reject 201")
	}
}

// A failing transport should be recorded as a failure rather than aborting the run.
func TestInvokeReportsTransportError(t *testing.T) {
	client := &http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: refused")
		}),
	}
	r, out := newTestRunner(t, "http://example.invalid", "", WithHTTPClient(client))

	if r.Invoke(context.Background(), Case{Method: "GET", Endpoint: "/student/dashboard"}) {
		t.Fatalf("expected failure")
	}
	if r.Invoke(context.Background(), Case{Method: "GET", Endpoint: "/student/profile"}) {
		t.Fatalf("expected failure")
	}
	l := r.Ledger()
	if len(l.Failures) != 2 {
		t.Fatalf("expected both calls recorded, got %+v", l)
	}
	f := l.Failures[0]
	if f.Mismatch() || !strings.Contains(f.Error, "dial tcp: refused") {
		t.Fatalf("expected informative error, got %+v", f)
	}
	if f.ExpectedStatus != 0 || f.ActualStatus != 0 {
		t.Fatalf("transport failure must not carry statuses: %+v", f)
	}
	if !strings.Contains(out.String(), "❌ Error during test: ") {
		t.Fatalf("missing error line: %s", out.String())
	}
	if !strings.Contains(out.String(), "Test: /student/dashboard\n") {
		t.Fatalf("expected endpoint as label when description is empty: %s", out.String())
	}
}

func TestInvokeUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r, _ := newTestRunner(t, url, "")
	if r.Invoke(context.Background(), Case{Method: "GET", Endpoint: "/student/documents"}) {
		t.Fatalf("expected failure")
	}
	l := r.Ledger()
	if len(l.Failures) != 1 || l.Failures[0].Error == "" {
		t.Fatalf("expected error outcome, got %+v", l)
	}
}

func TestInvokeUnsupportedMethodRecordsFailureWithoutNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	r, out := newTestRunner(t, srv.URL, "")
	if r.Invoke(context.Background(), Case{Method: "PATCH", Endpoint: "/admin/formations/1"}) {
		t.Fatalf("expected failure")
	}
	if hits.Load() != 0 {
		t.Fatalf("unsupported method must not reach the server")
	}
	if !strings.Contains(out.String(), "Unsupported method: PATCH") {
		t.Fatalf("missing unsupported line: %s", out.String())
	}
	l := r.Ledger()
	if l.Total() != 1 || len(l.Failures) != 1 || l.Failures[0].Error != "unsupported method: PATCH" {
		t.Fatalf("unexpected ledger %+v", l)
	}
}

func TestInvokeSendsSessionHeadersAndBody(t *testing.T) {
	type seen struct {
		method, auth, ctype, body string
	}
	var (
		mu    sync.Mutex
		calls []seen
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, seen{r.Method, r.Header.Get("Authorization"), r.Header.Get("Content-Type"), string(b)})
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	r, _ := newTestRunner(t, srv.URL+"/", "jwt-token")
	ctx := context.Background()
	r.Invoke(ctx, Case{Method: "POST", Endpoint: "/admin/formations", Body: map[string]any{"title": "Nouvelle formation", "price": 100}})
	r.Invoke(ctx, Case{Method: "PUT", Endpoint: "/admin/reservations/1/status", Body: `{ status: confirmed }`})
	r.Invoke(ctx, Case{Method: "GET", Endpoint: "/admin/formations", Body: map[string]any{"ignored": true}})
	r.Invoke(ctx, Case{Method: "DELETE", Endpoint: "/admin/formations/1"})
	r.Invoke(ctx, Case{Method: "POST", Endpoint: "/api/login_check"})

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 5 {
		t.Fatalf("expected 5 calls, got %d", len(calls))
	}
	for _, c := range calls {
		if c.auth != "Bearer jwt-token" || c.ctype != "application/json" {
			t.Fatalf("unexpected headers %+v", c)
		}
	}
	var created map[string]any
	if err := json.Unmarshal([]byte(calls[0].body), &created); err != nil {
		t.Fatalf("post body not JSON: %v (%q)", err, calls[0].body)
	}
	if created["title"] != "Nouvelle formation" || created["price"] != float64(100) {
		t.Fatalf("unexpected post body %v", created)
	}
	if calls[1].body != `{"status":"confirmed"}` {
		t.Fatalf("expected normalized literal body, got %q", calls[1].body)
	}
	if calls[2].body != "" || calls[3].body != "" {
		t.Fatalf("GET/DELETE must not carry a body: %q %q", calls[2].body, calls[3].body)
	}
	if calls[4].body != "" {
		t.Fatalf("nil body should send nothing, got %q", calls[4].body)
	}
}

func TestInvokeWithoutTokenOmitsAuthorization(t *testing.T) {
	var auth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Values("Authorization"))
	}))
	defer srv.Close()

	r, _ := newTestRunner(t, srv.URL, "")
	r.Invoke(context.Background(), Case{Method: "GET", Endpoint: "/student/dashboard"})
	if got, _ := auth.Load().([]string); len(got) != 0 {
		t.Fatalf("expected no Authorization header, got %v", got)
	}
}

func TestLedgerSnapshotIsCopy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	r, _ := newTestRunner(t, srv.URL, "")
	r.Invoke(context.Background(), Case{Method: "GET", Endpoint: "/a"})
	snap := r.Ledger()
	snap.Successes[0].Endpoint = "/mutated"
	if r.Ledger().Successes[0].Endpoint != "/a" {
		t.Fatalf("ledger snapshot leaked into runner state")
	}
}

func TestNewRejectsNilContext(t *testing.T) {
	//nolint:staticcheck // nil context on purpose
	if _, err := New(nil, NewSession("http://localhost", "")); err == nil {
		t.Fatalf("expected error for nil context")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
