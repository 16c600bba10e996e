package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.registry == nil {
		t.Error("registry field is nil")
	}
	if r.ConnectionsAccepted == nil {
		t.Error("ConnectionsAccepted is nil")
	}
	if r.AuthAttempts == nil {
		t.Error("AuthAttempts is nil")
	}
	if r.CommandsTotal == nil {
		t.Error("CommandsTotal is nil")
	}
	if r.PingLatency == nil {
		t.Error("PingLatency is nil")
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.ConnAccepted()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	body, _ := io.ReadAll(rec.Body)
	bodyStr := string(body)

	for _, want := range []string{
		"go_goroutines",
		"process_",
		"authline_connections_accepted_total 1",
	} {
		if !strings.Contains(bodyStr, want) {
			t.Errorf("expected %q in metrics output", want)
		}
	}
}

func TestRecorders(t *testing.T) {
	r := NewRegistry()

	r.ConnAccepted()
	r.ConnAccepted()
	r.AcceptFailed()
	r.ConnClosed("peer_closed")
	r.AuthResult(AuthSuccess)
	r.AuthResult(AuthFailure)
	r.AuthResult(AuthFailure)
	r.Command("ping")
	r.Command("unknown")
	r.Command("ping")
	r.ObservePing(0.000002)
	r.ReadFailed()
	r.WriteFailed()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"accepted", testutil.ToFloat64(r.ConnectionsAccepted), 2},
		{"accept errors", testutil.ToFloat64(r.AcceptErrors), 1},
		{"closed peer", testutil.ToFloat64(r.ConnectionsClosed.WithLabelValues("peer_closed")), 1},
		{"auth success", testutil.ToFloat64(r.AuthAttempts.WithLabelValues(AuthSuccess)), 1},
		{"auth failure", testutil.ToFloat64(r.AuthAttempts.WithLabelValues(AuthFailure)), 2},
		{"ping", testutil.ToFloat64(r.CommandsTotal.WithLabelValues("ping")), 2},
		{"unknown", testutil.ToFloat64(r.CommandsTotal.WithLabelValues("unknown")), 1},
		{"read errors", testutil.ToFloat64(r.ReadErrors), 1},
		{"write errors", testutil.ToFloat64(r.WriteErrors), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if n := testutil.CollectAndCount(r.PingLatency); n != 1 {
		t.Errorf("PingLatency series = %d, want 1", n)
	}
}

func TestNilRegistry(t *testing.T) {
	var r *Registry

	// Every recorder must be a no-op on nil.
	r.ConnAccepted()
	r.ConnClosed("x")
	r.AcceptFailed()
	r.AuthResult(AuthError)
	r.Command("ping")
	r.ObservePing(1)
	r.ReadFailed()
	r.WriteFailed()
}

type fakeStats struct {
	active, authed int
}

func (f fakeStats) ActiveConns() int        { return f.active }
func (f fakeStats) AuthenticatedConns() int { return f.authed }

func TestCollector(t *testing.T) {
	c := NewCollector(fakeStats{active: 3, authed: 2})

	if n := testutil.CollectAndCount(c); n != 2 {
		t.Fatalf("CollectAndCount() = %d, want 2", n)
	}

	expected := `
# HELP authline_connections_active Number of connections currently being served.
# TYPE authline_connections_active gauge
authline_connections_active 3
# HELP authline_connections_authenticated Number of open connections in the authenticated phase.
# TYPE authline_connections_authenticated gauge
authline_connections_authenticated 2
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Errorf("CollectAndCompare() error = %v", err)
	}
}

func TestRegistry_MustRegisterCollector(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(NewCollector(fakeStats{active: 1}))

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "authline_connections_active" {
			found = true
		}
	}
	if !found {
		t.Error("authline_connections_active not gathered")
	}
}
