package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lenditapp/lendit-backend/api/middleware"
	"github.com/lenditapp/lendit-backend/pkg/config"
	"github.com/lenditapp/lendit-backend/pkg/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Gateway: config.GatewayConfig{
			RateLimitWindow: 0, // disabled unless a test opts in
		},
	}
}

func newGateway(t *testing.T, upstream http.Handler) http.Handler {
	t.Helper()
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	proxy, err := NewProxy(server.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("new proxy: %v", err)
	}
	return NewRouter(testConfig(), nil, proxy, nil)
}

func echoUpstream() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		fmt.Fprintf(w, `{"path":%q,"query":%q,"caller":%q,"body":%q}`,
			r.URL.Path, r.URL.RawQuery, r.Header.Get(middleware.IdentityHeader), string(body))
	})
}

func TestGatewayForwardsVerbatim(t *testing.T) {
	gw := newGateway(t, echoUpstream())

	req := httptest.NewRequest(http.MethodGet, "/bookings?state=WAITING&from=0&size=5", nil)
	req.Header.Set(middleware.IdentityHeader, "2")
	w := httptest.NewRecorder()
	gw.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Fatalf("upstream status must be preserved, got %d", w.Code)
	}
	var echoed map[string]string
	if err := json.NewDecoder(w.Body).Decode(&echoed); err != nil {
		t.Fatalf("decode echo: %v", err)
	}
	if echoed["path"] != "/bookings" || echoed["query"] != "state=WAITING&from=0&size=5" {
		t.Fatalf("path/query must be preserved, got %+v", echoed)
	}
	if echoed["caller"] != "2" {
		t.Fatalf("identity header must be forwarded, got %q", echoed["caller"])
	}
}

func TestGatewayForwardsBody(t *testing.T) {
	gw := newGateway(t, echoUpstream())

	body := `{"item_id":10,"start_at":"2099-01-01T10:00:00Z","end_at":"2099-01-01T12:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	req.Header.Set(middleware.IdentityHeader, "2")
	w := httptest.NewRecorder()
	gw.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Fatalf("expected upstream status, got %d: %s", w.Code, w.Body.String())
	}
	var echoed map[string]string
	if err := json.NewDecoder(w.Body).Decode(&echoed); err != nil {
		t.Fatalf("decode echo: %v", err)
	}
	if echoed["body"] != body {
		t.Fatalf("body must reach upstream untouched after validation, got %q", echoed["body"])
	}
}

func TestGatewayRejectsBeforeForwarding(t *testing.T) {
	upstreamHit := false
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamHit = true
	}))

	cases := []struct {
		name   string
		method string
		target string
		caller string
		body   string
	}{
		{"missing identity", http.MethodPost, "/bookings", "", `{"item_id":10,"start_at":"2099-01-01T10:00:00Z","end_at":"2099-01-01T12:00:00Z"}`},
		{"start after end", http.MethodPost, "/bookings", "2", `{"item_id":10,"start_at":"2099-01-01T12:00:00Z","end_at":"2099-01-01T10:00:00Z"}`},
		{"start in past", http.MethodPost, "/bookings", "2", `{"item_id":10,"start_at":"2001-01-01T10:00:00Z","end_at":"2099-01-01T12:00:00Z"}`},
		{"unknown state", http.MethodGet, "/bookings?state=BOGUS", "2", ""},
		{"negative from", http.MethodGet, "/bookings?from=-1", "2", ""},
		{"zero size", http.MethodGet, "/bookings?size=0", "2", ""},
		{"bad approved", http.MethodPatch, "/bookings/5?approved=maybe", "1", ""},
		{"blank request description", http.MethodPost, "/requests", "1", `{"description":"   "}`},
		{"invalid email", http.MethodPost, "/users", "", `{"name":"Ada","email":"nope"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			if tc.caller != "" {
				req.Header.Set(middleware.IdentityHeader, tc.caller)
			}
			w := httptest.NewRecorder()
			gw.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if upstreamHit {
				t.Fatal("invalid requests must not reach the core server")
			}
		})
	}
}

func TestGatewayUnknownStateMessage(t *testing.T) {
	gw := newGateway(t, echoUpstream())

	req := httptest.NewRequest(http.MethodGet, "/bookings?state=BOGUS", nil)
	req.Header.Set(middleware.IdentityHeader, "2")
	w := httptest.NewRecorder()
	gw.ServeHTTP(w, req)

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Message != "Unknown state: BOGUS" {
		t.Fatalf("expected exact unknown-state message, got %q", envelope.Error.Message)
	}
}

func TestGatewayCoreUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // upstream is gone

	proxy, err := NewProxy(server.URL, time.Second, nil)
	if err != nil {
		t.Fatalf("new proxy: %v", err)
	}
	gw := NewRouter(testConfig(), nil, proxy, nil)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	gw.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

type fakeLimiterStore struct {
	counts map[string]int64
}

func (s *fakeLimiterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[key]++
	return s.counts[key], nil
}

func TestGatewayRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Gateway.RateLimitWindow = time.Minute
	cfg.Gateway.RateLimitIP = 2

	server := httptest.NewServer(echoUpstream())
	t.Cleanup(server.Close)
	proxy, err := NewProxy(server.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("new proxy: %v", err)
	}
	store := &fakeLimiterStore{}
	gw := NewRouter(cfg, nil, proxy, store)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		w := httptest.NewRecorder()
		gw.ServeHTTP(w, req)
		if w.Code != http.StatusTeapot {
			t.Fatalf("request %d should pass, got %d", i+1, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	gw.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after the limit, got %d", w.Code)
	}

	if len(store.counts) != 1 {
		t.Fatalf("expected one counter key, got %v", store.counts)
	}
	for key := range store.counts {
		if !strings.HasPrefix(key, "rl:ip:") {
			t.Fatalf("expected an ip-scoped counter key, got %q", key)
		}
	}
}
