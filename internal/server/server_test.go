package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aishanaaz19/assignment-growthx/config"
	"github.com/rs/zerolog"
)

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(context.Background(), config.Config{}, zerolog.Nop())
	if err == nil || !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Fatalf("expected secret error, got %v", err)
	}
}

func TestNewRejectsUnknownBackends(t *testing.T) {
	cfg := config.Config{Session: config.SessionConfig{Secret: "s"}}

	cfg.Database.Driver = "sqlite"
	if _, err := New(context.Background(), cfg, zerolog.Nop()); err == nil || !strings.Contains(err.Error(), "sqlite") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}

	s := &Server{logger: zerolog.Nop()}
	if _, err := s.openSessionStore(context.Background(), config.Config{Session: config.SessionConfig{Store: "disk"}}); err == nil {
		t.Fatalf("expected unknown session store error")
	}
	if store, err := s.openSessionStore(context.Background(), config.Config{}); err != nil || store == nil {
		t.Fatalf("expected memory store by default, got %v", err)
	}
}

func TestCloseAllRunsInReverse(t *testing.T) {
	s := &Server{logger: zerolog.Nop()}
	var order []string
	s.track("first", func() error { order = append(order, "first"); return nil })
	s.track("second", func() error { order = append(order, "second"); return nil })

	s.closeAll()
	s.closeAll()

	if strings.Join(order, ",") != "second,first" {
		t.Fatalf("unexpected close order %v", order)
	}
}

func TestCORSHandler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name        string
		origins     []string
		origin      string
		allowOrigin string
		credentials string
	}{
		{"wildcard", []string{"*"}, "http://a.test", "*", ""},
		{"listed", []string{"http://a.test"}, "http://a.test", "http://a.test", "true"},
		{"not listed", []string{"http://a.test"}, "http://b.test", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set("Origin", tc.origin)
			rec := httptest.NewRecorder()

			corsHandler(tc.origins)(next).ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.allowOrigin {
				t.Fatalf("allow origin %q, want %q", got, tc.allowOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != tc.credentials {
				t.Fatalf("allow credentials %q, want %q", got, tc.credentials)
			}
		})
	}
}
