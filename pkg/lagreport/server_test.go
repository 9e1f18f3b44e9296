package lagreport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(nil, Config{JWTSecret: "test-secret", SnapshotTTL: time.Minute})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func TestRequireAuthRejectsMissingBearer(t *testing.T) {
	s := newTestServer(t)
	called := false
	h := s.requireAuth(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/groups/g1", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if called {
		t.Fatalf("next handler was called without a bearer token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rec.Code)
	}
}

func TestRequireAuthRejectsInvalidToken(t *testing.T) {
	s := newTestServer(t)
	h := s.requireAuth(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/groups/g1", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rec.Code)
	}
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	s := newTestServer(t)

	token, err := s.auth.GenerateAccessToken("operator", nil, nil)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	called := false
	h := s.requireAuth(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/groups/g1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h(rec, req)

	if !called {
		t.Fatalf("next handler was not called with a valid token")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
}
