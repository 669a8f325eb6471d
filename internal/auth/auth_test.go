package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const (
	testAdminKey      = "test-admin-key"
	testSessionSecret = "test-session-secret"
)

func newTestManager() *Manager {
	return NewManager(testAdminKey, testSessionSecret, false)
}

func TestVerifyKey(t *testing.T) {
	m := newTestManager()

	if !m.VerifyKey(testAdminKey) {
		t.Error("correct key should verify")
	}
	if m.VerifyKey("wrong") {
		t.Error("wrong key should not verify")
	}
	if m.VerifyKey("") {
		t.Error("empty key should not verify")
	}
}

func TestVerifyRequestHeader(t *testing.T) {
	m := newTestManager()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if m.VerifyRequest(r) {
		t.Error("request without credentials should not verify")
	}

	r.Header.Set(AdminKeyHeader, testAdminKey)
	if !m.VerifyRequest(r) {
		t.Error("request with the admin key header should verify")
	}

	r.Header.Set(AdminKeyHeader, "wrong")
	if m.VerifyRequest(r) {
		t.Error("request with a wrong key should not verify")
	}
}

func TestLoginIssuesSessionCookie(t *testing.T) {
	m := newTestManager()

	w := httptest.NewRecorder()
	if err := m.Login(w, httptest.NewRequest(http.MethodPost, "/login", nil)); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie to be written")
	}

	// Replay the cookie on a fresh request.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	if !m.VerifyRequest(r) {
		t.Error("session cookie issued by Login should verify")
	}
}

func TestSessionCookieFromOtherSecretRejected(t *testing.T) {
	other := NewManager(testAdminKey, "different-secret", false)

	w := httptest.NewRecorder()
	if err := other.Login(w, httptest.NewRequest(http.MethodPost, "/login", nil)); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	m := newTestManager()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	if m.VerifyRequest(r) {
		t.Error("a cookie signed with a different secret should not verify")
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	m := newTestManager()

	w := httptest.NewRecorder()
	if err := m.Logout(w, httptest.NewRequest(http.MethodPost, "/logout", nil)); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected an expiring cookie to be written")
	}
	if cookies[0].MaxAge >= 0 {
		t.Errorf("expected a negative MaxAge, got %d", cookies[0].MaxAge)
	}
}

func TestContextGate(t *testing.T) {
	gate := ContextGate{}
	ctx := context.Background()

	if gate.Authorized(ctx) {
		t.Error("unmarked context should not be authorized")
	}
	if !gate.Authorized(WithAdmin(ctx)) {
		t.Error("marked context should be authorized")
	}
}
