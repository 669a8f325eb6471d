package auth

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "admin_session"
	// Sessions expire after 24 hours, matching the admin UI's login horizon.
	sessionMaxAge = 24 * 60 * 60

	// AdminKeyHeader carries the static shared secret for header-based
	// authorization (scripted admin clients).
	AdminKeyHeader = "X-Admin-Key"
)

type ctxKey struct{}

// WithAdmin marks ctx as belonging to a request that presented valid admin
// credentials.
func WithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, true)
}

// IsAdmin reports whether ctx was marked by WithAdmin.
func IsAdmin(ctx context.Context) bool {
	ok, _ := ctx.Value(ctxKey{}).(bool)
	return ok
}

// ContextGate is the authorization predicate handed to the post service. It
// trusts the marker set by the admin middleware, which runs before any
// handler and therefore before any store mutation.
type ContextGate struct{}

func (ContextGate) Authorized(ctx context.Context) bool {
	return IsAdmin(ctx)
}

// Manager validates admin credentials: either the static admin key header
// or a signed session cookie issued by Login.
type Manager struct {
	adminKey []byte
	store    *sessions.CookieStore
}

// NewManager builds a Manager. sessionSecret signs the session cookies;
// adminKey is the shared secret compared against login submissions and the
// AdminKeyHeader.
func NewManager(adminKey string, sessionSecret string, secureCookies bool) *Manager {
	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   sessionMaxAge,
		SameSite: http.SameSiteStrictMode,
		Secure:   secureCookies,
	}
	return &Manager{
		adminKey: []byte(adminKey),
		store:    store,
	}
}

// VerifyKey compares a submitted admin key in constant time.
func (m *Manager) VerifyKey(key string) bool {
	return subtle.ConstantTimeCompare([]byte(key), m.adminKey) == 1
}

// VerifyRequest reports whether r carries valid admin credentials, via
// either the key header or an authenticated session cookie.
func (m *Manager) VerifyRequest(r *http.Request) bool {
	if key := r.Header.Get(AdminKeyHeader); key != "" && m.VerifyKey(key) {
		return true
	}
	sess, err := m.store.Get(r, sessionName)
	if err != nil {
		return false
	}
	auth, ok := sess.Values["authenticated"].(bool)
	return ok && auth
}

// Login writes an authenticated session cookie to w. Call only after the
// admin key has been verified.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request) error {
	// New returns a usable session even when an existing cookie fails to
	// decode; the decode error itself is not interesting here.
	sess, _ := m.store.New(r, sessionName)
	sess.Values["authenticated"] = true
	return sess.Save(r, w)
}

// Logout expires the session cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, sessionName)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
