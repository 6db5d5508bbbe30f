package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aishanaaz19/assignment-growthx/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "sid"

	defaultTTL = 24 * time.Hour
)

type contextKey string

const contextSessionKey contextKey = "session"

// Options configures a Manager.
type Options struct {
	Secret string
	TTL    time.Duration
	// Secure marks the cookie Secure. It is off in local development only.
	Secure bool
}

// Manager binds sessions to requests through a signed cookie.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewManager constructs a Manager over store. A zero TTL falls back to the default.
func NewManager(store Store, opts Options) (*Manager, error) {
	if opts.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{
		store:  store,
		secret: []byte(opts.Secret),
		ttl:    ttl,
		secure: opts.Secure,
	}, nil
}

// Load resolves the cookie into a session and stores it in the request
// context. Requests with a missing, forged or expired cookie pass through
// without a session.
func (m *Manager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		sessionID, err := parseToken(cookie.Value, m.secret)
		if err != nil {
			m.clearCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		s, err := m.store.Get(r.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("load session")
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// Bind attaches identityID under role to the caller's session, creating the
// session when needed. The session id is rotated on every bind.
func (m *Manager) Bind(w http.ResponseWriter, r *http.Request, role types.Role, identityID string) (Session, error) {
	next := Session{CreatedAt: time.Now().UTC()}
	previous, hadPrevious := FromContext(r.Context())
	if hadPrevious {
		next.UserID = previous.UserID
		next.AdminID = previous.AdminID
		next.CreatedAt = previous.CreatedAt
	}
	next.ID = uuid.NewString()
	next.bind(role, identityID)

	if err := m.store.Save(r.Context(), next, m.ttl); err != nil {
		return Session{}, err
	}
	if hadPrevious {
		_ = m.store.Delete(r.Context(), previous.ID)
	}

	token, err := signToken(next.ID, m.secret, m.ttl)
	if err != nil {
		return Session{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return next, nil
}

// Destroy deletes the caller's session state and expires the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	m.clearCookie(w)
	s, ok := FromContext(r.Context())
	if !ok {
		return nil
	}
	return m.store.Delete(r.Context(), s.ID)
}

// RequireRole redirects to loginPath unless the session has an identity of role bound.
func (m *Manager) RequireRole(role types.Role, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := FromContext(r.Context())
			if !ok || s.IdentityID(role) == "" {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextSessionKey, s)
}

// FromContext returns the session loaded for the request, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextSessionKey).(Session)
	return s, ok
}
