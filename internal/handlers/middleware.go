package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/aishanaaz19/assignment-growthx/internal/session"
	"github.com/aishanaaz19/assignment-growthx/internal/store"
	"github.com/aishanaaz19/assignment-growthx/types"
	"github.com/rs/zerolog"
)

type contextKey string

const contextIdentityKey contextKey = "identity"

// requireIdentity redirects to loginPath unless the session holds an identity
// of role that still exists. The resolved identity is put in the context.
func requireIdentity(deps Dependencies, role types.Role, loginPath string) func(http.Handler) http.Handler {
	guard := deps.Sessions.RequireRole(role, loginPath)
	return func(next http.Handler) http.Handler {
		resolve := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, _ := session.FromContext(r.Context())
			identity, err := deps.Identities.GetByID(r.Context(), role, s.IdentityID(role))
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					http.Redirect(w, r, loginPath, http.StatusFound)
					return
				}
				zerolog.Ctx(r.Context()).Error().Err(err).Str("role", string(role)).Msg("resolve session identity")
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			ctx := context.WithValue(r.Context(), contextIdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
		return guard(resolve)
	}
}

func identityFromContext(ctx context.Context) (types.Identity, bool) {
	identity, ok := ctx.Value(contextIdentityKey).(types.Identity)
	return identity, ok
}
