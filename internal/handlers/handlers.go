package handlers

import (
	"net/http"

	"github.com/aishanaaz19/assignment-growthx/internal/services"
	"github.com/aishanaaz19/assignment-growthx/internal/session"
	"github.com/aishanaaz19/assignment-growthx/internal/views"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Dependencies is everything the HTTP handlers need.
type Dependencies struct {
	Identities  *services.IdentityService
	Assignments *services.AssignmentService
	Sessions    *session.Manager
	Views       *views.Renderer

	// AdminRequireSession gates the admin and review routes behind an admin session.
	AdminRequireSession bool
}

// Mount registers every route on r. The session middleware must run before r.
func Mount(r chi.Router, deps Dependencies) {
	r.Get("/", deps.Index)
	r.Get("/healthz", Healthz)
	r.Post("/logout", deps.Logout)

	r.Route("/user", func(r chi.Router) {
		UserRouter(r, deps)
	})
	UploadRouter(r, deps)
	r.Route("/admin", func(r chi.Router) {
		AdminRouter(r, deps)
	})
	r.Route("/assignments", func(r chi.Router) {
		AssignmentRouter(r, deps)
	})
}

func (d Dependencies) Index(w http.ResponseWriter, r *http.Request) {
	d.render(w, r, http.StatusOK, "index", views.Page{Title: "Assignment review"})
}

// Logout destroys the session, whichever roles it holds.
func (d Dependencies) Logout(w http.ResponseWriter, r *http.Request) {
	if err := d.Sessions.Destroy(w, r); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("destroy session")
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// adminGate returns the middleware applied to admin facing routes.
func (d Dependencies) adminGate() func(http.Handler) http.Handler {
	if d.AdminRequireSession {
		return requireIdentity(d, adminRole, adminLoginPath)
	}
	return func(next http.Handler) http.Handler { return next }
}

func (d Dependencies) render(w http.ResponseWriter, r *http.Request, status int, page string, data views.Page) {
	if err := d.Views.Render(w, status, page, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("page", page).Msg("render page")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
