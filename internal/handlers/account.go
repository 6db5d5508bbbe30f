package handlers

import (
	"errors"
	"net/http"

	"github.com/aishanaaz19/assignment-growthx/internal/services"
	"github.com/aishanaaz19/assignment-growthx/internal/store"
	"github.com/aishanaaz19/assignment-growthx/internal/views"
	"github.com/aishanaaz19/assignment-growthx/types"
	"github.com/rs/zerolog"
)

// accountHandler serves the login and registration forms of one role.
type accountHandler struct {
	deps         Dependencies
	role         types.Role
	title        string
	loginPage    string
	registerPage string
	loginPath    string
	// landing is where a successful login is sent.
	landing func(types.Identity) string
}

func (h *accountHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.deps.render(w, r, http.StatusOK, h.loginPage, views.Page{Title: h.title + " login"})
}

func (h *accountHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.deps.render(w, r, http.StatusOK, h.registerPage, views.Page{Title: h.title + " registration"})
}

// Register creates the identity, binds it to the session and sends the
// client on to the login form.
func (h *accountHandler) Register(w http.ResponseWriter, r *http.Request) {
	form, err := parseRequestForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in := services.RegisterInput{
		Username: form["username"],
		Password: form["password"],
		FullName: form.first("full_name", "fullName"),
		Email:    form["email"],
	}
	identity, err := h.deps.Identities.Register(r.Context(), h.role, in)
	if err != nil {
		status, message := statusFor(err, "username")
		if status == http.StatusInternalServerError || wantsJSON(r) {
			writeServiceError(w, r, err, "username")
			return
		}
		h.deps.render(w, r, status, h.registerPage, views.Page{
			Title: h.title + " registration",
			Error: message,
			Form: views.RegisterForm{
				Username: in.Username,
				FullName: in.FullName,
				Email:    in.Email,
			},
		})
		return
	}

	if _, err := h.deps.Sessions.Bind(w, r, h.role, identity.ID); err != nil {
		writeServiceError(w, r, err, "session")
		return
	}
	zerolog.Ctx(r.Context()).Info().
		Str("role", string(h.role)).
		Str("username", identity.Username).
		Msg("identity registered")

	http.Redirect(w, r, h.loginPath, http.StatusFound)
}

// Login verifies the credentials and binds the identity to the session.
// An unknown username and a wrong password are both reported as 401.
func (h *accountHandler) Login(w http.ResponseWriter, r *http.Request) {
	form, err := parseRequestForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	username := form["username"]
	identity, err := h.deps.Identities.Authenticate(r.Context(), h.role, username, form["password"])
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, services.ErrInvalidCredentials) {
			writeServiceError(w, r, err, "username")
			return
		}
		if wantsJSON(r) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.deps.render(w, r, http.StatusUnauthorized, h.loginPage, views.Page{
			Title:    h.title + " login",
			Error:    "invalid username or password",
			Username: username,
		})
		return
	}

	if _, err := h.deps.Sessions.Bind(w, r, h.role, identity.ID); err != nil {
		writeServiceError(w, r, err, "session")
		return
	}
	http.Redirect(w, r, h.landing(identity), http.StatusFound)
}
