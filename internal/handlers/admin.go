package handlers

import (
	"net/http"
	"net/url"

	"github.com/aishanaaz19/assignment-growthx/internal/views"
	"github.com/aishanaaz19/assignment-growthx/types"
	"github.com/go-chi/chi/v5"
)

const (
	adminRole      = types.RoleAdmin
	adminLoginPath = "/admin/login"
)

// AdminHandler serves admin profiles and their review queues.
type AdminHandler struct {
	deps Dependencies
}

// AdminAssignmentsResponse is the JSON form of an admin's review queue.
type AdminAssignmentsResponse struct {
	Admin       string             `json:"admin"`
	Assignments []types.Assignment `json:"assignments"`
}

// NewAdminHandler constructs an AdminHandler with the provided dependencies.
func NewAdminHandler(deps Dependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

// AdminRouter registers the /admin routes on the given router.
func AdminRouter(r chi.Router, deps Dependencies) {
	account := &accountHandler{
		deps:         deps,
		role:         adminRole,
		title:        "Admin",
		loginPage:    "admin_login",
		registerPage: "admin_register",
		loginPath:    adminLoginPath,
		landing: func(identity types.Identity) string {
			return "/admin/profile/" + url.PathEscape(identity.Username)
		},
	}
	handler := NewAdminHandler(deps)

	r.Get("/login", account.LoginPage)
	r.Post("/login", account.Login)
	r.Get("/register", account.RegisterPage)
	r.Post("/register", account.Register)

	r.Group(func(r chi.Router) {
		r.Use(deps.adminGate())
		r.Get("/profile/{adminName}", handler.Profile)
		r.Get("/assignments/{adminName}", handler.Assignments)
	})
}

// Profile looks the admin up by username.
func (h *AdminHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, err := h.deps.Identities.GetByUsername(r.Context(), adminRole, pathParam(r, "adminName"))
	if err != nil {
		writeServiceError(w, r, err, "admin")
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, identity)
		return
	}
	h.deps.render(w, r, http.StatusOK, "admin_profile", views.Page{
		Title:    identity.FullName,
		Identity: &identity,
	})
}

// Assignments lists every assignment addressed to the admin's full name,
// whatever its status.
func (h *AdminHandler) Assignments(w http.ResponseWriter, r *http.Request) {
	admin := pathParam(r, "adminName")
	assignments, err := h.deps.Assignments.ListByAdmin(r.Context(), admin)
	if err != nil {
		writeServiceError(w, r, err, "assignment")
		return
	}
	if assignments == nil {
		assignments = []types.Assignment{}
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, AdminAssignmentsResponse{Admin: admin, Assignments: assignments})
		return
	}
	h.deps.render(w, r, http.StatusOK, "admin_assignments", views.Page{
		Title:       "Assignments for " + admin,
		Admin:       admin,
		Assignments: assignments,
	})
}
