package handlers

import (
	"errors"
	"net/http"

	"github.com/aishanaaz19/assignment-growthx/internal/services"
	"github.com/aishanaaz19/assignment-growthx/internal/views"
	"github.com/aishanaaz19/assignment-growthx/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	userRole       = types.RoleUser
	userLoginPath  = "/user/login"
	formFieldTask  = "task"
	formFieldAdmin = "admin"
	formFieldFile  = "attachment"
)

// UserHandler serves the pages of a logged in user.
type UserHandler struct {
	deps Dependencies
}

// UploadPageResponse is the JSON form of the upload page.
type UploadPageResponse struct {
	Admins             []string `json:"admins"`
	AttachmentsEnabled bool     `json:"attachments_enabled"`
}

// NewUserHandler constructs a UserHandler with the provided dependencies.
func NewUserHandler(deps Dependencies) *UserHandler {
	return &UserHandler{deps: deps}
}

// UserRouter registers the /user routes on the given router.
func UserRouter(r chi.Router, deps Dependencies) {
	account := &accountHandler{
		deps:         deps,
		role:         userRole,
		title:        "User",
		loginPage:    "user_login",
		registerPage: "user_register",
		loginPath:    userLoginPath,
		landing:      func(types.Identity) string { return "/user/profile" },
	}
	handler := NewUserHandler(deps)

	r.Get("/login", account.LoginPage)
	r.Post("/login", account.Login)
	r.Get("/register", account.RegisterPage)
	r.Post("/register", account.Register)
	r.With(requireIdentity(deps, userRole, userLoginPath)).Get("/profile", handler.Profile)
}

// UploadRouter registers the assignment submission routes.
func UploadRouter(r chi.Router, deps Dependencies) {
	handler := NewUserHandler(deps)

	r.Route("/upload", func(r chi.Router) {
		r.Use(requireIdentity(deps, userRole, userLoginPath))
		r.Get("/", handler.UploadPage)
		r.Post("/", handler.Upload)
	})
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, identity)
		return
	}
	h.deps.render(w, r, http.StatusOK, "user_profile", views.Page{
		Title:    "Profile",
		Identity: &identity,
	})
}

// UploadPage lists the full names of the admins an assignment can be addressed to.
func (h *UserHandler) UploadPage(w http.ResponseWriter, r *http.Request) {
	admins, err := h.deps.Identities.ListAdmins(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "admin")
		return
	}

	names := make([]string, 0, len(admins))
	for _, admin := range admins {
		names = append(names, admin.FullName)
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, UploadPageResponse{
			Admins:             names,
			AttachmentsEnabled: h.deps.Assignments.AttachmentsEnabled(),
		})
		return
	}
	h.deps.render(w, r, http.StatusOK, "upload", views.Page{
		Title:              "Submit an assignment",
		Admins:             names,
		AttachmentsEnabled: h.deps.Assignments.AttachmentsEnabled(),
	})
}

// Upload creates a Pending assignment for the logged in user.
func (h *UserHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	form, err := parseRequestForm(r)
	if errors.Is(err, errBodyTooLarge) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Fields: []string{formFieldFile}})
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in := services.CreateAssignmentInput{
		UserID: identity.ID,
		Task:   form[formFieldTask],
		Admin:  form[formFieldAdmin],
	}

	if isMultipart(r) {
		file, header, err := r.FormFile(formFieldFile)
		switch {
		case err == nil:
			defer file.Close()
			in.Attachment = &services.Attachment{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Body:        file,
			}
		case errors.Is(err, http.ErrMissingFile):
		default:
			writeError(w, http.StatusBadRequest, "invalid attachment")
			return
		}
	}

	assignment, err := h.deps.Assignments.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, "assignment")
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Str("assignment_id", assignment.ID).
		Str("admin", assignment.Admin).
		Msg("assignment submitted")
	writeJSON(w, http.StatusCreated, assignment)
}
