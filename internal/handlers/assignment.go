package handlers

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"

	"github.com/aishanaaz19/assignment-growthx/internal/views"
	"github.com/aishanaaz19/assignment-growthx/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AssignmentHandler serves review decisions and status pages.
type AssignmentHandler struct {
	deps Dependencies
}

// AssignmentStatusResponse is the JSON form of the status page. Reported is
// the status named by the redirect, Assignment.Status is the stored one.
type AssignmentStatusResponse struct {
	Assignment types.Assignment       `json:"assignment"`
	Reported   types.AssignmentStatus `json:"reported,omitempty"`
}

// NewAssignmentHandler constructs an AssignmentHandler with the provided dependencies.
func NewAssignmentHandler(deps Dependencies) *AssignmentHandler {
	return &AssignmentHandler{deps: deps}
}

// AssignmentRouter registers the /assignments routes on the given router.
func AssignmentRouter(r chi.Router, deps Dependencies) {
	handler := NewAssignmentHandler(deps)

	r.Route("/{assignmentID}", func(r chi.Router) {
		r.With(deps.adminGate()).Post("/accept", handler.Accept)
		r.With(deps.adminGate()).Post("/reject", handler.Reject)
		r.Get("/status", handler.Status)
		r.Get("/attachment", handler.Attachment)
	})
}

func (h *AssignmentHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, types.StatusAccepted)
}

func (h *AssignmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, types.StatusRejected)
}

func (h *AssignmentHandler) decide(w http.ResponseWriter, r *http.Request, status types.AssignmentStatus) {
	id := pathParam(r, "assignmentID")
	assignment, err := h.deps.Assignments.SetStatus(r.Context(), id, status)
	if err != nil {
		writeServiceError(w, r, err, "assignment")
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Str("assignment_id", assignment.ID).
		Str("status", string(assignment.Status)).
		Msg("assignment decided")

	target := fmt.Sprintf("/assignments/%s/status?status=%s", url.PathEscape(assignment.ID), url.QueryEscape(string(status)))
	http.Redirect(w, r, target, http.StatusFound)
}

// Status shows the stored status of an assignment. The status query value is
// only echoed back when it names a known status.
func (h *AssignmentHandler) Status(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.deps.Assignments.Get(r.Context(), pathParam(r, "assignmentID"))
	if err != nil {
		writeServiceError(w, r, err, "assignment")
		return
	}

	reported, _ := types.ParseAssignmentStatus(r.URL.Query().Get("status"))

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, AssignmentStatusResponse{Assignment: assignment, Reported: reported})
		return
	}
	h.deps.render(w, r, http.StatusOK, "assignment_status", views.Page{
		Title:      "Assignment " + string(assignment.Status),
		Assignment: assignment,
		Reported:   reported,
	})
}

func (h *AssignmentHandler) Attachment(w http.ResponseWriter, r *http.Request) {
	body, assignment, err := h.deps.Assignments.OpenAttachment(r.Context(), pathParam(r, "assignmentID"))
	if err != nil {
		writeServiceError(w, r, err, "attachment")
		return
	}
	defer body.Close()

	name := path.Base(assignment.AttachmentKey)
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("assignment_id", assignment.ID).Msg("stream attachment")
	}
}
