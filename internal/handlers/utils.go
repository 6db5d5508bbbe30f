package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aishanaaz19/assignment-growthx/internal/services"
	"github.com/aishanaaz19/assignment-growthx/internal/storage"
	"github.com/aishanaaz19/assignment-growthx/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	maxMultipartMemory = 32 << 20
	maxJSONBody        = 1 << 20
	multipartOverhead  = 1 << 20
)

// maxUploadBody bounds a whole upload request: one attachment plus its form fields.
var maxUploadBody = storage.MaxObjectBytes + multipartOverhead

var (
	errInvalidBody  = errors.New("invalid request body")
	errBodyTooLarge = errors.New("request body too large")
)

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// statusFor maps a service error to an HTTP status and a client safe message.
func statusFor(err error, subject string) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict, subject + " already exists"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, subject + " not found"
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error, subject string) {
	status, message := statusFor(err, subject)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("subject", subject).Msg("request failed")
	}

	resp := ErrorResponse{Error: message}
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	writeJSON(w, status, resp)
}

// wantsJSON reports whether the client asked for JSON instead of a page.
func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mediaType == "application/json" {
			return true
		}
	}
	return false
}

// requestForm holds the scalar fields of a form, multipart or JSON body.
type requestForm map[string]string

// first returns the first non-empty value among keys.
func (f requestForm) first(keys ...string) string {
	for _, key := range keys {
		if value := f[key]; value != "" {
			return value
		}
	}
	return ""
}

func isMultipart(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "multipart/form-data"
}

func parseRequestForm(r *http.Request) (requestForm, error) {
	values := requestForm{}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		raw := map[string]any{}
		if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(&raw); err != nil {
			return nil, errInvalidBody
		}
		for key, value := range raw {
			switch v := value.(type) {
			case string:
				values[key] = v
			case float64:
				values[key] = strconv.FormatFloat(v, 'f', -1, 64)
			case bool:
				values[key] = strconv.FormatBool(v)
			}
		}
		return values, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, errBodyTooLarge
			}
			return nil, errInvalidBody
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, errInvalidBody
		}
	}

	for key := range r.PostForm {
		values[key] = r.PostForm.Get(key)
	}
	return values, nil
}

// pathParam returns the decoded value of a chi URL parameter.
func pathParam(r *http.Request, name string) string {
	value := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
	}
	return strings.TrimSpace(value)
}
