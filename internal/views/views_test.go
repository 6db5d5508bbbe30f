package views

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aishanaaz19/assignment-growthx/types"
)

func TestRenderAllPages(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}

	assignment := types.Assignment{
		ID:        "a1",
		Task:      "Grade essays",
		Admin:     "Bob Stone",
		Status:    types.StatusAccepted,
		CreatedAt: time.Now(),
	}
	identity := &types.Identity{Username: "bob", FullName: "Bob Stone", Email: "bob@example.com"}

	pages := map[string]Page{
		"index":             {Title: "Welcome"},
		"user_login":        {Title: "User login", Error: "invalid credentials", Username: "alice"},
		"user_register":     {Title: "Register", Form: RegisterForm{Username: "alice"}},
		"user_profile":      {Title: "Profile", Identity: identity},
		"upload":            {Title: "Upload", Admins: []string{"Bob Stone"}, AttachmentsEnabled: true},
		"admin_login":       {Title: "Admin login"},
		"admin_register":    {Title: "Admin register"},
		"admin_profile":     {Title: "Admin", Identity: identity},
		"admin_assignments": {Title: "Assignments", Admin: "Bob Stone", Assignments: []types.Assignment{assignment}},
		"assignment_status": {Title: "Status", Assignment: assignment, Reported: types.StatusAccepted},
	}

	for name, page := range pages {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := r.Render(rec, http.StatusOK, name, page); err != nil {
				t.Fatalf("render: %v", err)
			}
			if !strings.Contains(rec.Body.String(), page.Title) {
				t.Fatalf("title missing from output")
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Fatalf("unexpected content type %q", ct)
			}
		})
	}
}

func TestRenderEscapesAndLinks(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusCreated, "admin_profile", Page{
		Title:    "Admin",
		Identity: &types.Identity{Username: "bob", FullName: "Bob <Stone>"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body := rec.Body.String()
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d", rec.Code)
	}
	if strings.Contains(body, "<Stone>") {
		t.Fatalf("name must be escaped: %s", body)
	}
	if !strings.Contains(body, "/admin/assignments/Bob%20%3cStone%3e") {
		t.Fatalf("expected escaped assignments link in %s", body)
	}
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	rec := httptest.NewRecorder()
	if err := r.Render(rec, http.StatusOK, "nope", Page{}); err == nil {
		t.Fatalf("expected error")
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("nothing should be written")
	}
}
