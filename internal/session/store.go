package session

import (
	"context"
	"errors"
	"time"

	"github.com/aishanaaz19/assignment-growthx/types"
)

// ErrNotFound is returned when no live session exists for an id.
var ErrNotFound = errors.New("session not found")

// Session is the server-side state bound to a cookie. It only references
// identities; the records themselves are loaded from the credential store.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	AdminID   string    `json:"admin_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IdentityID returns the bound identity for role, or "" when none is bound.
func (s Session) IdentityID(role types.Role) string {
	switch role {
	case types.RoleUser:
		return s.UserID
	case types.RoleAdmin:
		return s.AdminID
	default:
		return ""
	}
}

func (s *Session) bind(role types.Role, id string) {
	switch role {
	case types.RoleUser:
		s.UserID = id
	case types.RoleAdmin:
		s.AdminID = id
	}
}

// Store persists sessions keyed by id.
type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
