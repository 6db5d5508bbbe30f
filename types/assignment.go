package types

import (
	"strings"
	"time"
)

// AssignmentStatus is the review decision of an assignment.
type AssignmentStatus string

const (
	StatusPending  AssignmentStatus = "Pending"
	StatusAccepted AssignmentStatus = "Accepted"
	StatusRejected AssignmentStatus = "Rejected"
)

// Valid reports whether s is a known status.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// ParseAssignmentStatus matches value case-insensitively against the known statuses.
func ParseAssignmentStatus(value string) (AssignmentStatus, bool) {
	value = strings.TrimSpace(value)
	for _, status := range []AssignmentStatus{StatusPending, StatusAccepted, StatusRejected} {
		if strings.EqualFold(value, string(status)) {
			return status, true
		}
	}
	return "", false
}

// Assignment is a task submitted by a user to a named admin for review.
type Assignment struct {
	// ID is the unique identifier of the assignment.
	ID string `json:"id" db:"id" bson:"_id"`

	// UserID identifies the requesting user. It is not checked against
	// the user partition.
	UserID string `json:"user_id" db:"user_id" bson:"user_id"`

	// Task is the free-text description of the requested work.
	Task string `json:"task" db:"task" bson:"task"`

	// Admin is the full name of the admin the assignment is addressed to.
	Admin string `json:"admin" db:"admin" bson:"admin"`

	// Status is the current review decision.
	Status AssignmentStatus `json:"status" db:"status" bson:"status"`

	// AttachmentKey is the object storage key of an optional uploaded file.
	AttachmentKey string `json:"attachment_key,omitempty" db:"attachment_key" bson:"attachment_key,omitempty"`

	// CreatedAt is the timestamp when the assignment was submitted.
	CreatedAt time.Time `json:"created_at" db:"created_at" bson:"created_at"`

	// UpdatedAt is the timestamp of the most recent status change.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" bson:"updated_at"`
}
