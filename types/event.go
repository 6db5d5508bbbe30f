package types

import "time"

// Channels carrying assignment lifecycle events.
const (
	ChannelAssignmentCreated = "assignments.created"
	ChannelAssignmentDecided = "assignments.decided"
)

// AssignmentEvent is the message body published on the assignment channels.
type AssignmentEvent struct {
	// Type is the channel the event was published on.
	Type string `json:"type"`

	// Assignment is the state of the assignment after the change.
	Assignment Assignment `json:"assignment"`

	// OccurredAt is when the change was committed.
	OccurredAt time.Time `json:"occurred_at"`
}
