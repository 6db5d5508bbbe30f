package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aishanaaz19/assignment-growthx/internal/storage"
	"github.com/aishanaaz19/assignment-growthx/internal/store"
	"github.com/aishanaaz19/assignment-growthx/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AssignmentRepository defines persistence operations for assignments.
type AssignmentRepository interface {
	Get(ctx context.Context, id string) (types.Assignment, error)
	ListByAdmin(ctx context.Context, admin string) ([]types.Assignment, error)
	Create(ctx context.Context, assignment types.Assignment) (types.Assignment, error)
	UpdateStatus(ctx context.Context, id string, status types.AssignmentStatus) (types.Assignment, error)
}

// AttachmentStorage stores assignment attachments as opaque objects.
type AttachmentStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// EventPublisher sends lifecycle events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// Attachment is an optional file submitted together with an assignment.
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CreateAssignmentInput is a user's submission.
type CreateAssignmentInput struct {
	UserID     string
	Task       string
	Admin      string
	Attachment *Attachment
}

// AssignmentService encapsulates assignment use-cases.
type AssignmentService struct {
	repo    AssignmentRepository
	storage AttachmentStorage
	events  EventPublisher
	logger  zerolog.Logger
}

// NewAssignmentService wires the repository. attachments and events may be nil,
// which disables attachments and event publication respectively.
func NewAssignmentService(repo AssignmentRepository, attachments AttachmentStorage, events EventPublisher, logger zerolog.Logger) *AssignmentService {
	return &AssignmentService{
		repo:    repo,
		storage: attachments,
		events:  events,
		logger:  logger,
	}
}

// AttachmentsEnabled reports whether an object storage backend is configured.
func (s *AssignmentService) AttachmentsEnabled() bool {
	return s.storage != nil
}

// Create stores a new Pending assignment.
func (s *AssignmentService) Create(ctx context.Context, in CreateAssignmentInput) (types.Assignment, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.Task = strings.TrimSpace(in.Task)
	in.Admin = strings.TrimSpace(in.Admin)
	if err := missingFields(map[string]string{
		"userId": in.UserID,
		"task":   in.Task,
		"admin":  in.Admin,
	}, "userId", "task", "admin"); err != nil {
		return types.Assignment{}, err
	}

	assignment := types.Assignment{
		ID:     uuid.NewString(),
		UserID: in.UserID,
		Task:   in.Task,
		Admin:  in.Admin,
		Status: types.StatusPending,
	}

	if in.Attachment != nil {
		if s.storage == nil {
			return types.Assignment{}, &ValidationError{Fields: []string{"attachment"}, Reason: "attachments are not enabled"}
		}
		if in.Attachment.Size > storage.MaxObjectBytes {
			return types.Assignment{}, attachmentTooLarge()
		}
		key, err := s.putAttachment(ctx, assignment.ID, *in.Attachment)
		if err != nil {
			return types.Assignment{}, err
		}
		assignment.AttachmentKey = key
	}

	created, err := s.repo.Create(ctx, assignment)
	if err != nil {
		if assignment.AttachmentKey != "" {
			if derr := s.storage.Delete(ctx, assignment.AttachmentKey); derr != nil {
				s.logger.Warn().Err(derr).Str("key", assignment.AttachmentKey).Msg("remove orphaned attachment")
			}
		}
		return types.Assignment{}, fmt.Errorf("create assignment: %w", err)
	}

	s.publish(ctx, types.ChannelAssignmentCreated, created)
	return created, nil
}

func (s *AssignmentService) Get(ctx context.Context, id string) (types.Assignment, error) {
	return s.repo.Get(ctx, id)
}

// ListByAdmin returns every assignment addressed to admin, whatever its status.
func (s *AssignmentService) ListByAdmin(ctx context.Context, admin string) ([]types.Assignment, error) {
	return s.repo.ListByAdmin(ctx, admin)
}

// SetStatus overwrites the status of an assignment. Earlier decisions are not
// checked, so an accepted assignment can still be rejected.
func (s *AssignmentService) SetStatus(ctx context.Context, id string, status types.AssignmentStatus) (types.Assignment, error) {
	if !status.Valid() {
		return types.Assignment{}, &ValidationError{Fields: []string{"status"}, Reason: fmt.Sprintf("unknown status %q", status)}
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return types.Assignment{}, err
	}

	s.publish(ctx, types.ChannelAssignmentDecided, updated)
	return updated, nil
}

// OpenAttachment returns the stored attachment. store.ErrNotFound is returned
// when the assignment is unknown or carries no attachment.
func (s *AssignmentService) OpenAttachment(ctx context.Context, id string) (io.ReadCloser, types.Assignment, error) {
	assignment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, types.Assignment{}, err
	}
	if assignment.AttachmentKey == "" || s.storage == nil {
		return nil, types.Assignment{}, store.ErrNotFound
	}

	body, err := s.storage.Get(ctx, assignment.AttachmentKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, types.Assignment{}, store.ErrNotFound
	}
	if err != nil {
		return nil, types.Assignment{}, fmt.Errorf("open attachment: %w", err)
	}
	return body, assignment, nil
}

func (s *AssignmentService) putAttachment(ctx context.Context, id string, attachment Attachment) (string, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(attachment.Filename), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		name = "attachment"
	}
	contentType := attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("assignments/%s/%s", id, name)
	if err := s.storage.Put(ctx, key, attachment.Body, attachment.Size, contentType); err != nil {
		if errors.Is(err, storage.ErrObjectTooLarge) {
			return "", attachmentTooLarge()
		}
		return "", fmt.Errorf("store attachment: %w", err)
	}
	return key, nil
}

func attachmentTooLarge() error {
	return &ValidationError{
		Fields: []string{"attachment"},
		Reason: fmt.Sprintf("attachment exceeds %d bytes", storage.MaxObjectBytes),
	}
}

func (s *AssignmentService) publish(ctx context.Context, channel string, assignment types.Assignment) {
	if s.events == nil {
		return
	}

	data, err := json.Marshal(types.AssignmentEvent{
		Type:       channel,
		Assignment: assignment,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("assignment_id", assignment.ID).Msg("encode assignment event")
		return
	}

	attrs := map[string]string{
		"assignment_id": assignment.ID,
		"status":        string(assignment.Status),
	}
	if _, err := s.events.Publish(ctx, channel, data, attrs); err != nil {
		s.logger.Warn().Err(err).Str("channel", channel).Str("assignment_id", assignment.ID).Msg("publish assignment event")
	}
}
