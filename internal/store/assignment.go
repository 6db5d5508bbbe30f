package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aishanaaz19/assignment-growthx/types"
)

// AssignmentRepository handles persistence for assignments.
type AssignmentRepository struct {
	db *sql.DB
}

// NewAssignmentRepository constructs a repository backed by Postgres.
func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Get(ctx context.Context, id string) (types.Assignment, error) {
	const query = `
		SELECT id, user_id, task, admin, status, attachment_key, created_at, updated_at
		FROM assignments
		WHERE id = $1`
	return scanAssignment(r.db.QueryRowContext(ctx, query, id))
}

func (r *AssignmentRepository) ListByAdmin(ctx context.Context, admin string) ([]types.Assignment, error) {
	const query = `
		SELECT id, user_id, task, admin, status, attachment_key, created_at, updated_at
		FROM assignments
		WHERE admin = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, admin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]types.Assignment, 0)
	for rows.Next() {
		var assignment types.Assignment
		if err := rows.Scan(
			&assignment.ID,
			&assignment.UserID,
			&assignment.Task,
			&assignment.Admin,
			&assignment.Status,
			&assignment.AttachmentKey,
			&assignment.CreatedAt,
			&assignment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment types.Assignment) (types.Assignment, error) {
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	const query = `
		INSERT INTO assignments (id, user_id, task, admin, status, attachment_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		assignment.ID,
		assignment.UserID,
		assignment.Task,
		assignment.Admin,
		assignment.Status,
		assignment.AttachmentKey,
		assignment.CreatedAt,
		assignment.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return types.Assignment{}, ErrDuplicate
		}
		return types.Assignment{}, err
	}
	return assignment, nil
}

// UpdateStatus overwrites the status unconditionally and returns the stored row.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id string, status types.AssignmentStatus) (types.Assignment, error) {
	const query = `
		UPDATE assignments
		SET status = $1,
			updated_at = $2
		WHERE id = $3
		RETURNING id, user_id, task, admin, status, attachment_key, created_at, updated_at`
	return scanAssignment(r.db.QueryRowContext(ctx, query, status, time.Now().UTC(), id))
}

func scanAssignment(row *sql.Row) (types.Assignment, error) {
	var assignment types.Assignment
	err := row.Scan(
		&assignment.ID,
		&assignment.UserID,
		&assignment.Task,
		&assignment.Admin,
		&assignment.Status,
		&assignment.AttachmentKey,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Assignment{}, ErrNotFound
		}
		return types.Assignment{}, err
	}
	return assignment, nil
}
