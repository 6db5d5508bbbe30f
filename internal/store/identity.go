package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aishanaaz19/assignment-growthx/types"
	"github.com/google/uuid"
)

// identityTables maps each role to its partition. Table names are never
// taken from input.
var identityTables = map[types.Role]string{
	types.RoleUser:  "users",
	types.RoleAdmin: "admins",
}

// IdentityRepository handles persistence for one identity partition.
type IdentityRepository struct {
	db    *sql.DB
	role  types.Role
	table string
}

// NewIdentityRepository constructs the repository for the table of role.
func NewIdentityRepository(db *sql.DB, role types.Role) (*IdentityRepository, error) {
	table, ok := identityTables[role]
	if !ok {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	return &IdentityRepository{db: db, role: role, table: table}, nil
}

func (r *IdentityRepository) GetByID(ctx context.Context, id string) (types.Identity, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, created_at
		FROM ` + r.table + `
		WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *IdentityRepository) GetByUsername(ctx context.Context, username string) (types.Identity, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, created_at
		FROM ` + r.table + `
		WHERE username = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

func (r *IdentityRepository) Create(ctx context.Context, identity types.Identity) (types.Identity, error) {
	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	identity.CreatedAt = time.Now().UTC()
	identity.Role = r.role

	query := `
		INSERT INTO ` + r.table + ` (id, username, password_hash, full_name, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		identity.ID,
		identity.Username,
		identity.PasswordHash,
		identity.FullName,
		identity.Email,
		identity.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return types.Identity{}, ErrDuplicate
		}
		return types.Identity{}, err
	}
	return identity, nil
}

func (r *IdentityRepository) List(ctx context.Context) ([]types.Identity, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, created_at
		FROM ` + r.table + `
		ORDER BY full_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	identities := make([]types.Identity, 0)
	for rows.Next() {
		identity := types.Identity{Role: r.role}
		if err := rows.Scan(
			&identity.ID,
			&identity.Username,
			&identity.PasswordHash,
			&identity.FullName,
			&identity.Email,
			&identity.CreatedAt,
		); err != nil {
			return nil, err
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return identities, nil
}

func (r *IdentityRepository) scanOne(row *sql.Row) (types.Identity, error) {
	identity := types.Identity{Role: r.role}
	err := row.Scan(
		&identity.ID,
		&identity.Username,
		&identity.PasswordHash,
		&identity.FullName,
		&identity.Email,
		&identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Identity{}, ErrNotFound
		}
		return types.Identity{}, err
	}
	return identity, nil
}
