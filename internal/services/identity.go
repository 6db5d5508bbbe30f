package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aishanaaz19/assignment-growthx/internal/store"
	"github.com/aishanaaz19/assignment-growthx/types"
	"golang.org/x/crypto/bcrypt"
)

// IdentityRepository defines persistence operations for one identity partition.
type IdentityRepository interface {
	GetByID(ctx context.Context, id string) (types.Identity, error)
	GetByUsername(ctx context.Context, username string) (types.Identity, error)
	Create(ctx context.Context, identity types.Identity) (types.Identity, error)
	List(ctx context.Context) ([]types.Identity, error)
}

// RegisterInput carries the plaintext registration form.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// IdentityService encapsulates registration and authentication for users and admins.
type IdentityService struct {
	repos    map[types.Role]IdentityRepository
	hashCost int
}

// NewIdentityService constructs the service over the user and admin partitions.
func NewIdentityService(users, admins IdentityRepository) *IdentityService {
	return &IdentityService{
		repos: map[types.Role]IdentityRepository{
			types.RoleUser:  users,
			types.RoleAdmin: admins,
		},
		hashCost: bcrypt.DefaultCost,
	}
}

// Register validates the input, hashes the password and stores a new identity.
func (s *IdentityService) Register(ctx context.Context, role types.Role, in RegisterInput) (types.Identity, error) {
	repo, err := s.repo(role)
	if err != nil {
		return types.Identity{}, err
	}

	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if err := missingFields(map[string]string{
		"username":  in.Username,
		"password":  in.Password,
		"full_name": in.FullName,
		"email":     in.Email,
	}, "username", "password", "full_name", "email"); err != nil {
		return types.Identity{}, err
	}

	if _, err := repo.GetByUsername(ctx, in.Username); err == nil {
		return types.Identity{}, store.ErrDuplicate
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.Identity{}, fmt.Errorf("check %s: %w", role, err)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return types.Identity{}, err
	}

	identity, err := repo.Create(ctx, types.Identity{
		Role:         role,
		Username:     in.Username,
		PasswordHash: hash,
		FullName:     in.FullName,
		Email:        in.Email,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.Identity{}, err
		}
		return types.Identity{}, fmt.Errorf("create %s: %w", role, err)
	}
	return identity, nil
}

// Authenticate returns store.ErrNotFound for an unknown username and
// ErrInvalidCredentials for a password mismatch.
func (s *IdentityService) Authenticate(ctx context.Context, role types.Role, username, password string) (types.Identity, error) {
	identity, err := s.GetByUsername(ctx, role, strings.TrimSpace(username))
	if err != nil {
		return types.Identity{}, err
	}
	if !verifyPassword(identity.PasswordHash, password) {
		return types.Identity{}, ErrInvalidCredentials
	}
	return identity, nil
}

func (s *IdentityService) GetByUsername(ctx context.Context, role types.Role, username string) (types.Identity, error) {
	repo, err := s.repo(role)
	if err != nil {
		return types.Identity{}, err
	}
	return repo.GetByUsername(ctx, username)
}

func (s *IdentityService) GetByID(ctx context.Context, role types.Role, id string) (types.Identity, error) {
	repo, err := s.repo(role)
	if err != nil {
		return types.Identity{}, err
	}
	return repo.GetByID(ctx, id)
}

// ListAdmins returns every admin, ordered by full name.
func (s *IdentityService) ListAdmins(ctx context.Context) ([]types.Identity, error) {
	return s.repos[types.RoleAdmin].List(ctx)
}

func (s *IdentityService) repo(role types.Role) (IdentityRepository, error) {
	repo, ok := s.repos[role]
	if !ok || repo == nil {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	return repo, nil
}

func (s *IdentityService) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func verifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
