package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/aishanaaz19/assignment-growthx/internal/storage"
	"github.com/aishanaaz19/assignment-growthx/internal/store"
	"github.com/aishanaaz19/assignment-growthx/types"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type memoryIdentityRepo struct {
	mu    sync.Mutex
	role  types.Role
	byID  map[string]types.Identity
	order []string
}

func newMemoryIdentityRepo(role types.Role) *memoryIdentityRepo {
	return &memoryIdentityRepo{role: role, byID: map[string]types.Identity{}}
}

func (r *memoryIdentityRepo) GetByID(_ context.Context, id string) (types.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.byID[id]
	if !ok {
		return types.Identity{}, store.ErrNotFound
	}
	return identity, nil
}

func (r *memoryIdentityRepo) GetByUsername(_ context.Context, username string) (types.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, identity := range r.byID {
		if identity.Username == username {
			return identity, nil
		}
	}
	return types.Identity{}, store.ErrNotFound
}

func (r *memoryIdentityRepo) Create(_ context.Context, identity types.Identity) (types.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Username == identity.Username {
			return types.Identity{}, store.ErrDuplicate
		}
	}
	identity.ID = uuid.NewString()
	identity.Role = r.role
	identity.CreatedAt = time.Now()
	r.byID[identity.ID] = identity
	r.order = append(r.order, identity.ID)
	return identity, nil
}

func (r *memoryIdentityRepo) List(_ context.Context) ([]types.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identities := make([]types.Identity, 0, len(r.order))
	for _, id := range r.order {
		identities = append(identities, r.byID[id])
	}
	sort.Slice(identities, func(i, j int) bool { return identities[i].FullName < identities[j].FullName })
	return identities, nil
}

type memoryAssignmentRepo struct {
	mu        sync.Mutex
	items     map[string]types.Assignment
	createErr error
}

func newMemoryAssignmentRepo() *memoryAssignmentRepo {
	return &memoryAssignmentRepo{items: map[string]types.Assignment{}}
}

func (r *memoryAssignmentRepo) Get(_ context.Context, id string) (types.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment, ok := r.items[id]
	if !ok {
		return types.Assignment{}, store.ErrNotFound
	}
	return assignment, nil
}

func (r *memoryAssignmentRepo) ListByAdmin(_ context.Context, admin string) ([]types.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignments := make([]types.Assignment, 0)
	for _, assignment := range r.items {
		if assignment.Admin == admin {
			assignments = append(assignments, assignment)
		}
	}
	return assignments, nil
}

func (r *memoryAssignmentRepo) Create(_ context.Context, assignment types.Assignment) (types.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return types.Assignment{}, r.createErr
	}
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = assignment.CreatedAt
	r.items[assignment.ID] = assignment
	return assignment, nil
}

func (r *memoryAssignmentRepo) UpdateStatus(_ context.Context, id string, status types.AssignmentStatus) (types.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment, ok := r.items[id]
	if !ok {
		return types.Assignment{}, store.ErrNotFound
	}
	assignment.Status = status
	assignment.UpdatedAt = time.Now()
	r.items[id] = assignment
	return assignment, nil
}

func (r *memoryAssignmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *memoryStorage) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	s.types[key] = contentType
	return nil
}

func (s *memoryStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(s.objects, key)
	delete(s.types, key)
	return nil
}

type publishedEvent struct {
	channel string
	data    []byte
	attrs   map[string]string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.events = append(p.events, publishedEvent{channel: channel, data: data, attrs: attrs})
	return uuid.NewString(), nil
}

func newTestIdentityService() (*IdentityService, *memoryIdentityRepo, *memoryIdentityRepo) {
	users := newMemoryIdentityRepo(types.RoleUser)
	admins := newMemoryIdentityRepo(types.RoleAdmin)
	svc := NewIdentityService(users, admins)
	svc.hashCost = bcrypt.MinCost
	return svc, users, admins
}
