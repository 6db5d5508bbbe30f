package handlers

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
)

type memoryIdentities struct {
	mu   sync.Mutex
	byID map[string]types.Identity
}

func newMemoryIdentities() *memoryIdentities {
	return &memoryIdentities{byID: map[string]types.Identity{}}
}

func (m *memoryIdentities) GetByID(_ context.Context, id string) (types.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	identity, ok := m.byID[id]
	if !ok {
		return types.Identity{}, store.ErrNotFound
	}
	return identity, nil
}

func (m *memoryIdentities) GetByUsername(_ context.Context, username string) (types.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, identity := range m.byID {
		if identity.Username == username {
			return identity, nil
		}
	}
	return types.Identity{}, store.ErrNotFound
}

func (m *memoryIdentities) Create(_ context.Context, identity types.Identity) (types.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	identity.ID = uuid.NewString()
	identity.CreatedAt = time.Now()
	m.byID[identity.ID] = identity
	return identity, nil
}

func (m *memoryIdentities) List(_ context.Context) ([]types.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	identities := make([]types.Identity, 0, len(m.byID))
	for _, identity := range m.byID {
		identities = append(identities, identity)
	}
	sort.Slice(identities, func(i, j int) bool { return identities[i].FullName < identities[j].FullName })
	return identities, nil
}

func (m *memoryIdentities) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

type memoryAssignments struct {
	mu    sync.Mutex
	items map[string]types.Assignment
}

func newMemoryAssignments() *memoryAssignments {
	return &memoryAssignments{items: map[string]types.Assignment{}}
}

func (m *memoryAssignments) Get(_ context.Context, id string) (types.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment, ok := m.items[id]
	if !ok {
		return types.Assignment{}, store.ErrNotFound
	}
	return assignment, nil
}

func (m *memoryAssignments) ListByAdmin(_ context.Context, admin string) ([]types.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var assignments []types.Assignment
	for _, assignment := range m.items {
		if assignment.Admin == admin {
			assignments = append(assignments, assignment)
		}
	}
	return assignments, nil
}

func (m *memoryAssignments) Create(_ context.Context, assignment types.Assignment) (types.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = assignment.CreatedAt
	m.items[assignment.ID] = assignment
	return assignment, nil
}

func (m *memoryAssignments) UpdateStatus(_ context.Context, id string, status types.AssignmentStatus) (types.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment, ok := m.items[id]
	if !ok {
		return types.Assignment{}, store.ErrNotFound
	}
	assignment.Status = status
	assignment.UpdatedAt = time.Now()
	m.items[id] = assignment
	return assignment, nil
}

func (m *memoryAssignments) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type memoryObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{objects: map[string][]byte{}}
}

func (m *memoryObjects) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryObjects) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}
