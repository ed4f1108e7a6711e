package status

import (
	"context"
	"errors"
	"sync"

	"github.com/oshokin/motion-controller/internal/domain/mechanism"
)

// Repository defines storage operations for the controller snapshot.
type Repository interface {
	Load(ctx context.Context) (*mechanism.Snapshot, error)
	Save(ctx context.Context, snapshot *mechanism.Snapshot) error
}

// ErrNotFound is returned when nothing has been saved yet.
var ErrNotFound = errors.New("status not found")

// ErrNilSnapshot is returned when Save is called without a snapshot.
var ErrNilSnapshot = errors.New("snapshot is required")

// MemoryRepository keeps the snapshot in process memory.
type MemoryRepository struct {
	// mu guards snapshot.
	mu sync.RWMutex
	// snapshot is the last saved copy, nil until the first Save.
	snapshot *mechanism.Snapshot
	// saves counts successful Save calls.
	saves uint64
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return new(MemoryRepository)
}

// Load returns a copy of the last saved snapshot.
func (r *MemoryRepository) Load(_ context.Context) (*mechanism.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return nil, ErrNotFound
	}

	return r.snapshot.Clone(), nil
}

// Save replaces the stored snapshot with a copy of snapshot.
func (r *MemoryRepository) Save(_ context.Context, snapshot *mechanism.Snapshot) error {
	if snapshot == nil {
		return ErrNilSnapshot
	}

	cloned := snapshot.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshot = cloned
	r.saves++

	return nil
}

// Saves reports how many snapshots have been stored.
func (r *MemoryRepository) Saves() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.saves
}
