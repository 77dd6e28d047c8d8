// Package asset describes the external asset collaborator. Ownership and transfer of the
// rented asset live outside this system; only the contract is modelled here.
package asset

import (
	"context"
	"errors"
	"sync"

	"rental-escrow-backend/internal/domain"
)

var (
	ErrUnknownAsset = errors.New("asset: unknown asset")
	ErrNotOwner     = errors.New("asset: sender does not own asset")
)

type Registry interface {
	OwnerOf(ctx context.Context, id domain.AssetID) (string, error)
	Transfer(ctx context.Context, id domain.AssetID, from, to string) error
}

// MemoryRegistry is an in-process Registry.
type MemoryRegistry struct {
	mu     sync.RWMutex
	owners map[domain.AssetID]string
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{owners: make(map[domain.AssetID]string)}
}

// Mint records owner as the holder of id.
func (r *MemoryRegistry) Mint(id domain.AssetID, owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[id] = owner
}

func (r *MemoryRegistry) OwnerOf(ctx context.Context, id domain.AssetID) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[id]
	if !ok {
		return "", ErrUnknownAsset
	}
	return owner, nil
}

func (r *MemoryRegistry) Transfer(ctx context.Context, id domain.AssetID, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[id]
	if !ok {
		return ErrUnknownAsset
	}
	if owner != from {
		return ErrNotOwner
	}
	r.owners[id] = to
	return nil
}
