package contentstore

import (
	"context"
	"sync"

	"github.com/avolkovx/listsync/internal/common"
	"github.com/avolkovx/listsync/internal/server/models"
)

// MemoryStore is an in-memory Store used in tests and single-node setups.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]models.ListContent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]models.ListContent)}
}

func (s *MemoryStore) Load(ctx context.Context, ownerID, listID string) (*models.ListContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.blobs[storageKey(ownerID, listID)]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := content
	cp.Products = append([]models.Product(nil), content.Products...)
	return &cp, nil
}

func (s *MemoryStore) Store(ctx context.Context, ownerID, listID string, content *models.ListContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[storageKey(ownerID, listID)] = *content
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, ownerID, listID string, content *models.ListContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storageKey(ownerID, listID)
	if _, ok := s.blobs[key]; !ok {
		return common.ErrNotFound
	}
	s.blobs[key] = *content
	return nil
}

func (s *MemoryStore) Move(ctx context.Context, oldOwnerID, newOwnerID, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldKey := storageKey(oldOwnerID, listID)
	content, ok := s.blobs[oldKey]
	if !ok {
		return common.ErrNotFound
	}
	delete(s.blobs, oldKey)
	s.blobs[storageKey(newOwnerID, listID)] = content
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, ownerID, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storageKey(ownerID, listID)
	if _, ok := s.blobs[key]; !ok {
		return common.ErrNotFound
	}
	delete(s.blobs, key)
	return nil
}
