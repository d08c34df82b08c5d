// internal/adapter/storage/memory_store.go

package storage

import (
	"context"
	"sync"

	"github.com/ladiesmans217/unalone/internal/domain/hotspot"
)

// MemoryStore is an in-process hotspot.Store used when Postgres is not
// configured, and by tests. Per-key operations are atomic under one
// mutex; stored records are copied on the way in and out so callers
// cannot mutate shared state through aliases.
type MemoryStore struct {
	mu       sync.RWMutex
	hotspots map[string]*hotspot.Hotspot
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		hotspots: make(map[string]*hotspot.Hotspot),
	}
}

// Get retrieves a hotspot by ID
func (s *MemoryStore) Get(ctx context.Context, id string) (*hotspot.Hotspot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.hotspots[id]
	if !ok {
		return nil, hotspot.ErrNotFound
	}
	return copyHotspot(h), nil
}

// GetMany retrieves hotspots by ID. Missing IDs are silently omitted.
func (s *MemoryStore) GetMany(ctx context.Context, ids []string) ([]*hotspot.Hotspot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hotspots []*hotspot.Hotspot
	for _, id := range ids {
		if h, ok := s.hotspots[id]; ok {
			hotspots = append(hotspots, copyHotspot(h))
		}
	}
	return hotspots, nil
}

// ListByOwner returns hotspots owned by a user
func (s *MemoryStore) ListByOwner(ctx context.Context, ownerID string) ([]*hotspot.Hotspot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hotspots []*hotspot.Hotspot
	for _, h := range s.hotspots {
		if h.OwnerID == ownerID {
			hotspots = append(hotspots, copyHotspot(h))
		}
	}
	return hotspots, nil
}

// List returns every stored hotspot
func (s *MemoryStore) List(ctx context.Context) ([]*hotspot.Hotspot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hotspots := make([]*hotspot.Hotspot, 0, len(s.hotspots))
	for _, h := range s.hotspots {
		hotspots = append(hotspots, copyHotspot(h))
	}
	return hotspots, nil
}

// Put creates or replaces a hotspot
func (s *MemoryStore) Put(ctx context.Context, h *hotspot.Hotspot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hotspots[h.ID] = copyHotspot(h)
	return nil
}

// Delete removes a hotspot
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hotspots[id]; !ok {
		return hotspot.ErrNotFound
	}
	delete(s.hotspots, id)
	return nil
}

// copyHotspot makes a deep copy of a hotspot record
func copyHotspot(h *hotspot.Hotspot) *hotspot.Hotspot {
	cp := *h
	cp.Tags = append([]string(nil), h.Tags...)
	cp.Attendees = append([]string(nil), h.Attendees...)
	if h.ScheduledTime != nil {
		t := *h.ScheduledTime
		cp.ScheduledTime = &t
	}
	if h.EndTime != nil {
		t := *h.EndTime
		cp.EndTime = &t
	}
	return &cp
}
