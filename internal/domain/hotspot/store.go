// internal/domain/hotspot/store.go

package hotspot

import (
	"context"
	"errors"
)

// Store errors
var (
	// ErrNotFound is returned when a hotspot does not exist.
	ErrNotFound = errors.New("hotspot not found")

	// ErrNotOwner is returned when a mutation requires ownership.
	ErrNotOwner = errors.New("only the owner can modify this hotspot")

	// ErrNotActive is returned when joining an inactive hotspot.
	ErrNotActive = errors.New("hotspot is not active")

	// ErrAlreadyAttendee is returned when joining a hotspot twice.
	ErrAlreadyAttendee = errors.New("user is already in this hotspot")

	// ErrNotAttendee is returned when leaving a hotspot the user is not in.
	ErrNotAttendee = errors.New("user is not in this hotspot")

	// ErrAtCapacity is returned when a hotspot has no available spots.
	ErrAtCapacity = errors.New("hotspot is at maximum capacity")
)

// Store is the keyed-record contract the search and management services
// depend on. Implementations guarantee per-key atomicity and nothing more;
// callers never assume transactional consistency across calls.
type Store interface {
	// Get retrieves a hotspot by ID, returning ErrNotFound when absent.
	Get(ctx context.Context, id string) (*Hotspot, error)

	// GetMany retrieves hotspots by ID. Missing IDs are silently omitted.
	GetMany(ctx context.Context, ids []string) ([]*Hotspot, error)

	// ListByOwner returns hotspots owned by a user.
	ListByOwner(ctx context.Context, ownerID string) ([]*Hotspot, error)

	// List returns every stored hotspot. Used by the brute-force
	// fallback path when the geospatial index is unavailable.
	List(ctx context.Context) ([]*Hotspot, error)

	// Put creates or replaces a hotspot.
	Put(ctx context.Context, h *Hotspot) error

	// Delete removes a hotspot, returning ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}
