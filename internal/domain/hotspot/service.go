// internal/domain/hotspot/service.go

package hotspot

import "context"

// Manager is the hotspot lifecycle interface: creation, bounded-field
// updates, membership and deletion. Every mutation keeps the cache tier
// and geospatial index consistent as a side effect.
type Manager interface {
	// Create stores a new hotspot. The creator becomes owner and first
	// attendee.
	Create(ctx context.Context, userID string, req *CreateRequest) (*Hotspot, error)

	// Get retrieves a hotspot by ID.
	Get(ctx context.Context, id string) (*Hotspot, error)

	// Update applies the provided fields. Owner only.
	Update(ctx context.Context, userID, id string, req *UpdateRequest) (*Hotspot, error)

	// Delete removes a hotspot. Owner only.
	Delete(ctx context.Context, userID, id string) error

	// Join adds the user to the hotspot's attendees.
	Join(ctx context.Context, userID, id string) (*Hotspot, error)

	// Leave removes the user. Ownership transfers to the earliest
	// remaining attendee; an emptied hotspot is deactivated, not deleted.
	Leave(ctx context.Context, userID, id string) (*Hotspot, error)

	// ListByOwner returns hotspots owned by a user.
	ListByOwner(ctx context.Context, ownerID string) ([]*Hotspot, error)
}
