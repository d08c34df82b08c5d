// internal/service/hotspot/manager.go

package hotspot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/ladiesmans217/unalone/internal/domain/geo"
	"github.com/ladiesmans217/unalone/internal/domain/hotspot"
)

// ManagerConfig contains configuration for the hotspot manager
type ManagerConfig struct {
	EventsTopic string
}

// Manager implements hotspot.Manager. Mutations write through the store,
// keep the cache tier's geospatial index consistent and publish an event
// for each lifecycle change.
type Manager struct {
	store    hotspot.Store
	cache    geo.Cache
	eventBus *nats.Conn
	config   ManagerConfig
}

// NewManager creates a new hotspot manager. The event bus may be nil
// when NATS is not configured; events are then skipped.
func NewManager(store hotspot.Store, cache geo.Cache, eventBus *nats.Conn, config ManagerConfig) *Manager {
	if config.EventsTopic == "" {
		config.EventsTopic = "hotspots"
	}
	return &Manager{
		store:    store,
		cache:    cache,
		eventBus: eventBus,
		config:   config,
	}
}

// Create stores a new hotspot with the creator as owner and first
// attendee.
func (m *Manager) Create(ctx context.Context, userID string, req *hotspot.CreateRequest) (*hotspot.Hotspot, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	h := &hotspot.Hotspot{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		Location:         req.Location,
		OwnerID:          userID,
		MaxCapacity:      req.MaxCapacity,
		CurrentOccupancy: 1,
		IsActive:         true,
		IsPublic:         req.IsPublic,
		Tags:             req.Tags,
		ScheduledTime:    req.ScheduledTime,
		EndTime:          req.EndTime,
		Attendees:        []string{userID},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := m.store.Put(ctx, h); err != nil {
		return nil, fmt.Errorf("error saving hotspot: %w", err)
	}

	// Stale region entries covering this location predate the hotspot.
	m.cache.InvalidateForHotspot(ctx, h)
	m.cache.AddToGeoIndex(ctx, h)

	m.publishEvent(h, "created")
	return h, nil
}

// Get retrieves a hotspot by ID
func (m *Manager) Get(ctx context.Context, id string) (*hotspot.Hotspot, error) {
	return m.store.Get(ctx, id)
}

// Update applies the provided fields. Owner only.
func (m *Manager) Update(ctx context.Context, userID, id string, req *hotspot.UpdateRequest) (*hotspot.Hotspot, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	h, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.OwnerID != userID {
		return nil, hotspot.ErrNotOwner
	}

	prevLocation := h.Location

	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.Description != nil {
		h.Description = *req.Description
	}
	if req.Category != nil {
		h.Category = *req.Category
	}
	if req.Location != nil {
		h.Location = *req.Location
	}
	if req.MaxCapacity != nil {
		if *req.MaxCapacity > 0 && *req.MaxCapacity < h.CurrentOccupancy {
			return nil, fmt.Errorf("max capacity cannot be less than current occupancy")
		}
		h.MaxCapacity = *req.MaxCapacity
	}
	if req.IsPublic != nil {
		h.IsPublic = *req.IsPublic
	}
	if req.Tags != nil {
		h.Tags = req.Tags
	}
	if req.ScheduledTime != nil {
		h.ScheduledTime = req.ScheduledTime
	}
	if req.EndTime != nil {
		h.EndTime = req.EndTime
	}
	if req.IsActive != nil {
		h.IsActive = *req.IsActive
	}

	if err := validateSchedule(h); err != nil {
		return nil, err
	}

	h.UpdatedAt = time.Now()

	if err := m.store.Put(ctx, h); err != nil {
		return nil, fmt.Errorf("error saving hotspot: %w", err)
	}

	m.refreshCache(ctx, prevLocation, h)
	m.publishEvent(h, "updated")
	return h, nil
}

// Delete removes a hotspot. Owner only.
func (m *Manager) Delete(ctx context.Context, userID, id string) error {
	h, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if h.OwnerID != userID {
		return hotspot.ErrNotOwner
	}

	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}

	m.cache.InvalidateForHotspot(ctx, h)
	m.publishEvent(h, "deleted")
	return nil
}

// Join adds the user to the hotspot's attendees
func (m *Manager) Join(ctx context.Context, userID, id string) (*hotspot.Hotspot, error) {
	h, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !h.IsActive {
		return nil, hotspot.ErrNotActive
	}
	if h.IsAttendee(userID) {
		return nil, hotspot.ErrAlreadyAttendee
	}
	if !h.HasCapacity() {
		return nil, hotspot.ErrAtCapacity
	}

	h.Attendees = append(h.Attendees, userID)
	h.CurrentOccupancy = len(h.Attendees)
	h.UpdatedAt = time.Now()

	if err := m.store.Put(ctx, h); err != nil {
		return nil, fmt.Errorf("error saving hotspot: %w", err)
	}

	m.refreshCache(ctx, h.Location, h)
	m.publishEvent(h, "joined")
	return h, nil
}

// Leave removes the user from the hotspot. Ownership transfers to the
// earliest remaining attendee; an emptied hotspot is deactivated rather
// than deleted.
func (m *Manager) Leave(ctx context.Context, userID, id string) (*hotspot.Hotspot, error) {
	h, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, attendeeID := range h.Attendees {
		if attendeeID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, hotspot.ErrNotAttendee
	}

	h.Attendees = append(h.Attendees[:idx], h.Attendees[idx+1:]...)
	h.CurrentOccupancy = len(h.Attendees)
	h.UpdatedAt = time.Now()

	if h.OwnerID == userID && len(h.Attendees) > 0 {
		h.OwnerID = h.Attendees[0]
	}
	if len(h.Attendees) == 0 {
		h.IsActive = false
	}

	if err := m.store.Put(ctx, h); err != nil {
		return nil, fmt.Errorf("error saving hotspot: %w", err)
	}

	m.refreshCache(ctx, h.Location, h)
	m.publishEvent(h, "left")
	return h, nil
}

// ListByOwner returns hotspots owned by a user
func (m *Manager) ListByOwner(ctx context.Context, ownerID string) ([]*hotspot.Hotspot, error) {
	return m.store.ListByOwner(ctx, ownerID)
}

// refreshCache invalidates cached regions around the previous and (if
// moved) current location, then re-registers the hotspot in the geo
// index while it remains active.
func (m *Manager) refreshCache(ctx context.Context, prevLocation hotspot.Location, h *hotspot.Hotspot) {
	prev := *h
	prev.Location = prevLocation
	m.cache.InvalidateForHotspot(ctx, &prev)

	if prevLocation != h.Location {
		m.cache.InvalidateForHotspot(ctx, h)
	}

	if h.IsActive {
		m.cache.AddToGeoIndex(ctx, h)
	}
}

func validateSchedule(h *hotspot.Hotspot) error {
	if h.ScheduledTime != nil && h.EndTime != nil && h.EndTime.Before(*h.ScheduledTime) {
		return hotspot.ErrInvalidSchedule
	}
	return nil
}

// hotspotEvent is the payload published on hotspot lifecycle changes
type hotspotEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Event     string    `json:"event"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Occupancy int       `json:"occupancy"`
	IsActive  bool      `json:"is_active"`
	Time      time.Time `json:"time"`
}

// publishEvent publishes a hotspot event to the event bus
func (m *Manager) publishEvent(h *hotspot.Hotspot, eventType string) {
	if m.eventBus == nil {
		return
	}

	data, err := json.Marshal(hotspotEvent{
		ID:        h.ID,
		Name:      h.Name,
		Event:     eventType,
		Latitude:  h.Location.Latitude,
		Longitude: h.Location.Longitude,
		Occupancy: h.CurrentOccupancy,
		IsActive:  h.IsActive,
		Time:      time.Now(),
	})
	if err != nil {
		log.Printf("error marshaling hotspot event: %v", err)
		return
	}

	topic := fmt.Sprintf("%s.%s", m.config.EventsTopic, eventType)
	if err := m.eventBus.Publish(topic, data); err != nil {
		log.Printf("error publishing hotspot event: %v", err)
	}
}
