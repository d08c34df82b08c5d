// internal/adapter/storage/hotspot_store.go

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ladiesmans217/unalone/internal/domain/hotspot"
)

// HotspotStore implements hotspot.Store on Postgres
type HotspotStore struct {
	db *pgxpool.Pool
}

// NewHotspotStore creates a new hotspot store
func NewHotspotStore(db *pgxpool.Pool) *HotspotStore {
	return &HotspotStore{
		db: db,
	}
}

const hotspotColumns = `
	id, name, description, category,
	latitude, longitude, owner_id,
	max_capacity, current_occupancy, is_active, is_public,
	tags, scheduled_time, end_time, attendees,
	created_at, updated_at
`

// Put creates or replaces a hotspot
func (s *HotspotStore) Put(ctx context.Context, h *hotspot.Hotspot) error {
	query := `
		INSERT INTO hotspots (
			id, name, description, category,
			latitude, longitude, owner_id,
			max_capacity, current_occupancy, is_active, is_public,
			tags, scheduled_time, end_time, attendees,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14, $15,
			$16, $17
		)
		ON CONFLICT (id) DO UPDATE
		SET
			name = $2,
			description = $3,
			category = $4,
			latitude = $5,
			longitude = $6,
			owner_id = $7,
			max_capacity = $8,
			current_occupancy = $9,
			is_active = $10,
			is_public = $11,
			tags = $12,
			scheduled_time = $13,
			end_time = $14,
			attendees = $15,
			updated_at = $17
	`

	_, err := s.db.Exec(
		ctx,
		query,
		h.ID,
		h.Name,
		h.Description,
		string(h.Category),
		h.Location.Latitude,
		h.Location.Longitude,
		h.OwnerID,
		h.MaxCapacity,
		h.CurrentOccupancy,
		h.IsActive,
		h.IsPublic,
		h.Tags,
		h.ScheduledTime,
		h.EndTime,
		h.Attendees,
		h.CreatedAt,
		h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving hotspot: %w", err)
	}

	return nil
}

// Get retrieves a hotspot by ID
func (s *HotspotStore) Get(ctx context.Context, id string) (*hotspot.Hotspot, error) {
	query := `SELECT ` + hotspotColumns + ` FROM hotspots WHERE id = $1`

	h, err := scanHotspot(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, hotspot.ErrNotFound
		}
		return nil, fmt.Errorf("error querying hotspot: %w", err)
	}

	return h, nil
}

// GetMany retrieves hotspots by ID. Missing IDs are silently omitted.
func (s *HotspotStore) GetMany(ctx context.Context, ids []string) ([]*hotspot.Hotspot, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + hotspotColumns + ` FROM hotspots WHERE id = ANY($1)`

	rows, err := s.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("error querying hotspots: %w", err)
	}
	defer rows.Close()

	return collectHotspots(rows)
}

// ListByOwner returns hotspots owned by a user
func (s *HotspotStore) ListByOwner(ctx context.Context, ownerID string) ([]*hotspot.Hotspot, error) {
	query := `SELECT ` + hotspotColumns + ` FROM hotspots WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error querying hotspots by owner: %w", err)
	}
	defer rows.Close()

	return collectHotspots(rows)
}

// List returns every stored hotspot
func (s *HotspotStore) List(ctx context.Context) ([]*hotspot.Hotspot, error) {
	query := `SELECT ` + hotspotColumns + ` FROM hotspots`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing hotspots: %w", err)
	}
	defer rows.Close()

	return collectHotspots(rows)
}

// Delete removes a hotspot
func (s *HotspotStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM hotspots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting hotspot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return hotspot.ErrNotFound
	}

	return nil
}

// scanHotspot reads one hotspot row
func scanHotspot(row pgx.Row) (*hotspot.Hotspot, error) {
	var h hotspot.Hotspot
	var category string

	err := row.Scan(
		&h.ID,
		&h.Name,
		&h.Description,
		&category,
		&h.Location.Latitude,
		&h.Location.Longitude,
		&h.OwnerID,
		&h.MaxCapacity,
		&h.CurrentOccupancy,
		&h.IsActive,
		&h.IsPublic,
		&h.Tags,
		&h.ScheduledTime,
		&h.EndTime,
		&h.Attendees,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	h.Category = hotspot.Category(category)
	return &h, nil
}

// collectHotspots reads every row of a result set
func collectHotspots(rows pgx.Rows) ([]*hotspot.Hotspot, error) {
	var hotspots []*hotspot.Hotspot
	for rows.Next() {
		h, err := scanHotspot(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning hotspot: %w", err)
		}
		hotspots = append(hotspots, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return hotspots, nil
}
