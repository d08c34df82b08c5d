// internal/domain/hotspot/requests.go

package hotspot

import (
	"errors"
	"time"
)

// Validation errors
var (
	ErrInvalidCategory = errors.New("unknown hotspot category")
	ErrInvalidLocation = errors.New("location coordinates out of range")
	ErrTooManyTags     = errors.New("too many tags")
	ErrInvalidSchedule = errors.New("end time cannot be before scheduled time")
)

// CreateRequest describes a new hotspot. The authenticated creator
// becomes the owner and first attendee.
type CreateRequest struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Category      Category   `json:"category"`
	Location      Location   `json:"location"`
	MaxCapacity   int        `json:"max_capacity"`
	IsPublic      bool       `json:"is_public"`
	Tags          []string   `json:"tags"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
}

// Validate checks the request's bounded fields.
func (r *CreateRequest) Validate() error {
	if !r.Category.Valid() {
		return ErrInvalidCategory
	}
	if err := validateLocation(r.Location); err != nil {
		return err
	}
	if len(r.Tags) > MaxTags {
		return ErrTooManyTags
	}
	return validateSchedule(r.ScheduledTime, r.EndTime)
}

// UpdateRequest carries optional field updates; nil means unchanged.
type UpdateRequest struct {
	Name          *string    `json:"name,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Category      *Category  `json:"category,omitempty"`
	Location      *Location  `json:"location,omitempty"`
	MaxCapacity   *int       `json:"max_capacity,omitempty"`
	IsPublic      *bool      `json:"is_public,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
}

// Validate checks the provided fields.
func (r *UpdateRequest) Validate() error {
	if r.Category != nil && !r.Category.Valid() {
		return ErrInvalidCategory
	}
	if r.Location != nil {
		if err := validateLocation(*r.Location); err != nil {
			return err
		}
	}
	if len(r.Tags) > MaxTags {
		return ErrTooManyTags
	}
	return nil
}

func validateLocation(loc Location) error {
	if loc.Latitude < -90 || loc.Latitude > 90 ||
		loc.Longitude < -180 || loc.Longitude > 180 {
		return ErrInvalidLocation
	}
	return nil
}

func validateSchedule(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidSchedule
	}
	return nil
}
