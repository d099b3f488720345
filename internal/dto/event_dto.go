package dto

import (
	"time"

	"github.com/campus-portal/campus-api/internal/models"
)

// EventCreateRequest captures the payload for creating an event.
type EventCreateRequest struct {
	Title      string    `json:"title" validate:"required,min=1,max=200"`
	StartsAt   time.Time `json:"starts_at" validate:"required"`
	Location   string    `json:"location" validate:"required,min=1,max=200"`
	Capacity   *int      `json:"capacity" validate:"omitempty,min=1"`
	PriceCents int       `json:"price_cents" validate:"min=0"`
	Category   string    `json:"category" validate:"omitempty,max=50"`
	ClubID     *uint     `json:"club_id" validate:"omitempty,min=1"`
}

// EventSearchRequest defines filters for event listings. Zero values are ignored.
type EventSearchRequest struct {
	Start    *time.Time
	End      *time.Time
	Category string
	Title    string
	Location string
	Query    string
	FreeOnly bool
	Upcoming bool
	ClubID   *uint
	Sort     string
}

// EventResponse serializes an event together with its registration count.
type EventResponse struct {
	ID                uint      `json:"id"`
	ClubID            *uint     `json:"club_id"`
	Title             string    `json:"title"`
	StartsAt          time.Time `json:"starts_at"`
	Location          string    `json:"location"`
	Capacity          *int      `json:"capacity"`
	PriceCents        int       `json:"price_cents"`
	Category          string    `json:"category"`
	RegistrationCount int64     `json:"registration_count"`
	SeatsRemaining    *int64    `json:"seats_remaining"`
	CreatedBy         string    `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
}

// EventDeleteResponse reports what an event deletion removed.
type EventDeleteResponse struct {
	ID                   uint  `json:"id"`
	RemovedRegistrations int64 `json:"removed_registrations"`
}

// NewEventResponse converts an event row into its DTO.
func NewEventResponse(row models.EventWithCount) EventResponse {
	resp := EventResponse{
		ID:                row.ID,
		ClubID:            row.ClubID,
		Title:             row.Title,
		StartsAt:          row.StartsAt.UTC(),
		Location:          row.Location,
		Capacity:          row.Capacity,
		PriceCents:        row.PriceCents,
		Category:          row.Category,
		RegistrationCount: row.RegistrationCount,
		CreatedBy:         row.CreatedBy,
		CreatedAt:         row.CreatedAt.UTC(),
	}
	if row.Capacity != nil {
		remaining := int64(*row.Capacity) - row.RegistrationCount
		if remaining < 0 {
			remaining = 0
		}
		resp.SeatsRemaining = &remaining
	}
	return resp
}

// NewEventResponses converts a list of event rows.
func NewEventResponses(rows []models.EventWithCount) []EventResponse {
	items := make([]EventResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewEventResponse(row))
	}
	return items
}
