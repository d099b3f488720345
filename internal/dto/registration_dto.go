package dto

import (
	"time"

	"github.com/campus-portal/campus-api/internal/models"
)

// RegistrationRequest captures the payload for registering to an event.
type RegistrationRequest struct {
	EventID uint `json:"event_id" validate:"required,min=1"`
}

// RegistrationResponse serializes a registration, optionally with its event.
type RegistrationResponse struct {
	ID           uint           `json:"id"`
	EventID      uint           `json:"event_id"`
	UserIdentity string         `json:"user_identity"`
	CreatedAt    time.Time      `json:"created_at"`
	Event        *EventResponse `json:"event,omitempty"`
}

// UnregisterResponse confirms a cancelled registration.
type UnregisterResponse struct {
	EventID      uint   `json:"event_id"`
	UserIdentity string `json:"user_identity"`
}

// NewRegistrationResponse converts a registration model into its DTO.
func NewRegistrationResponse(registration models.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:           registration.ID,
		EventID:      registration.EventID,
		UserIdentity: registration.UserIdentity,
		CreatedAt:    registration.CreatedAt.UTC(),
	}
}
