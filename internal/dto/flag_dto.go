package dto

import (
	"time"

	"github.com/campus-portal/campus-api/internal/models"
)

// FlagCreateRequest captures a moderation report.
type FlagCreateRequest struct {
	ItemType string `json:"item_type" validate:"required"`
	ItemID   uint   `json:"item_id" validate:"required,min=1"`
	Reason   string `json:"reason" validate:"required,max=2000"`
}

// FlagListRequest defines filters for the moderation queue.
type FlagListRequest struct {
	IncludeResolved bool
	ItemType        string
}

// FlagResponse serializes a flag.
type FlagResponse struct {
	ID         uint       `json:"id"`
	ItemType   string     `json:"item_type"`
	ItemID     uint       `json:"item_id"`
	Reason     string     `json:"reason"`
	ReportedBy string     `json:"reported_by"`
	Resolved   bool       `json:"resolved"`
	ResolvedBy string     `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewFlagResponse converts a flag model into its DTO.
func NewFlagResponse(flag models.Flag) FlagResponse {
	return FlagResponse{
		ID:         flag.ID,
		ItemType:   flag.ItemType,
		ItemID:     flag.ItemID,
		Reason:     flag.Reason,
		ReportedBy: flag.ReportedBy,
		Resolved:   flag.Resolved,
		ResolvedBy: flag.ResolvedBy,
		ResolvedAt: flag.ResolvedAt,
		CreatedAt:  flag.CreatedAt.UTC(),
	}
}
