package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/campus-portal/campus-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// AdminActivityListRequest filters the audit trail.
type AdminActivityListRequest struct {
	Page       int
	PageSize   int
	Actor      string
	Action     string
	EntityType string
	EntityID   *uint
	Since      *time.Time
}

// AdminActivityResponse serializes activity log entries.
type AdminActivityResponse struct {
	ID         uint                   `json:"id"`
	Actor      string                 `json:"actor"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// AdminActivityListResponse wraps paginated activity logs.
type AdminActivityListResponse struct {
	Items      []AdminActivityResponse `json:"items"`
	Pagination PaginationMeta          `json:"pagination"`
}

// PendingLeaderResponse describes a leader account awaiting approval.
type PendingLeaderResponse struct {
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	LeaderApproved bool      `json:"leader_approved"`
	CreatedAt      time.Time `json:"created_at"`
}

// ClubApprovalResponse is returned after an admin approves a club.
type ClubApprovalResponse struct {
	Club   ClubSummary `json:"club"`
	Leader string      `json:"leader"`
}

// NewAdminActivityResponse converts a model into an activity DTO.
func NewAdminActivityResponse(entry models.ActivityLog) AdminActivityResponse {
	return AdminActivityResponse{
		ID:         entry.ID,
		Actor:      entry.Actor,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   metadataFromJSON(entry.Metadata),
		CreatedAt:  entry.CreatedAt,
	}
}

// NewPendingLeaderResponse converts an account into its admin view.
func NewPendingLeaderResponse(account models.Account) PendingLeaderResponse {
	return PendingLeaderResponse{
		Email:          account.Email,
		Role:           account.Role,
		LeaderApproved: account.LeaderApproved,
		CreatedAt:      account.CreatedAt,
	}
}

func metadataFromJSON(data datatypes.JSONMap) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}(data)
}
