package dto

import (
	"time"

	"github.com/campus-portal/campus-api/internal/models"
)

// Join outcomes.
const (
	JoinOutcomeRequested     = "requested"
	JoinOutcomePending       = "pending"
	JoinOutcomeAlreadyMember = "already_member"
)

// ClubCreateRequest captures the payload for proposing a club.
type ClubCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Description string  `json:"description" validate:"omitempty,max=4000"`
	Category    *string `json:"category" validate:"omitempty,max=50"`
}

// ClubListRequest defines filters for the club directory.
type ClubListRequest struct {
	Search   string
	Category string
}

// MembershipStanding is the caller's role and status in a club.
type MembershipStanding struct {
	Role   string `json:"role"`
	Status string `json:"status"`
}

// ClubSummary serializes a club with aggregate counts.
type ClubSummary struct {
	ID                 uint                `json:"id"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	Category           *string             `json:"category"`
	Approved           bool                `json:"approved"`
	CreatedBy          string              `json:"created_by"`
	CreatedAt          time.Time           `json:"created_at"`
	MemberCount        int64               `json:"member_count"`
	UpcomingEventCount int64               `json:"upcoming_event_count"`
	Membership         *MembershipStanding `json:"membership"`
}

// MemberResponse serializes one membership row.
type MemberResponse struct {
	ClubID       uint      `json:"club_id"`
	UserIdentity string    `json:"user_identity"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// ClubDetailResponse is the full club page.
type ClubDetailResponse struct {
	Club           ClubSummary            `json:"club"`
	Members        []MemberResponse       `json:"members"`
	Announcements  []AnnouncementResponse `json:"announcements"`
	UpcomingEvents []EventResponse        `json:"upcoming_events"`
}

// JoinResponse reports the result of a join request.
type JoinResponse struct {
	ClubID  uint   `json:"club_id"`
	Outcome string `json:"outcome"`
	Status  string `json:"status"`
	Role    string `json:"role"`
}

// LeaveResponse reports the result of leaving a club.
type LeaveResponse struct {
	ClubID  uint `json:"club_id"`
	Removed bool `json:"removed"`
}

// AnnouncementCreateRequest captures the payload for a club announcement.
type AnnouncementCreateRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
	Body  string `json:"body" validate:"required,min=1,max=10000"`
}

// AnnouncementResponse serializes a club announcement.
type AnnouncementResponse struct {
	ID        uint      `json:"id"`
	ClubID    uint      `json:"club_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewClubSummary converts a club model into its summary DTO without counts.
func NewClubSummary(club models.Club) ClubSummary {
	return ClubSummary{
		ID:          club.ID,
		Name:        club.Name,
		Description: club.Description,
		Category:    club.Category,
		Approved:    club.Approved,
		CreatedBy:   club.CreatedBy,
		CreatedAt:   club.CreatedAt.UTC(),
	}
}

// NewMemberResponse converts a membership model into its DTO.
func NewMemberResponse(member models.ClubMember) MemberResponse {
	return MemberResponse{
		ClubID:       member.ClubID,
		UserIdentity: member.UserIdentity,
		Role:         member.Role,
		Status:       member.Status,
		CreatedAt:    member.CreatedAt.UTC(),
	}
}

// NewAnnouncementResponse converts an announcement model into its DTO.
func NewAnnouncementResponse(item models.ClubAnnouncement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        item.ID,
		ClubID:    item.ClubID,
		Title:     item.Title,
		Body:      item.Body,
		CreatedAt: item.CreatedAt.UTC(),
	}
}
