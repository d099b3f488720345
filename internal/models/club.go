package models

import "time"

// Club is a student organisation. It stays hidden from listings until approved.
type Club struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    *string   `gorm:"size:50" json:"category"`
	Approved    bool      `gorm:"not null;default:false;index" json:"approved"`
	CreatedBy   string    `gorm:"size:255;not null" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Membership roles and statuses.
const (
	MembershipRoleMember     = "member"
	MembershipRoleLeader     = "leader"
	MembershipStatusPending  = "pending"
	MembershipStatusApproved = "approved"
)

// ClubMember is one user's standing within a club.
type ClubMember struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ClubID       uint      `gorm:"not null;uniqueIndex:idx_club_member" json:"club_id"`
	UserIdentity string    `gorm:"size:255;not null;uniqueIndex:idx_club_member;index" json:"user_identity"`
	Role         string    `gorm:"size:20;not null;default:member" json:"role"`
	Status       string    `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ClubAnnouncement is an append-only broadcast posted by club leadership.
type ClubAnnouncement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClubID    uint      `gorm:"not null;index" json:"club_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
