package models

import "time"

// Account roles mirror the roles a caller may claim.
const (
	AccountRoleStudent = "student"
	AccountRoleLeader  = "leader"
	AccountRoleAdmin   = "admin"
)

// Account stores what the portal knows about an identity beyond the request headers.
type Account struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Email          string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role           string `gorm:"size:20;not null;default:student" json:"role"`
	LeaderApproved bool   `gorm:"not null" json:"leader_approved"`
	// LeaderApprovedAt survives role changes so a returning leader keeps the grant.
	LeaderApprovedAt *time.Time `json:"leader_approved_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
