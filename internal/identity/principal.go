package identity

import (
	"strings"
)

// Role is the coarse role a caller claims.
type Role string

// Supported roles.
const (
	RoleStudent Role = "student"
	RoleLeader  Role = "leader"
	RoleAdmin   Role = "admin"
)

// ParseRole normalises a role string. An empty value defaults to student.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case "", RoleStudent:
		return RoleStudent, true
	case RoleLeader:
		return RoleLeader, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// NormalizeIdentity lowercases and trims an identity key such as an email.
func NormalizeIdentity(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Principal is the caller of a domain operation. It is passed by value.
type Principal struct {
	Identity       string
	Role           Role
	LeaderApproved bool
}

// Anonymous reports whether the principal carries no identity.
func (p Principal) Anonymous() bool {
	return p.Identity == ""
}

// IsAdmin reports whether the principal is an administrator.
func (p Principal) IsAdmin() bool {
	return !p.Anonymous() && p.Role == RoleAdmin
}

// SuspendedLeader reports a leader account that is still awaiting admin approval.
func (p Principal) SuspendedLeader() bool {
	return p.Role == RoleLeader && !p.LeaderApproved
}
