package identity

import (
	"github.com/campus-portal/campus-api/internal/apperrors"
	"github.com/campus-portal/campus-api/internal/models"
)

// ClubStanding is the caller's membership in one club, as seen by the authorizer.
type ClubStanding struct {
	Role   string
	Status string
}

// ApprovedLeader reports an approved leader-role membership.
func (s *ClubStanding) ApprovedLeader() bool {
	return s != nil && s.Role == models.MembershipRoleLeader && s.Status == models.MembershipStatusApproved
}

var (
	errIdentityRequired = apperrors.New(apperrors.KindUnauthorized, apperrors.ReasonIdentityRequired, "identity required")
	errAdminRequired    = apperrors.Forbidden(apperrors.ReasonAdminRequired, "admin access required")
	errLeaderRequired   = apperrors.Forbidden(apperrors.ReasonLeaderRequired, "leader access required for this club")
)

// RequireAuthenticated fails with Unauthorized for anonymous callers.
func RequireAuthenticated(p Principal) error {
	if p.Anonymous() {
		return errIdentityRequired
	}
	return nil
}

// RequireAdmin fails unless the principal is an administrator.
func RequireAdmin(p Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return errAdminRequired
	}
	return nil
}

// CanManageClub is the single predicate for club-scoped mutations: approving
// members, posting announcements, creating and deleting club events.
// A leader account still awaiting approval cannot use its club memberships.
func CanManageClub(p Principal, standing *ClubStanding) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.IsAdmin() {
		return nil
	}
	if p.SuspendedLeader() || !standing.ApprovedLeader() {
		return errLeaderRequired
	}
	return nil
}
