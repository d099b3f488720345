package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/repository"
)

// clubManager resolves the caller's standing in a club and applies the
// club-management predicate.
type clubManager struct {
	memberships repository.MembershipRepository
}

func (m clubManager) authorize(ctx context.Context, principal identity.Principal, clubID uint) error {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return err
	}
	if principal.IsAdmin() {
		return nil
	}

	member, err := m.memberships.Find(ctx, clubID, principal.Identity)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return identity.CanManageClub(principal, nil)
	case err != nil:
		return err
	}
	return identity.CanManageClub(principal, &identity.ClubStanding{Role: member.Role, Status: member.Status})
}
