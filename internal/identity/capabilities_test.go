package identity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campus-portal/campus-api/internal/apperrors"
	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/models"
)

func TestParseRole(t *testing.T) {
	role, ok := identity.ParseRole(" Leader ")
	require.True(t, ok)
	require.Equal(t, identity.RoleLeader, role)

	role, ok = identity.ParseRole("")
	require.True(t, ok)
	require.Equal(t, identity.RoleStudent, role)

	_, ok = identity.ParseRole("staff")
	require.False(t, ok)
}

func TestCanManageClub(t *testing.T) {
	leaderStanding := &identity.ClubStanding{Role: models.MembershipRoleLeader, Status: models.MembershipStatusApproved}
	pendingLeader := &identity.ClubStanding{Role: models.MembershipRoleLeader, Status: models.MembershipStatusPending}
	member := &identity.ClubStanding{Role: models.MembershipRoleMember, Status: models.MembershipStatusApproved}

	cases := []struct {
		name      string
		principal identity.Principal
		standing  *identity.ClubStanding
		kind      apperrors.Kind
	}{
		{"anonymous", identity.Principal{}, leaderStanding, apperrors.KindUnauthorized},
		{"admin without membership", identity.Principal{Identity: "a@x.edu", Role: identity.RoleAdmin}, nil, ""},
		{"approved leader", identity.Principal{Identity: "l@x.edu", Role: identity.RoleLeader, LeaderApproved: true}, leaderStanding, ""},
		{"student holding leader membership", identity.Principal{Identity: "s@x.edu", Role: identity.RoleStudent, LeaderApproved: true}, leaderStanding, ""},
		{"suspended leader", identity.Principal{Identity: "l@x.edu", Role: identity.RoleLeader}, leaderStanding, apperrors.KindForbidden},
		{"pending leader membership", identity.Principal{Identity: "l@x.edu", Role: identity.RoleLeader, LeaderApproved: true}, pendingLeader, apperrors.KindForbidden},
		{"plain member", identity.Principal{Identity: "m@x.edu", Role: identity.RoleStudent, LeaderApproved: true}, member, apperrors.KindForbidden},
		{"no membership", identity.Principal{Identity: "m@x.edu", Role: identity.RoleLeader, LeaderApproved: true}, nil, apperrors.KindForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := identity.CanManageClub(tc.principal, tc.standing)
			if tc.kind == "" {
				require.NoError(t, err)
				return
			}
			require.Equal(t, tc.kind, apperrors.KindOf(err))
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	require.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(identity.RequireAdmin(identity.Principal{})))
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(identity.RequireAdmin(identity.Principal{Identity: "s@x.edu", Role: identity.RoleStudent})))
	require.NoError(t, identity.RequireAdmin(identity.Principal{Identity: "a@x.edu", Role: identity.RoleAdmin}))
}
