package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campus-portal/campus-api/internal/models"
)

func TestMembershipRepositoryJoinApproveLeave(t *testing.T) {
	db := openTestDB(t)
	repo := NewMembershipRepository(db)
	ctx := context.Background()

	created, err := repo.CreateIfAbsent(ctx, &models.ClubMember{ClubID: 1, UserIdentity: "s@school.edu", Role: models.MembershipRoleMember, Status: models.MembershipStatusPending})
	require.NoError(t, err)
	require.True(t, created)

	created, err = repo.CreateIfAbsent(ctx, &models.ClubMember{ClubID: 1, UserIdentity: "s@school.edu", Role: models.MembershipRoleMember, Status: models.MembershipStatusPending})
	require.NoError(t, err)
	require.False(t, created, "second join should converge on the existing row")

	pending, err := repo.ListByClub(ctx, 1, models.MembershipStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	moved, err := repo.Transition(ctx, 1, "s@school.edu", models.MembershipStatusPending, models.MembershipStatusApproved)
	require.NoError(t, err)
	require.True(t, moved)

	moved, err = repo.Transition(ctx, 1, "s@school.edu", models.MembershipStatusPending, models.MembershipStatusApproved)
	require.NoError(t, err)
	require.False(t, moved)

	counts, err := repo.CountApprovedByClubs(ctx, []uint{1, 2})
	require.NoError(t, err)
	require.Equal(t, int64(1), counts[1])

	removed, err := repo.Delete(ctx, 1, "s@school.edu")
	require.NoError(t, err)
	require.True(t, removed)

	_, err = repo.Find(ctx, 1, "s@school.edu")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestMembershipRepositoryUpsertLeaderPromotesExistingRow(t *testing.T) {
	db := openTestDB(t)
	repo := NewMembershipRepository(db)
	ctx := context.Background()

	_, err := repo.CreateIfAbsent(ctx, &models.ClubMember{ClubID: 3, UserIdentity: "lead@school.edu", Role: models.MembershipRoleMember, Status: models.MembershipStatusPending})
	require.NoError(t, err)

	require.NoError(t, repo.UpsertLeader(ctx, 3, "lead@school.edu"))
	require.NoError(t, repo.UpsertLeader(ctx, 3, "lead@school.edu"))

	member, err := repo.Find(ctx, 3, "lead@school.edu")
	require.NoError(t, err)
	require.Equal(t, models.MembershipRoleLeader, member.Role)
	require.Equal(t, models.MembershipStatusApproved, member.Status)

	mine, err := repo.ListByUser(ctx, "lead@school.edu", models.MembershipStatusApproved)
	require.NoError(t, err)
	require.Len(t, mine, 1)
}
