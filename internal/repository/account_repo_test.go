package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campus-portal/campus-api/internal/models"
)

func TestAccountRepositoryResolveProvisionsAndTracksRole(t *testing.T) {
	db := openTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	student, err := repo.Resolve(ctx, "s@school.edu", models.AccountRoleStudent)
	require.NoError(t, err)
	require.NotZero(t, student.ID)
	require.True(t, student.LeaderApproved)

	leader, err := repo.Resolve(ctx, "s@school.edu", models.AccountRoleLeader)
	require.NoError(t, err)
	require.Equal(t, student.ID, leader.ID)
	require.False(t, leader.LeaderApproved, "becoming a leader requires approval")

	pending, err := repo.ListPendingLeaders(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	approved, err := repo.ApproveLeader(ctx, "s@school.edu")
	require.NoError(t, err)
	require.True(t, approved)

	approved, err = repo.ApproveLeader(ctx, "s@school.edu")
	require.NoError(t, err)
	require.False(t, approved)

	again, err := repo.Resolve(ctx, "s@school.edu", models.AccountRoleLeader)
	require.NoError(t, err)
	require.True(t, again.LeaderApproved, "an unchanged role keeps its approval")
}

func TestAccountRepositoryResolveWithoutRoleKeepsStoredRole(t *testing.T) {
	db := openTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	fresh, err := repo.Resolve(ctx, "new@school.edu", "")
	require.NoError(t, err)
	require.Equal(t, models.AccountRoleStudent, fresh.Role)

	_, err = repo.Resolve(ctx, "lead@school.edu", models.AccountRoleLeader)
	require.NoError(t, err)
	_, err = repo.ApproveLeader(ctx, "lead@school.edu")
	require.NoError(t, err)

	kept, err := repo.Resolve(ctx, "lead@school.edu", "")
	require.NoError(t, err)
	require.Equal(t, models.AccountRoleLeader, kept.Role)
	require.True(t, kept.LeaderApproved)
	require.NotNil(t, kept.LeaderApprovedAt)

	_, err = repo.Resolve(ctx, "lead@school.edu", models.AccountRoleStudent)
	require.NoError(t, err)
	back, err := repo.Resolve(ctx, "lead@school.edu", models.AccountRoleLeader)
	require.NoError(t, err)
	require.True(t, back.LeaderApproved)
}
