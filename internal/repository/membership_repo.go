package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campus-portal/campus-api/internal/models"
)

// MembershipRepository persists club memberships.
type MembershipRepository interface {
	Find(ctx context.Context, clubID uint, userIdentity string) (models.ClubMember, error)
	CreateIfAbsent(ctx context.Context, member *models.ClubMember) (bool, error)
	Transition(ctx context.Context, clubID uint, userIdentity, fromStatus, toStatus string) (bool, error)
	UpsertLeader(ctx context.Context, clubID uint, userIdentity string) error
	Delete(ctx context.Context, clubID uint, userIdentity string) (bool, error)
	ListByClub(ctx context.Context, clubID uint, status string) ([]models.ClubMember, error)
	ListByUser(ctx context.Context, userIdentity, status string) ([]models.ClubMember, error)
	CountApprovedByClubs(ctx context.Context, clubIDs []uint) (map[uint]int64, error)
}

type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository constructs a GORM-backed repository.
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Find(ctx context.Context, clubID uint, userIdentity string) (models.ClubMember, error) {
	var member models.ClubMember
	err := conn(ctx, r.db).
		Where("club_id = ? AND user_identity = ?", clubID, userIdentity).
		First(&member).Error
	if err != nil {
		return models.ClubMember{}, err
	}
	return member, nil
}

// CreateIfAbsent inserts the membership unless one already exists for the pair.
func (r *membershipRepository) CreateIfAbsent(ctx context.Context, member *models.ClubMember) (bool, error) {
	result := conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "club_id"}, {Name: "user_identity"}},
			DoNothing: true,
		}).
		Create(member)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Transition moves a membership between statuses only when it is currently in fromStatus.
func (r *membershipRepository) Transition(ctx context.Context, clubID uint, userIdentity, fromStatus, toStatus string) (bool, error) {
	result := conn(ctx, r.db).Model(&models.ClubMember{}).
		Where("club_id = ? AND user_identity = ? AND status = ?", clubID, userIdentity, fromStatus).
		Updates(map[string]interface{}{"status": toStatus, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *membershipRepository) UpsertLeader(ctx context.Context, clubID uint, userIdentity string) error {
	now := time.Now().UTC()
	member := models.ClubMember{
		ClubID:       clubID,
		UserIdentity: userIdentity,
		Role:         models.MembershipRoleLeader,
		Status:       models.MembershipStatusApproved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "club_id"}, {Name: "user_identity"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "status", "updated_at"}),
		}).
		Create(&member).Error
}

func (r *membershipRepository) Delete(ctx context.Context, clubID uint, userIdentity string) (bool, error) {
	result := conn(ctx, r.db).
		Where("club_id = ? AND user_identity = ?", clubID, userIdentity).
		Delete(&models.ClubMember{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *membershipRepository) ListByClub(ctx context.Context, clubID uint, status string) ([]models.ClubMember, error) {
	query := conn(ctx, r.db).Where("club_id = ?", clubID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var members []models.ClubMember
	if err := query.Order("id ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *membershipRepository) ListByUser(ctx context.Context, userIdentity, status string) ([]models.ClubMember, error) {
	query := conn(ctx, r.db).Where("user_identity = ?", userIdentity)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var members []models.ClubMember
	if err := query.Order("club_id ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *membershipRepository) CountApprovedByClubs(ctx context.Context, clubIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(clubIDs))
	if len(clubIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ClubID uint
		Total  int64
	}
	err := conn(ctx, r.db).Model(&models.ClubMember{}).
		Select("club_id, COUNT(id) AS total").
		Where("club_id IN ? AND status = ?", clubIDs, models.MembershipStatusApproved).
		Group("club_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ClubID] = row.Total
	}
	return counts, nil
}
