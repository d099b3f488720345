package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-portal/campus-api/internal/models"
)

// AnnouncementRepository exposes persistence helpers for club announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.ClubAnnouncement) error
	ListByClub(ctx context.Context, clubID uint, limit int) ([]models.ClubAnnouncement, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository constructs the repository implementation.
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.ClubAnnouncement) error {
	return conn(ctx, r.db).Create(announcement).Error
}

// ListByClub returns the newest announcements first. A non-positive limit returns all of them.
func (r *announcementRepository) ListByClub(ctx context.Context, clubID uint, limit int) ([]models.ClubAnnouncement, error) {
	query := conn(ctx, r.db).Where("club_id = ?", clubID).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var items []models.ClubAnnouncement
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *announcementRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&models.ClubAnnouncement{}).Where("id = ?", id).Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}
