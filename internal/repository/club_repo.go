package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/campus-portal/campus-api/internal/models"
)

// ClubFilter narrows club listings.
type ClubFilter struct {
	Approved *bool
	Search   string
	Category string
	IDs      []uint
}

// ClubRepository persists clubs.
type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	FindByID(ctx context.Context, id uint) (models.Club, error)
	FindByName(ctx context.Context, name string) (models.Club, error)
	List(ctx context.Context, filter ClubFilter) ([]models.Club, error)
	MarkApproved(ctx context.Context, id uint) (bool, error)
}

type clubRepository struct {
	db *gorm.DB
}

// NewClubRepository constructs a GORM-backed repository.
func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

func (r *clubRepository) Create(ctx context.Context, club *models.Club) error {
	return conn(ctx, r.db).Create(club).Error
}

func (r *clubRepository) FindByID(ctx context.Context, id uint) (models.Club, error) {
	var club models.Club
	if err := conn(ctx, r.db).First(&club, id).Error; err != nil {
		return models.Club{}, err
	}
	return club, nil
}

func (r *clubRepository) FindByName(ctx context.Context, name string) (models.Club, error) {
	var club models.Club
	if err := conn(ctx, r.db).Where("name = ?", name).First(&club).Error; err != nil {
		return models.Club{}, err
	}
	return club, nil
}

func (r *clubRepository) List(ctx context.Context, filter ClubFilter) ([]models.Club, error) {
	query := conn(ctx, r.db).Model(&models.Club{})

	if filter.Approved != nil {
		query = query.Where("approved = ?", *filter.Approved)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return []models.Club{}, nil
		}
		query = query.Where("id IN ?", filter.IDs)
	}

	var clubs []models.Club
	if err := query.Order("name ASC").Find(&clubs).Error; err != nil {
		return nil, err
	}
	return clubs, nil
}

// MarkApproved flips approved from false to true and reports whether this call did it.
func (r *clubRepository) MarkApproved(ctx context.Context, id uint) (bool, error) {
	result := conn(ctx, r.db).Model(&models.Club{}).
		Where("id = ? AND approved = ?", id, false).
		Update("approved", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
