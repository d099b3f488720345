package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campus-portal/campus-api/internal/models"
)

// FlagFilter narrows moderation queue queries.
type FlagFilter struct {
	IncludeResolved bool
	ItemType        string
}

// FlagRepository persists moderation flags.
type FlagRepository interface {
	Create(ctx context.Context, flag *models.Flag) error
	FindByID(ctx context.Context, id uint) (models.Flag, error)
	List(ctx context.Context, filter FlagFilter) ([]models.Flag, error)
	MarkResolved(ctx context.Context, id uint, resolvedBy string, at time.Time) (bool, error)
}

type flagRepository struct {
	db *gorm.DB
}

// NewFlagRepository constructs a GORM-backed repository.
func NewFlagRepository(db *gorm.DB) FlagRepository {
	return &flagRepository{db: db}
}

func (r *flagRepository) Create(ctx context.Context, flag *models.Flag) error {
	return conn(ctx, r.db).Create(flag).Error
}

func (r *flagRepository) FindByID(ctx context.Context, id uint) (models.Flag, error) {
	var flag models.Flag
	if err := conn(ctx, r.db).First(&flag, id).Error; err != nil {
		return models.Flag{}, err
	}
	return flag, nil
}

func (r *flagRepository) List(ctx context.Context, filter FlagFilter) ([]models.Flag, error) {
	query := conn(ctx, r.db).Model(&models.Flag{})
	if !filter.IncludeResolved {
		query = query.Where("resolved = ?", false)
	}
	if filter.ItemType != "" {
		query = query.Where("item_type = ?", filter.ItemType)
	}

	var flags []models.Flag
	if err := query.Order("created_at DESC").Order("id DESC").Find(&flags).Error; err != nil {
		return nil, err
	}
	return flags, nil
}

// MarkResolved resolves an open flag and reports whether this call changed it.
func (r *flagRepository) MarkResolved(ctx context.Context, id uint, resolvedBy string, at time.Time) (bool, error) {
	result := conn(ctx, r.db).Model(&models.Flag{}).
		Where("id = ? AND resolved = ?", id, false).
		Updates(map[string]interface{}{
			"resolved":    true,
			"resolved_by": resolvedBy,
			"resolved_at": at.UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
