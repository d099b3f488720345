package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-portal/campus-api/internal/models"
)

// RegistrationRepository persists event registrations.
type RegistrationRepository interface {
	Find(ctx context.Context, eventID uint, userIdentity string) (models.Registration, error)
	CountByEvent(ctx context.Context, eventID uint) (int64, error)
	Create(ctx context.Context, registration *models.Registration) error
	Delete(ctx context.Context, eventID uint, userIdentity string) error
	DeleteByEvent(ctx context.Context, eventID uint) (int64, error)
	ListByUser(ctx context.Context, userIdentity string) ([]models.Registration, error)
}

type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository constructs a GORM-backed repository.
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Find(ctx context.Context, eventID uint, userIdentity string) (models.Registration, error) {
	var registration models.Registration
	err := conn(ctx, r.db).
		Where("event_id = ? AND user_identity = ?", eventID, userIdentity).
		First(&registration).Error
	if err != nil {
		return models.Registration{}, err
	}
	return registration, nil
}

func (r *registrationRepository) CountByEvent(ctx context.Context, eventID uint) (int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&models.Registration{}).Where("event_id = ?", eventID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *registrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	return conn(ctx, r.db).Create(registration).Error
}

func (r *registrationRepository) Delete(ctx context.Context, eventID uint, userIdentity string) error {
	result := conn(ctx, r.db).
		Where("event_id = ? AND user_identity = ?", eventID, userIdentity).
		Delete(&models.Registration{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *registrationRepository) DeleteByEvent(ctx context.Context, eventID uint) (int64, error) {
	result := conn(ctx, r.db).Where("event_id = ?", eventID).Delete(&models.Registration{})
	return result.RowsAffected, result.Error
}

func (r *registrationRepository) ListByUser(ctx context.Context, userIdentity string) ([]models.Registration, error) {
	var registrations []models.Registration
	if err := conn(ctx, r.db).Where("user_identity = ?", userIdentity).Order("id ASC").Find(&registrations).Error; err != nil {
		return nil, err
	}
	return registrations, nil
}
