package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campus-portal/campus-api/internal/models"
)

// ActivityLogFilter narrows audit queries. Zero values disable a filter and a
// non-positive PageSize returns every match.
type ActivityLogFilter struct {
	Page       int
	PageSize   int
	Actor      string
	Action     string
	EntityType string
	EntityID   *uint
	Since      *time.Time
}

// ActivityLogRepository appends to and reads the audit trail.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs a GORM-backed repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return conn(ctx, r.db).Create(entry).Error
}

func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	query := conn(ctx, r.db).Model(&models.ActivityLog{}).Scopes(activityScope(filter))

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.ActivityLog
	err := query.Scopes(paginate(filter.Page, filter.PageSize)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func activityScope(filter ActivityLogFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Actor != "" {
			db = db.Where("actor = ?", filter.Actor)
		}
		if filter.Action != "" {
			db = db.Where("action = ?", filter.Action)
		}
		if filter.EntityType != "" {
			db = db.Where("entity_type = ?", filter.EntityType)
		}
		if filter.EntityID != nil {
			db = db.Where("entity_id = ?", *filter.EntityID)
		}
		if filter.Since != nil {
			db = db.Where("created_at >= ?", filter.Since.UTC())
		}
		return db
	}
}

func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page <= 0 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
