package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campus-portal/campus-api/internal/models"
)

// Event sort orders.
const (
	EventSortDate       = "date"
	EventSortPopularity = "popularity"
)

// EventFilter narrows event searches. Zero values disable a filter.
type EventFilter struct {
	Start    *time.Time
	End      *time.Time
	Category string
	Title    string
	Location string
	Query    string
	FreeOnly bool
	ClubID   *uint
	Sort     string
	Limit    int
}

// EventRepository persists events and answers read-side aggregate queries.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (models.Event, error)
	FindByIDForUpdate(ctx context.Context, id uint) (models.Event, error)
	GetWithCount(ctx context.Context, id uint) (models.EventWithCount, error)
	Search(ctx context.Context, filter EventFilter) ([]models.EventWithCount, error)
	Trending(ctx context.Context, limit int) ([]models.EventWithCount, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.EventWithCount, error)
	CountUpcomingByClubs(ctx context.Context, clubIDs []uint, now time.Time) (map[uint]int64, error)
	Delete(ctx context.Context, id uint) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository constructs a GORM-backed repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return conn(ctx, r.db).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (models.Event, error) {
	var event models.Event
	if err := conn(ctx, r.db).First(&event, id).Error; err != nil {
		return models.Event{}, err
	}
	return event, nil
}

// FindByIDForUpdate locks the event row until the surrounding transaction ends.
// SQLite has no row locks; its database-level write lock serialises writers instead.
func (r *eventRepository) FindByIDForUpdate(ctx context.Context, id uint) (models.Event, error) {
	var event models.Event
	if err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, id).Error; err != nil {
		return models.Event{}, err
	}
	return event, nil
}

func (r *eventRepository) GetWithCount(ctx context.Context, id uint) (models.EventWithCount, error) {
	var rows []models.EventWithCount
	if err := r.withCounts(ctx).Where("events.id = ?", id).Scan(&rows).Error; err != nil {
		return models.EventWithCount{}, err
	}
	if len(rows) == 0 {
		return models.EventWithCount{}, gorm.ErrRecordNotFound
	}
	return rows[0], nil
}

func (r *eventRepository) Search(ctx context.Context, filter EventFilter) ([]models.EventWithCount, error) {
	query := r.withCounts(ctx)

	if filter.Start != nil {
		query = query.Where("events.starts_at >= ?", filter.Start.UTC())
	}
	if filter.End != nil {
		query = query.Where("events.starts_at <= ?", filter.End.UTC())
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("events.category = ?", category)
	}
	if title := strings.TrimSpace(filter.Title); title != "" {
		query = query.Where("LOWER(events.title) LIKE ?", likePattern(title))
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		query = query.Where("LOWER(events.location) LIKE ?", likePattern(location))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := likePattern(q)
		query = query.Where("LOWER(events.title) LIKE ? OR LOWER(events.location) LIKE ?", pattern, pattern)
	}
	if filter.FreeOnly {
		query = query.Where("events.price_cents = 0")
	}
	if filter.ClubID != nil {
		query = query.Where("events.club_id = ?", *filter.ClubID)
	}

	switch filter.Sort {
	case EventSortPopularity:
		query = query.Order("registration_count DESC").Order("events.starts_at ASC").Order("events.id ASC")
	default:
		query = query.Order("events.starts_at ASC").Order("events.id ASC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []models.EventWithCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *eventRepository) Trending(ctx context.Context, limit int) ([]models.EventWithCount, error) {
	var rows []models.EventWithCount
	err := r.withCounts(ctx).
		Order("registration_count DESC").
		Order("events.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *eventRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.EventWithCount, error) {
	if len(ids) == 0 {
		return []models.EventWithCount{}, nil
	}
	var rows []models.EventWithCount
	if err := r.withCounts(ctx).Where("events.id IN ?", ids).Order("events.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *eventRepository) CountUpcomingByClubs(ctx context.Context, clubIDs []uint, now time.Time) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(clubIDs))
	if len(clubIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ClubID uint
		Total  int64
	}
	err := conn(ctx, r.db).Model(&models.Event{}).
		Select("club_id, COUNT(id) AS total").
		Where("club_id IN ? AND starts_at >= ?", clubIDs, now.UTC()).
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

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&models.Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepository) withCounts(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Model(&models.Event{}).
		Select("events.*, COUNT(registrations.id) AS registration_count").
		Joins("LEFT JOIN registrations ON registrations.event_id = events.id").
		Group("events.id")
}

func likePattern(value string) string {
	return "%" + strings.ToLower(strings.TrimSpace(value)) + "%"
}
