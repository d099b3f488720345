package service

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/campus-portal/campus-api/internal/apperrors"
	"github.com/campus-portal/campus-api/internal/dto"
	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/models"
	"github.com/campus-portal/campus-api/internal/repository"
)

// Audited actions.
const (
	ActionClubApproved   = "club.approved"
	ActionLeaderApproved = "leader.approved"
	ActionFlagResolved   = "flag.resolved"
	ActionSeedRun        = "seed.run"
)

const systemActor = "system"

var errActivityIncomplete = apperrors.Validation("activity action and entity type are required")

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	Actor      identity.Principal
	Action     string
	EntityType string
	EntityID   *uint
	Metadata   map[string]interface{}
}

// ActivityRecorder defines behaviour for recording activity logs.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) (dto.AdminActivityResponse, error)
}

// ActivityService exposes methods to query and persist activity logs.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, principal identity.Principal, req dto.AdminActivityListRequest) (dto.AdminActivityListResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

// Record appends an entry. Inside a transaction it joins that transaction, so
// the audit row commits or rolls back with the action it describes.
func (s *activityService) Record(ctx context.Context, entry ActivityEntry) (dto.AdminActivityResponse, error) {
	action := strings.ToLower(strings.TrimSpace(entry.Action))
	entityType := strings.ToLower(strings.TrimSpace(entry.EntityType))
	if action == "" || entityType == "" {
		return dto.AdminActivityResponse{}, errActivityIncomplete
	}

	model := models.ActivityLog{
		Actor:      actorOf(entry.Actor),
		ActorRole:  actorRole(entry.Actor),
		Action:     action,
		EntityType: entityType,
		EntityID:   entry.EntityID,
		Metadata:   maskMetadata(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", action).Msg("failed to persist activity log")
		return dto.AdminActivityResponse{}, err
	}

	return dto.NewAdminActivityResponse(model), nil
}

func (s *activityService) List(ctx context.Context, principal identity.Principal, req dto.AdminActivityListRequest) (dto.AdminActivityListResponse, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return dto.AdminActivityListResponse{}, err
	}

	entries, total, err := s.repo.List(ctx, repository.ActivityLogFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Actor:      identity.NormalizeIdentity(req.Actor),
		Action:     strings.ToLower(strings.TrimSpace(req.Action)),
		EntityType: strings.ToLower(strings.TrimSpace(req.EntityType)),
		EntityID:   req.EntityID,
		Since:      req.Since,
	})
	if err != nil {
		return dto.AdminActivityListResponse{}, err
	}

	items := make([]dto.AdminActivityResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewAdminActivityResponse(entry))
	}

	return dto.AdminActivityListResponse{
		Items:      items,
		Pagination: pageMeta(req.Page, req.PageSize, total),
	}, nil
}

func pageMeta(page, pageSize int, total int64) dto.PaginationMeta {
	meta := dto.PaginationMeta{Page: max(page, 1), PageSize: pageSize, TotalItems: total, TotalPages: 1}
	if pageSize > 0 {
		meta.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return meta
}

var maskedMetadataKeys = []string{"token", "secret", "password"}

func maskMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	masked := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		for _, sensitive := range maskedMetadataKeys {
			if strings.Contains(lower, sensitive) {
				value = "***"
				break
			}
		}
		masked[key] = value
	}
	return masked
}

func actorOf(p identity.Principal) string {
	if p.Anonymous() {
		return systemActor
	}
	return p.Identity
}

func actorRole(p identity.Principal) string {
	if p.Anonymous() {
		return systemActor
	}
	return string(p.Role)
}
