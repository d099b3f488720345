package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/campus-portal/campus-api/internal/apperrors"
	"github.com/campus-portal/campus-api/internal/dto"
	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/models"
	"github.com/campus-portal/campus-api/internal/repository"
)

const (
	defaultTrendingLimit = 5
	maxTrendingLimit     = 50
	defaultEventCategory = "general"
)

// EventService exposes the event registry.
type EventService interface {
	Create(ctx context.Context, principal identity.Principal, req dto.EventCreateRequest) (dto.EventResponse, error)
	Get(ctx context.Context, id uint) (dto.EventResponse, error)
	Delete(ctx context.Context, principal identity.Principal, id uint) (dto.EventDeleteResponse, error)
	Search(ctx context.Context, req dto.EventSearchRequest) ([]dto.EventResponse, error)
	Trending(ctx context.Context, limit int) ([]dto.EventResponse, error)
}

type eventService struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	clubs         repository.ClubRepository
	manager       clubManager
	tx            repository.Transactor
	cache         *TrendingCache
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
	now           func() time.Time
}

// NewEventService constructs the event registry service.
func NewEventService(
	events repository.EventRepository,
	registrations repository.RegistrationRepository,
	clubs repository.ClubRepository,
	memberships repository.MembershipRepository,
	tx repository.Transactor,
	cache *TrendingCache,
	validate *validator.Validate,
	logger zerolog.Logger,
) EventService {
	return &eventService{
		events:        events,
		registrations: registrations,
		clubs:         clubs,
		manager:       clubManager{memberships: memberships},
		tx:            tx,
		cache:         cache,
		validator:     validate,
		logger:        logger.With().Str("component", "event_service").Logger(),
		tracer:        otel.Tracer("github.com/campus-portal/campus-api/internal/service/event"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *eventService) Create(ctx context.Context, principal identity.Principal, req dto.EventCreateRequest) (dto.EventResponse, error) {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return dto.EventResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.EventResponse{}, validationError(err)
	}

	if req.ClubID != nil {
		if _, err := s.clubs.FindByID(ctx, *req.ClubID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.EventResponse{}, ErrClubNotFound
			}
			return dto.EventResponse{}, err
		}
		if err := s.manager.authorize(ctx, principal, *req.ClubID); err != nil {
			return dto.EventResponse{}, err
		}
	}

	return s.insert(ctx, principal, req)
}

// insert persists a validated event; callers have already authorised it.
func (s *eventService) insert(ctx context.Context, principal identity.Principal, req dto.EventCreateRequest) (dto.EventResponse, error) {
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category == "" {
		category = defaultEventCategory
	}

	event := models.Event{
		ClubID:     req.ClubID,
		Title:      strings.TrimSpace(req.Title),
		StartsAt:   req.StartsAt.UTC(),
		Location:   strings.TrimSpace(req.Location),
		Capacity:   req.Capacity,
		PriceCents: req.PriceCents,
		Category:   category,
		CreatedBy:  principal.Identity,
	}
	if details := blankEventFields(event); len(details) > 0 {
		return dto.EventResponse{}, apperrors.Validation("invalid payload").WithDetails(details)
	}
	if err := s.events.Create(ctx, &event); err != nil {
		s.logger.Error().Err(err).Msg("failed to create event")
		return dto.EventResponse{}, err
	}

	s.cache.Invalidate(ctx)
	s.logger.Info().Uint("event_id", event.ID).Str("actor", principal.Identity).Msg("event created")
	return dto.NewEventResponse(models.EventWithCount{Event: event}), nil
}

func (s *eventService) Get(ctx context.Context, id uint) (dto.EventResponse, error) {
	row, err := s.events.GetWithCount(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EventResponse{}, ErrEventNotFound
		}
		return dto.EventResponse{}, err
	}
	return dto.NewEventResponse(row), nil
}

func (s *eventService) Delete(ctx context.Context, principal identity.Principal, id uint) (dto.EventDeleteResponse, error) {
	ctx, span := s.tracer.Start(ctx, "event.delete")
	defer span.End()
	span.SetAttributes(attribute.Int64("event.id", int64(id)))

	if err := identity.RequireAuthenticated(principal); err != nil {
		return dto.EventDeleteResponse{}, err
	}

	var removed int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.events.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if event.ClubID != nil {
			if err := s.manager.authorize(ctx, principal, *event.ClubID); err != nil {
				return err
			}
		} else if err := identity.RequireAdmin(principal); err != nil {
			return err
		}

		removed, err = s.registrations.DeleteByEvent(ctx, id)
		if err != nil {
			return err
		}
		return s.events.Delete(ctx, id)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return dto.EventDeleteResponse{}, err
	}

	s.cache.Invalidate(ctx)
	s.logger.Info().Uint("event_id", id).Int64("removed_registrations", removed).Str("actor", principal.Identity).Msg("event deleted")
	return dto.EventDeleteResponse{ID: id, RemovedRegistrations: removed}, nil
}

func (s *eventService) Search(ctx context.Context, req dto.EventSearchRequest) ([]dto.EventResponse, error) {
	filter := repository.EventFilter{
		Start:    req.Start,
		End:      req.End,
		Category: strings.ToLower(strings.TrimSpace(req.Category)),
		Title:    req.Title,
		Location: req.Location,
		Query:    req.Query,
		FreeOnly: req.FreeOnly,
		ClubID:   req.ClubID,
		Sort:     repository.EventSortDate,
	}
	if req.Upcoming && filter.Start == nil {
		now := s.now()
		filter.Start = &now
	}
	if strings.EqualFold(strings.TrimSpace(req.Sort), repository.EventSortPopularity) {
		filter.Sort = repository.EventSortPopularity
	}

	rows, err := s.events.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewEventResponses(rows), nil
}

func (s *eventService) Trending(ctx context.Context, limit int) ([]dto.EventResponse, error) {
	limit = clampTrendingLimit(limit)

	cached, key, ok := s.cache.Get(ctx, limit)
	if ok {
		return cached, nil
	}

	rows, err := s.events.Trending(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := dto.NewEventResponses(rows)
	s.cache.Set(ctx, key, items)
	return items, nil
}

func blankEventFields(event models.Event) map[string]string {
	details := map[string]string{}
	if event.Title == "" {
		details["title"] = "required"
	}
	if event.Location == "" {
		details["location"] = "required"
	}
	return details
}

func clampTrendingLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultTrendingLimit
	case limit > maxTrendingLimit:
		return maxTrendingLimit
	default:
		return limit
	}
}
