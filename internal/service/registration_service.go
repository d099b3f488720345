package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

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
	"github.com/campus-portal/campus-api/internal/observability"
	"github.com/campus-portal/campus-api/internal/repository"
)

// RegistrationService is the registration ledger.
type RegistrationService interface {
	Register(ctx context.Context, principal identity.Principal, req dto.RegistrationRequest) (dto.RegistrationResponse, error)
	Unregister(ctx context.Context, principal identity.Principal, eventID uint) (dto.UnregisterResponse, error)
	ListMine(ctx context.Context, principal identity.Principal) ([]dto.RegistrationResponse, error)
}

type registrationService struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	tx            repository.Transactor
	cache         *TrendingCache
	notifier      Notifier
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewRegistrationService constructs the registration ledger. notifier may be nil.
func NewRegistrationService(
	events repository.EventRepository,
	registrations repository.RegistrationRepository,
	tx repository.Transactor,
	cache *TrendingCache,
	notifier Notifier,
	validate *validator.Validate,
	logger zerolog.Logger,
) RegistrationService {
	return &registrationService{
		events:        events,
		registrations: registrations,
		tx:            tx,
		cache:         cache,
		notifier:      notifier,
		validator:     validate,
		logger:        logger.With().Str("component", "registration_service").Logger(),
		tracer:        otel.Tracer("github.com/campus-portal/campus-api/internal/service/registration"),
	}
}

// Register takes a seat. The existence check, the capacity check and the
// insert run in one transaction holding the event row lock, so concurrent
// callers never exceed the capacity.
func (s *registrationService) Register(ctx context.Context, principal identity.Principal, req dto.RegistrationRequest) (dto.RegistrationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "registration.register")
	defer span.End()

	if err := identity.RequireAuthenticated(principal); err != nil {
		return dto.RegistrationResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.RegistrationResponse{}, validationError(err)
	}
	span.SetAttributes(attribute.Int64("event.id", int64(req.EventID)))

	var (
		event        models.Event
		registration models.Registration
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		event, err = s.events.FindByIDForUpdate(ctx, req.EventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if _, err := s.registrations.Find(ctx, event.ID, principal.Identity); err == nil {
			return ErrAlreadyRegistered
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if event.HasCapacity() {
			taken, err := s.registrations.CountByEvent(ctx, event.ID)
			if err != nil {
				return err
			}
			if taken >= int64(*event.Capacity) {
				return ErrCapacityExceeded
			}
		}

		registration = models.Registration{EventID: event.ID, UserIdentity: principal.Identity}
		if err := s.registrations.Create(ctx, &registration); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return err
		}
		return nil
	})
	if err != nil {
		observability.Registrations().WithLabelValues(registrationOutcome(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "register failed")
		if apperrors.KindOf(err) == apperrors.KindInternal {
			s.logger.Error().Err(err).Uint("event_id", req.EventID).Msg("failed to register")
		}
		return dto.RegistrationResponse{}, err
	}

	observability.Registrations().WithLabelValues("registered").Inc()
	s.cache.Invalidate(ctx)
	s.notifyConfirmed(ctx, principal, event)
	span.SetStatus(codes.Ok, "registered")

	return dto.NewRegistrationResponse(registration), nil
}

func (s *registrationService) Unregister(ctx context.Context, principal identity.Principal, eventID uint) (dto.UnregisterResponse, error) {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return dto.UnregisterResponse{}, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.registrations.Delete(ctx, eventID, principal.Identity)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UnregisterResponse{}, ErrRegistrationNotFound
		}
		return dto.UnregisterResponse{}, err
	}

	observability.Registrations().WithLabelValues("cancelled").Inc()
	s.cache.Invalidate(ctx)
	return dto.UnregisterResponse{EventID: eventID, UserIdentity: principal.Identity}, nil
}

func (s *registrationService) ListMine(ctx context.Context, principal identity.Principal) ([]dto.RegistrationResponse, error) {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return nil, err
	}

	registrations, err := s.registrations.ListByUser(ctx, principal.Identity)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(registrations))
	for _, registration := range registrations {
		ids = append(ids, registration.EventID)
	}
	rows, err := s.events.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]dto.EventResponse, len(rows))
	for _, row := range rows {
		byID[row.ID] = dto.NewEventResponse(row)
	}

	items := make([]dto.RegistrationResponse, 0, len(registrations))
	for _, registration := range registrations {
		item := dto.NewRegistrationResponse(registration)
		if event, ok := byID[registration.EventID]; ok {
			item.Event = &event
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *registrationService) notifyConfirmed(ctx context.Context, principal identity.Principal, event models.Event) {
	if s.notifier == nil {
		return
	}
	notification := Notification{
		Kind:      NotificationRegistrationConfirmed,
		Recipient: principal.Identity,
		Subject:   "Registered: " + event.Title,
		Body:      fmt.Sprintf("You're registered for %s at %s on %s.", event.Title, event.Location, event.StartsAt.UTC().Format("Mon Jan 2 15:04 MST")),
		Data:      map[string]string{"event_id": strconv.FormatUint(uint64(event.ID), 10)},
	}
	if err := s.notifier.Notify(ctx, notification); err != nil {
		s.logger.Warn().Err(err).Uint("event_id", event.ID).Msg("failed to send registration confirmation")
	}
}

func registrationOutcome(err error) string {
	switch {
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, ErrEventNotFound):
		return "event_not_found"
	default:
		return "error"
	}
}
