package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campus-portal/campus-api/internal/dto"
	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/models"
	"github.com/campus-portal/campus-api/internal/observability"
	"github.com/campus-portal/campus-api/internal/repository"
)

// ModerationService is the moderation queue.
type ModerationService interface {
	Flag(ctx context.Context, principal identity.Principal, req dto.FlagCreateRequest) (dto.FlagResponse, error)
	List(ctx context.Context, principal identity.Principal, req dto.FlagListRequest) ([]dto.FlagResponse, error)
	Resolve(ctx context.Context, principal identity.Principal, flagID uint) (dto.FlagResponse, error)
}

type moderationService struct {
	flags     repository.FlagRepository
	tx        repository.Transactor
	recorder  ActivityRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewModerationService constructs the moderation service.
func NewModerationService(flags repository.FlagRepository, tx repository.Transactor, recorder ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) ModerationService {
	return &moderationService{
		flags:     flags,
		tx:        tx,
		recorder:  recorder,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "moderation_service").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Flag files a report. The target is not checked for existence.
func (s *moderationService) Flag(ctx context.Context, principal identity.Principal, req dto.FlagCreateRequest) (dto.FlagResponse, error) {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return dto.FlagResponse{}, err
	}

	req.ItemType = strings.ToLower(strings.TrimSpace(req.ItemType))
	if err := s.validator.Struct(req); err != nil {
		return dto.FlagResponse{}, validationError(err)
	}
	if req.ItemType != models.FlagItemEvent && req.ItemType != models.FlagItemAnnouncement {
		return dto.FlagResponse{}, ErrInvalidFlagItemType.WithDetails(map[string]string{"item_type": "oneof"})
	}

	reason := plainText(s.sanitizer, req.Reason)
	if reason == "" {
		return dto.FlagResponse{}, ErrFlagReasonRequired.WithDetails(map[string]string{"reason": "required"})
	}

	flag := models.Flag{
		ItemType:   req.ItemType,
		ItemID:     req.ItemID,
		Reason:     reason,
		ReportedBy: principal.Identity,
	}
	if err := s.flags.Create(ctx, &flag); err != nil {
		s.logger.Error().Err(err).Msg("failed to store flag")
		return dto.FlagResponse{}, err
	}

	observability.Moderation().WithLabelValues("flag.created").Inc()
	s.logger.Info().Uint("flag_id", flag.ID).Str("item_type", flag.ItemType).Uint("item_id", flag.ItemID).Msg("content flagged")
	return dto.NewFlagResponse(flag), nil
}

func (s *moderationService) List(ctx context.Context, principal identity.Principal, req dto.FlagListRequest) ([]dto.FlagResponse, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return nil, err
	}

	flags, err := s.flags.List(ctx, repository.FlagFilter{
		IncludeResolved: req.IncludeResolved,
		ItemType:        strings.ToLower(strings.TrimSpace(req.ItemType)),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.FlagResponse, 0, len(flags))
	for _, flag := range flags {
		items = append(items, dto.NewFlagResponse(flag))
	}
	return items, nil
}

// Resolve marks a flag resolved. Resolving a resolved flag returns it unchanged.
func (s *moderationService) Resolve(ctx context.Context, principal identity.Principal, flagID uint) (dto.FlagResponse, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return dto.FlagResponse{}, err
	}

	var flag models.Flag
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		changed, err := s.flags.MarkResolved(ctx, flagID, principal.Identity, s.now())
		if err != nil {
			return err
		}

		flag, err = s.flags.FindByID(ctx, flagID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFlagNotFound
			}
			return err
		}

		if changed && s.recorder != nil {
			_, err = s.recorder.Record(ctx, ActivityEntry{
				Actor:      principal,
				Action:     ActionFlagResolved,
				EntityType: "flag",
				EntityID:   &flag.ID,
				Metadata:   map[string]interface{}{"item_type": flag.ItemType, "item_id": flag.ItemID},
			})
		}
		return err
	})
	if err != nil {
		return dto.FlagResponse{}, err
	}

	observability.Moderation().WithLabelValues(ActionFlagResolved).Inc()
	return dto.NewFlagResponse(flag), nil
}
