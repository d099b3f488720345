package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/campus-portal/campus-api/internal/dto"
	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/models"
	"github.com/campus-portal/campus-api/internal/observability"
	"github.com/campus-portal/campus-api/internal/repository"
)

// AdminReviewService is the admin approval workflow for clubs and leaders.
type AdminReviewService interface {
	ApproveClub(ctx context.Context, principal identity.Principal, clubID uint) (dto.ClubApprovalResponse, error)
	PendingClubs(ctx context.Context, principal identity.Principal) ([]dto.ClubSummary, error)
	PendingLeaders(ctx context.Context, principal identity.Principal) ([]dto.PendingLeaderResponse, error)
	ApproveLeader(ctx context.Context, principal identity.Principal, email string) (dto.PendingLeaderResponse, error)
}

type adminReviewService struct {
	clubs       repository.ClubRepository
	memberships repository.MembershipRepository
	accounts    repository.AccountRepository
	tx          repository.Transactor
	recorder    ActivityRecorder
	notifier    Notifier
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewAdminReviewService constructs the review workflow. notifier may be nil.
func NewAdminReviewService(
	clubs repository.ClubRepository,
	memberships repository.MembershipRepository,
	accounts repository.AccountRepository,
	tx repository.Transactor,
	recorder ActivityRecorder,
	notifier Notifier,
	logger zerolog.Logger,
) AdminReviewService {
	return &adminReviewService{
		clubs:       clubs,
		memberships: memberships,
		accounts:    accounts,
		tx:          tx,
		recorder:    recorder,
		notifier:    notifier,
		logger:      logger.With().Str("component", "admin_review_service").Logger(),
		tracer:      otel.Tracer("github.com/campus-portal/campus-api/internal/service/admin_review"),
	}
}

// ApproveClub approves the club and makes its creator an approved leader in
// one transaction. An already approved club is reported as not found.
func (s *adminReviewService) ApproveClub(ctx context.Context, principal identity.Principal, clubID uint) (dto.ClubApprovalResponse, error) {
	ctx, span := s.tracer.Start(ctx, "admin.approve_club")
	defer span.End()
	span.SetAttributes(attribute.Int64("club.id", int64(clubID)))

	if err := identity.RequireAdmin(principal); err != nil {
		return dto.ClubApprovalResponse{}, err
	}

	var club models.Club
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		club, err = s.clubs.FindByID(ctx, clubID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClubNotFound
			}
			return err
		}

		changed, err := s.clubs.MarkApproved(ctx, clubID)
		if err != nil {
			return err
		}
		if !changed {
			return ErrClubNotFound
		}
		club.Approved = true

		if err := s.memberships.UpsertLeader(ctx, clubID, club.CreatedBy); err != nil {
			return err
		}

		if s.recorder != nil {
			_, err = s.recorder.Record(ctx, ActivityEntry{
				Actor:      principal,
				Action:     ActionClubApproved,
				EntityType: "club",
				EntityID:   &clubID,
				Metadata:   map[string]interface{}{"name": club.Name, "leader": club.CreatedBy},
			})
		}
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "approve club failed")
		return dto.ClubApprovalResponse{}, err
	}

	observability.Moderation().WithLabelValues(ActionClubApproved).Inc()
	s.logger.Info().Uint("club_id", clubID).Str("actor", principal.Identity).Msg("club approved")
	if s.notifier != nil {
		notification := Notification{
			Kind:      NotificationClubApproved,
			Recipient: club.CreatedBy,
			Subject:   club.Name + " was approved",
			Body:      "Your club is now listed and you are its leader.",
		}
		if err := s.notifier.Notify(ctx, notification); err != nil {
			s.logger.Warn().Err(err).Msg("failed to send club approval notification")
		}
	}

	return dto.ClubApprovalResponse{Club: dto.NewClubSummary(club), Leader: club.CreatedBy}, nil
}

func (s *adminReviewService) PendingClubs(ctx context.Context, principal identity.Principal) ([]dto.ClubSummary, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return nil, err
	}

	approved := false
	clubs, err := s.clubs.List(ctx, repository.ClubFilter{Approved: &approved})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClubSummary, 0, len(clubs))
	for _, club := range clubs {
		items = append(items, dto.NewClubSummary(club))
	}
	return items, nil
}

func (s *adminReviewService) PendingLeaders(ctx context.Context, principal identity.Principal) ([]dto.PendingLeaderResponse, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return nil, err
	}

	accounts, err := s.accounts.ListPendingLeaders(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PendingLeaderResponse, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, dto.NewPendingLeaderResponse(account))
	}
	return items, nil
}

func (s *adminReviewService) ApproveLeader(ctx context.Context, principal identity.Principal, email string) (dto.PendingLeaderResponse, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return dto.PendingLeaderResponse{}, err
	}
	email = identity.NormalizeIdentity(email)

	var account models.Account
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.accounts.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLeaderNotFound
			}
			return err
		}
		if account.Role != models.AccountRoleLeader {
			return ErrLeaderNotFound
		}

		changed, err := s.accounts.ApproveLeader(ctx, email)
		if err != nil {
			return err
		}
		if !changed {
			return ErrLeaderAlreadyApproved
		}
		account.LeaderApproved = true

		if s.recorder != nil {
			_, err = s.recorder.Record(ctx, ActivityEntry{
				Actor:      principal,
				Action:     ActionLeaderApproved,
				EntityType: "account",
				EntityID:   &account.ID,
			})
		}
		return err
	})
	if err != nil {
		return dto.PendingLeaderResponse{}, err
	}

	observability.Moderation().WithLabelValues(ActionLeaderApproved).Inc()
	s.logger.Info().Str("leader", maskEmail(email)).Str("actor", principal.Identity).Msg("leader approved")
	return dto.NewPendingLeaderResponse(account), nil
}
