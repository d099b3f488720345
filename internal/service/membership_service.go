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

// MembershipService drives the club membership lifecycle: pending on join,
// approved by club leadership, removed on leave.
type MembershipService interface {
	Join(ctx context.Context, principal identity.Principal, clubID uint) (dto.JoinResponse, bool, error)
	Approve(ctx context.Context, principal identity.Principal, clubID uint, member string) (dto.MemberResponse, error)
	Leave(ctx context.Context, principal identity.Principal, clubID uint) (dto.LeaveResponse, error)
	ListPending(ctx context.Context, principal identity.Principal, clubID uint) ([]dto.MemberResponse, error)
}

type membershipService struct {
	clubs       repository.ClubRepository
	memberships repository.MembershipRepository
	manager     clubManager
	tx          repository.Transactor
	notifier    Notifier
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewMembershipService constructs the membership service. notifier may be nil.
func NewMembershipService(
	clubs repository.ClubRepository,
	memberships repository.MembershipRepository,
	tx repository.Transactor,
	notifier Notifier,
	logger zerolog.Logger,
) MembershipService {
	return &membershipService{
		clubs:       clubs,
		memberships: memberships,
		manager:     clubManager{memberships: memberships},
		tx:          tx,
		notifier:    notifier,
		logger:      logger.With().Str("component", "membership_service").Logger(),
		tracer:      otel.Tracer("github.com/campus-portal/campus-api/internal/service/membership"),
	}
}

// Join requests membership. The boolean reports whether a new request was created.
func (s *membershipService) Join(ctx context.Context, principal identity.Principal, clubID uint) (dto.JoinResponse, bool, error) {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return dto.JoinResponse{}, false, err
	}

	var (
		response dto.JoinResponse
		created  bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		club, err := s.clubs.FindByID(ctx, clubID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClubNotFound
			}
			return err
		}
		if !club.Approved {
			return ErrClubNotFound
		}

		member := models.ClubMember{
			ClubID:       clubID,
			UserIdentity: principal.Identity,
			Role:         models.MembershipRoleMember,
			Status:       models.MembershipStatusPending,
		}
		created, err = s.memberships.CreateIfAbsent(ctx, &member)
		if err != nil {
			return err
		}
		if created {
			response = joinResponse(member, dto.JoinOutcomeRequested)
			return nil
		}

		existing, err := s.memberships.Find(ctx, clubID, principal.Identity)
		if err != nil {
			return err
		}
		outcome := dto.JoinOutcomePending
		if existing.Status == models.MembershipStatusApproved {
			outcome = dto.JoinOutcomeAlreadyMember
		}
		response = joinResponse(existing, outcome)
		return nil
	})
	if err != nil {
		return dto.JoinResponse{}, false, err
	}

	observability.Memberships().WithLabelValues(response.Outcome).Inc()
	return response, created, nil
}

func (s *membershipService) Approve(ctx context.Context, principal identity.Principal, clubID uint, member string) (dto.MemberResponse, error) {
	ctx, span := s.tracer.Start(ctx, "membership.approve")
	defer span.End()
	span.SetAttributes(attribute.Int64("club.id", int64(clubID)))

	member = identity.NormalizeIdentity(member)

	var approved models.ClubMember
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.manager.authorize(ctx, principal, clubID); err != nil {
			return err
		}

		moved, err := s.memberships.Transition(ctx, clubID, member, models.MembershipStatusPending, models.MembershipStatusApproved)
		if err != nil {
			return err
		}
		if !moved {
			return ErrPendingMembershipNotFound
		}

		approved, err = s.memberships.Find(ctx, clubID, member)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "approve failed")
		return dto.MemberResponse{}, err
	}

	observability.Memberships().WithLabelValues("approved").Inc()
	s.logger.Info().Uint("club_id", clubID).Str("member", maskEmail(member)).Str("actor", principal.Identity).Msg("membership approved")
	if s.notifier != nil {
		notification := Notification{
			Kind:      NotificationMembershipApproved,
			Recipient: member,
			Subject:   "Membership approved",
			Body:      "Your request to join the club was approved.",
		}
		if err := s.notifier.Notify(ctx, notification); err != nil {
			s.logger.Warn().Err(err).Msg("failed to send membership notification")
		}
	}
	return dto.NewMemberResponse(approved), nil
}

// Leave removes the caller's membership in any status. It never fails for a missing row.
func (s *membershipService) Leave(ctx context.Context, principal identity.Principal, clubID uint) (dto.LeaveResponse, error) {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return dto.LeaveResponse{}, err
	}

	var removed bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		removed, err = s.memberships.Delete(ctx, clubID, principal.Identity)
		return err
	})
	if err != nil {
		return dto.LeaveResponse{}, err
	}

	if removed {
		observability.Memberships().WithLabelValues("left").Inc()
	}
	return dto.LeaveResponse{ClubID: clubID, Removed: removed}, nil
}

func (s *membershipService) ListPending(ctx context.Context, principal identity.Principal, clubID uint) ([]dto.MemberResponse, error) {
	if err := s.manager.authorize(ctx, principal, clubID); err != nil {
		return nil, err
	}

	members, err := s.memberships.ListByClub(ctx, clubID, models.MembershipStatusPending)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MemberResponse, 0, len(members))
	for _, member := range members {
		items = append(items, dto.NewMemberResponse(member))
	}
	return items, nil
}

func joinResponse(member models.ClubMember, outcome string) dto.JoinResponse {
	return dto.JoinResponse{
		ClubID:  member.ClubID,
		Outcome: outcome,
		Status:  member.Status,
		Role:    member.Role,
	}
}
