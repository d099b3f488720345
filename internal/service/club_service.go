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
	"github.com/campus-portal/campus-api/internal/repository"
)

const clubDetailPreviewLimit = 5

// ClubService exposes the club directory and announcement board.
type ClubService interface {
	Create(ctx context.Context, principal identity.Principal, req dto.ClubCreateRequest) (dto.ClubSummary, error)
	List(ctx context.Context, principal identity.Principal, req dto.ClubListRequest) ([]dto.ClubSummary, error)
	ListMine(ctx context.Context, principal identity.Principal) ([]dto.ClubSummary, error)
	Detail(ctx context.Context, principal identity.Principal, clubID uint) (dto.ClubDetailResponse, error)
	PostAnnouncement(ctx context.Context, principal identity.Principal, clubID uint, req dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error)
	ListAnnouncements(ctx context.Context, clubID uint) ([]dto.AnnouncementResponse, error)
	CreateClubEvent(ctx context.Context, principal identity.Principal, clubID uint, req dto.EventCreateRequest) (dto.EventResponse, error)
}

type clubService struct {
	clubs         repository.ClubRepository
	memberships   repository.MembershipRepository
	announcements repository.AnnouncementRepository
	events        repository.EventRepository
	eventService  EventService
	manager       clubManager
	validator     *validator.Validate
	policy        *bluemonday.Policy
	plain         *bluemonday.Policy
	logger        zerolog.Logger
	now           func() time.Time
}

// NewClubService constructs the club directory service.
func NewClubService(
	clubs repository.ClubRepository,
	memberships repository.MembershipRepository,
	announcements repository.AnnouncementRepository,
	events repository.EventRepository,
	eventService EventService,
	validate *validator.Validate,
	logger zerolog.Logger,
) ClubService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("p", "strong", "em", "a", "ul", "ol", "li", "br")
	policy.AllowAttrs("href", "title", "target").OnElements("a")

	return &clubService{
		clubs:         clubs,
		memberships:   memberships,
		announcements: announcements,
		events:        events,
		eventService:  eventService,
		manager:       clubManager{memberships: memberships},
		validator:     validate,
		policy:        policy,
		plain:         bluemonday.StrictPolicy(),
		logger:        logger.With().Str("component", "club_service").Logger(),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *clubService) Create(ctx context.Context, principal identity.Principal, req dto.ClubCreateRequest) (dto.ClubSummary, error) {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return dto.ClubSummary{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.ClubSummary{}, validationError(err)
	}

	club := models.Club{
		Name:        plainText(s.plain, req.Name),
		Description: plainText(s.plain, req.Description),
		CreatedBy:   principal.Identity,
	}
	if club.Name == "" {
		return dto.ClubSummary{}, validationError(errors.New("name is required"))
	}
	if req.Category != nil {
		if category := strings.ToLower(strings.TrimSpace(*req.Category)); category != "" {
			club.Category = &category
		}
	}

	if err := s.clubs.Create(ctx, &club); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ClubSummary{}, ErrClubNameTaken
		}
		s.logger.Error().Err(err).Msg("failed to create club")
		return dto.ClubSummary{}, err
	}

	s.logger.Info().Uint("club_id", club.ID).Str("actor", principal.Identity).Msg("club submitted for approval")
	return dto.NewClubSummary(club), nil
}

func (s *clubService) List(ctx context.Context, principal identity.Principal, req dto.ClubListRequest) ([]dto.ClubSummary, error) {
	approved := true
	clubs, err := s.clubs.List(ctx, repository.ClubFilter{
		Approved: &approved,
		Search:   req.Search,
		Category: strings.ToLower(strings.TrimSpace(req.Category)),
	})
	if err != nil {
		return nil, err
	}
	return s.summaries(ctx, principal, clubs)
}

func (s *clubService) ListMine(ctx context.Context, principal identity.Principal) ([]dto.ClubSummary, error) {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return nil, err
	}

	memberships, err := s.memberships.ListByUser(ctx, principal.Identity, models.MembershipStatusApproved)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(memberships))
	for _, member := range memberships {
		ids = append(ids, member.ClubID)
	}

	clubs, err := s.clubs.List(ctx, repository.ClubFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	return s.summaries(ctx, principal, clubs)
}

func (s *clubService) Detail(ctx context.Context, principal identity.Principal, clubID uint) (dto.ClubDetailResponse, error) {
	club, err := s.findClub(ctx, clubID)
	if err != nil {
		return dto.ClubDetailResponse{}, err
	}

	summaries, err := s.summaries(ctx, principal, []models.Club{club})
	if err != nil {
		return dto.ClubDetailResponse{}, err
	}

	members, err := s.memberships.ListByClub(ctx, clubID, models.MembershipStatusApproved)
	if err != nil {
		return dto.ClubDetailResponse{}, err
	}
	memberItems := make([]dto.MemberResponse, 0, len(members))
	for _, member := range members {
		memberItems = append(memberItems, dto.NewMemberResponse(member))
	}

	announcements, err := s.announcements.ListByClub(ctx, clubID, clubDetailPreviewLimit)
	if err != nil {
		return dto.ClubDetailResponse{}, err
	}

	now := s.now()
	upcoming, err := s.events.Search(ctx, repository.EventFilter{
		ClubID: &clubID,
		Start:  &now,
		Sort:   repository.EventSortDate,
		Limit:  clubDetailPreviewLimit,
	})
	if err != nil {
		return dto.ClubDetailResponse{}, err
	}

	return dto.ClubDetailResponse{
		Club:           summaries[0],
		Members:        memberItems,
		Announcements:  announcementResponses(announcements),
		UpcomingEvents: dto.NewEventResponses(upcoming),
	}, nil
}

func (s *clubService) PostAnnouncement(ctx context.Context, principal identity.Principal, clubID uint, req dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return dto.AnnouncementResponse{}, err
	}
	if _, err := s.findClub(ctx, clubID); err != nil {
		return dto.AnnouncementResponse{}, err
	}
	if err := s.manager.authorize(ctx, principal, clubID); err != nil {
		return dto.AnnouncementResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.AnnouncementResponse{}, validationError(err)
	}

	announcement := models.ClubAnnouncement{
		ClubID: clubID,
		Title:  plainText(s.plain, req.Title),
		Body:   strings.TrimSpace(s.policy.Sanitize(req.Body)),
	}
	if announcement.Title == "" || announcement.Body == "" {
		return dto.AnnouncementResponse{}, validationError(errors.New("title and body are required"))
	}

	if err := s.announcements.Create(ctx, &announcement); err != nil {
		s.logger.Error().Err(err).Uint("club_id", clubID).Msg("failed to post announcement")
		return dto.AnnouncementResponse{}, err
	}

	s.logger.Info().Uint("club_id", clubID).Uint("announcement_id", announcement.ID).Str("actor", principal.Identity).Msg("announcement posted")
	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *clubService) ListAnnouncements(ctx context.Context, clubID uint) ([]dto.AnnouncementResponse, error) {
	if _, err := s.findClub(ctx, clubID); err != nil {
		return nil, err
	}
	items, err := s.announcements.ListByClub(ctx, clubID, 0)
	if err != nil {
		return nil, err
	}
	return announcementResponses(items), nil
}

func (s *clubService) CreateClubEvent(ctx context.Context, principal identity.Principal, clubID uint, req dto.EventCreateRequest) (dto.EventResponse, error) {
	req.ClubID = &clubID
	return s.eventService.Create(ctx, principal, req)
}

func (s *clubService) findClub(ctx context.Context, clubID uint) (models.Club, error) {
	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Club{}, ErrClubNotFound
		}
		return models.Club{}, err
	}
	return club, nil
}

// summaries attaches member counts, upcoming event counts and the caller's standing.
func (s *clubService) summaries(ctx context.Context, principal identity.Principal, clubs []models.Club) ([]dto.ClubSummary, error) {
	items := make([]dto.ClubSummary, 0, len(clubs))
	if len(clubs) == 0 {
		return items, nil
	}

	ids := make([]uint, 0, len(clubs))
	for _, club := range clubs {
		ids = append(ids, club.ID)
	}

	memberCounts, err := s.memberships.CountApprovedByClubs(ctx, ids)
	if err != nil {
		return nil, err
	}
	eventCounts, err := s.events.CountUpcomingByClubs(ctx, ids, s.now())
	if err != nil {
		return nil, err
	}

	standing := map[uint]dto.MembershipStanding{}
	if !principal.Anonymous() {
		mine, err := s.memberships.ListByUser(ctx, principal.Identity, "")
		if err != nil {
			return nil, err
		}
		for _, member := range mine {
			standing[member.ClubID] = dto.MembershipStanding{Role: member.Role, Status: member.Status}
		}
	}

	for _, club := range clubs {
		item := dto.NewClubSummary(club)
		item.MemberCount = memberCounts[club.ID]
		item.UpcomingEventCount = eventCounts[club.ID]
		if st, ok := standing[club.ID]; ok {
			st := st
			item.Membership = &st
		}
		items = append(items, item)
	}
	return items, nil
}

func announcementResponses(items []models.ClubAnnouncement) []dto.AnnouncementResponse {
	out := make([]dto.AnnouncementResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.NewAnnouncementResponse(item))
	}
	return out
}
