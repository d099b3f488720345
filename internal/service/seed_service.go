package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campus-portal/campus-api/internal/apperrors"
	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/models"
	"github.com/campus-portal/campus-api/internal/repository"
)

// ErrSeedDisabled indicates the demo seeding is disabled by configuration.
var ErrSeedDisabled = apperrors.Forbidden(apperrors.ReasonSeedDisabled, "seeding is disabled")

// SeedReport lists what a seeding run created.
type SeedReport struct {
	Clubs         int `json:"clubs"`
	Events        int `json:"events"`
	Announcements int `json:"announcements"`
	Accounts      int `json:"accounts"`
}

// SeedService loads demo data. Every step is skipped when its data already exists.
type SeedService interface {
	SeedDemo(ctx context.Context) (SeedReport, error)
	Run(ctx context.Context, principal identity.Principal) (SeedReport, error)
}

type seedService struct {
	clubs         repository.ClubRepository
	memberships   repository.MembershipRepository
	announcements repository.AnnouncementRepository
	events        repository.EventRepository
	accounts      repository.AccountRepository
	tx            repository.Transactor
	enabled       bool
	logger        zerolog.Logger
	now           func() time.Time
}

// NewSeedService constructs a seeding service.
func NewSeedService(
	clubs repository.ClubRepository,
	memberships repository.MembershipRepository,
	announcements repository.AnnouncementRepository,
	events repository.EventRepository,
	accounts repository.AccountRepository,
	tx repository.Transactor,
	enabled bool,
	logger zerolog.Logger,
) SeedService {
	return &seedService{
		clubs:         clubs,
		memberships:   memberships,
		announcements: announcements,
		events:        events,
		accounts:      accounts,
		tx:            tx,
		enabled:       enabled,
		logger:        logger.With().Str("component", "seed_service").Logger(),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Run seeds on behalf of an administrator.
func (s *seedService) Run(ctx context.Context, principal identity.Principal) (SeedReport, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return SeedReport{}, err
	}
	return s.SeedDemo(ctx)
}

func (s *seedService) SeedDemo(ctx context.Context) (SeedReport, error) {
	if !s.enabled {
		return SeedReport{}, ErrSeedDisabled
	}

	var report SeedReport
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.seedAIClub(ctx, &report); err != nil {
			return err
		}
		if err := s.seedPendingClub(ctx, &report); err != nil {
			return err
		}
		return s.seedCampusEvent(ctx, &report)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("demo seed failed")
		return SeedReport{}, err
	}

	s.logger.Info().
		Int("clubs", report.Clubs).
		Int("events", report.Events).
		Int("announcements", report.Announcements).
		Int("accounts", report.Accounts).
		Msg("demo data seeded")
	return report, nil
}

func (s *seedService) seedAIClub(ctx context.Context, report *SeedReport) error {
	const leader = "leader@school.edu"

	exists, err := s.clubExists(ctx, "AI Club")
	if err != nil || exists {
		return err
	}

	if _, err := s.accounts.Resolve(ctx, leader, models.AccountRoleLeader); err != nil {
		return err
	}
	if _, err := s.accounts.ApproveLeader(ctx, leader); err != nil {
		return err
	}
	report.Accounts++

	category := "tech"
	club := models.Club{
		Name:        "AI Club",
		Description: "Hands-on meetups about ML, robotics, and automation.",
		Category:    &category,
		Approved:    true,
		CreatedBy:   leader,
	}
	if err := s.clubs.Create(ctx, &club); err != nil {
		return err
	}
	report.Clubs++

	if err := s.memberships.UpsertLeader(ctx, club.ID, leader); err != nil {
		return err
	}

	kickoff := models.ClubAnnouncement{
		ClubID: club.ID,
		Title:  "Kickoff week",
		Body:   "First meeting this Friday in ENG 101. Bring friends!",
	}
	if err := s.announcements.Create(ctx, &kickoff); err != nil {
		return err
	}
	report.Announcements++

	capacity := 2
	workshop := models.Event{
		ClubID:    &club.ID,
		Title:     "AI Club Workshop",
		StartsAt:  s.now().Add(48 * time.Hour),
		Location:  "ENG 101",
		Capacity:  &capacity,
		Category:  "tech",
		CreatedBy: leader,
	}
	if err := s.events.Create(ctx, &workshop); err != nil {
		return err
	}
	report.Events++
	return nil
}

func (s *seedService) seedPendingClub(ctx context.Context, report *SeedReport) error {
	exists, err := s.clubExists(ctx, "Music Makers")
	if err != nil || exists {
		return err
	}

	category := "music"
	club := models.Club{
		Name:        "Music Makers",
		Description: "Student musicians jamming and performing on campus.",
		Category:    &category,
		CreatedBy:   "musiclead@school.edu",
	}
	if err := s.clubs.Create(ctx, &club); err != nil {
		return err
	}
	report.Clubs++
	return nil
}

func (s *seedService) seedCampusEvent(ctx context.Context, report *SeedReport) error {
	existing, err := s.events.Search(ctx, repository.EventFilter{Title: "Campus Welcome Fair", Limit: 1})
	if err != nil || len(existing) > 0 {
		return err
	}

	capacity := 200
	fair := models.Event{
		Title:    "Campus Welcome Fair",
		StartsAt: s.now().Add(24 * time.Hour),
		Location: "Campus Quad",
		Capacity: &capacity,
		Category: "general",
	}
	if err := s.events.Create(ctx, &fair); err != nil {
		return err
	}
	report.Events++
	return nil
}

func (s *seedService) clubExists(ctx context.Context, name string) (bool, error) {
	_, err := s.clubs.FindByName(ctx, name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, err
	}
}
