package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/models"
	"github.com/campus-portal/campus-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func openServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, notification Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// portal wires every service against one database.
type portal struct {
	db            *gorm.DB
	notifier      *recordingNotifier
	accounts      AccountService
	events        EventService
	registrations RegistrationService
	clubs         ClubService
	memberships   MembershipService
	review        AdminReviewService
	moderation    ModerationService
	activity      ActivityService
}

func newPortal(t *testing.T, cache *TrendingCache) *portal {
	t.Helper()
	return newPortalOn(t, openServiceDB(t), cache)
}

// newPortalOn wires the services against an already migrated database.
func newPortalOn(t *testing.T, db *gorm.DB, cache *TrendingCache) *portal {
	t.Helper()
	validate := validator.New(validator.WithRequiredStructEnabled())
	log := testLogger()

	eventRepo := repository.NewEventRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	clubRepo := repository.NewClubRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	flagRepo := repository.NewFlagRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	tx := repository.NewTransactor(db)

	notifier := &recordingNotifier{}
	activity := NewActivityService(activityRepo, log)
	events := NewEventService(eventRepo, registrationRepo, clubRepo, membershipRepo, tx, cache, validate, log)

	return &portal{
		db:            db,
		notifier:      notifier,
		accounts:      NewAccountService(accountRepo, log),
		events:        events,
		registrations: NewRegistrationService(eventRepo, registrationRepo, tx, cache, notifier, validate, log),
		clubs:         NewClubService(clubRepo, membershipRepo, announcementRepo, eventRepo, events, validate, log),
		memberships:   NewMembershipService(clubRepo, membershipRepo, tx, notifier, log),
		review:        NewAdminReviewService(clubRepo, membershipRepo, accountRepo, tx, activity, notifier, log),
		moderation:    NewModerationService(flagRepo, tx, activity, validate, log),
		activity:      activity,
	}
}

func student(email string) identity.Principal {
	return identity.Principal{Identity: email, Role: identity.RoleStudent, LeaderApproved: true}
}

func leader(email string) identity.Principal {
	return identity.Principal{Identity: email, Role: identity.RoleLeader, LeaderApproved: true}
}

func admin() identity.Principal {
	return identity.Principal{Identity: "admin@school.edu", Role: identity.RoleAdmin, LeaderApproved: true}
}

func (p *portal) seedEvent(t *testing.T, title string, startsAt time.Time, capacity *int, clubID *uint) models.Event {
	t.Helper()
	event := models.Event{ClubID: clubID, Title: title, StartsAt: startsAt.UTC(), Location: "Hall", Capacity: capacity, Category: "general"}
	require.NoError(t, p.db.Create(&event).Error)
	return event
}

// seedApprovedClub creates an approved club led by leaderEmail.
func (p *portal) seedApprovedClub(t *testing.T, name, leaderEmail string) models.Club {
	t.Helper()
	club := models.Club{Name: name, Approved: true, CreatedBy: leaderEmail}
	require.NoError(t, p.db.Create(&club).Error)
	require.NoError(t, p.db.Create(&models.ClubMember{
		ClubID:       club.ID,
		UserIdentity: leaderEmail,
		Role:         models.MembershipRoleLeader,
		Status:       models.MembershipStatusApproved,
	}).Error)
	return club
}

func intPtr(v int) *int {
	return &v
}

func uintPtr(v uint) *uint {
	return &v
}
