package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campus-portal/campus-api/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
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

func seedEvent(t *testing.T, db *gorm.DB, title string, startsAt time.Time, capacity *int) models.Event {
	t.Helper()
	event := models.Event{Title: title, StartsAt: startsAt.UTC(), Location: "Hall", Capacity: capacity, Category: "general"}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func seedRegistrations(t *testing.T, db *gorm.DB, eventID uint, identities ...string) {
	t.Helper()
	for _, identity := range identities {
		require.NoError(t, db.Create(&models.Registration{EventID: eventID, UserIdentity: identity}).Error)
	}
}

func intPtr(v int) *int {
	return &v
}
