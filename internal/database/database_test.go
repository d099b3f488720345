package database

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campus-portal/campus-api/internal/models"
)

func TestConnectSQLiteAndMigrate(t *testing.T) {
	url := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Connect(url, Options{MaxOpenConns: 20})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, Migrate(db, zerolog.New(io.Discard)))
	require.True(t, db.Migrator().HasTable(&models.Registration{}))
	require.True(t, db.Migrator().HasTable(&models.ClubMember{}))
}

func TestConnectRejectsEmptyURL(t *testing.T) {
	_, err := Connect("  ", Options{})
	require.Error(t, err)
}

func TestDialectorSelection(t *testing.T) {
	_, sqliteStore := dialectorFor("sqlite:campus.db")
	require.True(t, sqliteStore)
	_, sqliteStore = dialectorFor("file:test.db?cache=shared")
	require.True(t, sqliteStore)
	dialector, sqliteStore := dialectorFor("postgres://campus@localhost/campus")
	require.False(t, sqliteStore)
	require.Equal(t, "postgres", dialector.Name())
}

func TestConnectRedis(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := ConnectRedis(context.Background(), "redis://"+server.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	_, err = ConnectRedis(context.Background(), "")
	require.Error(t, err)
}

func TestConnectNATSRequiresURL(t *testing.T) {
	_, err := ConnectNATS("", zerolog.New(io.Discard))
	require.Error(t, err)
}
