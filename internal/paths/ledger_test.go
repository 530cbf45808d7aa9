package paths

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"waypoint/internal/auth"
	"waypoint/internal/db"
	"waypoint/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database shared and serializes
	// concurrent transactions
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), database))
	return database
}

func createUser(t *testing.T, database *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("pw1")
	require.NoError(t, err)

	user := &models.User{Username: username, PasswordHash: hash}
	require.NoError(t, database.Create(user).Error)
	return user
}

func TestStartEnforcesSingleActiveSession(t *testing.T) {
	database := openTestDB(t)
	ledger := NewLedger(database)
	ctx := context.Background()
	user := createUser(t, database, "alice")

	session, err := ledger.Start(ctx, user.ID, "hike1")
	require.NoError(t, err)
	require.True(t, session.IsActive)

	t.Run("second start fails while active", func(t *testing.T) {
		_, err := ledger.Start(ctx, user.ID, "hike2")
		require.ErrorIs(t, err, ErrSessionAlreadyActive)
	})

	t.Run("start succeeds after stop", func(t *testing.T) {
		_, err := ledger.Stop(ctx, user.ID)
		require.NoError(t, err)

		_, err = ledger.Start(ctx, user.ID, "hike2")
		require.NoError(t, err)
	})

	t.Run("name reuse across inactive sessions is allowed", func(t *testing.T) {
		_, err := ledger.Stop(ctx, user.ID)
		require.NoError(t, err)

		_, err = ledger.Start(ctx, user.ID, "hike1")
		require.NoError(t, err)
	})
}

func TestStopWithoutActiveSession(t *testing.T) {
	database := openTestDB(t)
	ledger := NewLedger(database)
	user := createUser(t, database, "alice")

	_, err := ledger.Stop(context.Background(), user.ID)
	require.ErrorIs(t, err, ErrNoActiveSession)
}

func TestAddPointRequiresActiveSessionByName(t *testing.T) {
	database := openTestDB(t)
	ledger := NewLedger(database)
	ctx := context.Background()
	user := createUser(t, database, "alice")

	_, err := ledger.Start(ctx, user.ID, "hike1")
	require.NoError(t, err)

	t.Run("wrong name fails even while a session is active", func(t *testing.T) {
		_, err := ledger.AddPoint(ctx, user.ID, "hike2", 1.0, 2.0)
		require.ErrorIs(t, err, ErrNoActiveSession)
	})

	t.Run("matching name succeeds", func(t *testing.T) {
		point, err := ledger.AddPoint(ctx, user.ID, "hike1", 1.0, 2.0)
		require.NoError(t, err)
		require.Equal(t, 1.0, point.Latitude)
		require.Equal(t, 2.0, point.Longitude)
		require.False(t, point.Timestamp.IsZero())
	})

	t.Run("inactive session by the same name does not qualify", func(t *testing.T) {
		_, err := ledger.Stop(ctx, user.ID)
		require.NoError(t, err)

		_, err = ledger.AddPoint(ctx, user.ID, "hike1", 1.1, 2.1)
		require.ErrorIs(t, err, ErrNoActiveSession)
	})
}

func TestPathReturnsPointsInInsertionOrder(t *testing.T) {
	database := openTestDB(t)
	ledger := NewLedger(database)
	ctx := context.Background()
	user := createUser(t, database, "alice")

	_, err := ledger.Start(ctx, user.ID, "hike1")
	require.NoError(t, err)

	_, err = ledger.AddPoint(ctx, user.ID, "hike1", 1.0, 2.0)
	require.NoError(t, err)
	_, err = ledger.AddPoint(ctx, user.ID, "hike1", 1.1, 2.1)
	require.NoError(t, err)

	_, err = ledger.Stop(ctx, user.ID)
	require.NoError(t, err)

	// historical sessions stay queryable by name
	points, err := ledger.Path(ctx, user.ID, "hike1")
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, []float64{1.0, 2.0}, []float64{points[0].Latitude, points[0].Longitude})
	require.Equal(t, []float64{1.1, 2.1}, []float64{points[1].Latitude, points[1].Longitude})
}

func TestPathIsScopedToOwner(t *testing.T) {
	database := openTestDB(t)
	ledger := NewLedger(database)
	ctx := context.Background()
	alice := createUser(t, database, "alice")
	bob := createUser(t, database, "bob")

	_, err := ledger.Start(ctx, alice.ID, "hike1")
	require.NoError(t, err)
	_, err = ledger.AddPoint(ctx, alice.ID, "hike1", 1.0, 2.0)
	require.NoError(t, err)

	_, err = ledger.Path(ctx, bob.ID, "hike1")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionsListsAllOwned(t *testing.T) {
	database := openTestDB(t)
	ledger := NewLedger(database)
	ctx := context.Background()
	alice := createUser(t, database, "alice")
	bob := createUser(t, database, "bob")

	_, err := ledger.Start(ctx, alice.ID, "hike1")
	require.NoError(t, err)
	_, err = ledger.Stop(ctx, alice.ID)
	require.NoError(t, err)
	_, err = ledger.Start(ctx, alice.ID, "hike2")
	require.NoError(t, err)
	_, err = ledger.Start(ctx, bob.ID, "ride1")
	require.NoError(t, err)

	sessions, err := ledger.Sessions(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	for _, s := range sessions {
		require.Equal(t, alice.ID, s.UserID)
	}
}

func TestConcurrentStartAdmitsExactlyOne(t *testing.T) {
	database := openTestDB(t)
	ledger := NewLedger(database)
	ctx := context.Background()
	user := createUser(t, database, "alice")

	const attempts = 8
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Start(ctx, user.ID, "race")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, ErrSessionAlreadyActive)
			rejected++
		}
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, attempts-1, rejected)
}

func TestDeleteUserCascades(t *testing.T) {
	database := openTestDB(t)
	ledger := NewLedger(database)
	ctx := context.Background()
	alice := createUser(t, database, "alice")
	bob := createUser(t, database, "bob")

	_, err := ledger.Start(ctx, alice.ID, "hike1")
	require.NoError(t, err)
	_, err = ledger.AddPoint(ctx, alice.ID, "hike1", 1.0, 2.0)
	require.NoError(t, err)
	_, err = ledger.Start(ctx, bob.ID, "ride1")
	require.NoError(t, err)

	require.NoError(t, ledger.DeleteUser(ctx, alice.ID))

	var users, sessions, points int64
	require.NoError(t, database.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, database.Model(&models.Session{}).Count(&sessions).Error)
	require.NoError(t, database.Model(&models.PathPoint{}).Count(&points).Error)
	require.Equal(t, int64(1), users)
	require.Equal(t, int64(1), sessions)
	require.Equal(t, int64(0), points)
}
