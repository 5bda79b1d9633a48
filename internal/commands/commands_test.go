package commands

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alcyxob/trainer-scheduler/internal/domain"
	"alcyxob/trainer-scheduler/internal/repository/sqlite"
	"alcyxob/trainer-scheduler/internal/schedule"
	"alcyxob/trainer-scheduler/internal/service"
)

func TestSeedUsersIsIdempotent(t *testing.T) {
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer sqlite.Close(db)

	users := sqlite.NewUserRepository(db)
	auth := service.NewAuthService(users, "secret", time.Hour)
	ctx := context.Background()

	var out bytes.Buffer
	n, err := seedUsers(ctx, auth, &out)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = seedUsers(ctx, auth, &out)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, out.String(), "johnsmith    exists")

	_, _, err = auth.Login(ctx, "sarahj", "trainer456", domain.RoleTrainer)
	assert.NoError(t, err)
	_, _, err = auth.Login(ctx, "superadmin", "super123", domain.RoleAdmin)
	assert.NoError(t, err)
}

func TestSweepTrainers(t *testing.T) {
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer sqlite.Close(db)

	users := sqlite.NewUserRepository(db)
	sessions := sqlite.NewSessionRepository(db)
	auth := service.NewAuthService(users, "secret", time.Hour)
	ctx := context.Background()

	_, err = seedUsers(ctx, auth, &bytes.Buffer{})
	require.NoError(t, err)
	john, err := users.GetByUsername(ctx, "johnsmith")
	require.NoError(t, err)

	past := domain.Session{
		Title: "Old", ClientName: "Alex", SessionType: "personal",
		Date: domain.NewDate(2020, time.January, 6), Time: domain.TimeOfDay{Hour: 9}, DurationMinutes: 60,
	}
	started := past
	started.Status = domain.SessionStarted
	_, err = sessions.CreateMany(ctx, john.ID, []domain.Session{past, past, started})
	require.NoError(t, err)

	svc := service.NewSessionService(sessions, schedule.CleanupPolicy{Enabled: true}, time.UTC, zap.NewNop())
	var out bytes.Buffer
	total, err := sweepTrainers(ctx, users, svc, "", &out)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	left, err := sessions.CountByTrainer(ctx, john.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), left)
}
