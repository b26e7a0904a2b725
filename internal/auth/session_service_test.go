package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/evencio/evencio/internal/database/testutil"
	"github.com/evencio/evencio/internal/models"
)

func newSessionService(t *testing.T, clock func() time.Time) (*SessionService, string) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	user := models.User{
		Username: "orga",
		Email:    "orga@example.com",
		Password: "hash",
	}
	require.NoError(t, db.Create(&user).Error)

	jwtSvc, err := NewJWTService(JWTConfig{Secret: "secret", Clock: clock})
	require.NoError(t, err)

	svc, err := NewSessionService(db, jwtSvc, SessionConfig{Clock: clock})
	require.NoError(t, err)

	return svc, user.ID
}

func TestSessionServiceCreateAndRefresh(t *testing.T) {
	svc, userID := newSessionService(t, nil)
	ctx := context.Background()

	pair, session, err := svc.Create(ctx, userID, SessionMetadata{IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, userID, session.UserID)

	rotated, _, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// the old token is no longer valid
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionServiceRevoke(t *testing.T) {
	svc, userID := newSessionService(t, nil)
	ctx := context.Background()

	pair, _, err := svc.Create(ctx, userID, SessionMetadata{})
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, pair.RefreshToken))

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionRevoked)
}

func TestSessionServiceExpiry(t *testing.T) {
	current := time.Now()
	clock := func() time.Time { return current }
	svc, userID := newSessionService(t, clock)
	ctx := context.Background()

	pair, _, err := svc.Create(ctx, userID, SessionMetadata{})
	require.NoError(t, err)

	current = current.Add(DefaultRefreshTokenTTL + time.Hour)

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionExpired)

	deleted, err := svc.DeleteExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)
}
