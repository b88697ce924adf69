package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createTestSession(t *testing.T, userID int64, token string, expiresAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := testStore.CreateSession(context.Background(), CreateSessionParams{
		ID:           id,
		UserID:       userID,
		RefreshToken: token,
		UserAgent:    "test-agent",
		ClientIP:     "127.0.0.1",
		ExpiresAt:    expiresAt,
	})
	require.NoError(t, err)
	return id
}

func TestCreateSession(t *testing.T) {
	user := createRandomUser(t)
	id := createTestSession(t, user.ID, "test_refresh_token_session_create", time.Now().Add(24*time.Hour))

	var foundToken string
	query := "SELECT refresh_token FROM sessions WHERE id = $1"
	err := testStore.pool.QueryRow(context.Background(), query, id).Scan(&foundToken)
	require.NoError(t, err)
	require.Equal(t, "test_refresh_token_session_create", foundToken)

	session, err := testStore.GetActiveSession(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, session)
	require.Equal(t, user.ID, session.UserID)
	require.Equal(t, "test-agent", session.UserAgent)
}

func TestGetActiveSession_Expired(t *testing.T) {
	user := createRandomUser(t)
	id := createTestSession(t, user.ID, "expired_active_token", time.Now().Add(-time.Minute))

	session, err := testStore.GetActiveSession(context.Background(), id)
	require.NoError(t, err)
	require.Nil(t, session)

	session, err = testStore.GetActiveSession(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, session)
}

func TestGetUserByRefreshToken(t *testing.T) {
	user := createRandomUser(t)
	id := createTestSession(t, user.ID, "valid_refresh_token", time.Now().Add(time.Hour))

	foundUser, sessionID, err := testStore.GetUserByRefreshToken(context.Background(), "valid_refresh_token")
	require.NoError(t, err)
	require.NotNil(t, foundUser)
	require.Equal(t, user.ID, foundUser.ID)
	require.Equal(t, id, sessionID)

	createTestSession(t, user.ID, "expired_refresh_token", time.Now().Add(-time.Hour))
	foundUser, sessionID, err = testStore.GetUserByRefreshToken(context.Background(), "expired_refresh_token")
	require.NoError(t, err)
	require.Nil(t, foundUser)
	require.Equal(t, uuid.Nil, sessionID)
}

func TestListSessionsForUser(t *testing.T) {
	user := createRandomUser(t)

	for i := 0; i < 2; i++ {
		createTestSession(t, user.ID, fmt.Sprintf("list_token_%d", i), time.Now().Add(time.Hour))
	}
	createTestSession(t, user.ID, "expired_list_token", time.Now().Add(-time.Hour))

	sessions, err := testStore.ListSessionsForUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
}

func TestDeleteSessionByID(t *testing.T) {
	user := createRandomUser(t)
	otherUser := createRandomUser(t)
	toDelete := createTestSession(t, user.ID, "delete_me", time.Now().Add(time.Hour))
	toKeep := createTestSession(t, user.ID, "keep_me", time.Now().Add(time.Hour))
	otherSession := createTestSession(t, otherUser.ID, "other_user_session", time.Now().Add(time.Hour))

	deleted, err := testStore.DeleteSessionByID(context.Background(), otherSession, user.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	deleted, err = testStore.DeleteSessionByID(context.Background(), toDelete, user.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	sessions, err := testStore.ListSessionsForUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, toKeep, sessions[0].ID)

	otherSessions, err := testStore.ListSessionsForUser(context.Background(), otherUser.ID)
	require.NoError(t, err)
	require.Len(t, otherSessions, 1)
}

func TestDeleteAllSessionsForUser(t *testing.T) {
	user1 := createRandomUser(t)
	user2 := createRandomUser(t)

	for i := 0; i < 3; i++ {
		createTestSession(t, user1.ID, fmt.Sprintf("u1_token_%d", i), time.Now().Add(time.Hour))
	}
	createTestSession(t, user2.ID, "u2_token", time.Now().Add(time.Hour))

	err := testStore.DeleteAllSessionsForUser(context.Background(), user1.ID)
	require.NoError(t, err)

	user1Sessions, err := testStore.ListSessionsForUser(context.Background(), user1.ID)
	require.NoError(t, err)
	require.Len(t, user1Sessions, 0)

	user2Sessions, err := testStore.ListSessionsForUser(context.Background(), user2.ID)
	require.NoError(t, err)
	require.Len(t, user2Sessions, 1)
}

func TestDeleteSession_ReportsOnce(t *testing.T) {
	ctx := context.Background()
	user := createRandomUser(t)
	gone := createTestSession(t, user.ID, "token_to_delete_by_id", time.Now().Add(time.Hour))
	createTestSession(t, user.ID, "token_to_keep_by_id", time.Now().Add(time.Hour))

	deleted, err := testStore.DeleteSession(ctx, gone)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = testStore.DeleteSession(ctx, gone)
	require.NoError(t, err)
	require.False(t, deleted)

	foundUser, _, err := testStore.GetUserByRefreshToken(ctx, "token_to_delete_by_id")
	require.NoError(t, err)
	require.Nil(t, foundUser)

	foundUser, _, err = testStore.GetUserByRefreshToken(ctx, "token_to_keep_by_id")
	require.NoError(t, err)
	require.NotNil(t, foundUser)
}

func TestDeleteExpiredSessions(t *testing.T) {
	user := createRandomUser(t)
	live := createTestSession(t, user.ID, "sweep_live", time.Now().Add(time.Hour))
	dead := createTestSession(t, user.ID, "sweep_dead", time.Now().Add(-time.Hour))

	n, err := testStore.DeleteExpiredSessions(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, int64(1))

	var count int
	err = testStore.pool.QueryRow(context.Background(),
		`SELECT count(*) FROM sessions WHERE id = ANY($1)`, []uuid.UUID{live, dead}).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
