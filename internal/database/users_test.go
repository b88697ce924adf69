package database

import (
	"context"
	"fmt"
	"serwer-cytatow/internal/auth"
	"serwer-cytatow/internal/models"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

var userSeq atomic.Int64

func createRandomUser(t *testing.T) *models.User {
	t.Helper()

	hashedPassword, err := auth.HashPassword("secretpassword")
	require.NoError(t, err)

	n := userSeq.Add(1)
	user, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Username:     fmt.Sprintf("user_%s_%d", t.Name(), n),
		Email:        fmt.Sprintf("user_%d_%p@example.com", n, t),
		PasswordHash: hashedPassword,
	})
	require.NoError(t, err)
	return user
}

func countUsers(t *testing.T) int {
	t.Helper()
	var n int
	err := testStore.pool.QueryRow(context.Background(), `SELECT count(*) FROM users`).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestCreateUser(t *testing.T) {
	user := createRandomUser(t)

	require.NotZero(t, user.ID)
	require.NotEmpty(t, user.PasswordHash)
	require.False(t, user.CreatedAt.IsZero())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	user := createRandomUser(t)
	before := countUsers(t)

	_, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Username:     "someone_else_entirely",
		Email:        user.Email,
		PasswordHash: "x",
	})
	require.ErrorIs(t, err, ErrDuplicateUser)
	require.Equal(t, before, countUsers(t))
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	user := createRandomUser(t)

	_, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Username:     user.Username,
		Email:        "fresh_address@example.com",
		PasswordHash: "x",
	})
	require.ErrorIs(t, err, ErrDuplicateUser)
}

func TestGetUserByEmailAndID(t *testing.T) {
	user := createRandomUser(t)
	ctx := context.Background()

	byEmail, err := testStore.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	require.Equal(t, user.ID, byEmail.ID)

	byID, err := testStore.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Username, byID.Username)

	nonExistentUser, err := testStore.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, nonExistentUser)
}
