package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"serwer-cytatow/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSignup_Validation(t *testing.T) {
	cases := []struct {
		name  string
		in    SignupInput
		field string
	}{
		{"short username", SignupInput{Username: "ab", Email: "ab@example.com", Password: "secret1"}, "username"},
		{"bad email", SignupInput{Username: "valid_name", Email: "not-an-email", Password: "secret1"}, "email"},
		{"short password", SignupInput{Username: "valid_name", Email: "v@example.com", Password: "12345"}, "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testAccounts.Signup(context.Background(), tc.in)
			require.ErrorIs(t, err, ErrValidation)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestSignup_Duplicate(t *testing.T) {
	ctx := context.Background()
	user, _ := signupRandomUser(t)

	_, err := testAccounts.Signup(ctx, SignupInput{
		Username: user.Username,
		Email:    "another_" + user.Email,
		Password: "secret-password",
	})
	require.ErrorIs(t, err, ErrDuplicate)

	_, err = testAccounts.Signup(ctx, SignupInput{
		Username: user.Username + "_x",
		Email:    user.Email,
		Password: "secret-password",
	})
	require.ErrorIs(t, err, ErrDuplicate)

	stored, err := testStore.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.ID)
	require.Equal(t, user.Username, stored.Username, "the failed signup changed nothing")
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	user, password := signupRandomUser(t)

	res, err := testAccounts.Login(ctx, LoginInput{Email: user.Email, Password: password, UserAgent: "go-test", ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)
	require.Equal(t, user.ID, res.User.ID)

	claims, err := testAccounts.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, res.SessionID, claims.SessionID())

	sessions, err := testAccounts.Sessions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "go-test", sessions[0].UserAgent)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	user, _ := signupRandomUser(t)

	_, err := testAccounts.Login(ctx, LoginInput{Email: user.Email, Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, errMissing := testAccounts.Login(ctx, LoginInput{Email: "missing@example.com", Password: "whatever"})
	require.ErrorIs(t, errMissing, ErrInvalidCredentials)
	require.Equal(t, err.Error(), errMissing.Error())
}

func TestLogout_RevokesToken(t *testing.T) {
	ctx := context.Background()
	user, password := signupRandomUser(t)

	res, err := testAccounts.Login(ctx, LoginInput{Email: user.Email, Password: password, LongLived: true})
	require.NoError(t, err)

	require.NoError(t, testAccounts.Logout(ctx, res.SessionID))

	_, err = testAccounts.Authenticate(ctx, res.AccessToken)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticate_Rejects(t *testing.T) {
	ctx := context.Background()
	user, _ := signupRandomUser(t)

	_, err := testAccounts.Authenticate(ctx, "")
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = testAccounts.Authenticate(ctx, "garbage.token.value")
	require.ErrorIs(t, err, ErrUnauthenticated)

	// Validly signed but no session row behind it.
	orphan, err := auth.GenerateJWT(user, uuid.New(), testSecret, time.Hour)
	require.NoError(t, err)
	_, err = testAccounts.Authenticate(ctx, orphan)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRefresh_RotatesSession(t *testing.T) {
	ctx := context.Background()
	user, password := signupRandomUser(t)

	first, err := testAccounts.Login(ctx, LoginInput{Email: user.Email, Password: password})
	require.NoError(t, err)

	second, err := testAccounts.Refresh(ctx, first.RefreshToken, "ua", "ip")
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)
	require.NotEqual(t, first.SessionID, second.SessionID)

	_, err = testAccounts.Refresh(ctx, first.RefreshToken, "ua", "ip")
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = testAccounts.Authenticate(ctx, first.AccessToken)
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = testAccounts.Authenticate(ctx, second.AccessToken)
	require.NoError(t, err)
}

func TestRefresh_ConcurrentUseOfOneToken(t *testing.T) {
	ctx := context.Background()
	user, password := signupRandomUser(t)

	login, err := testAccounts.Login(ctx, LoginInput{Email: user.Email, Password: password})
	require.NoError(t, err)

	const callers = 4
	results := make([]*LoginResult, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = testAccounts.Refresh(ctx, login.RefreshToken, "ua", "ip")
		}(i)
	}
	wg.Wait()

	wins := 0
	for i := range errs {
		if errs[i] == nil {
			wins++
			require.NotNil(t, results[i])
			continue
		}
		require.ErrorIs(t, errs[i], ErrUnauthenticated)
	}
	require.Equal(t, 1, wins, "a refresh token is good for exactly one rotation")

	sessions, err := testAccounts.Sessions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
}

func TestEndSessions(t *testing.T) {
	ctx := context.Background()
	user, password := signupRandomUser(t)
	other, otherPassword := signupRandomUser(t)

	a, err := testAccounts.Login(ctx, LoginInput{Email: user.Email, Password: password})
	require.NoError(t, err)
	_, err = testAccounts.Login(ctx, LoginInput{Email: user.Email, Password: password})
	require.NoError(t, err)
	o, err := testAccounts.Login(ctx, LoginInput{Email: other.Email, Password: otherPassword})
	require.NoError(t, err)

	require.NoError(t, testAccounts.EndSession(ctx, user.ID, o.SessionID))
	_, err = testAccounts.Authenticate(ctx, o.AccessToken)
	require.NoError(t, err, "sessions of other users are untouched")

	require.NoError(t, testAccounts.EndSession(ctx, user.ID, a.SessionID))
	sessions, err := testAccounts.Sessions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	require.NoError(t, testAccounts.EndAllSessions(ctx, user.ID))
	sessions, err = testAccounts.Sessions(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, sessions)
}
