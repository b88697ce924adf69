package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"serwer-cytatow/internal/auth"
	"serwer-cytatow/internal/database"
	"serwer-cytatow/internal/models"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

const refreshTokenLength = 40

type SignupInput struct {
	Username string `validate:"required,notblank,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	ClientIP  string
	// LongLived signs the access token for the whole session lifetime, for browser cookies.
	LongLived bool
}

// LoginResult carries the signed access token and the refresh token of the new session.
type LoginResult struct {
	User         *models.User
	SessionID    uuid.UUID
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type AccountsConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	SessionTTL time.Duration
}

type Accounts struct {
	store      *database.Store
	cfg        AccountsConfig
	newRefresh func() string
}

func NewAccounts(store *database.Store, cfg AccountsConfig) (*Accounts, error) {
	generateID, err := nanoid.Standard(refreshTokenLength)
	if err != nil {
		return nil, err
	}
	return &Accounts{store: store, cfg: cfg, newRefresh: generateID}, nil
}

// Signup registers a user. A taken username or email yields ErrDuplicate and writes nothing.
func (a *Accounts) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := a.store.CreateUser(ctx, database.CreateUserParams{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateUser) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return user, nil
}

// Login checks credentials and opens a session. Unknown email and wrong password
// are indistinguishable to the caller.
func (a *Accounts) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := a.store.GetUserByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPasswordHash(in.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return a.openSession(ctx, a.store.Queries, user, in.UserAgent, in.ClientIP, in.LongLived)
}

// Refresh exchanges a refresh token for a new token pair. The old session is
// removed in the same transaction; of two calls racing with one token only the
// one that removes the session gets a new pair.
func (a *Accounts) Refresh(ctx context.Context, refreshToken, userAgent, clientIP string) (*LoginResult, error) {
	if refreshToken == "" {
		return nil, ErrUnauthenticated
	}

	var result *LoginResult
	err := a.store.ExecTx(ctx, func(q *database.Queries) error {
		user, sessionID, err := q.GetUserByRefreshToken(ctx, refreshToken)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUnauthenticated
		}

		deleted, err := q.DeleteSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrUnauthenticated
		}

		result, err = a.openSession(ctx, q, user, userAgent, clientIP, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Authenticate verifies the access token and that its session is still open.
func (a *Accounts) Authenticate(ctx context.Context, token string) (*auth.AppClaims, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := auth.VerifyJWT(token, a.cfg.JWTSecret)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	sessionID := claims.SessionID()
	if sessionID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	session, err := a.store.GetActiveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != claims.UserID {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

func (a *Accounts) Logout(ctx context.Context, sessionID uuid.UUID) error {
	_, err := a.store.DeleteSession(ctx, sessionID)
	return err
}

func (a *Accounts) User(ctx context.Context, userID int64) (*models.User, error) {
	user, err := a.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

func (a *Accounts) Sessions(ctx context.Context, userID int64) ([]models.Session, error) {
	return a.store.ListSessionsForUser(ctx, userID)
}

// EndSession closes one of the user's sessions. Sessions of other users are left alone.
func (a *Accounts) EndSession(ctx context.Context, userID int64, sessionID uuid.UUID) error {
	_, err := a.store.DeleteSessionByID(ctx, sessionID, userID)
	return err
}

func (a *Accounts) EndAllSessions(ctx context.Context, userID int64) error {
	return a.store.DeleteAllSessionsForUser(ctx, userID)
}

func (a *Accounts) Events(ctx context.Context, userID int64, sinceID int64) ([]database.Event, error) {
	return a.store.GetEventsSince(ctx, userID, sinceID)
}

func (a *Accounts) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return a.store.DeleteExpiredSessions(ctx)
}

func (a *Accounts) openSession(ctx context.Context, q *database.Queries, user *models.User, userAgent, clientIP string, longLived bool) (*LoginResult, error) {
	sessionID := uuid.New()
	refreshToken := a.newRefresh()
	expiresAt := time.Now().Add(a.cfg.SessionTTL)

	err := q.CreateSession(ctx, database.CreateSessionParams{
		ID:           sessionID,
		UserID:       user.ID,
		RefreshToken: refreshToken,
		UserAgent:    userAgent,
		ClientIP:     clientIP,
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		return nil, err
	}

	ttl := a.cfg.AccessTTL
	if longLived || ttl <= 0 || ttl > a.cfg.SessionTTL {
		ttl = a.cfg.SessionTTL
	}
	accessToken, err := auth.GenerateJWT(user, sessionID, a.cfg.JWTSecret, ttl)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         user,
		SessionID:    sessionID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// Ping checks that the database is reachable.
func (a *Accounts) Ping(ctx context.Context) error {
	return a.store.GetPool().Ping(ctx)
}
