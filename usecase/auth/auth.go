package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/repository"
)

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	secret   []byte
	issuer   string
	ttl      time.Duration
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, secret, issuer string, ttl time.Duration, logger *zap.Logger) *UseCase {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		issuer:   issuer,
		ttl:      ttl,
		logger:   logger,
	}
}

// Credentials is what a successful register/login hands back to the client.
type Credentials struct {
	User    *domain.User    `json:"user"`
	Session *domain.Session `json:"session"`
	Token   string          `json:"token"`
}

// Register creates an account and immediately logs it in.
func (uc *UseCase) Register(ctx context.Context, username, displayName, bio, password string) (*Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidPayload
	}

	user := &domain.User{
		Username:    username,
		DisplayName: strings.TrimSpace(displayName),
		Bio:         strings.TrimSpace(bio),
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	created, err := uc.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return uc.issue(ctx, created)
}

// Login verifies the credentials and issues a session plus a signed token.
func (uc *UseCase) Login(ctx context.Context, username, password string) (*Credentials, error) {
	user, err := uc.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.issue(ctx, user)
}

// Logout revokes the session.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) issue(ctx context.Context, user *domain.User) (*Credentials, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{
		"user_id":    user.ID,
		"session_id": session.ID,
		"iss":        uc.issuer,
		"iat":        now.Unix(),
		"exp":        session.ExpiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
	if err != nil {
		return nil, err
	}

	return &Credentials{
		User:    user,
		Session: session,
		Token:   token,
	}, nil
}
