package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/repository/memory"
)

type fakeSessions struct {
	saved   map[string]*domain.Session
	deleted []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{saved: make(map[string]*domain.Session)}
}

func (f *fakeSessions) Get(ctx context.Context, id string) (*domain.Session, error) {
	session, ok := f.saved[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessions) Save(ctx context.Context, session *domain.Session) error {
	f.saved[session.ID] = session
	return nil
}

func (f *fakeSessions) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.saved, id)
	return nil
}

func newTestUseCase(t *testing.T) (*UseCase, *fakeSessions) {
	t.Helper()
	sessions := newFakeSessions()
	uc := New(memory.NewUserRepository(memory.Open()), sessions, "test-secret", "guillotine-test", time.Hour, nil)
	return uc, sessions
}

func TestRegisterIssuesCredentials(t *testing.T) {
	uc, sessions := newTestUseCase(t)
	ctx := context.Background()

	creds, err := uc.Register(ctx, "alice", "Alice", "night owl", "hunter2")
	require.NoError(t, err)
	require.NotNil(t, creds.User)
	assert.Equal(t, "alice", creds.User.Username)
	assert.NotEqual(t, "hunter2", creds.User.PasswordHash)
	require.NotNil(t, creds.Session)
	assert.Contains(t, sessions.saved, creds.Session.ID)

	token, err := jwt.Parse(creds.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, creds.User.ID, claims["user_id"])
	assert.Equal(t, creds.Session.ID, claims["session_id"])
	assert.Equal(t, "guillotine-test", claims["iss"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "alice", "", "", "pw")
	require.NoError(t, err)

	_, err = uc.Register(ctx, "alice", "", "", "pw2")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "bob", "", "", "correct horse")
	require.NoError(t, err)

	creds, err := uc.Login(ctx, "bob", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, creds.Token)

	_, err = uc.Login(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Unknown users report the same error as bad passwords.
	_, err = uc.Login(ctx, "nobody", "whatever")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	uc, sessions := newTestUseCase(t)
	ctx := context.Background()

	creds, err := uc.Register(ctx, "carol", "", "", "pw")
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, creds.Session.ID))
	assert.NotContains(t, sessions.saved, creds.Session.ID)
}
