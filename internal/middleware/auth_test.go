package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/socialguillotine/backend/domain"
)

const testSecret = "test-secret"

type fakeSessions struct {
	sessions map[string]*domain.Session
}

func (f *fakeSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessions) Save(_ context.Context, session *domain.Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func tokenFor(t *testing.T, userID, sessionID string) string {
	t.Helper()
	return signToken(t, testSecret, jwt.MapClaims{
		"user_id":    userID,
		"session_id": sessionID,
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
}

func TestJWTAuth(t *testing.T) {
	valid := tokenFor(t, "u1", "s1")
	expired := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	noUser := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantUser   string
	}{
		{name: "missing header", wantStatus: fasthttp.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer nope", wantStatus: fasthttp.StatusUnauthorized},
		{name: "expired token", authHeader: "Bearer " + expired, wantStatus: fasthttp.StatusUnauthorized},
		{name: "wrong signing key", authHeader: "Bearer " + wrongKey, wantStatus: fasthttp.StatusUnauthorized},
		{name: "no user claim", authHeader: "Bearer " + noUser, wantStatus: fasthttp.StatusUnauthorized},
		{name: "valid token", authHeader: "Bearer " + valid, wantStatus: fasthttp.StatusOK, wantUser: "u1"},
		{name: "valid without bearer prefix", authHeader: valid, wantStatus: fasthttp.StatusOK, wantUser: "u1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reachedUser string
			handler := JWTAuth(testSecret, nil, nil)(func(ctx *fasthttp.RequestCtx) {
				reachedUser = string(ctx.Request.Header.Peek("X-User-ID"))
				ctx.SetStatusCode(fasthttp.StatusOK)
			})

			ctx := &fasthttp.RequestCtx{}
			if tt.authHeader != "" {
				ctx.Request.Header.Set("Authorization", tt.authHeader)
			}
			handler(ctx)

			assert.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
			assert.Equal(t, tt.wantUser, reachedUser)
		})
	}
}

// A well-signed token stops working the moment its session is revoked or
// runs out, not when the exp claim says so.
func TestJWTAuthSessionChecks(t *testing.T) {
	live := time.Now().Add(time.Hour)
	dead := time.Now().Add(-time.Minute)

	tests := []struct {
		name       string
		token      string
		session    *domain.Session
		wantStatus int
	}{
		{
			name:       "live session passes",
			token:      tokenFor(t, "u1", "s1"),
			session:    &domain.Session{ID: "s1", UserID: "u1", ExpiresAt: live},
			wantStatus: fasthttp.StatusOK,
		},
		{
			name:       "revoked session rejected",
			token:      tokenFor(t, "u1", "s1"),
			wantStatus: fasthttp.StatusUnauthorized,
		},
		{
			name:       "expired session rejected",
			token:      tokenFor(t, "u1", "s1"),
			session:    &domain.Session{ID: "s1", UserID: "u1", ExpiresAt: dead},
			wantStatus: fasthttp.StatusUnauthorized,
		},
		{
			name:       "session owned by someone else rejected",
			token:      tokenFor(t, "u1", "s1"),
			session:    &domain.Session{ID: "s1", UserID: "u2", ExpiresAt: live},
			wantStatus: fasthttp.StatusUnauthorized,
		},
		{
			name:       "token without session claim rejected",
			token:      signToken(t, testSecret, jwt.MapClaims{"user_id": "u1", "exp": live.Unix()}),
			wantStatus: fasthttp.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeSessions{sessions: map[string]*domain.Session{}}
			if tt.session != nil {
				store.sessions[tt.session.ID] = tt.session
			}

			handler := JWTAuth(testSecret, store, nil)(func(ctx *fasthttp.RequestCtx) {
				ctx.SetStatusCode(fasthttp.StatusOK)
			})

			ctx := &fasthttp.RequestCtx{}
			ctx.Request.Header.Set("Authorization", "Bearer "+tt.token)
			handler(ctx)

			assert.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
		})
	}
}
