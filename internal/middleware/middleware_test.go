package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/agro-market-be/internal/auth"
	"github.com/hongminglow/agro-market-be/internal/models"
)

type stubUsers struct {
	users map[uuid.UUID]models.User
}

func (s stubUsers) CurrentUser(_ context.Context, payload auth.TokenPayload) (models.User, error) {
	u, ok := s.users[payload.UserID]
	if !ok {
		return models.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

func TestAuthenticator(t *testing.T) {
	tokens, err := auth.NewTokenManager("secret", "HS512", time.Hour, time.Hour)
	require.NoError(t, err)

	user := models.User{ID: uuid.New(), Email: "a@b.com", Role: models.DefaultRole}
	users := stubUsers{users: map[uuid.UUID]models.User{user.ID: user}}
	good, err := tokens.Encode(auth.TokenPayload{UserID: user.ID, Role: user.Role}, time.Hour)
	require.NoError(t, err)
	stranger, err := tokens.Encode(auth.TokenPayload{UserID: uuid.New(), Role: "user"}, time.Hour)
	require.NoError(t, err)

	var gotErr error
	onError := func(w http.ResponseWriter, _ *http.Request, err error) {
		gotErr = err
		w.WriteHeader(http.StatusTeapot)
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		require.True(t, ok)
		p, ok := PayloadFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, user.ID, u.ID)
		assert.Equal(t, user.ID, p.UserID)
		w.WriteHeader(http.StatusNoContent)
	})
	h := NewAuthenticator(tokens, users, onError).Handler(next)

	cases := []struct {
		name    string
		header  string
		status  int
		wantErr error
	}{
		{"ok", "Bearer " + good, http.StatusNoContent, nil},
		{"lower case scheme", "bearer " + good, http.StatusTeapot, ErrInvalidAuthScheme},
		{"missing", "", http.StatusTeapot, ErrMissingAuthorization},
		{"scheme without token", "Bearer", http.StatusTeapot, ErrMissingAuthorization},
		{"scheme with blank token", "Bearer    ", http.StatusTeapot, ErrMissingAuthorization},
		{"wrong scheme", "Token " + good, http.StatusTeapot, ErrInvalidAuthScheme},
		{"bad token", "Bearer abc", http.StatusTeapot, auth.ErrInvalidToken},
		{"unknown user", "Bearer " + stranger, http.StatusTeapot, auth.ErrUserNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotErr = nil
			req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.wantErr != nil {
				assert.ErrorIs(t, gotErr, tc.wantErr)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	h := CORS([]string{"https://shop.example"})(ok)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://shop.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/user/login", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	all := CORS([]string{"*"})(ok)
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://anything.example")
	rec = httptest.NewRecorder()
	all.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequestLoggerAndMetricsPassThrough(t *testing.T) {
	h := RequestLogger(zerolog.Nop())(Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	RecordAuthAttempt("login", true)
	RecordProfileCreated(models.ProfileBuyer)
}

func TestSecureHeaders(t *testing.T) {
	h := Secure(SecureOptions(false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
