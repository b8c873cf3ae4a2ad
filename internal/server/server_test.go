package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/agro-market-be/internal/auth"
	"github.com/hongminglow/agro-market-be/internal/config"
	"github.com/hongminglow/agro-market-be/internal/storage/memory"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Config{
		Port:            "0",
		Env:             "test",
		CORSOrigins:     []string{"*"},
		DatabaseDriver:  config.DriverMemory,
		SecretKey:       "test-secret",
		Algorithm:       "HS512",
		SaltRounds:      4,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}
	srv, err := New(cfg, memory.New(), zerolog.Nop())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decodePair(t *testing.T, env envelope) auth.TokenPair {
	t.Helper()
	var pair auth.TokenPair
	require.NoError(t, json.Unmarshal(env.Data, &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	return pair
}

func signup(t *testing.T, ts *httptest.Server, email string) auth.TokenPair {
	t.Helper()
	status, env := call(t, ts, http.MethodPost, "/user/signup", "", map[string]any{
		"first_name": "Ivan",
		"last_name":  "Petrov",
		"email":      email,
		"phone":      "89001234567",
		"password":   "Passw0rd!",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	return decodePair(t, env)
}

func TestSignupLoginAndMe(t *testing.T) {
	ts := newTestServer(t)
	pair := signup(t, ts, "a@b.com")

	status, env := call(t, ts, http.MethodGet, "/user/me", "Bearer "+pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	var me map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "a@b.com", me["email"])
	assert.Equal(t, "+79001234567", me["phone"])
	assert.Equal(t, "user", me["role"])
	assert.NotContains(t, me, "password_hash")

	status, env = call(t, ts, http.MethodPost, "/user/login", "", map[string]string{"email": "a@b.com", "password": "Passw0rd!"})
	require.Equal(t, http.StatusOK, status)
	decodePair(t, env)

	status, env = call(t, ts, http.MethodPost, "/user/login", "", map[string]string{"email": "a@b.com", "password": "Wr0ngPass!"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "InvalidCredentials", env.Type)

	status, env = call(t, ts, http.MethodPost, "/user/login", "", map[string]string{"password": "Passw0rd!"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "InvalidRequest", env.Type)
}

func TestSignupErrors(t *testing.T) {
	ts := newTestServer(t)
	signup(t, ts, "a@b.com")

	cases := []struct {
		name   string
		body   any
		status int
		typ    string
	}{
		{"duplicate email", map[string]any{"first_name": "Ivan", "last_name": "Petrov", "email": "a@b.com", "password": "Passw0rd!"}, http.StatusBadRequest, "UserEmailAlreadyExists"},
		{"duplicate phone", map[string]any{"first_name": "Ivan", "last_name": "Petrov", "email": "c@d.com", "phone": "+79001234567", "password": "Passw0rd!"}, http.StatusBadRequest, "UserPhoneAlreadyExists"},
		{"weak password", map[string]any{"first_name": "Ivan", "last_name": "Petrov", "email": "e@f.com", "password": "alllowercase123!"}, http.StatusUnprocessableEntity, "PasswordIsWeak"},
		{"short password", map[string]any{"first_name": "Ivan", "last_name": "Petrov", "email": "e@f.com", "password": "short1!"}, http.StatusUnprocessableEntity, "IncorrectPasswordLength"},
		{"bad phone", map[string]any{"first_name": "Ivan", "last_name": "Petrov", "email": "e@f.com", "phone": "+71234567890", "password": "Passw0rd!"}, http.StatusUnprocessableEntity, "PhoneNotValid"},
		{"bad name", map[string]any{"first_name": "1", "last_name": "Petrov", "email": "e@f.com", "password": "Passw0rd!"}, http.StatusUnprocessableEntity, "InvalidName"},
		{"bad email", map[string]any{"first_name": "Ivan", "last_name": "Petrov", "email": "nope", "password": "Passw0rd!"}, http.StatusUnprocessableEntity, "InvalidEmail"},
		{"malformed json", "{", http.StatusBadRequest, "InvalidRequest"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := call(t, ts, http.MethodPost, "/user/signup", "", tc.body)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.typ, env.Type)
		})
	}
}

func TestRefreshKeepsPresentedTokenUsable(t *testing.T) {
	ts := newTestServer(t)
	pair := signup(t, ts, "a@b.com")

	status, env := call(t, ts, http.MethodPost, "/user/refresh", "", map[string]string{"refresh_token": pair.RefreshToken})
	require.Equal(t, http.StatusOK, status)
	next := decodePair(t, env)

	status, _ = call(t, ts, http.MethodGet, "/user/me", "Bearer "+next.AccessToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, ts, http.MethodPost, "/user/refresh/", "", map[string]string{"refresh_token": pair.RefreshToken})
	assert.Equal(t, http.StatusOK, status)

	status, env = call(t, ts, http.MethodPost, "/user/refresh", "", map[string]string{"refresh_token": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "InvalidToken", env.Type)
}

func TestBearerChecks(t *testing.T) {
	ts := newTestServer(t)
	pair := signup(t, ts, "a@b.com")

	status, env := call(t, ts, http.MethodGet, "/user/me", "", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "invalid authorization code", env.Message)

	status, env = call(t, ts, http.MethodGet, "/user/me", "Basic "+pair.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "invalid authentication scheme", env.Message)

	status, env = call(t, ts, http.MethodGet, "/user/me", "Bearer not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "InvalidToken", env.Type)
}

func TestPasswordUpdateAndDelete(t *testing.T) {
	ts := newTestServer(t)
	bearer := "Bearer " + signup(t, ts, "a@b.com").AccessToken

	status, env := call(t, ts, http.MethodPut, "/user/password", bearer, map[string]string{"password": "weakpass"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "PasswordIsWeak", env.Type)

	status, _ = call(t, ts, http.MethodPut, "/user/password", bearer, map[string]string{"password": "N3wPassw0rd?"})
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, ts, http.MethodPost, "/user/login", "", map[string]string{"email": "a@b.com", "password": "N3wPassw0rd?"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, ts, http.MethodDelete, "/user/me", bearer, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = call(t, ts, http.MethodGet, "/user/me", bearer, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "UserNotFound", env.Type)
}

func TestProfiles(t *testing.T) {
	ts := newTestServer(t)
	bearer := "Bearer " + signup(t, ts, "a@b.com").AccessToken

	status, env := call(t, ts, http.MethodPost, "/buyer", bearer, map[string]string{"delivery_address": "1 Main St"})
	require.Equal(t, http.StatusCreated, status)
	var buyer map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &buyer))
	assert.Equal(t, "1 Main St", buyer["delivery_address"])

	status, env = call(t, ts, http.MethodPost, "/buyer/", bearer, map[string]string{"delivery_address": "2 Main St"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "BuyerAlreadyExists", env.Type)

	status, env = call(t, ts, http.MethodPost, "/farmer", bearer, map[string]any{"farm_address": "Green valley"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "InvalidForm", env.Type)
	assert.Contains(t, env.Message, "government_issued_id is required")

	status, _ = call(t, ts, http.MethodPost, "/farmer", bearer, map[string]any{
		"government_issued_id": "AB123",
		"farm_address":         "Green valley",
		"farm_size":            12.5,
	})
	assert.Equal(t, http.StatusCreated, status)

	status, _ = call(t, ts, http.MethodPost, "/farmer", "", map[string]any{"government_issued_id": "AB123", "farm_address": "x"})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	status, env := call(t, ts, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	var data map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "ok", data["database"])

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}
