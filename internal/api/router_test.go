package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"messagely/internal/app/service"
	"messagely/internal/common/security"
	"messagely/internal/domain/repository"
	"messagely/internal/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock, *security.TokenService) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens := security.NewTokenService([]byte("test-secret"), time.Hour)
	userRepo := repository.NewPgUserRepository(db)
	messageRepo := repository.NewPgMessageRepository(db)

	router := NewRouter(
		tokens,
		service.NewAuthService(userRepo, tokens, bcrypt.MinCost, logger.New(slog.LevelError)),
		service.NewUserService(userRepo, messageRepo),
		service.NewMessageService(messageRepo, userRepo),
	)
	return router, mock, tokens
}

func doRequest(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouter_Register(t *testing.T) {
	router, mock, tokens := newTestRouter(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("bob", sqlmock.AnyArg(), "Bob", "Smith", "+14150000000").
		WillReturnRows(sqlmock.NewRows([]string{"join_at", "last_login_at"}).AddRow(now, now))

	rec := doRequest(router, http.MethodPost, "/auth/register", "",
		`{"username":"bob","password":"secret","first_name":"Bob","last_name":"Smith","phone":"+14150000000"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	claims, err := tokens.Decode(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims["username"])
	assert.NotContains(t, claims, "password")
}

func TestRouter_Login_BadCredentialsReturnFalse(t *testing.T) {
	router, mock, _ := newTestRouter(t)

	hash, err := security.HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()

	mock.ExpectQuery(`SELECT username, password`).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{
			"username", "password", "first_name", "last_name", "phone", "join_at", "last_login_at",
		}).AddRow("bob", hash, "Bob", "Smith", "+14150000000", now, now))

	rec := doRequest(router, http.MethodPost, "/auth/login", "",
		`{"username":"bob","password":"WRONG"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "false", rec.Body.String())
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/bob"},
		{http.MethodGet, "/messages/m1"},
		{http.MethodPost, "/messages"},
		{http.MethodPost, "/messages/m1/read"},
	} {
		rec := doRequest(router, tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_GarbageTokenRejected(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/users", "not.a.token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ThirdPartyMessageViewIs404(t *testing.T) {
	router, mock, tokens := newTestRouter(t)

	token, err := tokens.Issue(jwt.MapClaims{"username": "mallory"})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, from_username, to_username, body, sent_at, read_at`).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "from_username", "to_username", "body", "sent_at", "read_at",
		}).AddRow("m1", "alice", "bob", "hello", time.Now(), nil))

	rec := doRequest(router, http.MethodGet, "/messages/m1", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_MessageListingsGuardedPerUser(t *testing.T) {
	router, _, tokens := newTestRouter(t)

	token, err := tokens.Issue(jwt.MapClaims{"username": "bob"})
	require.NoError(t, err)

	// bob may not read alice's inbox or outbox.
	rec := doRequest(router, http.MethodGet, "/users/alice/to", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, http.MethodGet, "/users/alice/from", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
