package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Plinth/internal/repo"
)

type memUser struct {
	id   int
	hash string
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]memUser
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]memUser{}}
}

func (m *memUsers) CreateUser(_ context.Context, login, _, password string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[login]; ok {
		return 0, errors.New("duplicate login")
	}
	id := len(m.users) + 1
	m.users[login] = memUser{id: id, hash: password}
	return id, nil
}

func (m *memUsers) GetByLogin(_ context.Context, login string) (int, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[login]
	if !ok {
		return 0, "", repo.ErrNotFound
	}
	return u.id, u.hash, nil
}

func (m *memUsers) SaveDesign(context.Context, repo.Design) error { return nil }

func (m *memUsers) ListDesigns(context.Context, int) ([]repo.Design, error) { return nil, nil }

func (m *memUsers) GetDesign(context.Context, int, uuid.UUID) (repo.Design, error) {
	return repo.Design{}, repo.ErrNotFound
}

func postJSON(h http.HandlerFunc, v any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(v)
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
	return rec
}

func TestRegisterAndLogin(t *testing.T) {
	env := &Authenv{JWTkey: []byte("test-key"), Repo: newMemUsers()}

	rec := postJSON(env.RegisterHandler, Registerrequest{Login: " eng ", Email: "eng@example.com", Password: "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)

	rec = postJSON(env.RegisterHandler, Registerrequest{Login: "eng", Email: "eng@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = postJSON(env.AuthHandler, Loginrequest{Login: "eng", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, cookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	c, err := env.parseToken(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, 1, c.UserID)
	assert.Equal(t, "eng", c.Login)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := &Authenv{JWTkey: []byte("test-key"), Repo: newMemUsers()}
	require.Equal(t, http.StatusCreated, postJSON(env.RegisterHandler, Registerrequest{Login: "eng", Email: "e@x", Password: "secret1"}).Code)

	assert.Equal(t, http.StatusUnauthorized, postJSON(env.AuthHandler, Loginrequest{Login: "eng", Password: "wrong!"}).Code)
	assert.Equal(t, http.StatusUnauthorized, postJSON(env.AuthHandler, Loginrequest{Login: "nobody", Password: "secret1"}).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(env.AuthHandler, Loginrequest{Login: "eng"}).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(env.RegisterHandler, Registerrequest{Login: "x", Email: "x@x", Password: "123"}).Code)
}

func TestAuthMiddleware(t *testing.T) {
	env := &Authenv{JWTkey: []byte("test-key")}
	var seen int
	h := env.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserID(r.Context())
		assert.Equal(t, "eng", UserLogin(r.Context()))
	}))

	valid, err := env.NewToken(7, "eng", time.Now())
	require.NoError(t, err)
	expired, err := env.NewToken(7, "eng", time.Now().Add(-2*tokenTTL))
	require.NoError(t, err)
	foreign, err := (&Authenv{JWTkey: []byte("other")}).NewToken(7, "eng", time.Now())
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 7, "login": "eng"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]struct {
		token  string
		status int
	}{
		"valid":     {valid, http.StatusOK},
		"expired":   {expired, http.StatusUnauthorized},
		"wrong key": {foreign, http.StatusUnauthorized},
		"unsigned":  {none, http.StatusUnauthorized},
		"missing":   {"", http.StatusUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			seen = 0
			req := httptest.NewRequest(http.MethodGet, "/api/user/designs", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, 7, seen)
			}
		})
	}
}

func TestLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(0, 2)
	h := limiter.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for port := 1000; port < 1003; port++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = fmt.Sprintf("10.0.0.1:%d", port)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
