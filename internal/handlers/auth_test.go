package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workbin-dev/workbin/db"
	"github.com/workbin-dev/workbin/internal/auth"
	"github.com/workbin-dev/workbin/internal/middleware"
	"github.com/workbin-dev/workbin/internal/models"
	"github.com/workbin-dev/workbin/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)

	db.DB = gdb
	require.NoError(t, db.DB.AutoMigrate(&models.User{}, &models.Project{}))

	r := gin.New()
	r.POST("/token", Token)
	r.POST("/api/auth/register", Register)
	r.GET("/users/me", middleware.AuthMiddleware(), Me)
	r.GET("/users/me/preferences", middleware.AuthMiddleware(), GetPreferences)
	r.PUT("/users/me/preferences", middleware.AuthMiddleware(), UpdatePreferences)

	return r
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func obtainToken(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()

	w := postForm(r, "/token", url.Values{"username": {username}, "password": {password}})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "bearer", body.TokenType)
	require.NotEmpty(t, body.AccessToken)

	return body.AccessToken
}

func TestTokenEndpoint(t *testing.T) {
	r := setupAuthTest(t)

	_, err := store.CreateUser("alice", "open sesame 123", "Alice A", nil)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		token := obtainToken(t, r, "alice", "open sesame 123")

		subject, err := auth.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", subject)
	})

	t.Run("bad credentials carry a bearer challenge", func(t *testing.T) {
		w := postForm(r, "/token", url.Values{"username": {"alice"}, "password": {"wrong"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		wrongPass := postForm(r, "/token", url.Values{"username": {"alice"}, "password": {"wrong"}})
		unknown := postForm(r, "/token", url.Values{"username": {"nobody"}, "password": {"open sesame 123"}})

		assert.Equal(t, wrongPass.Code, unknown.Code)
		assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		w := postForm(r, "/token", url.Values{"username": {"alice"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRegister(t *testing.T) {
	r := setupAuthTest(t)

	register := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("creates an account", func(t *testing.T) {
		w := register(`{"username": "bob", "password": "hunter2hunter2", "email": "bob@example.com", "full_name": "Bob B"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"bob"`)
		assert.NotContains(t, w.Body.String(), "hunter2hunter2")

		// The new account can log in straight away.
		obtainToken(t, r, "bob", "hunter2hunter2")
	})

	t.Run("duplicate username", func(t *testing.T) {
		w := register(`{"username": "bob", "password": "hunter2hunter2"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("short password", func(t *testing.T) {
		w := register(`{"username": "carol", "password": "short"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMe(t *testing.T) {
	r := setupAuthTest(t)

	email := "alice@example.com"
	_, err := store.CreateUser("alice", "open sesame 123", "Alice A", &email)
	require.NoError(t, err)

	token := obtainToken(t, r, "alice", "open sesame 123")

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.Contains(t, w.Body.String(), `"email":"alice@example.com"`)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "hash")
}

func TestPreferencesRoundTrip(t *testing.T) {
	r := setupAuthTest(t)

	_, err := store.CreateUser("alice", "open sesame 123", "", nil)
	require.NoError(t, err)

	token := obtainToken(t, r, "alice", "open sesame 123")

	get := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/users/me/preferences", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get()
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"preferences": {}}`, w.Body.String())

	req := httptest.NewRequest(http.MethodPut, "/users/me/preferences", strings.NewReader(`{"dark_mode": true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = get()
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"preferences": {"dark_mode": true}}`, w.Body.String())
}
