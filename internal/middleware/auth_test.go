package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskManager/internal/middleware"
	"taskManager/internal/models/user"
	"taskManager/internal/repository/user/inmemory"
	"taskManager/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *inmemory.UserStorage, role user.Role) *user.User {
	t.Helper()

	u := &user.User{
		ID:           uuid.New(),
		Name:         "Ivan",
		Surname:      "Ivanov",
		Role:         role,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "$2a$10$fake",
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := session.NewInMemoryStore(time.Hour)
	users := inmemory.NewUserStorage()
	u := seedUser(t, users, user.RoleUser)

	var captured user.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipal(r.Context())
		require.True(t, ok)
		captured = p
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.Authenticate(store, users)(next)

	t.Run("success - cookie resolves to principal", func(t *testing.T) {
		sess, err := store.Create(ctx, u.ID)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sess.Token})

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, u.ID, captured.ID)
		assert.Equal(t, user.RoleUser, captured.Role)
	})

	t.Run("error - no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("error - unknown token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "stale-token"})

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("error - session of deleted user", func(t *testing.T) {
		sess, err := store.Create(ctx, uuid.New())
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sess.Token})

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireAdmin(next)

	t.Run("success - admin passes", func(t *testing.T) {
		p := user.Principal{ID: uuid.New(), Role: user.RoleAdmin}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.PrincipalKey, p))

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("error - member forbidden", func(t *testing.T) {
		p := user.Principal{ID: uuid.New(), Role: user.RoleUser}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.PrincipalKey, p))

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("error - no principal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
