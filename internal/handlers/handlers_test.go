package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskManager/internal/handlers"
	"taskManager/internal/middleware"
	"taskManager/internal/models/stats"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	"taskManager/internal/service"
	"taskManager/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, p user.Principal, title, priority, description string, assignedUserID *uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, p, title, priority, description, assignedUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, p user.Principal) ([]*task.Task, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskService) UpdateStatus(ctx context.Context, p user.Principal, taskID uuid.UUID, targetStatus string) (*task.Task, error) {
	args := m.Called(ctx, p, taskID, targetStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, p user.Principal, params service.CreateUserParams) (*user.User, error) {
	args := m.Called(ctx, p, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, p user.Principal) ([]*user.User, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Global(ctx context.Context, p user.Principal) (*stats.GlobalStats, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stats.GlobalStats), args.Error(1)
}

func (m *MockStatsService) User(ctx context.Context, p user.Principal, requestedID *uuid.UUID) (*stats.UserTaskStats, error) {
	args := m.Called(ctx, p, requestedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stats.UserTaskStats), args.Error(1)
}

func withPrincipal(r *http.Request, p user.Principal) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.PrincipalKey, p)
	return r.WithContext(ctx)
}

func adminReq(r *http.Request) *http.Request {
	return withPrincipal(r, user.Principal{ID: uuid.New(), Name: "Admin", Surname: "Adminov", Role: user.RoleAdmin})
}

func memberReq(r *http.Request) *http.Request {
	return withPrincipal(r, user.Principal{ID: uuid.New(), Name: "Ivan", Surname: "Ivanov", Role: user.RoleUser})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestTaskHandler_GetTasks(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("ListTasks", mock.Anything, mock.Anything).Return([]*task.Task{
			{ID: uuid.New(), Title: "Задача", Progress: task.StatusPending, Priority: task.PriorityLow, CreatedAt: time.Now()},
		}, nil)

		handler := handlers.NewTaskHandler(svc)
		rec := httptest.NewRecorder()
		req := memberReq(httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

		handler.GetTasks(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Len(t, body["tasks"], 1)
	})

	t.Run("error - no principal", func(t *testing.T) {
		svc := new(MockTaskService)
		handler := handlers.NewTaskHandler(svc)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)

		handler.GetTasks(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "ListTasks")
	})
}

func TestTaskHandler_PostTask(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		created := &task.Task{ID: uuid.New(), Title: "Задача", Progress: task.StatusPending}
		svc := new(MockTaskService)
		svc.On("CreateTask", mock.Anything, mock.Anything, "Задача", "high", "Описание", (*uuid.UUID)(nil)).
			Return(created, nil)

		handler := handlers.NewTaskHandler(svc)
		rec := httptest.NewRecorder()
		payload := bytes.NewBufferString(`{"title":"Задача","priority":"high","description":"Описание"}`)
		req := adminReq(httptest.NewRequest(http.MethodPost, "/api/tasks", payload))
		req.Header.Set("Content-Type", "application/json")

		handler.PostTask(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, created.ID.String(), body["task_id"])
	})

	t.Run("error - wrong content type", func(t *testing.T) {
		svc := new(MockTaskService)
		handler := handlers.NewTaskHandler(svc)
		rec := httptest.NewRecorder()
		req := adminReq(httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString("title=x")))
		req.Header.Set("Content-Type", "text/plain")

		handler.PostTask(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		svc.AssertNotCalled(t, "CreateTask")
	})

	t.Run("error - malformed JSON", func(t *testing.T) {
		svc := new(MockTaskService)
		handler := handlers.NewTaskHandler(svc)
		rec := httptest.NewRecorder()
		req := adminReq(httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString("{broken")))
		req.Header.Set("Content-Type", "application/json")

		handler.PostTask(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error - validation maps to 400 with field", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("CreateTask", mock.Anything, mock.Anything, "", "high", "Описание", (*uuid.UUID)(nil)).
			Return(nil, service.NewValidationError("title", "Название задачи обязательно"))

		handler := handlers.NewTaskHandler(svc)
		rec := httptest.NewRecorder()
		payload := bytes.NewBufferString(`{"title":"","priority":"high","description":"Описание"}`)
		req := adminReq(httptest.NewRequest(http.MethodPost, "/api/tasks", payload))
		req.Header.Set("Content-Type", "application/json")

		handler.PostTask(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, service.CodeValidation, body["error"])
		details := body["details"].(map[string]any)
		assert.Equal(t, "title", details["field"])
	})
}

// TestTaskHandler_UpdateStatus_ErrorMapping: коды бизнес-ошибок переходят
// в ожидаемые HTTP-статусы
func TestTaskHandler_UpdateStatus_ErrorMapping(t *testing.T) {
	taskID := uuid.New()

	tests := []struct {
		name       string
		serviceErr *service.BusinessError
		wantStatus int
	}{
		{
			name:       "not found",
			serviceErr: service.NewNotFound("Задача", taskID.String()),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "forbidden",
			serviceErr: service.NewForbidden("Задача назначена другому пользователю"),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "invalid transition",
			serviceErr: service.NewInvalidTransition("Pending", "Done"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "conflict",
			serviceErr: service.NewConflict("Задача изменена другим пользователем"),
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTaskService)
			svc.On("UpdateStatus", mock.Anything, mock.Anything, taskID, "In Progress").
				Return(nil, tt.serviceErr)

			handler := handlers.NewTaskHandler(svc)
			rec := httptest.NewRecorder()
			payload := bytes.NewBufferString(`{"task_id":"` + taskID.String() + `","new_status":"In Progress"}`)
			req := memberReq(httptest.NewRequest(http.MethodPut, "/api/tasks/status", payload))
			req.Header.Set("Content-Type", "application/json")

			handler.UpdateStatus(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.serviceErr.Code, body["error"])
		})
	}
}

func TestTaskHandler_UpdateStatus_Success(t *testing.T) {
	taskID := uuid.New()
	updated := &task.Task{ID: taskID, Title: "Задача", Progress: task.StatusInProgress}

	svc := new(MockTaskService)
	svc.On("UpdateStatus", mock.Anything, mock.Anything, taskID, "In Progress").Return(updated, nil)

	handler := handlers.NewTaskHandler(svc)
	rec := httptest.NewRecorder()
	payload := bytes.NewBufferString(`{"task_id":"` + taskID.String() + `","new_status":"In Progress"}`)
	req := memberReq(httptest.NewRequest(http.MethodPut, "/api/tasks/status", payload))
	req.Header.Set("Content-Type", "application/json")

	handler.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	respTask := body["task"].(map[string]any)
	assert.Equal(t, "In Progress", respTask["progress"])
}

func TestAuthHandler_Login(t *testing.T) {
	stored := &user.User{
		ID:      uuid.New(),
		Name:    "Ivan",
		Surname: "Ivanov",
		Role:    user.RoleUser,
		Email:   "ivan@example.com",
	}

	t.Run("success - sets session cookie", func(t *testing.T) {
		users := new(MockUserService)
		users.On("Authenticate", mock.Anything, "ivan@example.com", "secret123").Return(stored, nil)
		store := session.NewInMemoryStore(time.Hour)

		handler := handlers.NewAuthHandler(users, store)
		rec := httptest.NewRecorder()
		payload := bytes.NewBufferString(`{"email":"ivan@example.com","password":"secret123"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", payload)
		req.Header.Set("Content-Type", "application/json")

		handler.Login(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.NotEmpty(t, cookies[0].Value)

		// токен действительно лежит в хранилище
		sess, err := store.Get(req.Context(), cookies[0].Value)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, sess.UserID)
	})

	t.Run("error - bad credentials", func(t *testing.T) {
		users := new(MockUserService)
		users.On("Authenticate", mock.Anything, "ivan@example.com", "wrong").
			Return(nil, service.NewUnauthenticated())
		store := session.NewInMemoryStore(time.Hour)

		handler := handlers.NewAuthHandler(users, store)
		rec := httptest.NewRecorder()
		payload := bytes.NewBufferString(`{"email":"ivan@example.com","password":"wrong"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", payload)
		req.Header.Set("Content-Type", "application/json")

		handler.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("error - missing credentials", func(t *testing.T) {
		users := new(MockUserService)
		store := session.NewInMemoryStore(time.Hour)

		handler := handlers.NewAuthHandler(users, store)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":"ivan@example.com"}`))
		req.Header.Set("Content-Type", "application/json")

		handler.Login(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		users.AssertNotCalled(t, "Authenticate")
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserService)
	store := session.NewInMemoryStore(time.Hour)

	sess, err := store.Create(ctx, uuid.New())
	require.NoError(t, err)

	handler := handlers.NewAuthHandler(users, store)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sess.Token})

	handler.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	// сессии больше нет, кука сброшена
	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrNotFound)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestUserHandler_PostUser(t *testing.T) {
	created := &user.User{ID: uuid.New(), Name: "Ivan", Role: user.RoleUser, Email: "ivan@example.com"}

	svc := new(MockUserService)
	svc.On("CreateUser", mock.Anything, mock.Anything, service.CreateUserParams{
		Name:     "Ivan",
		Surname:  "Ivanov",
		Role:     "user",
		Email:    "ivan@example.com",
		Password: "secret123",
	}).Return(created, nil)

	handler := handlers.NewUserHandler(svc)
	rec := httptest.NewRecorder()
	payload := bytes.NewBufferString(`{"name":"Ivan","surname":"Ivanov","role":"user","email":"ivan@example.com","password":"secret123"}`)
	req := adminReq(httptest.NewRequest(http.MethodPost, "/api/users", payload))
	req.Header.Set("Content-Type", "application/json")

	handler.PostUser(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, created.ID.String(), body["user_id"])
}

func TestStatsHandler_User_BadQueryParam(t *testing.T) {
	svc := new(MockStatsService)
	handler := handlers.NewStatsHandler(svc)
	rec := httptest.NewRecorder()
	req := memberReq(httptest.NewRequest(http.MethodGet, "/api/stats/user?user_id=not-a-uuid", nil))

	handler.User(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "User")
}

func TestStatsHandler_User_PassesRequestedID(t *testing.T) {
	requested := uuid.New()
	svc := new(MockStatsService)
	svc.On("User", mock.Anything, mock.Anything, mock.MatchedBy(func(id *uuid.UUID) bool {
		return id != nil && *id == requested
	})).Return(&stats.UserTaskStats{}, nil)

	handler := handlers.NewStatsHandler(svc)
	rec := httptest.NewRecorder()
	req := adminReq(httptest.NewRequest(http.MethodGet, "/api/stats/user?user_id="+requested.String(), nil))

	handler.User(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestTaskHandler_HealthCheck(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("HealthCheck", mock.Anything).Return(nil)

		handler := handlers.NewTaskHandler(svc)
		rec := httptest.NewRecorder()

		handler.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("error - storage unavailable", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("HealthCheck", mock.Anything).Return(assert.AnError)

		handler := handlers.NewTaskHandler(svc)
		rec := httptest.NewRecorder()

		handler.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
