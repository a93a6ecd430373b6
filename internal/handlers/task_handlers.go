package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"

	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

func (s *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "Требуется аутентификация")
		return
	}

	tasks, err := s.TaskService.ListTasks(r.Context(), p)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("tasks", dto.FromTaskList(tasks)))
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "Требуется аутентификация")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	t, err := s.TaskService.CreateTask(r.Context(), p, request.Title, request.Priority, request.Description, request.AssignedUserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", t.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated,
		toPayload("success", true),
		toPayload("task_id", t.ID),
		toPayload("message", "Задача создана"),
	)
}

func (s *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "Требуется аутентификация")
		return
	}

	var request dto.UpdateStatusRequest

	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "task_id и new_status обязательны: "+err.Error())
		return
	}

	t, err := s.TaskService.UpdateStatus(r.Context(), p, request.TaskID, request.NewStatus)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Статус задачи обновлён",
		zap.String("task_id", t.ID.String()),
		zap.String("progress", string(t.Progress)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("success", true),
		toPayload("message", "Статус задачи обновлён"),
		toPayload("task", dto.FromTask(t)),
	)
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		responseWithError(w, http.StatusServiceUnavailable, "сервис недоступен")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}
