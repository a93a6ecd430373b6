package handlers

import (
	"net/http"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/middleware"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StatsHandler struct {
	StatsService StatsService
}

func NewStatsHandler(statsService StatsService) StatsHandler {
	return StatsHandler{
		StatsService: statsService,
	}
}

func (s *StatsHandler) Global(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "Требуется аутентификация")
		return
	}

	global, err := s.StatsService.Global(r.Context(), p)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Глобальная статистика получена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("task_stats", global.TaskStats),
		toPayload("user_stats", global.UserStats),
		toPayload("per_user_stats", global.PerUserStats),
	)
}

func (s *StatsHandler) User(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "Требуется аутентификация")
		return
	}

	var requestedID *uuid.UUID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			logger.Warn("HTTP: Неверное значение user_id",
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, "неверное значение user_id: "+err.Error())
			return
		}
		requestedID = &id
	}

	userStats, err := s.StatsService.User(r.Context(), p, requestedID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: Статистика пользователя получена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("user_info", userStats.UserInfo),
		toPayload("task_stats", userStats.TaskStats),
	)
}
