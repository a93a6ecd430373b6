package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/session"

	"go.uber.org/zap"
)

type AuthHandler struct {
	users    UserService
	sessions session.Store
}

func NewAuthHandler(users UserService, sessions session.Store) AuthHandler {
	return AuthHandler{
		users:    users,
		sessions: sessions,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if request.Email == "" || request.Password == "" {
		responseWithError(w, http.StatusBadRequest, "email и password обязательны")
		return
	}

	u, err := h.users.Authenticate(r.Context(), request.Email, request.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	sess, err := h.sessions.Create(r.Context(), u.ID)
	if err != nil {
		logger.Error("HTTP: Ошибка создания сессии", err)
		responseWithError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("HTTP_OUT: Вход выполнен",
		zap.String("user_id", u.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("success", true),
		toPayload("user", map[string]any{
			"id":      u.ID,
			"name":    u.Name,
			"surname": u.Surname,
			"role":    u.Role,
		}),
	)
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "Требуется аутентификация")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("authenticated", true),
		toPayload("user", dto.FromPrincipal(p)),
	)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookie)
	if err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			logger.Warn("HTTP: Ошибка удаления сессии", zap.Error(err))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	responseWithJSON(w, http.StatusOK, toPayload("success", true))
}
