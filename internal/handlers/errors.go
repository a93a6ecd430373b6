package handlers

import (
	"errors"
	"net/http"

	"taskManager/internal/logger"
	"taskManager/internal/service"

	"go.uber.org/zap"
)

// handleServiceError переводит ошибку сервиса в HTTP-ответ.
// Для INTERNAL клиент видит только общий текст, детали остаются в логах.
func handleServiceError(w http.ResponseWriter, err error) {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		if businessErr.Code == service.CodeInternal {
			logger.Error("HTTP: Внутренняя ошибка", businessErr.Err)
			responseWithJSON(w, statusCode,
				toPayload("error", businessErr.Code),
				toPayload("message", businessErr.Message),
			)
			return
		}

		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithJSON(w, statusCode,
			toPayload("error", businessErr.Code),
			toPayload("message", businessErr.Message),
			toPayload("details", businessErr.Details),
		)
		return
	}

	logger.Error("HTTP: Неклассифицированная ошибка", err)
	responseWithJSON(w, http.StatusInternalServerError,
		toPayload("error", service.CodeInternal),
		toPayload("message", "Внутренняя ошибка сервера"),
	)
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation, service.CodeInvalidTransition:
		return http.StatusBadRequest
	case service.CodeForbidden:
		return http.StatusForbidden
	case service.CodeUnauthenticated:
		return http.StatusUnauthorized
	case service.CodeConflict:
		return http.StatusConflict
	case service.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
