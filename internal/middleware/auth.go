package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"taskManager/internal/logger"
	"taskManager/internal/models/user"
	"taskManager/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const SessionCookie = "task_session"

const PrincipalKey contextKey = "principal"

type UserProvider interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Authenticate превращает сессионную куку в принципала запроса.
// Дальше по цепочке нет никакого глобального состояния сессии -
// только Principal в контексте.
func Authenticate(store session.Store, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Требуется аутентификация")
				return
			}

			sess, err := store.Get(r.Context(), cookie.Value)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Сессия недействительна")
				return
			}

			u, err := users.GetByID(r.Context(), sess.UserID)
			if err != nil {
				logger.Warn("HTTP: Сессия ссылается на несуществующего пользователя",
					zap.String("user_id", sess.UserID.String()))
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Сессия недействительна")
				return
			}

			p := user.Principal{
				ID:      u.ID,
				Name:    u.Name,
				Surname: u.Surname,
				Role:    u.Role,
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := GetPrincipal(r.Context())
		if !ok || !p.IsAdmin() {
			writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "Требуются права администратора")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetPrincipal(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(user.Principal)
	return p, ok
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error":   code,
		"message": message,
	})
}
