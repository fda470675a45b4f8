package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/TMS-SchedulingService/internal/api/handlers"
)

type contextKey string

const userIDKey contextKey = "userID"

// userIDHeader заголовок с идентификатором аутентифицированного пользователя
// Заголовок проставляет API gateway после проверки токена
const userIDHeader = "X-User-ID"

// Auth извлекает ID пользователя из заголовка и кладет его в контекст запроса
// Запрос без валидного заголовка отклоняется с 401
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(userIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок "+userIDHeader)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный заголовок "+userIDHeader)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
