package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/ShareIt-BookingService/internal/api/handlers"
)

// UserIDHeader заголовок, в котором gateway передает ID пользователя
const UserIDHeader = "X-Sharer-User-Id"

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidUserID = "некорректный ID пользователя"
	msgMissingToken  = "отсутствует токен авторизации"
	msgInvalidToken  = "некорректный токен авторизации"
)

type ctxKey int

const userIDKey ctxKey = iota

// TokenVerifier проверяет bearer токен и возвращает ID пользователя
type TokenVerifier interface {
	UserID(token string) (int64, error)
}

// Auth определяет пользователя запроса.
// Без verifier сервис стоит за gateway и доверяет X-Sharer-User-Id.
// С verifier пользователь берется только из Authorization: Bearer,
// а X-Sharer-User-Id игнорируется.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				gatewayUser(next, w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			userID, err := verifier.UserID(token)
			if err != nil || userID <= 0 {
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func gatewayUser(next http.Handler, w http.ResponseWriter, r *http.Request) {
	raw := r.Header.Get(UserIDHeader)
	if raw == "" {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}
	next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
}

// WithUserID кладет ID пользователя в контекст
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID достает ID пользователя, положенный Auth
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
