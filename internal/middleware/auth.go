package middleware

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// CookieName имя куки с JWT
const CookieName = "jwt_token"

// contextKey определяет тип для ключей контекста
type contextKey string

const userIDKey contextKey = "userID"

// TokenIssuer выпускает и проверяет токены пользователей
type TokenIssuer interface {
	GenerateUserID() (string, error)
	GenerateJWT(userID string) (string, error)
	ParseJWT(token string) (string, error)
}

// AuthMiddleware проверяет куку с JWT и выдаёт новую, если она отсутствует или недействительна
func AuthMiddleware(issuer TokenIssuer, cookieTTL time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var userID string

			// Проверяем куку с JWT
			if cookie, err := r.Cookie(CookieName); err == nil {
				userID, err = issuer.ParseJWT(cookie.Value)
				if err != nil {
					logger.Warn("Invalid JWT token", zap.Error(err))
					userID = ""
				}
			}

			// Если userID не установлен, генерируем новый
			if userID == "" {
				var err error
				userID, err = issuer.GenerateUserID()
				if err != nil {
					logger.Error("Failed to generate user ID", zap.Error(err))
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				token, err := issuer.GenerateJWT(userID)
				if err != nil {
					logger.Error("Failed to generate JWT", zap.Error(err))
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    token,
					Expires:  time.Now().Add(cookieTTL),
					Path:     "/",
					HttpOnly: true,
				})
			}

			// Добавляем UserID в контекст
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID извлекает UserID из контекста
func GetUserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(userIDKey).(string)
	return userID, ok
}

// WithUserID возвращает контекст с установленным UserID
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
