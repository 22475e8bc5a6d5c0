package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeIssuer выпускает токены вида "token-<userID>"
type fakeIssuer struct {
	nextID string
	genErr error
}

func (f *fakeIssuer) GenerateUserID() (string, error) {
	if f.genErr != nil {
		return "", f.genErr
	}
	return f.nextID, nil
}

func (f *fakeIssuer) GenerateJWT(userID string) (string, error) {
	return "token-" + userID, nil
}

func (f *fakeIssuer) ParseJWT(token string) (string, error) {
	if len(token) > len("token-") && token[:len("token-")] == "token-" {
		return token[len("token-"):], nil
	}
	return "", errors.New("invalid token")
}

func TestGetUserID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	userID, exists := GetUserID(req)
	assert.False(t, exists)
	assert.Equal(t, "", userID)

	ctx := context.WithValue(req.Context(), userIDKey, "test_user")
	req = req.WithContext(ctx)

	userID, exists = GetUserID(req)
	assert.True(t, exists)
	assert.Equal(t, "test_user", userID)

	req = httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithUserID(req.Context(), "other_user"))
	userID, _ = GetUserID(req)
	assert.Equal(t, "other_user", userID)
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		cookie        string
		expectedUser  string
		expectsCookie bool
	}{
		{"No cookie issues new user", "", "new-user", true},
		{"Valid cookie keeps user", "token-alice", "alice", false},
		{"Invalid cookie issues new user", "garbage", "new-user", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = GetUserID(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/game/current", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()

			AuthMiddleware(&fakeIssuer{nextID: "new-user"}, time.Hour, zap.NewNop())(handler).ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expectedUser, gotUser)

			cookies := w.Result().Cookies()
			if tt.expectsCookie {
				require.Len(t, cookies, 1)
				assert.Equal(t, CookieName, cookies[0].Name)
				assert.Equal(t, "token-new-user", cookies[0].Value)
				assert.True(t, cookies[0].HttpOnly)
			} else {
				assert.Empty(t, cookies)
			}
		})
	}
}

func TestAuthMiddleware_GenerateError(t *testing.T) {
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	AuthMiddleware(&fakeIssuer{genErr: errors.New("no entropy")}, time.Hour, zap.NewNop())(handler).ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
