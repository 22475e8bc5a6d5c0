package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

// BenchmarkLoggingMiddleware измеряет производительность middleware логирования
func BenchmarkLoggingMiddleware(b *testing.B) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	loggingMiddleware := LoggingMiddleware(zap.NewNop())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		loggingMiddleware(handler).ServeHTTP(w, req)
	}
}

// BenchmarkGzipMiddleware измеряет производительность сжатия большого JSON ответа
func BenchmarkGzipMiddleware(b *testing.B) {
	body := []byte(strings.Repeat(`{"id":36828,"decision":"smash"},`, 100))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		GzipMiddleware(handler).ServeHTTP(w, req)
	}
}

// BenchmarkAuthMiddleware измеряет производительность проверки куки
func BenchmarkAuthMiddleware(b *testing.B) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	auth := AuthMiddleware(&fakeIssuer{nextID: "user"}, time.Hour, zap.NewNop())

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: "token-user"})
			w := httptest.NewRecorder()
			auth(handler).ServeHTTP(w, req)
		}
	})
}
