package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
)

// minGzipSize минимальный размер ответа, который имеет смысл сжимать
const minGzipSize = 1400

// GzipMiddleware обрабатывает Gzip-сжатие для запросов и ответов
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Обработка сжатого запроса
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			gz, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, "Invalid gzip data", http.StatusBadRequest)
				return
			}
			defer gz.Close()
			r.Body = io.NopCloser(gz)
		}

		// Проверка, поддерживает ли клиент сжатие ответа
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		// Создаём кастомный ResponseWriter для сжатия ответа
		gw := &gzipResponseWriter{ResponseWriter: w}
		defer gw.Close()

		next.ServeHTTP(gw, r)
	})
}

// gzipResponseWriter оборачивает http.ResponseWriter для сжатия ответа.
// Решение о сжатии принимается при первой записи, поэтому статус откладывается до неё.
type gzipResponseWriter struct {
	http.ResponseWriter
	gz       *gzip.Writer
	status   int
	decided  bool
	compress bool
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.status == 0 {
		w.status = statusCode
	}
}

// decide выбирает режим записи по Content-Type и размеру первого фрагмента
func (w *gzipResponseWriter) decide(first []byte) {
	if w.decided {
		return
	}
	w.decided = true

	contentType := w.Header().Get("Content-Type")
	w.compress = (strings.HasPrefix(contentType, "application/json") || strings.HasPrefix(contentType, "text/html")) &&
		len(first) >= minGzipSize &&
		w.Header().Get("Content-Encoding") == ""
	if w.compress {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		w.Header().Del("Content-Length")
		w.gz = gzip.NewWriter(w.ResponseWriter)
	}
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.ResponseWriter.WriteHeader(w.status)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	w.decide(b)
	if !w.compress {
		return w.ResponseWriter.Write(b)
	}
	return w.gz.Write(b)
}

// Close завершает ответ: отправляет отложенный статус или закрывает gzip.Writer
func (w *gzipResponseWriter) Close() error {
	if !w.decided {
		w.decided = true
		if w.status != 0 {
			w.ResponseWriter.WriteHeader(w.status)
		}
		return nil
	}
	if w.gz != nil {
		return w.gz.Close()
	}
	return nil
}
