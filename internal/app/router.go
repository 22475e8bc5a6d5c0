package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tempizhere/smashorpass/internal/middleware"
	"github.com/tempizhere/smashorpass/internal/models"
	"go.uber.org/zap"
)

// RouterConfig содержит настройки маршрутизатора
type RouterConfig struct {
	SharePath     string
	CookieTTL     time.Duration
	TrustedSubnet string
}

// NewRouter создаёт маршрутизатор со всеми хендлерами и middleware
func NewRouter(a *App, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.GzipMiddleware)

	r.Get("/ping", a.HandlePing)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(a.svc, cfg.CookieTTL, logger))

		r.Route("/api/game", func(r chi.Router) {
			r.Post("/", a.HandleStartGame)
			r.Delete("/", a.HandleEndGame)
			r.Get("/ready", a.HandleReady)
			r.Get("/current", a.HandleCurrent)
			r.Post("/smash", a.HandleJudge(models.Smash))
			r.Post("/pass", a.HandleJudge(models.Pass))
			r.Get("/stats", a.HandleStats)
			r.Get("/history/{decision}", a.HandleHistory)
			r.Get("/share", a.HandleShare)
		})
	})

	sharePath := cfg.SharePath
	if sharePath == "" {
		sharePath = "/share/"
	}
	r.Get(sharePath, a.HandleViewShare)
	r.Get("/api/share/{share}", a.HandleResolveShare)
	r.Post("/api/share/encode", a.HandleEncodeShare)
	r.Get("/api/characters/{id}", a.HandleCharacter)

	r.Route("/api/internal", func(r chi.Router) {
		r.Use(middleware.TrustedSubnetMiddleware(cfg.TrustedSubnet, logger))
		r.Get("/stats", a.HandleInternalStats)
		r.Delete("/catalog", a.HandleClearCatalog)
	})

	return r
}
