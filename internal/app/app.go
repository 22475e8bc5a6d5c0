package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tempizhere/smashorpass/internal/anilist"
	"github.com/tempizhere/smashorpass/internal/middleware"
	"github.com/tempizhere/smashorpass/internal/models"
	"github.com/tempizhere/smashorpass/internal/repository"
	"github.com/tempizhere/smashorpass/internal/service"
	"github.com/tempizhere/smashorpass/internal/session"
	"go.uber.org/zap"
)

// ErrorResponse тело ответа с ошибкой для JSON API
type ErrorResponse struct {
	Error string `json:"error"`
}

// App содержит хендлеры и зависимости
type App struct {
	svc    *service.Service
	db     repository.Database
	logger *zap.Logger
}

// NewApp создаёт новое приложение
func NewApp(svc *service.Service, db repository.Database, logger *zap.Logger) *App {
	return &App{svc: svc, db: db, logger: logger}
}

// HandleStartGame обрабатывает POST-запросы на "/api/game"
func (a *App) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.StartGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	opts, err := anilist.ParseOptions(req.Role, req.Gender, req.MinAge, req.MaxAge)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := a.svc.StartGame(userID, req.Username, opts); err != nil {
		if errors.Is(err, anilist.ErrEmptyUsername) {
			a.writeError(w, http.StatusBadRequest, "username is required")
			return
		}
		a.logger.Error("Failed to start game", zap.Error(err))
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	a.writeJSONResponse(w, http.StatusAccepted, models.ReadyResponse{Ready: false})
}

// HandleReady обрабатывает GET-запросы на "/api/game/ready": ждёт загрузки списка
// в пределах контекста запроса
func (a *App) HandleReady(w http.ResponseWriter, r *http.Request) {
	game, ok := a.game(w, r)
	if !ok {
		return
	}
	if err := game.WaitReady(r.Context()); err != nil {
		a.writeLoadError(w, err)
		return
	}
	a.writeJSONResponse(w, http.StatusOK, models.ReadyResponse{Ready: true, Total: game.Pool().Total()})
}

// HandleCurrent обрабатывает GET-запросы на "/api/game/current"
func (a *App) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	game, ok := a.readyGame(w, r)
	if !ok {
		return
	}
	c, ok := game.Current()
	a.writeJSONResponse(w, http.StatusOK, currentResponse(c, ok))
}

// HandleJudge возвращает хендлер POST "/api/game/smash" или "/api/game/pass"
func (a *App) HandleJudge(d models.Decision) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game, ok := a.readyGame(w, r)
		if !ok {
			return
		}
		next, ok, err := game.Judge(d)
		if err != nil {
			if errors.Is(err, session.ErrNoCandidate) {
				a.writeError(w, http.StatusConflict, err.Error())
				return
			}
			a.logger.Error("Failed to record decision", zap.String("decision", string(d)), zap.Error(err))
			a.writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		a.writeJSONResponse(w, http.StatusOK, currentResponse(next, ok))
	}
}

// HandleStats обрабатывает GET-запросы на "/api/game/stats"
func (a *App) HandleStats(w http.ResponseWriter, r *http.Request) {
	game, ok := a.game(w, r)
	if !ok {
		return
	}
	a.writeJSONResponse(w, http.StatusOK, game.Stats())
}

// HandleHistory обрабатывает GET-запросы на "/api/game/history/{decision}"
func (a *App) HandleHistory(w http.ResponseWriter, r *http.Request) {
	d, err := models.ParseDecision(chi.URLParam(r, "decision"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	game, ok := a.game(w, r)
	if !ok {
		return
	}

	history := game.History(d)
	resp := make([]models.HistoryEntry, len(history))
	for i, c := range history {
		resp[i] = models.HistoryEntry{
			ID:    c.Character.ID,
			Label: c.Label(),
			Image: c.Character.Image.Large,
		}
	}
	a.writeJSONResponse(w, http.StatusOK, resp)
}

// HandleShare обрабатывает GET-запросы на "/api/game/share"
func (a *App) HandleShare(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	url, err := a.svc.ShareURL(userID)
	if err != nil {
		if errors.Is(err, service.ErrNoGame) {
			a.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, service.ErrShareTooLong) {
			a.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error("Failed to build share URL", zap.String("user_id", userID), zap.Error(err))
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	a.writeJSONResponse(w, http.StatusOK, models.ShareResponse{Result: url})
}

// HandleEndGame обрабатывает DELETE-запросы на "/api/game"
func (a *App) HandleEndGame(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	if err := a.svc.EndGame(userID); err != nil {
		a.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCharacter обрабатывает GET-запросы на "/api/characters/{id}"
func (a *App) HandleCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		a.writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}
	c, err := a.svc.Character(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCharacterNotFound) {
			a.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		a.logger.Warn("Failed to fetch character", zap.Int("id", id), zap.Error(err))
		a.writeError(w, http.StatusBadGateway, "failed to fetch character")
		return
	}
	a.writeJSONResponse(w, http.StatusOK, c)
}

// HandleViewShare обрабатывает GET-запросы на путь просмотра ссылки.
// Строка ссылки передаётся целиком как query без ключа.
func (a *App) HandleViewShare(w http.ResponseWriter, r *http.Request) {
	a.resolveShare(w, r, r.URL.RawQuery)
}

// HandleResolveShare обрабатывает GET-запросы на "/api/share/{share}"
func (a *App) HandleResolveShare(w http.ResponseWriter, r *http.Request) {
	a.resolveShare(w, r, chi.URLParam(r, "share"))
}

func (a *App) resolveShare(w http.ResponseWriter, r *http.Request, share string) {
	shared, err := a.svc.ResolveShare(r.Context(), share)
	if err != nil {
		if errors.Is(err, service.ErrInvalidShare) {
			a.logger.Info("Invalid share link", zap.String("share", share), zap.Error(err))
			http.Error(w, service.ErrInvalidShare.Error(), http.StatusBadRequest)
			return
		}
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	a.writeJSONResponse(w, http.StatusOK, shared)
}

// HandleEncodeShare обрабатывает POST-запросы на "/api/share/encode"
func (a *App) HandleEncodeShare(w http.ResponseWriter, r *http.Request) {
	var judgments []models.Judgment
	if err := json.NewDecoder(r.Body).Decode(&judgments); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	for i, j := range judgments {
		d, err := models.ParseDecision(string(j.Decision))
		if err != nil {
			a.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		judgments[i].Decision = d
	}

	url, err := a.svc.EncodeJudgments(judgments)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.writeJSONResponse(w, http.StatusCreated, models.ShareResponse{Result: url})
}

// HandleInternalStats обрабатывает GET-запросы на "/api/internal/stats"
func (a *App) HandleInternalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.svc.Stats()
	if err != nil {
		a.logger.Error("Failed to get stats", zap.Error(err))
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	a.writeJSONResponse(w, http.StatusOK, stats)
}

// HandleClearCatalog обрабатывает DELETE-запросы на "/api/internal/catalog"
func (a *App) HandleClearCatalog(w http.ResponseWriter, r *http.Request) {
	a.svc.ClearCatalog()
	w.WriteHeader(http.StatusNoContent)
}

// HandlePing обрабатывает GET-запросы на "/ping"
func (a *App) HandlePing(w http.ResponseWriter, r *http.Request) {
	if a.db == nil {
		http.Error(w, "Database not configured", http.StatusInternalServerError)
		return
	}
	if err := a.db.Ping(); err != nil {
		http.Error(w, "Database connection failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// game возвращает игру текущего пользователя или пишет 404
func (a *App) game(w http.ResponseWriter, r *http.Request) (*session.Game, bool) {
	userID, _ := middleware.GetUserID(r)
	game, err := a.svc.Game(userID)
	if err != nil {
		a.writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return game, true
}

// readyGame возвращает игру, список которой уже загружен. Пока загрузка идёт, отвечает 409.
func (a *App) readyGame(w http.ResponseWriter, r *http.Request) (*session.Game, bool) {
	game, ok := a.game(w, r)
	if !ok {
		return nil, false
	}
	if !game.Pool().IsReady() {
		a.writeError(w, http.StatusConflict, "characters are still loading")
		return nil, false
	}
	if err := game.Pool().WaitReady(r.Context()); err != nil {
		a.writeLoadError(w, err)
		return nil, false
	}
	return game, true
}

func (a *App) writeLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		a.writeError(w, http.StatusGatewayTimeout, "characters are still loading")
		return
	}
	a.writeError(w, http.StatusBadGateway, "failed to load characters: "+err.Error())
}

func currentResponse(c models.Candidate, ok bool) models.CurrentResponse {
	if !ok {
		return models.CurrentResponse{Done: true, Message: "no more characters"}
	}
	return models.CurrentResponse{
		Candidate: &c,
		Birthday:  c.Character.BirthdayString(),
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSONResponse(w, status, ErrorResponse{Error: msg})
}

// writeJSONResponse пишет JSON-ответ с проверкой ошибок
func (a *App) writeJSONResponse(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to encode JSON", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		a.logger.Warn("Failed to write response", zap.Error(err))
	}
}
