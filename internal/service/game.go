package service

import (
	"context"
	"strings"
	"time"

	"github.com/tempizhere/smashorpass/internal/anilist"
	"github.com/tempizhere/smashorpass/internal/candidate"
	"github.com/tempizhere/smashorpass/internal/models"
	"github.com/tempizhere/smashorpass/internal/session"
	"go.uber.org/zap"
)

// StartGame начинает новую игру пользователя. Список персонажей загружается в фоне
// один раз; готовность сообщает пул игры. Предыдущая игра пользователя заменяется.
func (s *Service) StartGame(userID, username string, opts anilist.QueryOptions) (*session.Game, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, anilist.ErrEmptyUsername
	}

	// Игры с истёкшим токеном недоступны своим владельцам
	if n := s.games.Prune(time.Now().Add(-s.opts.TokenTTL)); n > 0 {
		s.logger.Info("Expired games removed", zap.Int("count", n))
	}

	pool := candidate.NewPool(nil)
	game := session.NewGame(username, pool)
	s.games.Put(userID, game)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		pool.Load(context.Background(), s.loadCandidates(username, opts))
	}()

	s.logger.Info("Game started",
		zap.String("user_id", userID),
		zap.String("username", username),
		zap.String("role", string(opts.Role)))
	return game, nil
}

// loadCandidates загружает список пользователя и кэширует персонажей в каталоге
func (s *Service) loadCandidates(username string, opts anilist.QueryOptions) candidate.LoadFunc {
	return func(ctx context.Context) ([]models.Candidate, error) {
		candidates, err := s.source.FetchCollection(ctx, username, opts)
		if err != nil {
			s.logger.Error("Failed to fetch character list", zap.String("username", username), zap.Error(err))
			return nil, err
		}

		chars := make([]models.Character, len(candidates))
		for i, c := range candidates {
			chars[i] = c.Character
		}
		if err := s.catalog.SaveCharacters(chars); err != nil {
			// каталог нужен только для просмотра ссылок, игра продолжается
			s.logger.Warn("Failed to cache characters", zap.Error(err))
		}

		s.logger.Info("Character list loaded",
			zap.String("username", username),
			zap.Int("candidates", len(candidates)))
		return candidates, nil
	}
}

// Game возвращает игру пользователя
func (s *Service) Game(userID string) (*session.Game, error) {
	game, ok := s.games.Get(userID)
	if !ok {
		return nil, ErrNoGame
	}
	return game, nil
}

// EndGame удаляет игру пользователя. Фоновая загрузка, если она идёт, завершится сама.
func (s *Service) EndGame(userID string) error {
	if !s.games.Delete(userID) {
		return ErrNoGame
	}
	s.logger.Info("Game ended", zap.String("user_id", userID))
	return nil
}
