// Package service содержит бизнес-логику игры: запуск игр, ссылки для шаринга и выдачу токенов.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/tempizhere/smashorpass/internal/anilist"
	"github.com/tempizhere/smashorpass/internal/models"
	"github.com/tempizhere/smashorpass/internal/repository"
	"github.com/tempizhere/smashorpass/internal/session"
	"go.uber.org/zap"
)

var (
	ErrNoGame       = errors.New("game not started")
	ErrInvalidShare = errors.New("corrupt or invalid share link")
	ErrInvalidToken = errors.New("invalid token")
	// ErrShareTooLong возвращается для ссылок длиннее MaxShareTokens решений
	ErrShareTooLong = errors.New("share link is too long")
	// ErrCharacterNotFound возвращается, если персонажа нет ни в каталоге, ни в AniList
	ErrCharacterNotFound = errors.New("character not found")
)

// Source поставляет персонажей из внешнего API
type Source interface {
	FetchCollection(ctx context.Context, username string, opts anilist.QueryOptions) ([]models.Candidate, error)
	FetchCharacters(ctx context.Context, ids []int) ([]models.Character, error)
}

// Options содержит настройки сервиса
type Options struct {
	BaseURL   string
	SharePath string
	JWTSecret string
	TokenTTL  time.Duration
}

// Service реализует логику игры поверх каталога персонажей и AniList
type Service struct {
	catalog repository.Catalog
	source  Source
	games   *session.Manager
	opts    Options
	logger  *zap.Logger

	// wg отслеживает фоновые загрузки списков
	wg sync.WaitGroup
}

// NewService создаёт новый экземпляр Service
func NewService(catalog repository.Catalog, source Source, opts Options, logger *zap.Logger) *Service {
	if opts.SharePath == "" {
		opts.SharePath = "/share/"
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &Service{
		catalog: catalog,
		source:  source,
		games:   session.NewManager(),
		opts:    opts,
		logger:  logger,
	}
}

// claims содержимое JWT пользователя
type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// GenerateUserID генерирует новый идентификатор пользователя
func (s *Service) GenerateUserID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// GenerateJWT подписывает токен с идентификатором пользователя
func (s *Service) GenerateJWT(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.opts.TokenTTL)),
		},
		UserID: userID,
	})
	return token.SignedString([]byte(s.opts.JWTSecret))
}

// ParseJWT проверяет подпись токена и возвращает идентификатор пользователя
func (s *Service) ParseJWT(tokenString string) (string, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.opts.JWTSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || c.UserID == "" {
		return "", ErrInvalidToken
	}
	return c.UserID, nil
}

// Stats возвращает внутреннюю статистику сервиса
func (s *Service) Stats() (models.ServiceStats, error) {
	n, err := s.catalog.Count()
	if err != nil {
		return models.ServiceStats{}, err
	}
	return models.ServiceStats{
		ActiveGames: s.games.Len(),
		Characters:  n,
	}, nil
}

// Character возвращает данные персонажа из каталога, при промахе запрашивает AniList
func (s *Service) Character(ctx context.Context, id int) (models.Character, error) {
	if c, ok := s.catalog.GetCharacter(id); ok {
		return c, nil
	}
	if s.source == nil {
		return models.Character{}, ErrCharacterNotFound
	}
	fetched, err := s.source.FetchCharacters(ctx, []int{id})
	if err != nil {
		return models.Character{}, err
	}
	for _, c := range fetched {
		if c.ID != id {
			continue
		}
		if err := s.catalog.SaveCharacters([]models.Character{c}); err != nil {
			s.logger.Warn("Failed to cache character", zap.Int("id", id), zap.Error(err))
		}
		return c, nil
	}
	return models.Character{}, ErrCharacterNotFound
}

// ClearCatalog очищает каталог персонажей
func (s *Service) ClearCatalog() {
	s.catalog.Clear()
	s.logger.Info("Character catalog cleared")
}

// Close ждёт завершения фоновых загрузок
func (s *Service) Close() {
	s.wg.Wait()
}
