package service

import (
	"context"
	"fmt"

	"github.com/tempizhere/smashorpass/internal/codec"
	"github.com/tempizhere/smashorpass/internal/models"
	"github.com/tempizhere/smashorpass/internal/store"
	"go.uber.org/zap"
)

const (
	// MaxShareTokens ограничивает число решений в одной ссылке
	MaxShareTokens = 2000
	// maxResolveFetch ограничивает число id, запрашиваемых у AniList за одну расшифровку
	maxResolveFetch = 100
)

// BuildShareURL собирает ссылку вида <BaseURL><SharePath>?<share>
func (s *Service) BuildShareURL(share string) string {
	return s.opts.BaseURL + s.opts.SharePath + "?" + share
}

// ShareURL возвращает ссылку на результаты игры пользователя
func (s *Service) ShareURL(userID string) (string, error) {
	game, err := s.Game(userID)
	if err != nil {
		return "", err
	}
	share, err := game.ShareString()
	if err != nil {
		return "", err
	}
	if len(share) > MaxShareTokens*codec.TokenLen {
		return "", fmt.Errorf("%w: %d judgments", ErrShareTooLong, len(share)/codec.TokenLen)
	}
	return s.BuildShareURL(share), nil
}

// EncodeShare кодирует список решений в строку ссылки без адреса
func (s *Service) EncodeShare(judgments []models.Judgment) (string, error) {
	if len(judgments) > MaxShareTokens {
		return "", fmt.Errorf("%w: %d judgments", ErrShareTooLong, len(judgments))
	}
	return store.EncodeJudgments(judgments)
}

// EncodeJudgments строит ссылку по произвольному списку решений
func (s *Service) EncodeJudgments(judgments []models.Judgment) (string, error) {
	share, err := s.EncodeShare(judgments)
	if err != nil {
		return "", err
	}
	return s.BuildShareURL(share), nil
}

// DecodeShare расшифровывает строку ссылки в список решений.
// Строки длиннее MaxShareTokens токенов отклоняются до разбора.
func (s *Service) DecodeShare(share string) ([]models.Judgment, error) {
	if len(share) > MaxShareTokens*codec.TokenLen {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShare, ErrShareTooLong)
	}
	judgments, err := store.ParseShareString(share)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShare, err)
	}
	return judgments, nil
}

// ResolveShare расшифровывает строку ссылки и дополняет решения данными персонажей.
// Персонажи, которых нет в каталоге, запрашиваются у AniList (не больше maxResolveFetch
// за вызов) и сохраняются в каталог.
// Решения без найденных данных возвращаются без персонажа.
func (s *Service) ResolveShare(ctx context.Context, share string) ([]models.SharedJudgment, error) {
	judgments, err := s.DecodeShare(share)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(judgments))
	seen := make(map[int]struct{}, len(judgments))
	for _, j := range judgments {
		if _, ok := seen[j.ID]; ok {
			continue
		}
		seen[j.ID] = struct{}{}
		ids = append(ids, j.ID)
	}
	found, err := s.catalog.GetCharacters(ids)
	if err != nil {
		s.logger.Warn("Failed to read character catalog", zap.Error(err))
	}
	if found == nil {
		found = make(map[int]models.Character)
	}

	var missing []int
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > maxResolveFetch {
		s.logger.Info("Too many unknown characters in share link",
			zap.Int("missing", len(missing)), zap.Int("fetched", maxResolveFetch))
		missing = missing[:maxResolveFetch]
	}

	if len(missing) > 0 && s.source != nil {
		fetched, err := s.source.FetchCharacters(ctx, missing)
		if err != nil {
			s.logger.Warn("Failed to fetch shared characters", zap.Int("missing", len(missing)), zap.Error(err))
		} else {
			for _, c := range fetched {
				found[c.ID] = c
			}
			if err := s.catalog.SaveCharacters(fetched); err != nil {
				s.logger.Warn("Failed to cache characters", zap.Error(err))
			}
		}
	}

	out := make([]models.SharedJudgment, len(judgments))
	for i, j := range judgments {
		out[i] = models.SharedJudgment{ID: j.ID, Decision: j.Decision}
		if c, ok := found[j.ID]; ok {
			out[i].Character = &c
		}
	}
	return out, nil
}
