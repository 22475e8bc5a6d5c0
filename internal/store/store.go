// Package store хранит решения пользователя по кандидатам и отвечает на агрегатные запросы.
package store

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tempizhere/smashorpass/internal/codec"
	"github.com/tempizhere/smashorpass/internal/models"
)

var (
	ErrAlreadyJudged   = errors.New("character already judged")
	ErrUnknownDecision = errors.New("unknown decision")
)

// Extractor извлекает числовой атрибут кандидата; false означает, что атрибута нет
type Extractor func(models.Candidate) (float64, bool)

// DecisionStore хранит две упорядоченные последовательности кандидатов, по одной на решение.
// Каждый id встречается не более чем в одной из них.
// Хранилище не синхронизировано: владелец обязан сериализовать вызовы.
type DecisionStore struct {
	history map[models.Decision][]models.Candidate
	judged  map[int]models.Decision
}

// NewDecisionStore создаёт пустое хранилище
func NewDecisionStore() *DecisionStore {
	return &DecisionStore{
		history: make(map[models.Decision][]models.Candidate, len(models.Decisions)),
		judged:  make(map[int]models.Decision),
	}
}

// Record добавляет кандидата в последовательность решения
func (s *DecisionStore) Record(c models.Candidate, d models.Decision) error {
	if d != models.Smash && d != models.Pass {
		return fmt.Errorf("%w: %q", ErrUnknownDecision, d)
	}
	if prev, ok := s.judged[c.Character.ID]; ok {
		return fmt.Errorf("%w: id %d is already %s", ErrAlreadyJudged, c.Character.ID, prev)
	}
	s.judged[c.Character.ID] = d
	s.history[d] = append(s.history[d], c)
	return nil
}

// Count возвращает число кандидатов с данным решением
func (s *DecisionStore) Count(d models.Decision) int {
	return len(s.history[d])
}

// Total возвращает общее число решений
func (s *DecisionStore) Total() int {
	return len(s.judged)
}

// Judged сообщает, принималось ли уже решение по id
func (s *DecisionStore) Judged(id int) (models.Decision, bool) {
	d, ok := s.judged[id]
	return d, ok
}

// History возвращает копию последовательности решения в порядке добавления
func (s *DecisionStore) History(d models.Decision) []models.Candidate {
	src := s.history[d]
	out := make([]models.Candidate, len(src))
	copy(out, src)
	return out
}

// Average возвращает среднее атрибута по кандидатам решения. Кандидаты без атрибута
// не учитываются; если учитывать некого, результат равен NaN.
func (s *DecisionStore) Average(d models.Decision, extract Extractor) float64 {
	var sum float64
	var n int
	for _, c := range s.history[d] {
		v, ok := extract(c)
		if !ok {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// AgeExtractor извлекает возраст для усреднения. Диапазоны и нулевой возраст
// пропускаются, в отличие от фильтров по возрасту первого появления.
func AgeExtractor(c models.Candidate) (float64, bool) {
	return c.Character.NumericAge()
}

// AverageAge возвращает средний возраст кандидатов решения
func (s *DecisionStore) AverageAge(d models.Decision) float64 {
	return s.Average(d, AgeExtractor)
}

// Judgments возвращает все решения в порядке сериализации: сначала smash, затем pass
func (s *DecisionStore) Judgments() []models.Judgment {
	out := make([]models.Judgment, 0, len(s.judged))
	for _, d := range models.Decisions {
		for _, c := range s.history[d] {
			out = append(out, models.Judgment{ID: c.Character.ID, Decision: d})
		}
	}
	return out
}

// ShareString сериализует все решения в строку токенов без разделителей
func (s *DecisionStore) ShareString() (string, error) {
	return EncodeJudgments(s.Judgments())
}

// EncodeJudgments склеивает токены последовательности решений
func EncodeJudgments(judgments []models.Judgment) (string, error) {
	var b strings.Builder
	b.Grow(len(judgments) * codec.TokenLen)
	for _, j := range judgments {
		token, err := codec.EncodeJudgment(j)
		if err != nil {
			return "", fmt.Errorf("encode id %d: %w", j.ID, err)
		}
		b.WriteString(token)
	}
	return b.String(), nil
}

// ParseShareString режет строку на окна по codec.TokenLen символов и декодирует каждое.
// Последнее окно короче TokenLen тоже декодируется.
func ParseShareString(str string) ([]models.Judgment, error) {
	out := make([]models.Judgment, 0, (len(str)+codec.TokenLen-1)/codec.TokenLen)
	for i := 0; i < len(str); i += codec.TokenLen {
		end := min(i+codec.TokenLen, len(str))
		j, err := codec.Decode(str[i:end])
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i/codec.TokenLen, err)
		}
		out = append(out, j)
	}
	return out, nil
}
