// Package session связывает пул кандидатов и хранилище решений в игру одного пользователя.
package session

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/tempizhere/smashorpass/internal/candidate"
	"github.com/tempizhere/smashorpass/internal/models"
	"github.com/tempizhere/smashorpass/internal/store"
)

// ErrNoCandidate возвращается при попытке оценить, когда показывать некого
var ErrNoCandidate = errors.New("no character to judge")

// Game хранит игру одного пользователя. Методы сериализуются мьютексом игры.
type Game struct {
	mu       sync.Mutex
	username string
	pool     *candidate.Pool
	store    *store.DecisionStore
	current  *models.Candidate
	started  bool
}

// NewGame создаёт игру над пулом
func NewGame(username string, pool *candidate.Pool) *Game {
	return &Game{
		username: username,
		pool:     pool,
		store:    store.NewDecisionStore(),
	}
}

// Username возвращает имя пользователя AniList, чей список используется
func (g *Game) Username() string {
	return g.username
}

// Pool возвращает пул кандидатов игры
func (g *Game) Pool() *candidate.Pool {
	return g.pool
}

// WaitReady ждёт загрузки пула и выставляет первого кандидата
func (g *Game) WaitReady(ctx context.Context) error {
	if err := g.pool.WaitReady(ctx); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.startLocked()
	return nil
}

func (g *Game) startLocked() {
	if g.started {
		return
	}
	g.started = true
	g.advanceLocked()
}

func (g *Game) advanceLocked() {
	if c, ok := g.pool.Next(); ok {
		g.current = &c
		return
	}
	g.current = nil
}

// Current возвращает текущего кандидата. false, если кандидаты закончились или пул не готов.
func (g *Game) Current() (models.Candidate, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started && g.pool.IsReady() {
		g.startLocked()
	}
	if g.current == nil {
		return models.Candidate{}, false
	}
	return *g.current, true
}

// Judge записывает решение по текущему кандидату и переходит к следующему
func (g *Game) Judge(d models.Decision) (models.Candidate, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started && g.pool.IsReady() {
		g.startLocked()
	}
	if g.current == nil {
		return models.Candidate{}, false, ErrNoCandidate
	}
	if err := g.store.Record(*g.current, d); err != nil {
		return models.Candidate{}, false, err
	}
	g.advanceLocked()
	if g.current == nil {
		return models.Candidate{}, false, nil
	}
	return *g.current, true, nil
}

// Stats возвращает агрегаты по решениям
func (g *Game) Stats() models.StatsResponse {
	g.mu.Lock()
	defer g.mu.Unlock()

	resp := models.StatsResponse{
		Smashed:         g.store.Count(models.Smash),
		Passed:          g.store.Count(models.Pass),
		AverageSmashAge: finite(g.store.AverageAge(models.Smash)),
		AveragePassAge:  finite(g.store.AverageAge(models.Pass)),
		Remaining:       g.pool.Remaining(),
		Total:           g.pool.Total(),
	}
	if g.current != nil {
		resp.Remaining++
	}
	return resp
}

// finite превращает NaN в nil для JSON
func finite(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// History возвращает оценённых кандидатов решения в порядке оценки
func (g *Game) History(d models.Decision) []models.Candidate {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.History(d)
}

// ShareString сериализует решения игры
func (g *Game) ShareString() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.ShareString()
}
