// Package candidate содержит пул ещё не оценённых кандидатов и сигнал его готовности.
package candidate

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/tempizhere/smashorpass/internal/models"
)

// ErrNotReady возвращается при обращении к пулу до завершения загрузки
var ErrNotReady = errors.New("candidate pool is not ready")

// LoadFunc загружает кандидатов один раз
type LoadFunc func(ctx context.Context) ([]models.Candidate, error)

// Pool хранит рабочий набор кандидатов. Загружается один раз; Ready закрывается после
// завершения загрузки, в том числе неудачной.
type Pool struct {
	mu         sync.Mutex
	candidates []models.Candidate
	total      int
	rnd        *rand.Rand

	ready   chan struct{}
	once    sync.Once
	loadErr error
}

// NewPool создаёт пустой пул. rnd может быть nil, тогда используется глобальный генератор.
func NewPool(rnd *rand.Rand) *Pool {
	return &Pool{
		rnd:   rnd,
		ready: make(chan struct{}),
	}
}

// Load выполняет загрузку и открывает сигнал готовности. Повторные вызовы игнорируются.
func (p *Pool) Load(ctx context.Context, load LoadFunc) {
	p.once.Do(func() {
		candidates, err := load(ctx)
		p.mu.Lock()
		p.candidates = candidates
		p.total = len(candidates)
		p.loadErr = err
		p.mu.Unlock()
		close(p.ready)
	})
}

// Ready возвращает канал, закрываемый по завершении загрузки
func (p *Pool) Ready() <-chan struct{} {
	return p.ready
}

// WaitReady ждёт готовности пула и возвращает ошибку загрузки, если она была
func (p *Pool) WaitReady(ctx context.Context) error {
	select {
	case <-p.ready:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.loadErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsReady сообщает, завершена ли загрузка
func (p *Pool) IsReady() bool {
	select {
	case <-p.ready:
		return true
	default:
		return false
	}
}

// Next извлекает случайного кандидата из пула. false означает, что кандидаты закончились
// или пул ещё не готов.
func (p *Pool) Next() (models.Candidate, bool) {
	if !p.IsReady() {
		return models.Candidate{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.candidates)
	if n == 0 {
		return models.Candidate{}, false
	}
	var i int
	if p.rnd != nil {
		i = p.rnd.IntN(n)
	} else {
		i = rand.IntN(n)
	}
	c := p.candidates[i]
	// порядок оставшихся не важен
	p.candidates[i] = p.candidates[n-1]
	p.candidates[n-1] = models.Candidate{}
	p.candidates = p.candidates[:n-1]
	return c, true
}

// Remaining возвращает число ещё не выданных кандидатов
func (p *Pool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.candidates)
}

// Total возвращает число кандидатов после загрузки
func (p *Pool) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}
