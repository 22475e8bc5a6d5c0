package session

import (
	"sync"
	"time"
)

type entry struct {
	game    *Game
	startAt time.Time
}

// Manager хранит игры пользователей по их идентификатору
type Manager struct {
	mu    sync.RWMutex
	games map[string]entry
}

// NewManager создаёт пустой менеджер
func NewManager() *Manager {
	return &Manager{games: make(map[string]entry)}
}

// Put сохраняет игру пользователя, заменяя предыдущую
func (m *Manager) Put(userID string, g *Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[userID] = entry{game: g, startAt: time.Now()}
}

// Get возвращает игру пользователя
func (m *Manager) Get(userID string) (*Game, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.games[userID]
	return e.game, ok
}

// Delete удаляет игру пользователя. false, если игры не было.
func (m *Manager) Delete(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[userID]; !ok {
		return false
	}
	delete(m.games, userID)
	return true
}

// Prune удаляет игры, начатые раньше before, и возвращает их число
func (m *Manager) Prune(before time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.games {
		if e.startAt.Before(before) {
			delete(m.games, id)
			n++
		}
	}
	return n
}

// Len возвращает число активных игр
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
