package repository

import (
	"sync"

	"github.com/tempizhere/smashorpass/internal/models"
)

// MemoryCatalog реализует интерфейс Catalog с использованием map
type MemoryCatalog struct {
	mu    sync.RWMutex
	store map[int]models.Character
}

// NewMemoryCatalog создаёт новый экземпляр MemoryCatalog
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		store: make(map[int]models.Character),
	}
}

// SaveCharacters сохраняет персонажей, перезаписывая существующих
func (r *MemoryCatalog) SaveCharacters(chars []models.Character) error {
	if err := validate(chars); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range chars {
		r.store[c.ID] = c
	}
	return nil
}

// GetCharacter возвращает персонажа по id, если он существует
func (r *MemoryCatalog) GetCharacter(id int) (models.Character, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, exists := r.store[id]
	return c, exists
}

// GetCharacters возвращает найденных персонажей
func (r *MemoryCatalog) GetCharacters(ids []int) (map[int]models.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int]models.Character, len(ids))
	for _, id := range ids {
		if c, ok := r.store[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

// Count возвращает размер каталога
func (r *MemoryCatalog) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store), nil
}

// Clear очищает хранилище
func (r *MemoryCatalog) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store = make(map[int]models.Character)
}
