package repository

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/tempizhere/smashorpass/internal/models"
	"go.uber.org/zap"
)

// CharacterRecord представляет запись в JSON-файле
type CharacterRecord struct {
	ID        int              `json:"id"`
	Character models.Character `json:"character"`
}

// FileCatalog реализует интерфейс Catalog с использованием файла JSON lines.
// Новые записи дописываются в конец; при чтении более поздняя запись побеждает.
type FileCatalog struct {
	store    map[int]models.Character
	filePath string
	logger   *zap.Logger
	mutex    sync.RWMutex
}

// NewFileCatalog создаёт новый экземпляр FileCatalog и загружает существующий файл
func NewFileCatalog(filePath string, logger *zap.Logger) (*FileCatalog, error) {
	repo := &FileCatalog{
		store:    make(map[int]models.Character),
		filePath: filePath,
		logger:   logger,
	}

	// Создаём директорию, если не существует
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return repo, nil
		}
		return nil, err
	}
	defer file.Close()

	lines := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var record CharacterRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			// Пропускаем некорректные строки и логируем это
			repo.logger.Warn("Skipping invalid JSON line", zap.String("line", string(scanner.Bytes())), zap.Error(err))
			continue
		}
		repo.store[record.ID] = record.Character
		lines++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Файл с повторами переписываем целиком
	if lines > len(repo.store) {
		if err := repo.rewrite(); err != nil {
			return nil, err
		}
		repo.logger.Info("Catalog file compacted",
			zap.String("path", filePath),
			zap.Int("lines", lines),
			zap.Int("characters", len(repo.store)),
		)
	}

	return repo, nil
}

// encode сериализует записи построчно
func encode(chars []models.Character) ([]byte, error) {
	var buf bytes.Buffer
	for _, c := range chars {
		data, err := json.Marshal(CharacterRecord{ID: c.ID, Character: c})
		if err != nil {
			return nil, err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// rewrite атомарно заменяет файл текущим содержимым; вызывается под блокировкой
func (r *FileCatalog) rewrite() error {
	chars := make([]models.Character, 0, len(r.store))
	for _, c := range r.store {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].ID < chars[j].ID })

	data, err := encode(chars)
	if err != nil {
		return err
	}
	return atomic.WriteFile(r.filePath, bytes.NewReader(data))
}

// changed отбирает персонажей, чья запись отличается от сохранённой; вызывается под блокировкой
func (r *FileCatalog) changed(chars []models.Character) []models.Character {
	latest := make(map[int]int, len(chars))
	for i, c := range chars {
		latest[c.ID] = i
	}
	out := make([]models.Character, 0, len(chars))
	for i, c := range chars {
		if latest[c.ID] != i {
			continue
		}
		if stored, ok := r.store[c.ID]; ok && stored == c {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SaveCharacters сохраняет персонажей в памяти и дописывает в файл только изменившиеся
func (r *FileCatalog) SaveCharacters(chars []models.Character) error {
	if err := validate(chars); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	chars = r.changed(chars)
	if len(chars) == 0 {
		return nil
	}

	data, err := encode(chars)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(r.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		r.logger.Error("Failed to open catalog file", zap.String("path", r.filePath), zap.Error(err))
		return err
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return err
	}
	for _, c := range chars {
		r.store[c.ID] = c
	}
	return nil
}

// GetCharacter возвращает персонажа по id, если он существует
func (r *FileCatalog) GetCharacter(id int) (models.Character, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	c, exists := r.store[id]
	return c, exists
}

// GetCharacters возвращает найденных персонажей
func (r *FileCatalog) GetCharacters(ids []int) (map[int]models.Character, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make(map[int]models.Character, len(ids))
	for _, id := range ids {
		if c, ok := r.store[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

// Count возвращает размер каталога
func (r *FileCatalog) Count() (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.store), nil
}

// Clear очищает хранилище и файл
func (r *FileCatalog) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.store = make(map[int]models.Character)
	if err := atomic.WriteFile(r.filePath, bytes.NewReader(nil)); err != nil {
		r.logger.Error("Failed to clear catalog file", zap.String("path", r.filePath), zap.Error(err))
	}
}
