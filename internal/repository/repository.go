// Package repository содержит каталог персонажей: данные для отображения расшифрованных ссылок.
package repository

import (
	"database/sql"
	"errors"

	"github.com/tempizhere/smashorpass/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// ErrInvalidCharacterID возвращается при попытке сохранить персонажа без id
var ErrInvalidCharacterID = errors.New("invalid character id")

// Catalog определяет интерфейс каталога персонажей
type Catalog interface {
	// SaveCharacters сохраняет или обновляет персонажей
	SaveCharacters(chars []models.Character) error
	// GetCharacter возвращает персонажа по id и флаг существования
	GetCharacter(id int) (models.Character, bool)
	// GetCharacters возвращает найденных персонажей по списку id
	GetCharacters(ids []int) (map[int]models.Character, error)
	// Count возвращает число персонажей в каталоге
	Count() (int, error)
	// Clear очищает каталог
	Clear()
}

// Database определяет интерфейс для работы с базой данных
type Database interface {
	// Ping проверяет соединение с базой данных
	Ping() error
	// Close закрывает соединение с базой данных
	Close() error
	// Exec выполняет SQL-команду без возврата результатов
	Exec(query string, args ...interface{}) (sql.Result, error)
	// Query выполняет SQL-запрос и возвращает результаты
	Query(query string, args ...interface{}) (*sql.Rows, error)
	// QueryRow выполняет SQL-запрос и возвращает одну строку результата
	QueryRow(query string, args ...interface{}) *sql.Row
	// Begin начинает новую транзакцию
	Begin() (*sql.Tx, error)
}

// validate проверяет персонажей перед сохранением
func validate(chars []models.Character) error {
	for _, c := range chars {
		if c.ID <= 0 {
			return ErrInvalidCharacterID
		}
	}
	return nil
}
