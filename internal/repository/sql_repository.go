package repository

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/tempizhere/smashorpass/internal/models"
	"go.uber.org/zap"
)

const characterColumns = "id, full_name, native_name, image, gender, age, blood_type, birth_year, birth_month, birth_day, description, favourites, site_url"

const characterColumnCount = 13

const upsertConflict = `
ON CONFLICT (id) DO UPDATE SET
	full_name = EXCLUDED.full_name,
	native_name = EXCLUDED.native_name,
	image = EXCLUDED.image,
	gender = EXCLUDED.gender,
	age = EXCLUDED.age,
	blood_type = EXCLUDED.blood_type,
	birth_year = EXCLUDED.birth_year,
	birth_month = EXCLUDED.birth_month,
	birth_day = EXCLUDED.birth_day,
	description = EXCLUDED.description,
	favourites = EXCLUDED.favourites,
	site_url = EXCLUDED.site_url`

// placeholderFunc возвращает плейсхолдер n-го аргумента (с единицы)
type placeholderFunc func(n int) string

func dollarPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

func questionPlaceholder(int) string { return "?" }

// driverNamer реализуют подключения, знающие свой драйвер
type driverNamer interface {
	Driver() string
}

// SQLCatalog реализует интерфейс Catalog поверх PostgreSQL или SQLite
type SQLCatalog struct {
	db          Database
	logger      *zap.Logger
	placeholder placeholderFunc
	upsert      string
}

// NewSQLCatalog создаёт новый экземпляр SQLCatalog
func NewSQLCatalog(db Database, logger *zap.Logger) (*SQLCatalog, error) {
	if db == nil {
		return nil, errors.New("database is not configured")
	}
	placeholder := dollarPlaceholder
	if d, ok := db.(driverNamer); ok && d.Driver() == "sqlite" {
		placeholder = questionPlaceholder
	}
	return &SQLCatalog{
		db:          db,
		logger:      logger,
		placeholder: placeholder,
		upsert: "INSERT INTO characters (" + characterColumns + ")\nVALUES (" +
			placeholders(placeholder, 1, characterColumnCount) + ")" + upsertConflict,
	}, nil
}

// placeholders перечисляет count плейсхолдеров через запятую, начиная с from
func placeholders(p placeholderFunc, from, count int) string {
	out := make([]string, count)
	for i := range out {
		out[i] = p(from + i)
	}
	return strings.Join(out, ", ")
}

// SaveCharacters сохраняет персонажей в одной транзакции
func (r *SQLCatalog) SaveCharacters(chars []models.Character) error {
	if err := validate(chars); err != nil {
		return err
	}
	if len(chars) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		r.logger.Error("Failed to start transaction", zap.Error(err))
		return err
	}
	for _, c := range chars {
		_, err := tx.Exec(r.upsert,
			c.ID, c.Name.Full, c.Name.Native, c.Image.Large, c.Gender, c.Age, c.BloodType,
			c.DateOfBirth.Year, c.DateOfBirth.Month, c.DateOfBirth.Day,
			c.Description, c.Favourites, c.SiteURL,
		)
		if err != nil {
			r.logger.Error("Failed to save character in transaction", zap.Int("id", c.ID), zap.Error(err))
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("Failed to rollback transaction", zap.Error(rbErr))
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit transaction", zap.Error(err))
		return err
	}
	return nil
}

// scanner общий интерфейс *sql.Row и *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanCharacter(s scanner) (models.Character, error) {
	var c models.Character
	err := s.Scan(
		&c.ID, &c.Name.Full, &c.Name.Native, &c.Image.Large, &c.Gender, &c.Age, &c.BloodType,
		&c.DateOfBirth.Year, &c.DateOfBirth.Month, &c.DateOfBirth.Day,
		&c.Description, &c.Favourites, &c.SiteURL,
	)
	return c, err
}

// GetCharacter возвращает персонажа по id, если он существует
func (r *SQLCatalog) GetCharacter(id int) (models.Character, bool) {
	row := r.db.QueryRow("SELECT "+characterColumns+" FROM characters WHERE id = "+r.placeholder(1), id)
	c, err := scanCharacter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Character{}, false
	}
	if err != nil {
		r.logger.Error("Failed to get character from database", zap.Int("id", id), zap.Error(err))
		return models.Character{}, false
	}
	return c, true
}

// GetCharacters возвращает найденных персонажей одним запросом
func (r *SQLCatalog) GetCharacters(ids []int) (map[int]models.Character, error) {
	out := make(map[int]models.Character, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := "SELECT " + characterColumns + " FROM characters WHERE id IN (" + placeholders(r.placeholder, 1, len(ids)) + ")"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to query characters", zap.Int("ids", len(ids)), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		out[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count возвращает размер каталога
func (r *SQLCatalog) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM characters").Scan(&n); err != nil {
		r.logger.Error("Failed to count characters", zap.Error(err))
		return 0, err
	}
	return n, nil
}

// Clear удаляет все записи каталога
func (r *SQLCatalog) Clear() {
	if _, err := r.db.Exec("DELETE FROM characters"); err != nil {
		r.logger.Error("Failed to clear database", zap.Error(err))
	}
}
