package app

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/tempizhere/smashorpass/internal/repository"
	_ "modernc.org/sqlite"
)

// ErrUnsupportedDSN возвращается для DSN, по которому нельзя выбрать драйвер
var ErrUnsupportedDSN = errors.New("unsupported database DSN")

const createCharactersTable = `
CREATE TABLE IF NOT EXISTS characters (
    id INTEGER PRIMARY KEY,
    full_name TEXT NOT NULL DEFAULT '',
    native_name TEXT NOT NULL DEFAULT '',
    image TEXT NOT NULL DEFAULT '',
    gender TEXT NOT NULL DEFAULT '',
    age TEXT NOT NULL DEFAULT '',
    blood_type TEXT NOT NULL DEFAULT '',
    birth_year INTEGER NOT NULL DEFAULT 0,
    birth_month INTEGER NOT NULL DEFAULT 0,
    birth_day INTEGER NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT '',
    favourites INTEGER NOT NULL DEFAULT 0,
    site_url TEXT NOT NULL DEFAULT ''
)`

// DB представляет подключение к базе данных
type DB struct {
	conn   *sql.DB
	driver string
}

// driverFor выбирает драйвер database/sql по виду DSN
func driverFor(dsn string) (driver, source string, err error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return "pgx", dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite", strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "file:"), strings.HasSuffix(dsn, ".db"):
		return "sqlite", dsn, nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDSN, dsn)
}

// NewDB создаёт новое подключение к PostgreSQL или SQLite и создаёт таблицу каталога.
// Пустой DSN означает работу без базы данных.
func NewDB(dsn string) (repository.Database, error) {
	if dsn == "" {
		return nil, nil
	}

	driver, source, err := driverFor(dsn)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// SQLite не допускает параллельной записи
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	if _, err := conn.Exec(createCharactersTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create characters table: %w", err)
	}

	return &DB{conn: conn, driver: driver}, nil
}

// Driver возвращает имя используемого драйвера
func (db *DB) Driver() string {
	return db.driver
}

// Ping проверяет соединение с базой данных
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// Close закрывает соединение с базой данных
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Exec выполняет SQL-запрос с аргументами
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query выполняет SQL-запрос и возвращает множество строк
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow выполняет SQL-запрос и возвращает одну строку
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

// Begin начинает транзакцию
func (db *DB) Begin() (*sql.Tx, error) {
	if db == nil || db.conn == nil {
		return nil, sql.ErrConnDone
	}
	return db.conn.Begin()
}
