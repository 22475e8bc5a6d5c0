package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempizhere/smashorpass/internal/models"
	"go.uber.org/zap"
)

var characterRowColumns = []string{
	"id", "full_name", "native_name", "image", "gender", "age", "blood_type",
	"birth_year", "birth_month", "birth_day", "description", "favourites", "site_url",
}

func newSQLCatalog(t *testing.T) (*SQLCatalog, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")
	t.Cleanup(func() { db.Close() })

	// *sql.DB удовлетворяет интерфейсу Database
	repo, err := NewSQLCatalog(db, zap.NewNop())
	require.NoError(t, err)
	return repo, mock
}

func TestNewSQLCatalog_NilDatabase(t *testing.T) {
	repo, err := NewSQLCatalog(nil, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, repo)
}

func TestSQLCatalog_SaveCharacters(t *testing.T) {
	asuna := models.Character{
		ID:          36828,
		Name:        models.Name{Full: "Asuna Yuuki", Native: "結城明日奈"},
		Image:       models.Image{Large: "https://img/asuna.png"},
		Gender:      "Female",
		Age:         "17",
		DateOfBirth: models.FuzzyDate{Year: 2007, Month: 9, Day: 30},
		Favourites:  10000,
		SiteURL:     "https://anilist.co/character/36828",
	}
	upsert := regexp.QuoteMeta("INSERT INTO characters (" + characterColumns + ")")

	tests := []struct {
		name        string
		setup       func(mock sqlmock.Sqlmock)
		chars       []models.Character
		expectedErr error
	}{
		{
			name: "Save success",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(upsert).
					WithArgs(36828, "Asuna Yuuki", "結城明日奈", "https://img/asuna.png", "Female", "17", "",
						2007, 9, 30, "", 10000, "https://anilist.co/character/36828").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			chars: []models.Character{asuna},
		},
		{
			name: "Save error rolls back",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(upsert).WillReturnError(errors.New("db error"))
				mock.ExpectRollback()
			},
			chars:       []models.Character{asuna},
			expectedErr: errors.New("db error"),
		},
		{
			name: "Begin error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("begin failed"))
			},
			chars:       []models.Character{asuna},
			expectedErr: errors.New("begin failed"),
		},
		{
			name:        "Invalid id",
			setup:       func(mock sqlmock.Sqlmock) {},
			chars:       []models.Character{{ID: 0}},
			expectedErr: ErrInvalidCharacterID,
		},
		{
			name:  "Empty batch",
			setup: func(mock sqlmock.Sqlmock) {},
			chars: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newSQLCatalog(t)
			tt.setup(mock)

			err := repo.SaveCharacters(tt.chars)
			assert.Equal(t, tt.expectedErr, err)

			// Проверяем, что все ожидаемые вызовы мока выполнены
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLCatalog_GetCharacter(t *testing.T) {
	query := regexp.QuoteMeta("SELECT " + characterColumns + " FROM characters WHERE id = $1")

	t.Run("Found", func(t *testing.T) {
		repo, mock := newSQLCatalog(t)
		mock.ExpectQuery(query).WithArgs(36828).WillReturnRows(
			sqlmock.NewRows(characterRowColumns).
				AddRow(36828, "Asuna Yuuki", "", "https://img/asuna.png", "Female", "17", "", 2007, 9, 30, "", 10000, "https://anilist.co/character/36828"),
		)

		c, ok := repo.GetCharacter(36828)
		assert.True(t, ok)
		assert.Equal(t, "Asuna Yuuki", c.Name.Full)
		assert.Equal(t, models.FuzzyDate{Year: 2007, Month: 9, Day: 30}, c.DateOfBirth)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mock := newSQLCatalog(t)
		mock.ExpectQuery(query).WithArgs(1).WillReturnError(sql.ErrNoRows)

		_, ok := repo.GetCharacter(1)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		repo, mock := newSQLCatalog(t)
		mock.ExpectQuery(query).WithArgs(2).WillReturnError(errors.New("db error"))

		_, ok := repo.GetCharacter(2)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLCatalog_GetCharacters(t *testing.T) {
	repo, mock := newSQLCatalog(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM characters WHERE id IN ($1, $2, $3)")).
		WithArgs(1, 2, 3).
		WillReturnRows(sqlmock.NewRows(characterRowColumns).
			AddRow(1, "One", "", "", "", "", "", 0, 0, 0, "", 0, "").
			AddRow(3, "Three", "", "", "", "", "", 0, 0, 0, "", 0, ""))

	found, err := repo.GetCharacters([]int{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "Three", found[3].Name.Full)
	_, ok := found[2]
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())

	empty, err := repo.GetCharacters(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLCatalog_CountAndClear(t *testing.T) {
	repo, mock := newSQLCatalog(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM characters")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM characters")).
		WillReturnResult(sqlmock.NewResult(0, 42))

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	repo.Clear()
	assert.NoError(t, mock.ExpectationsWereMet())
}
