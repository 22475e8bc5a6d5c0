package repository_test

import (
	"fmt"

	"github.com/tempizhere/smashorpass/internal/models"
	"github.com/tempizhere/smashorpass/internal/repository"
)

// ExampleMemoryCatalog_SaveCharacters демонстрирует сохранение персонажей в in-memory каталоге
func ExampleMemoryCatalog_SaveCharacters() {
	// Создаём in-memory каталог
	repo := repository.NewMemoryCatalog()

	err := repo.SaveCharacters([]models.Character{
		{ID: 36828, Name: models.Name{Full: "Asuna Yuuki"}},
		{ID: 90000, Name: models.Name{Full: "Sinon"}},
	})
	if err != nil {
		fmt.Printf("Ошибка сохранения: %v\n", err)
		return
	}

	n, _ := repo.Count()
	fmt.Printf("Персонажей в каталоге: %d\n", n)

	// Output:
	// Персонажей в каталоге: 2
}

// ExampleMemoryCatalog_GetCharacters демонстрирует поиск персонажей для расшифрованной ссылки
func ExampleMemoryCatalog_GetCharacters() {
	repo := repository.NewMemoryCatalog()
	_ = repo.SaveCharacters([]models.Character{{ID: 5, Name: models.Name{Full: "Asuna Yuuki"}}})

	found, _ := repo.GetCharacters([]int{5, 9})
	for _, id := range []int{5, 9} {
		if c, ok := found[id]; ok {
			fmt.Printf("%d: %s\n", id, c.Name.Full)
		} else {
			fmt.Printf("%d: не найден\n", id)
		}
	}

	// Output:
	// 5: Asuna Yuuki
	// 9: не найден
}
