package service_test

import (
	"context"
	"fmt"

	"github.com/tempizhere/smashorpass/internal/models"
	"github.com/tempizhere/smashorpass/internal/repository"
	"github.com/tempizhere/smashorpass/internal/service"
	"go.uber.org/zap"
)

func newExampleService() (*service.Service, repository.Catalog) {
	catalog := repository.NewMemoryCatalog()
	svc := service.NewService(catalog, nil, service.Options{
		BaseURL:   "http://localhost:8080",
		SharePath: "/share/",
		JWTSecret: "test-secret",
	}, zap.NewNop())
	return svc, catalog
}

// ExampleService_EncodeJudgments демонстрирует построение ссылки по списку решений
func ExampleService_EncodeJudgments() {
	svc, _ := newExampleService()

	url, err := svc.EncodeJudgments([]models.Judgment{
		{ID: 5, Decision: models.Smash},
		{ID: 9, Decision: models.Pass},
	})
	if err != nil {
		fmt.Printf("Ошибка кодирования: %v\n", err)
		return
	}
	fmt.Println(url)

	// Output:
	// http://localhost:8080/share/?000b000i
}

// ExampleService_ResolveShare демонстрирует расшифровку ссылки с данными из каталога
func ExampleService_ResolveShare() {
	svc, catalog := newExampleService()
	_ = catalog.SaveCharacters([]models.Character{{ID: 5, Name: models.Name{Full: "Asuna Yuuki"}}})

	shared, err := svc.ResolveShare(context.Background(), "000b")
	if err != nil {
		fmt.Printf("Ошибка: %v\n", err)
		return
	}
	for _, s := range shared {
		fmt.Printf("%s: %s\n", s.Character.Name.Full, s.Decision)
	}

	_, err = svc.ResolveShare(context.Background(), "#bad")
	fmt.Println(err != nil)

	// Output:
	// Asuna Yuuki: smash
	// true
}

// ExampleService_ParseJWT демонстрирует выпуск и проверку токена пользователя
func ExampleService_ParseJWT() {
	svc, _ := newExampleService()

	token, err := svc.GenerateJWT("user-123")
	if err != nil {
		fmt.Printf("Ошибка генерации JWT: %v\n", err)
		return
	}

	userID, err := svc.ParseJWT(token)
	if err != nil {
		fmt.Printf("Ошибка парсинга JWT: %v\n", err)
		return
	}
	fmt.Printf("UserID из токена: %s\n", userID)

	// Output:
	// UserID из токена: user-123
}
