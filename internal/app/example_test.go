package app_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/tempizhere/smashorpass/internal/app"
	"github.com/tempizhere/smashorpass/internal/models"
	"github.com/tempizhere/smashorpass/internal/repository"
	"github.com/tempizhere/smashorpass/internal/service"
	"go.uber.org/zap"
)

func newExampleRouter() (http.Handler, repository.Catalog) {
	catalog := repository.NewMemoryCatalog()
	svc := service.NewService(catalog, nil, service.Options{
		BaseURL:   "http://localhost:8080",
		SharePath: "/share/",
		JWTSecret: "test-secret",
	}, zap.NewNop())
	appInstance := app.NewApp(svc, nil, zap.NewNop())
	return app.NewRouter(appInstance, app.RouterConfig{SharePath: "/share/", CookieTTL: time.Hour}, zap.NewNop()), catalog
}

// ExampleApp_HandleEncodeShare демонстрирует построение ссылки по списку решений через JSON API
func ExampleApp_HandleEncodeShare() {
	router, _ := newExampleRouter()

	body := strings.NewReader(`[{"id":5,"decision":"smash"},{"id":9,"decision":"pass"}]`)
	req := httptest.NewRequest(http.MethodPost, "/api/share/encode", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	fmt.Printf("Статус код: %d\n", w.Code)
	fmt.Println(w.Body.String())

	// Output:
	// Статус код: 201
	// {"result":"http://localhost:8080/share/?000b000i"}
}

// ExampleApp_HandleViewShare демонстрирует просмотр ссылки и обработку повреждённой ссылки
func ExampleApp_HandleViewShare() {
	router, catalog := newExampleRouter()
	_ = catalog.SaveCharacters([]models.Character{{ID: 5, Name: models.Name{Full: "Asuna Yuuki"}}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/share/?000b", nil))
	fmt.Printf("Статус код: %d\n", w.Code)
	fmt.Printf("Содержит персонажа: %t\n", strings.Contains(w.Body.String(), "Asuna Yuuki"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/share/?!!!!", nil))
	fmt.Printf("Статус код: %d\n", w.Code)
	fmt.Print(w.Body.String())

	// Output:
	// Статус код: 200
	// Содержит персонажа: true
	// Статус код: 400
	// corrupt or invalid share link
}
