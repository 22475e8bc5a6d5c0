// Package proto содержит определения типов для gRPC сервиса ссылок
package proto

// Judgment представляет пару (id персонажа, решение)
type Judgment struct {
	ID       int32  `json:"id"`
	Decision string `json:"decision"`
}

// EncodeRequest представляет запрос на построение ссылки
type EncodeRequest struct {
	Judgments []*Judgment `json:"judgments"`
}

// EncodeResponse представляет ответ с готовой ссылкой
type EncodeResponse struct {
	ShareURL    string `json:"share_url"`
	ShareString string `json:"share_string"`
}

// DecodeRequest представляет запрос на расшифровку строки ссылки
type DecodeRequest struct {
	Share string `json:"share"`
}

// DecodeResponse представляет расшифрованные решения в порядке ссылки
type DecodeResponse struct {
	Judgments []*Judgment `json:"judgments"`
}

// ResolveRequest представляет запрос на расшифровку ссылки с данными персонажей
type ResolveRequest struct {
	Share string `json:"share"`
}

// SharedCharacter представляет решение вместе с данными персонажа для отображения
type SharedCharacter struct {
	ID       int32  `json:"id"`
	Decision string `json:"decision"`
	Found    bool   `json:"found"`
	Name     string `json:"name,omitempty"`
	Image    string `json:"image,omitempty"`
	SiteURL  string `json:"site_url,omitempty"`
}

// ResolveResponse представляет ответ с расшифрованной ссылкой
type ResolveResponse struct {
	Items []*SharedCharacter `json:"items"`
}

// GetShareRequest представляет запрос ссылки на игру текущего пользователя
type GetShareRequest struct{}

// GetShareResponse представляет ссылку на игру пользователя
type GetShareResponse struct {
	ShareURL string `json:"share_url"`
}

// PingRequest представляет запрос проверки состояния
type PingRequest struct{}

// PingResponse представляет ответ проверки состояния
type PingResponse struct {
	DatabaseAvailable bool `json:"database_available"`
}

// GetStatsRequest представляет запрос статистики
type GetStatsRequest struct{}

// GetStatsResponse представляет ответ со статистикой
type GetStatsResponse struct {
	ActiveGames int32 `json:"active_games"`
	Characters  int32 `json:"characters"`
}
