package models

// StartGameRequest тело запроса POST /api/game
type StartGameRequest struct {
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
	Gender   string `json:"gender,omitempty"`
	MinAge   string `json:"min_age,omitempty"`
	MaxAge   string `json:"max_age,omitempty"`
}

// ReadyResponse ответ GET /api/game/ready
type ReadyResponse struct {
	Ready bool `json:"ready"`
	Total int  `json:"total"`
}

// CurrentResponse описывает текущего кандидата или конечное состояние
type CurrentResponse struct {
	Done      bool       `json:"done"`
	Candidate *Candidate `json:"candidate,omitempty"`
	Birthday  string     `json:"birthday,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// StatsResponse содержит агрегаты по решениям. Средний возраст равен nil, если его не из чего считать.
type StatsResponse struct {
	Smashed         int      `json:"smashed"`
	Passed          int      `json:"passed"`
	AverageSmashAge *float64 `json:"average_smash_age"`
	AveragePassAge  *float64 `json:"average_pass_age"`
	Remaining       int      `json:"remaining"`
	Total           int      `json:"total"`
}

// HistoryEntry элемент истории решений
type HistoryEntry struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Image string `json:"image"`
}

// ShareResponse содержит ссылку для шаринга
type ShareResponse struct {
	Result string `json:"result"`
}

// SharedJudgment элемент расшифрованной ссылки с данными для отображения, если они найдены
type SharedJudgment struct {
	ID        int        `json:"id"`
	Decision  Decision   `json:"decision"`
	Character *Character `json:"character,omitempty"`
}

// ServiceStats внутренняя статистика сервиса
type ServiceStats struct {
	ActiveGames int `json:"active_games"`
	Characters  int `json:"characters"`
}
