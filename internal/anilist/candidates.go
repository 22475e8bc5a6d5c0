package anilist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tempizhere/smashorpass/internal/models"
)

// Role роль персонажа в тайтле
type Role string

const (
	RoleMain       Role = "MAIN"
	RoleSupporting Role = "SUPPORTING"
	RoleBackground Role = "BACKGROUND"
	RoleAll        Role = "ALL"
)

// ParseRole разбирает роль; пустая строка означает все роли
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case "", RoleAll:
		return RoleAll, nil
	case RoleMain, RoleSupporting, RoleBackground:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// QueryOptions содержит фильтры списка кандидатов. Нулевые MinAge и MaxAge не ограничивают возраст.
type QueryOptions struct {
	Role   Role
	Gender string
	MinAge int
	MaxAge int
}

// ParseOptions собирает фильтры из строковых значений формы
func ParseOptions(role, gender, minAge, maxAge string) (QueryOptions, error) {
	r, err := ParseRole(role)
	if err != nil {
		return QueryOptions{}, err
	}
	opts := QueryOptions{Role: r, Gender: strings.TrimSpace(gender)}
	if opts.MinAge, err = parseAgeBound(minAge); err != nil {
		return QueryOptions{}, fmt.Errorf("min age: %w", err)
	}
	if opts.MaxAge, err = parseAgeBound(maxAge); err != nil {
		return QueryOptions{}, fmt.Errorf("max age: %w", err)
	}
	return opts, nil
}

func parseAgeBound(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative age %d", v)
	}
	return v, nil
}

// CollectionData поле data ответа на запрос MediaListCollection
type CollectionData struct {
	MediaListCollection struct {
		Lists []ListEntry `json:"lists"`
	} `json:"MediaListCollection"`
}

// ListEntry один список пользователя (Watching, Completed, ...)
type ListEntry struct {
	Name    string       `json:"name"`
	Status  string       `json:"status,omitempty"`
	Entries []MediaEntry `json:"entries"`
}

// MediaEntry тайтл в списке вместе с его персонажами
type MediaEntry struct {
	Media struct {
		Title      models.Title `json:"title"`
		SiteURL    string       `json:"siteUrl"`
		Characters struct {
			Nodes []models.Character `json:"nodes"`
		} `json:"characters"`
	} `json:"media"`
}

// Match проверяет персонажа по фильтрам. Ограничение возраста отсекает персонажей без возраста.
func (o QueryOptions) Match(c models.Character) bool {
	if o.Gender != "" && !strings.EqualFold(c.Gender, o.Gender) {
		return false
	}
	if o.MinAge == 0 && o.MaxAge == 0 {
		return true
	}
	age, ok := c.FirstAppearanceAge()
	if !ok {
		return false
	}
	if o.MinAge > 0 && age < float64(o.MinAge) {
		return false
	}
	if o.MaxAge > 0 && age > float64(o.MaxAge) {
		return false
	}
	return true
}

// BuildCandidates разворачивает списки в кандидатов, фильтрует их и убирает дубликаты по id.
// Из дубликатов остаётся первое вхождение.
func BuildCandidates(data CollectionData, opts QueryOptions) []models.Candidate {
	seen := make(map[int]struct{})
	var out []models.Candidate
	for _, list := range data.MediaListCollection.Lists {
		for _, entry := range list.Entries {
			for _, ch := range entry.Media.Characters.Nodes {
				if _, dup := seen[ch.ID]; dup {
					continue
				}
				if !opts.Match(ch) {
					continue
				}
				seen[ch.ID] = struct{}{}
				out = append(out, models.Candidate{
					Character: ch,
					Anime: models.Media{
						Title:   entry.Media.Title,
						SiteURL: entry.Media.SiteURL,
					},
					ListName: list.Name,
				})
			}
		}
	}
	return out
}
