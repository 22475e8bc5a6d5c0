// Package models содержит типы данных, общие для всех слоёв сервиса.
package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decision исход оценки персонажа
type Decision string

const (
	// Smash соответствует установленному младшему биту токена
	Smash Decision = "smash"
	// Pass соответствует нулевому младшему биту токена
	Pass Decision = "pass"
)

// Decisions перечисляет решения в порядке сериализации
var Decisions = []Decision{Smash, Pass}

// ParseDecision разбирает строковое представление решения
func ParseDecision(s string) (Decision, error) {
	switch Decision(strings.ToLower(s)) {
	case Smash:
		return Smash, nil
	case Pass:
		return Pass, nil
	}
	return "", fmt.Errorf("unknown decision %q", s)
}

// Flag возвращает бит решения для кодека
func (d Decision) Flag() bool {
	return d == Smash
}

// DecisionFromFlag восстанавливает решение по биту токена
func DecisionFromFlag(flag bool) Decision {
	if flag {
		return Smash
	}
	return Pass
}

// Judgment пара (id, решение), которую переносит ссылка
type Judgment struct {
	ID       int      `json:"id"`
	Decision Decision `json:"decision"`
}

// Name содержит имя персонажа
type Name struct {
	Full   string `json:"full"`
	Native string `json:"native,omitempty"`
}

// Image содержит ссылку на изображение персонажа
type Image struct {
	Large string `json:"large"`
}

// FuzzyDate дата AniList, в которой любое поле может отсутствовать
type FuzzyDate struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`
}

// Character представляет персонажа AniList
type Character struct {
	ID          int       `json:"id"`
	Name        Name      `json:"name"`
	Image       Image     `json:"image"`
	Gender      string    `json:"gender,omitempty"`
	Age         string    `json:"age,omitempty"`
	BloodType   string    `json:"bloodType,omitempty"`
	DateOfBirth FuzzyDate `json:"dateOfBirth"`
	Description string    `json:"description,omitempty"`
	Favourites  int       `json:"favourites"`
	ModNotes    string    `json:"modNotes,omitempty"`
	SiteURL     string    `json:"siteUrl"`
}

// FirstAppearanceAge возвращает возраст при первом появлении: ведущее число строки
// возраста ("16-17" -> 16). Второе значение false, если возраст неизвестен.
func (c Character) FirstAppearanceAge() (float64, bool) {
	digits := leadingDigits(strings.TrimSpace(c.Age))
	if digits == "" {
		return 0, false
	}
	age, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return float64(age), true
}

// NumericAge возвращает возраст, только если вся строка является ненулевым числом.
// Диапазоны вида "16-17" и "0" не считаются.
func (c Character) NumericAge() (float64, bool) {
	age, err := strconv.ParseFloat(strings.TrimSpace(c.Age), 64)
	if err != nil || age == 0 || math.IsNaN(age) || math.IsInf(age, 0) {
		return 0, false
	}
	return age, true
}

// leadingDigits возвращает цифры в начале строки ("18.4 apples" -> "18")
func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// Title содержит названия тайтла
type Title struct {
	English string `json:"english,omitempty"`
	Native  string `json:"native,omitempty"`
}

// Media описывает аниме, в котором появляется персонаж
type Media struct {
	Title   Title  `json:"title"`
	SiteURL string `json:"siteUrl"`
}

// Candidate описывает персонажа вместе с тайтлом и списком пользователя, из которого он взят
type Candidate struct {
	Character Character `json:"character"`
	Anime     Media     `json:"anime"`
	ListName  string    `json:"list"`
}

// AnimeTitle возвращает английское название, а при его отсутствии оригинальное
func (c Candidate) AnimeTitle() string {
	if c.Anime.Title.English != "" {
		return c.Anime.Title.English
	}
	return c.Anime.Title.Native
}

// Label возвращает подпись для истории в виде "Имя (Аниме)"
func (c Candidate) Label() string {
	return fmt.Sprintf("%s (%s)", c.Character.Name.Full, c.AnimeTitle())
}
