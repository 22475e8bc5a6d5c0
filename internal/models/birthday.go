package models

import (
	"strconv"
	"time"
)

// ordinal добавляет к дню английский порядковый суффикс
func ordinal(day int) string {
	s := strconv.Itoa(day)
	switch day % 100 {
	case 11, 12, 13:
		return s + "th"
	}
	switch day % 10 {
	case 1:
		return s + "st"
	case 2:
		return s + "nd"
	case 3:
		return s + "rd"
	}
	return s + "th"
}

// String форматирует неполную дату: "March 3rd, 1999", "March 1999", "3rd, 1999",
// "March 3rd", "March", "1999" или "Unknown", если известен только день или ничего.
func (d FuzzyDate) String() string {
	var month string
	if d.Month >= 1 && d.Month <= 12 {
		month = time.Month(d.Month).String()
	}
	var day string
	if d.Day > 0 {
		day = ordinal(d.Day)
	}
	var year string
	if d.Year > 0 {
		year = strconv.Itoa(d.Year)
	}

	switch {
	case year != "" && month != "" && day != "":
		return month + " " + day + ", " + year
	case year != "" && month != "":
		return month + " " + year
	case year != "" && day != "":
		return day + ", " + year
	case month != "" && day != "":
		return month + " " + day
	case month != "":
		return month
	case year != "":
		return year
	}
	return "Unknown"
}

// BirthdayString возвращает дату рождения персонажа в читаемом виде
func (c Character) BirthdayString() string {
	return c.DateOfBirth.String()
}
