// Package codec реализует компактное кодирование пары (id, решение) в токен
// фиксированной длины над алфавитом из 62 символов и обратное преобразование.
package codec

import (
	"errors"

	"github.com/tempizhere/smashorpass/internal/models"
)

const (
	// Alphabet перечисляет символы в порядке их значений: цифры, строчные, заглавные
	Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// Base основание системы счисления
	Base = len(Alphabet)
	// TokenLen длина одного токена
	TokenLen = 4
	// MaxComposite наибольшее значение id*2+flag, помещающееся в токен (62^4-1)
	MaxComposite = Base*Base*Base*Base - 1
	// MaxID наибольший id, кодируемый с любым значением флага
	MaxID = MaxComposite >> 1

	// maxDecodeLen ограничивает длину декодируемой строки, чтобы значение поместилось в int64
	maxDecodeLen = 10
)

var (
	ErrOverflow         = errors.New("id does not fit into share token")
	ErrNegativeID       = errors.New("negative id")
	ErrInvalidCharacter = errors.New("invalid character in share token")
	ErrEmptyToken       = errors.New("empty share token")
	ErrTokenTooLong     = errors.New("share token too long")
)

// invalid отмечает байты вне алфавита в таблице values
const invalid = 0xFF

// values отображает символ в его значение
var values = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = invalid
	}
	for i := 0; i < Base; i++ {
		t[Alphabet[i]] = byte(i)
	}
	return t
}()

// Encode кодирует id и флаг решения в токен длиной ровно TokenLen символов
func Encode(id int, smash bool) (string, error) {
	if id < 0 {
		return "", ErrNegativeID
	}
	// id*2+flag >= 62^4 требует пятого символа
	if id > MaxID {
		return "", ErrOverflow
	}
	composite := id << 1
	if smash {
		composite |= 1
	}

	var buf [TokenLen]byte
	for i := TokenLen - 1; i >= 0; i-- {
		buf[i] = Alphabet[composite%Base]
		composite /= Base
	}
	return string(buf[:]), nil
}

// Decode разбирает строку произвольной ненулевой длины как число в base62,
// старший разряд первым, и восстанавливает id и решение из младшего бита.
func Decode(token string) (models.Judgment, error) {
	if token == "" {
		return models.Judgment{}, ErrEmptyToken
	}
	if len(token) > maxDecodeLen {
		return models.Judgment{}, ErrTokenTooLong
	}

	var composite int64
	for i := 0; i < len(token); i++ {
		v := values[token[i]]
		if v == invalid {
			return models.Judgment{}, ErrInvalidCharacter
		}
		composite = composite*int64(Base) + int64(v)
	}

	return models.Judgment{
		ID:       int(composite >> 1),
		Decision: models.DecisionFromFlag(composite&1 == 1),
	}, nil
}

// EncodeJudgment кодирует готовую пару
func EncodeJudgment(j models.Judgment) (string, error) {
	return Encode(j.ID, j.Decision.Flag())
}
