package security

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

var (
	ErrNegativeLength = errors.New("length must be non-negative")
	ErrEmptyClass     = errors.New("character classes must not be empty")
	ErrLengthTooShort = errors.New("length is shorter than the number of required classes")
)

// RandomFromClasses returns a cryptographically random string of length characters drawn from
// the union of classes, containing at least one character from every class.
func RandomFromClasses(length int, classes ...string) (string, error) {
	if length < 0 {
		return "", ErrNegativeLength
	}
	if len(classes) == 0 {
		return "", ErrEmptyClass
	}
	for _, class := range classes {
		if class == "" {
			return "", ErrEmptyClass
		}
	}
	if length < len(classes) {
		return "", ErrLengthTooShort
	}

	union := strings.Join(classes, "")
	value := make([]byte, length)
	for index := range value {
		source := union
		if index < len(classes) {
			source = classes[index]
		}
		position, err := randomIndex(len(source))
		if err != nil {
			return "", err
		}
		value[index] = source[position]
	}

	// Fisher-Yates so the guaranteed characters are not always leading.
	for index := len(value) - 1; index > 0; index-- {
		swap, err := randomIndex(index + 1)
		if err != nil {
			return "", err
		}
		value[index], value[swap] = value[swap], value[index]
	}
	return string(value), nil
}

func randomIndex(limit int) (int, error) {
	position, err := rand.Int(rand.Reader, big.NewInt(int64(limit)))
	if err != nil {
		return 0, err
	}
	return int(position.Int64()), nil
}
