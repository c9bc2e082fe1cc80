package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	letterChars       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars        = "0123456789"
	specialChars      = "!@#$%^&*()"
	extraSpecialChars = "-_ []{}<>~`+=,.;:/?|"
)

var (
	ErrLengthTooShort = errors.New("password length must be at least 1")
	ErrInvalidRange   = errors.New("invalid range: min must not exceed max")
)

// GeneratePassword returns a password of length characters drawn uniformly
// from letters and digits, plus the standard special characters when special
// is set and the extended set when extraSpecial is set.
func GeneratePassword(length int, special, extraSpecial bool) (string, error) {
	if length < 1 {
		return "", ErrLengthTooShort
	}

	pool := letterChars + digitChars
	if special {
		pool += specialChars
	}
	if extraSpecial {
		pool += extraSpecialChars
	}

	result := make([]byte, length)
	for i := range result {
		ch, err := randChar(pool)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	return string(result), nil
}

// RandomInt returns a uniform random integer in [min, max] using crypto/rand.
func RandomInt(min, max int) (int, error) {
	if min > max {
		return 0, ErrInvalidRange
	}
	if min == max {
		return min, nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max-min)+1))
	if err != nil {
		return 0, err
	}
	return min + int(n.Int64()), nil
}

// randChar picks a random character from charset using crypto/rand.
func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}
