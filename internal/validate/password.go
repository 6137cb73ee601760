package validate

import (
	"errors"
	"unicode"
)

var ErrWeakPassword = errors.New("password must be at least 8 characters with upper case, lower case and a digit")

func Password(input string) error {
	if len(input) < 8 {
		return ErrWeakPassword
	}
	var upper, lower, digit bool
	for _, r := range input {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrWeakPassword
	}
	return nil
}
