package validate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIBANLength   = errors.New("iban has wrong length")
	ErrIBANChars    = errors.New("iban contains invalid characters")
	ErrIBANChecksum = errors.New("iban checksum mismatch")
	ErrBICFormat    = errors.New("bic must be 8 or 11 characters")
	ErrBICChars     = errors.New("bic contains invalid characters")
)

// ibanLengths lists the fixed IBAN length per country code. Countries
// not listed fall back to the generic 15..34 range check.
var ibanLengths = map[string]int{
	"AT": 20,
	"BE": 16,
	"CH": 21,
	"DE": 22,
	"DK": 18,
	"ES": 24,
	"FR": 27,
	"GB": 22,
	"IT": 27,
	"LU": 20,
	"NL": 18,
	"PL": 28,
	"PT": 25,
}

// IBAN validates an account number per ISO 13616: country length,
// character set, and the mod-97 checksum.
func IBAN(input string) error {
	iban := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(input), " ", ""))

	if len(iban) < 15 || len(iban) > 34 {
		return fmt.Errorf("%w: got %d characters", ErrIBANLength, len(iban))
	}
	if len(iban) >= 2 {
		if want, ok := ibanLengths[iban[:2]]; ok && len(iban) != want {
			return fmt.Errorf("%w: %s requires %d characters, got %d", ErrIBANLength, iban[:2], want, len(iban))
		}
	}

	for _, r := range iban {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return fmt.Errorf("%w: %q", ErrIBANChars, r)
		}
	}

	if mod97(iban[4:]+iban[:4]) != 1 {
		return ErrIBANChecksum
	}
	return nil
}

// mod97 computes the ISO 7064 remainder over the rearranged IBAN,
// expanding letters to two-digit values, without big-integer math.
func mod97(s string) int {
	remainder := 0
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			value := int(r-'A') + 10
			remainder = (remainder*100 + value) % 97
		} else {
			remainder = (remainder*10 + int(r-'0')) % 97
		}
	}
	return remainder
}

// BIC validates an ISO 9362 business identifier code: 8 characters,
// optionally extended by a 3-character branch code.
func BIC(input string) error {
	bic := strings.ToUpper(strings.TrimSpace(input))

	if len(bic) != 8 && len(bic) != 11 {
		return fmt.Errorf("%w: got %d", ErrBICFormat, len(bic))
	}
	for i, r := range bic {
		alpha := r >= 'A' && r <= 'Z'
		digit := r >= '0' && r <= '9'
		if i < 6 {
			if !alpha {
				return fmt.Errorf("%w: position %d must be a letter", ErrBICChars, i+1)
			}
		} else if !alpha && !digit {
			return fmt.Errorf("%w: %q", ErrBICChars, r)
		}
	}
	return nil
}
