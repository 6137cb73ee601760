package validate

import (
	"errors"
	"testing"
)

func TestIBAN_Valid(t *testing.T) {
	valid := []string{
		"DE89370400440532013000",
		"DE89 3704 0044 0532 0130 00",
		"GB82WEST12345698765432",
		"AT611904300234573201",
	}
	for _, iban := range valid {
		if err := IBAN(iban); err != nil {
			t.Errorf("IBAN(%q) = %v, want nil", iban, err)
		}
	}
}

func TestIBAN_Truncated(t *testing.T) {
	err := IBAN("DE8937040044053201300")
	if !errors.Is(err, ErrIBANLength) {
		t.Fatalf("truncated iban: err = %v, want ErrIBANLength", err)
	}
}

func TestIBAN_BadChecksum(t *testing.T) {
	// Last digit flipped from the known-valid DE IBAN.
	err := IBAN("DE89370400440532013001")
	if !errors.Is(err, ErrIBANChecksum) {
		t.Fatalf("flipped digit: err = %v, want ErrIBANChecksum", err)
	}
}

func TestIBAN_BadCharacters(t *testing.T) {
	err := IBAN("DE8937040044053201300!")
	if !errors.Is(err, ErrIBANChars) {
		t.Fatalf("err = %v, want ErrIBANChars", err)
	}
}

func TestBIC(t *testing.T) {
	if err := BIC("COBADEFFXXX"); err != nil {
		t.Errorf("BIC(COBADEFFXXX) = %v, want nil", err)
	}
	if err := BIC("COBADEFF"); err != nil {
		t.Errorf("BIC(COBADEFF) = %v, want nil", err)
	}
	if err := BIC("COBADEFFX"); !errors.Is(err, ErrBICFormat) {
		t.Errorf("BIC with 9 chars: err = %v, want ErrBICFormat", err)
	}
	if err := BIC("12BADEFF"); !errors.Is(err, ErrBICChars) {
		t.Errorf("BIC with leading digits: err = %v, want ErrBICChars", err)
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"Sommer2024", true},
		{"short1A", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoDigitsHere", false},
	}
	for _, tc := range tests {
		err := Password(tc.input)
		if tc.ok && err != nil {
			t.Errorf("Password(%q) = %v, want nil", tc.input, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("Password(%q) = nil, want error", tc.input)
		}
	}
}
