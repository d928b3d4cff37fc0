package services

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePasswordStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		password   string
		wantReason string
	}{
		{name: "strong", password: "StrongPass1"},
		{name: "exactly minimum", password: "Abcdef12"},
		{name: "multibyte counts runes", password: "Пароль12x"},
		{name: "at byte limit", password: "Aa1" + strings.Repeat("x", MaxPasswordBytes-3)},
		{name: "too short", password: "Short1", wantReason: "shorter than 8"},
		{name: "over byte limit", password: "Aa1" + strings.Repeat("x", MaxPasswordBytes-2), wantReason: "longer than 72"},
		{name: "no uppercase", password: "alllowercase1", wantReason: "uppercase"},
		{name: "no lowercase", password: "ALLUPPERCASE1", wantReason: "lowercase"},
		{name: "no digit", password: "NoDigitsHere", wantReason: "digit"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			err := ValidatePasswordStrength(test.password)
			if test.wantReason == "" {
				if err != nil {
					t.Fatalf("expected %q to pass, got %v", test.password, err)
				}
				return
			}
			if !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("expected ErrWeakPassword for %q, got %v", test.password, err)
			}
			if !strings.Contains(err.Error(), test.wantReason) {
				t.Fatalf("error %q does not mention %q", err, test.wantReason)
			}
		})
	}
}
