package security

import (
	"errors"
	"strings"
	"testing"
)

func TestRandomFromClassesRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		length  int
		classes []string
		wantErr error
	}{
		{name: "negative length", length: -1, classes: []string{"abc"}, wantErr: ErrNegativeLength},
		{name: "no classes", length: 4, wantErr: ErrEmptyClass},
		{name: "empty class", length: 4, classes: []string{"abc", ""}, wantErr: ErrEmptyClass},
		{name: "too short", length: 2, classes: []string{"a", "b", "c"}, wantErr: ErrLengthTooShort},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if _, err := RandomFromClasses(test.length, test.classes...); !errors.Is(err, test.wantErr) {
				t.Fatalf("RandomFromClasses(%d, %q) error = %v, want %v", test.length, test.classes, err, test.wantErr)
			}
		})
	}
}

func TestRandomFromClassesZeroLengthWithNoRequiredClass(t *testing.T) {
	t.Parallel()

	if _, err := RandomFromClasses(0, "abc"); !errors.Is(err, ErrLengthTooShort) {
		t.Fatalf("expected ErrLengthTooShort, got %v", err)
	}
}

func TestRandomFromClassesCoversEveryClass(t *testing.T) {
	t.Parallel()

	classes := []string{"ABC", "xyz", "789"}
	for attempt := 0; attempt < 50; attempt++ {
		got, err := RandomFromClasses(6, classes...)
		if err != nil {
			t.Fatalf("RandomFromClasses returned error: %v", err)
		}
		if len(got) != 6 {
			t.Fatalf("len = %d, want 6", len(got))
		}
		for _, class := range classes {
			if !strings.ContainsAny(got, class) {
				t.Fatalf("%q has no character from class %q", got, class)
			}
		}
		for _, char := range got {
			if !strings.ContainsRune(strings.Join(classes, ""), char) {
				t.Fatalf("%q contains %q outside the classes", got, char)
			}
		}
	}
}

func TestRandomFromClassesSingleCharacterClass(t *testing.T) {
	t.Parallel()

	got, err := RandomFromClasses(5, "X")
	if err != nil {
		t.Fatalf("RandomFromClasses returned error: %v", err)
	}
	if got != "XXXXX" {
		t.Fatalf("got %q, want XXXXX", got)
	}
}
