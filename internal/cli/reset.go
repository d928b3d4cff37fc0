package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"os"
	"strings"

	"github.com/terraincognita07/fastfit/internal/db"
	"github.com/terraincognita07/fastfit/internal/security"
	"github.com/terraincognita07/fastfit/internal/services"
)

// Ambiguous glyphs (I, O, l, 0, 1) are left out so the password can be read back over the phone.
var temporaryPasswordClasses = []string{
	"ABCDEFGHJKLMNPQRSTUVWXYZ",
	"abcdefghijkmnopqrstuvwxyz",
	"23456789",
}

// RunResetPasswordCommand sets a new password for email. The operator is prompted on stdin;
// an empty answer or a non-interactive stdin gets a generated temporary password instead.
func RunResetPasswordCommand(dbPath string, email string, stdin *os.File, out io.Writer) error {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(normalizedEmail); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	database, err := db.OpenSQLite(dbPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}
	repos := db.NewRepositories(database)

	fmt.Fprint(out, "New password (leave empty to generate): ")
	entered, promptErr := readPasswordNoEcho(stdin)
	fmt.Fprintln(out)

	password := strings.TrimSpace(string(entered))
	generated := false
	if promptErr != nil || password == "" {
		password, err = generateTemporaryPassword(12)
		if err != nil {
			return fmt.Errorf("generate temporary password: %w", err)
		}
		generated = true
	}

	if err := services.NewAuthService(repos.Users).ResetPassword(normalizedEmail, password); err != nil {
		return fmt.Errorf("reset password for %s: %w", normalizedEmail, err)
	}

	fmt.Fprintln(out, "Password reset successful")
	if generated {
		fmt.Fprintf(out, "Temporary password: %s\n", password)
	}
	return nil
}

// generateTemporaryPassword returns a password that satisfies the strength policy.
func generateTemporaryPassword(length int) (string, error) {
	length = max(length, services.MinPasswordLength)
	password, err := security.RandomFromClasses(length, temporaryPasswordClasses...)
	if err != nil {
		return "", err
	}
	if err := services.ValidatePasswordStrength(password); err != nil {
		return "", err
	}
	return password, nil
}
