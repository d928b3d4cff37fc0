package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/fastfit/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type memoryAuthUsers struct {
	users       map[uint]models.User
	nextID      uint
	lastUpdates map[string]any
	deleted     []uint
}

func newMemoryAuthUsers() *memoryAuthUsers {
	return &memoryAuthUsers{users: make(map[uint]models.User), nextID: 1}
}

func (repo *memoryAuthUsers) Count() (int64, error) {
	return int64(len(repo.users)), nil
}

func (repo *memoryAuthUsers) EmailTaken(email string) (bool, error) {
	_, err := repo.FindByEmail(email)
	return err == nil, nil
}

func (repo *memoryAuthUsers) FindByEmail(email string) (models.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, errors.New("record not found")
}

func (repo *memoryAuthUsers) FindByID(userID uint) (models.User, error) {
	user, ok := repo.users[userID]
	if !ok {
		return models.User{}, errors.New("record not found")
	}
	return user, nil
}

func (repo *memoryAuthUsers) Create(user *models.User) error {
	user.ID = repo.nextID
	repo.nextID++
	repo.users[user.ID] = *user
	return nil
}

func (repo *memoryAuthUsers) UpdatePassword(userID uint, passwordHash string) error {
	user := repo.users[userID]
	user.PasswordHash = passwordHash
	repo.users[userID] = user
	return nil
}

func (repo *memoryAuthUsers) UpdateProfile(userID uint, updates map[string]any) error {
	repo.lastUpdates = updates
	user := repo.users[userID]
	if value, ok := updates["difficulty"].(string); ok {
		user.Difficulty = value
	}
	if value, ok := updates["timezone"].(string); ok {
		user.Timezone = value
	}
	repo.users[userID] = user
	return nil
}

func (repo *memoryAuthUsers) DeleteWithData(userID uint) error {
	repo.deleted = append(repo.deleted, userID)
	delete(repo.users, userID)
	return nil
}

func TestNormalizeAuthEmail(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "normalizes case and spaces", raw: " USER@EXAMPLE.COM ", want: "user@example.com"},
		{name: "invalid email returns empty", raw: "not-email", want: ""},
		{name: "empty returns empty", raw: "   ", want: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := NormalizeAuthEmail(testCase.raw); got != testCase.want {
				t.Fatalf("NormalizeAuthEmail(%q) = %q, want %q", testCase.raw, got, testCase.want)
			}
		})
	}
}

func TestNormalizeCredentialsInput(t *testing.T) {
	email, password, err := NormalizeCredentialsInput(" USER@EXAMPLE.COM ", "  StrongPass1  ")
	if err != nil {
		t.Fatalf("expected valid credentials input, got %v", err)
	}
	if email != "user@example.com" || password != "StrongPass1" {
		t.Fatalf("unexpected normalized input %q / %q", email, password)
	}

	if _, _, err := NormalizeCredentialsInput("user@example.com", " "); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for empty password, got %v", err)
	}
}

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	service := NewAuthService(newMemoryAuthUsers())

	first, err := service.Register("admin@example.com", "StrongPass1", " Admin ")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if first.Role != models.RoleAdmin || first.DisplayName != "Admin" {
		t.Fatalf("unexpected first user %+v", first)
	}

	second, err := service.Register("member@example.com", "StrongPass1", "")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if second.Role != models.RoleMember || second.ActivityLevel != models.ActivitySedentary {
		t.Fatalf("unexpected second user %+v", second)
	}

	if _, err := service.Register("MEMBER@example.com", "StrongPass1", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := service.Register("weak@example.com", "weakpass", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAuthenticateAndChangePassword(t *testing.T) {
	service := NewAuthService(newMemoryAuthUsers())
	user, err := service.Register("user@example.com", "StrongPass1", "")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if _, err := service.Authenticate("user@example.com", "WrongPass1"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid, got %v", err)
	}
	if err := service.ChangePassword(user.ID, "WrongPass1", "NewStrong2"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid, got %v", err)
	}
	if err := service.ChangePassword(user.ID, "StrongPass1", "StrongPass1"); !errors.Is(err, ErrPasswordUnchanged) {
		t.Fatalf("expected ErrPasswordUnchanged, got %v", err)
	}
	if err := service.ChangePassword(user.ID, "StrongPass1", "NewStrong2"); err != nil {
		t.Fatalf("ChangePassword() unexpected error: %v", err)
	}

	updated, err := service.Authenticate(" USER@example.com ", "NewStrong2")
	if err != nil {
		t.Fatalf("Authenticate() with new password: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("StrongPass1")) == nil {
		t.Fatal("old password still matches")
	}
}

func TestResetPassword(t *testing.T) {
	service := NewAuthService(newMemoryAuthUsers())
	if _, err := service.Register("user@example.com", "StrongPass1", ""); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	if err := service.ResetPassword("not-email", "ResetPass9"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid, got %v", err)
	}
	if err := service.ResetPassword("ghost@example.com", "ResetPass9"); err == nil {
		t.Fatal("expected error for unknown account")
	}
	if err := service.ResetPassword("user@example.com", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := service.ResetPassword("user@example.com", "ResetPass9"); err != nil {
		t.Fatalf("ResetPassword() unexpected error: %v", err)
	}
	if _, err := service.Authenticate("user@example.com", "ResetPass9"); err != nil {
		t.Fatalf("Authenticate() after reset: %v", err)
	}
}

func TestUpdateProfileValidatesEveryField(t *testing.T) {
	repo := newMemoryAuthUsers()
	service := NewAuthService(repo)
	user, err := service.Register("user@example.com", "StrongPass1", "")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	badLevel := "couch"
	if _, err := service.UpdateProfile(user.ID, ProfileInput{ActivityLevel: &badLevel}); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
	badZone := "Mars/Olympus"
	if _, err := service.UpdateProfile(user.ID, ProfileInput{Timezone: &badZone}); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
	badStart := "2026-13-01"
	if _, err := service.UpdateProfile(user.ID, ProfileInput{ProgramStartDate: &badStart}); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
	if repo.lastUpdates != nil {
		t.Fatalf("invalid input must not write: %v", repo.lastUpdates)
	}

	difficulty := " Advanced "
	zone := "Europe/Berlin"
	updated, err := service.UpdateProfile(user.ID, ProfileInput{Difficulty: &difficulty, Timezone: &zone})
	if err != nil {
		t.Fatalf("UpdateProfile() unexpected error: %v", err)
	}
	if updated.Difficulty != string(DifficultyAdvanced) || updated.Timezone != zone {
		t.Fatalf("unexpected profile %+v", updated)
	}
}

func TestDeleteAccount(t *testing.T) {
	repo := newMemoryAuthUsers()
	service := NewAuthService(repo)
	user, err := service.Register("user@example.com", "StrongPass1", "")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if err := service.DeleteAccount(user.ID); err != nil {
		t.Fatalf("DeleteAccount() unexpected error: %v", err)
	}
	if _, err := service.FindByID(user.ID); err == nil {
		t.Fatal("expected deleted user to be gone")
	}
}

func TestUserLocation(t *testing.T) {
	t.Parallel()

	fallback := time.FixedZone("UTC+3", 3*60*60)
	if got := UserLocation(models.User{}, fallback); got != fallback {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := UserLocation(models.User{Timezone: "Nowhere/Land"}, fallback); got != fallback {
		t.Fatalf("expected fallback for bad zone, got %v", got)
	}
	if got := UserLocation(models.User{Timezone: "Asia/Tokyo"}, nil); got.String() != "Asia/Tokyo" {
		t.Fatalf("expected Asia/Tokyo, got %v", got)
	}
	if got := UserLocation(models.User{}, nil); got != time.UTC {
		t.Fatalf("expected UTC, got %v", got)
	}
}
