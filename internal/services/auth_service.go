package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/terraincognita07/fastfit/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidProfile         = errors.New("invalid profile input")
	ErrPasswordUnchanged      = errors.New("new password must differ")
)

type AuthUserRepository interface {
	Count() (int64, error)
	EmailTaken(email string) (bool, error)
	FindByEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	UpdatePassword(userID uint, passwordHash string) error
	UpdateProfile(userID uint, updates map[string]any) error
	DeleteWithData(userID uint) error
}

type AuthService struct {
	users AuthUserRepository
	now   func() time.Time
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users, now: time.Now}
}

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}

// Register creates a member account. The very first account becomes the admin that can
// edit the exercise catalog.
func (service *AuthService) Register(emailRaw string, passwordRaw string, displayName string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}
	exists, err := service.users.EmailTaken(email)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	count, err := service.users.Count()
	if err != nil {
		return models.User{}, err
	}
	role := models.RoleMember
	if count == 0 {
		role = models.RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		Email:         email,
		PasswordHash:  string(hash),
		Role:          role,
		DisplayName:   strings.TrimSpace(displayName),
		ActivityLevel: models.ActivitySedentary,
		CreatedAt:     service.now().UTC(),
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}
	user, err := service.users.FindByEmail(email)
	if err != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

func (service *AuthService) ChangePassword(userID uint, currentPassword string, newPassword string) error {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrAuthCredentialsInvalid
	}
	if currentPassword == newPassword {
		return ErrPasswordUnchanged
	}
	return service.setPassword(user.ID, newPassword)
}

// ResetPassword replaces the password of the account registered under emailRaw.
func (service *AuthService) ResetPassword(emailRaw string, newPassword string) error {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return ErrAuthCredentialsInvalid
	}
	user, err := service.users.FindByEmail(email)
	if err != nil {
		return fmt.Errorf("user %s not found: %w", email, err)
	}
	return service.setPassword(user.ID, newPassword)
}

func (service *AuthService) setPassword(userID uint, password string) error {
	if err := ValidatePasswordStrength(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return service.users.UpdatePassword(userID, string(hash))
}

type ProfileInput struct {
	DisplayName      *string  `json:"displayName"`
	Difficulty       *string  `json:"difficulty"`
	ActivityLevel    *string  `json:"activityLevel"`
	WeightKg         *float64 `json:"weightKg"`
	HeightCm         *float64 `json:"heightCm"`
	Timezone         *string  `json:"timezone"`
	ProgramStartDate *string  `json:"programStartDate"`
	AutoTransitions  *bool    `json:"autoTransitions"`
}

var activityLevels = map[string]struct{}{
	models.ActivitySedentary:  {},
	models.ActivityLight:      {},
	models.ActivityModerate:   {},
	models.ActivityActive:     {},
	models.ActivityVeryActive: {},
}

// UpdateProfile applies the non-nil fields of input. Nothing is written when any field is invalid.
func (service *AuthService) UpdateProfile(userID uint, input ProfileInput) (models.User, error) {
	updates := make(map[string]any)
	if input.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*input.DisplayName)
	}
	if input.Difficulty != nil {
		raw := strings.TrimSpace(*input.Difficulty)
		if raw != "" {
			difficulty, err := ParseDifficulty(raw)
			if err != nil {
				return models.User{}, fmt.Errorf("%w: difficulty", ErrInvalidProfile)
			}
			raw = string(difficulty)
		}
		updates["difficulty"] = raw
	}
	if input.ActivityLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*input.ActivityLevel))
		if _, ok := activityLevels[level]; !ok {
			return models.User{}, fmt.Errorf("%w: activity level", ErrInvalidProfile)
		}
		updates["activity_level"] = level
	}
	if input.WeightKg != nil {
		if *input.WeightKg < 0 || *input.WeightKg > 500 {
			return models.User{}, fmt.Errorf("%w: weight", ErrInvalidProfile)
		}
		updates["weight_kg"] = *input.WeightKg
	}
	if input.HeightCm != nil {
		if *input.HeightCm < 0 || *input.HeightCm > 300 {
			return models.User{}, fmt.Errorf("%w: height", ErrInvalidProfile)
		}
		updates["height_cm"] = *input.HeightCm
	}
	if input.Timezone != nil {
		zone := strings.TrimSpace(*input.Timezone)
		if zone != "" {
			if _, err := time.LoadLocation(zone); err != nil {
				return models.User{}, fmt.Errorf("%w: timezone", ErrInvalidProfile)
			}
		}
		updates["timezone"] = zone
	}
	if input.ProgramStartDate != nil {
		raw := strings.TrimSpace(*input.ProgramStartDate)
		if raw != "" {
			if _, err := ParseDayKey(raw, time.UTC); err != nil {
				return models.User{}, fmt.Errorf("%w: program start date", ErrInvalidProfile)
			}
		}
		updates["program_start_date"] = raw
	}
	if input.AutoTransitions != nil {
		updates["auto_transitions"] = *input.AutoTransitions
	}

	if len(updates) > 0 {
		if err := service.users.UpdateProfile(userID, updates); err != nil {
			return models.User{}, err
		}
	}
	return service.users.FindByID(userID)
}

func (service *AuthService) DeleteAccount(userID uint) error {
	return service.users.DeleteWithData(userID)
}

// UserLocation is the user's own timezone, or fallback when none is stored or it fails to load.
func UserLocation(user models.User, fallback *time.Location) *time.Location {
	if fallback == nil {
		fallback = time.UTC
	}
	zone := strings.TrimSpace(user.Timezone)
	if zone == "" {
		return fallback
	}
	location, err := time.LoadLocation(zone)
	if err != nil {
		return fallback
	}
	return location
}
