package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/metrics"
	"git.entraide.dev/community/pkg/internal/models"
)

type UserRegistration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	City      string
	Bio       string
}

type UserProfileUpdate struct {
	FirstName          string
	LastName           string
	City               string
	Bio                string
	EmailNotifications bool
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func GetUser(id uint) (models.User, error) {
	var user models.User
	if err := database.C.Where("id = ?", id).Preload("Skills").First(&user).Error; err != nil {
		return user, err
	}
	return user, nil
}

func GetUserByEmail(email string) (models.User, error) {
	var user models.User
	if err := database.C.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return user, err
	}
	return user, nil
}

func RegisterUser(form UserRegistration) (models.User, error) {
	email := NormalizeEmail(form.Email)

	var count int64
	if err := database.C.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return models.User{}, fmt.Errorf("unable to check email availability: %v", err)
	} else if count > 0 {
		return models.User{}, ErrEmailTaken
	}

	hashed, err := HashPassword(form.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:              email,
		Password:           hashed,
		FirstName:          strings.TrimSpace(form.FirstName),
		LastName:           strings.TrimSpace(form.LastName),
		City:               strings.TrimSpace(form.City),
		Bio:                form.Bio,
		Roles:              []string{models.RoleUser},
		EmailNotifications: true,
	}
	if err := database.C.Create(&user).Error; err != nil {
		return user, err
	}

	metrics.UserRegistrations.Inc()
	log.Info().Uint("user", user.ID).Msg("A new account has been registered.")

	return user, nil
}

func AuthenticateUser(email, password string) (models.User, error) {
	user, err := GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrInvalidCredentials
		}
		return user, err
	}

	if user.IsAnonymized() || !CheckPassword(user.Password, password) {
		return user, ErrInvalidCredentials
	}
	if user.IsBanned() {
		return user, ErrUserBanned
	}

	return user, nil
}

func EditUserProfile(user models.User, form UserProfileUpdate) (models.User, error) {
	user.FirstName = strings.TrimSpace(form.FirstName)
	user.LastName = strings.TrimSpace(form.LastName)
	user.City = strings.TrimSpace(form.City)
	user.Bio = form.Bio
	user.EmailNotifications = form.EmailNotifications

	err := database.C.Model(&user).Select("FirstName", "LastName", "City", "Bio", "EmailNotifications").Updates(&user).Error
	return user, err
}

func ChangeUserPassword(user models.User, current, next string) error {
	if !CheckPassword(user.Password, current) {
		return ErrInvalidCredentials
	}

	hashed, err := HashPassword(next)
	if err != nil {
		return err
	}

	return database.C.Model(&user).Update("password", hashed).Error
}

func SetUserAvatar(user models.User, path string) (models.User, error) {
	previous := user.Avatar
	user.Avatar = &path

	if err := database.C.Model(&user).Update("avatar", path).Error; err != nil {
		return user, err
	}
	if previous != nil {
		RemoveUpload(*previous)
	}

	return user, nil
}

func BanUser(user models.User) (models.User, error) {
	if user.IsAdmin() {
		return user, ErrPermissionDenied
	}
	user.BannedAt = lo.ToPtr(Clock.Now())
	err := database.C.Model(&user).Update("banned_at", user.BannedAt).Error
	return user, err
}

func UnbanUser(user models.User) (models.User, error) {
	user.BannedAt = nil
	err := database.C.Model(&user).Update("banned_at", nil).Error
	return user, err
}

func CountAdmins(tx *gorm.DB) (int64, error) {
	var users []models.User
	if err := tx.Select("id", "roles").Where("anonymized_at IS NULL").Find(&users).Error; err != nil {
		return 0, err
	}
	return int64(lo.CountBy(users, func(item models.User) bool {
		return item.IsAdmin()
	})), nil
}

func SetUserAdmin(user models.User, admin bool) (models.User, error) {
	if user.IsAnonymized() {
		return user, ErrUserAnonymized
	}
	if user.IsAdmin() == admin {
		return user, nil
	}

	if admin {
		user.Roles = append(user.Roles, models.RoleAdmin)
	} else {
		count, err := CountAdmins(database.C)
		if err != nil {
			return user, err
		} else if count <= 1 {
			return user, ErrLastAdmin
		}
		user.Roles = lo.Without(user.Roles, models.RoleAdmin)
	}

	err := database.C.Model(&user).Update("roles", user.Roles).Error
	return user, err
}

type UserFilter struct {
	Probe          string
	OnlyBanned     bool
	WithAnonymized bool
}

func FilterUser(tx *gorm.DB, filter UserFilter) *gorm.DB {
	if !filter.WithAnonymized {
		tx = tx.Where("anonymized_at IS NULL")
	}
	if filter.OnlyBanned {
		tx = tx.Where("banned_at IS NOT NULL")
	}
	if len(filter.Probe) > 0 {
		probe := "%" + strings.ToLower(filter.Probe) + "%"
		tx = tx.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			probe, probe, probe,
		)
	}
	return tx
}

func CountUser(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
		return count, err
	}
	return count, nil
}

func ListUser(tx *gorm.DB, take int, offset int) ([]models.User, error) {
	if take > 100 || take <= 0 {
		take = 100
	}

	var users []models.User
	err := tx.Preload("Skills").
		Limit(take).Offset(offset).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}
