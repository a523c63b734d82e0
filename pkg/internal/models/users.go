package models

import (
	"time"

	"github.com/samber/lo"
	"gorm.io/datatypes"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

type User struct {
	BaseModel

	Email     string                      `json:"-" gorm:"uniqueIndex;size:180"`
	Password  string                      `json:"-"`
	FirstName string                      `json:"first_name" gorm:"size:64"`
	LastName  string                      `json:"last_name" gorm:"size:64"`
	Bio       string                      `json:"bio"`
	City      string                      `json:"city" gorm:"size:128;index"`
	Avatar    *string                     `json:"avatar"`
	Roles     datatypes.JSONSlice[string] `json:"roles"`
	Skills    []Skill                     `json:"skills" gorm:"many2many:user_skills"`

	EmailNotifications bool `json:"email_notifications" gorm:"default:true"`

	BannedAt     *time.Time `json:"banned_at"`
	AnonymizedAt *time.Time `json:"anonymized_at"`
}

func (v User) IsAdmin() bool {
	return lo.Contains(v.Roles, RoleAdmin)
}

func (v User) IsBanned() bool {
	return v.BannedAt != nil
}

func (v User) IsAnonymized() bool {
	return v.AnonymizedAt != nil
}

func (v User) DisplayName() string {
	return v.FirstName + " " + v.LastName
}

// PublicUser is the projection of a user shown to other members.
type PublicUser struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `json:"bio"`
	City      string    `json:"city"`
	Avatar    *string   `json:"avatar"`
	Skills    []Skill   `json:"skills"`
	CreatedAt time.Time `json:"created_at"`

	IsAnonymized bool          `json:"is_anonymized"`
	Rating       RatingSummary `json:"rating"`
}

func (v User) Public() PublicUser {
	return PublicUser{
		ID:           v.ID,
		FirstName:    v.FirstName,
		LastName:     v.LastName,
		Bio:          v.Bio,
		City:         v.City,
		Avatar:       v.Avatar,
		Skills:       v.Skills,
		CreatedAt:    v.CreatedAt,
		IsAnonymized: v.IsAnonymized(),
	}
}

// Profile is the view of a user returned to the user themself.
type Profile struct {
	User
	Email string `json:"email"`
}

func (v User) Profile() Profile {
	return Profile{User: v, Email: v.Email}
}
