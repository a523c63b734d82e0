package models

import "time"

type Forum struct {
	BaseModel

	Title    string `json:"title" gorm:"size:255"`
	Content  string `json:"content"`
	Language string `json:"language" gorm:"size:8"`

	PinnedAt       *time.Time `json:"pinned_at"`
	LockedAt       *time.Time `json:"locked_at"`
	LastActivityAt time.Time  `json:"last_activity_at" gorm:"index"`

	AuthorID   uint            `json:"author_id"`
	Author     User            `json:"author"`
	CategoryID *uint           `json:"category_id"`
	Category   *Category       `json:"category,omitempty"`
	Responses  []ForumResponse `json:"responses,omitempty" gorm:"constraint:OnDelete:CASCADE"`

	ResponseCount int64 `json:"response_count" gorm:"-"`
}

type ForumResponse struct {
	BaseModel

	Content  string     `json:"content"`
	EditedAt *time.Time `json:"edited_at"`

	ForumID  uint `json:"forum_id" gorm:"index"`
	AuthorID uint `json:"author_id"`
	Author   User `json:"author"`
}
