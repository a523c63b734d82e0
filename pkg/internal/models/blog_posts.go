package models

import (
	"time"

	"gorm.io/datatypes"
)

type BlogPost struct {
	BaseModel

	Title    string                      `json:"title" gorm:"size:255"`
	Content  string                      `json:"content"`
	Excerpt  string                      `json:"excerpt"`
	Image    *string                     `json:"image"`
	Language string                      `json:"language" gorm:"size:8"`
	Tags     datatypes.JSONSlice[string] `json:"tags"`

	IsDraft     bool       `json:"is_draft"`
	PublishedAt *time.Time `json:"published_at"`
	EditedAt    *time.Time `json:"edited_at"`
	TotalViews  int64      `json:"total_views"`

	AuthorID   uint      `json:"author_id"`
	Author     User      `json:"author"`
	CategoryID *uint     `json:"category_id"`
	Category   *Category `json:"category,omitempty"`
}

type BlogPostView struct {
	AccountID uint      `json:"account_id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
