package models

import "time"

const (
	ReportTargetBlogPost      = "blog_post"
	ReportTargetForum         = "forum"
	ReportTargetForumResponse = "forum_response"
	ReportTargetEvent         = "event"
	ReportTargetUser          = "user"
)

type Report struct {
	BaseModel

	TargetType string     `json:"target_type" gorm:"size:32;index"`
	TargetID   uint       `json:"target_id" gorm:"index"`
	Reason     string     `json:"reason"`
	ResolvedAt *time.Time `json:"resolved_at"`
	ResolverID *uint      `json:"resolver_id"`

	ReporterID uint `json:"reporter_id"`
	Reporter   User `json:"reporter"`
}
