package services

import (
	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

type PlatformStats struct {
	Users       int64 `json:"users"`
	BannedUsers int64 `json:"banned_users"`
	BlogPosts   int64 `json:"blog_posts"`
	Forums      int64 `json:"forums"`
	Events      int64 `json:"events"`
	Messages    int64 `json:"messages"`
	OpenReports int64 `json:"open_reports"`
}

func GetPlatformStats() (PlatformStats, error) {
	var stats PlatformStats

	counters := []struct {
		dest  *int64
		model any
		where string
	}{
		{&stats.Users, &models.User{}, "anonymized_at IS NULL"},
		{&stats.BannedUsers, &models.User{}, "banned_at IS NOT NULL AND anonymized_at IS NULL"},
		{&stats.BlogPosts, &models.BlogPost{}, ""},
		{&stats.Forums, &models.Forum{}, ""},
		{&stats.Events, &models.Event{}, ""},
		{&stats.Messages, &models.Message{}, ""},
		{&stats.OpenReports, &models.Report{}, "resolved_at IS NULL"},
	}

	for _, counter := range counters {
		tx := database.C.Model(counter.model)
		if len(counter.where) > 0 {
			tx = tx.Where(counter.where)
		}
		if err := tx.Count(counter.dest).Error; err != nil {
			return stats, err
		}
	}

	return stats, nil
}
