package database

import (
	"git.entraide.dev/community/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Category{},
	&models.Skill{},
	&models.User{},
	&models.BlogPost{},
	&models.Forum{},
	&models.ForumResponse{},
	&models.Event{},
	&models.Rating{},
	&models.Message{},
	&models.Report{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		append(
			AutoMaintainRange,
			&models.BlogPostView{},
			&models.ConversationDeletion{},
		)...,
	); err != nil {
		return err
	}

	return nil
}
