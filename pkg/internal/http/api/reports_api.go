package api

import (
	"github.com/gofiber/fiber/v2"

	"git.entraide.dev/community/pkg/internal/http/exts"
	"git.entraide.dev/community/pkg/internal/services"
)

func createReport(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data struct {
		TargetType string `json:"target_type" validate:"required,oneof=blog_post forum forum_response event user"`
		TargetID   uint   `json:"target_id" validate:"required"`
		Reason     string `json:"reason" validate:"required,max=2048"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	report, err := services.NewReport(user, data.TargetType, data.TargetID, data.Reason)
	if err != nil {
		return exts.NewServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}
