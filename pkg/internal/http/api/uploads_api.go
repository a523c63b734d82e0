package api

import (
	"github.com/gofiber/fiber/v2"

	"git.entraide.dev/community/pkg/internal/http/exts"
	"git.entraide.dev/community/pkg/internal/models"
	"git.entraide.dev/community/pkg/internal/services"
)

// resolveFormImage keeps the current image when the form leaves it out, an empty name removes it.
func resolveFormImage(user models.User, current, next *string) (*string, error) {
	switch {
	case next == nil:
		return current, nil
	case len(*next) == 0:
		return nil, nil
	case !services.IsOwnedUpload(*next, user.ID):
		return current, fiber.NewError(fiber.StatusBadRequest, "image must be uploaded by yourself")
	default:
		return next, nil
	}
}

func uploadImage(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	file, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	name, dst, err := services.NewUploadName(file, services.GetUserUploadKind(user.ID))
	if err != nil {
		return exts.NewServiceError(err)
	}
	if err := c.SaveFile(file, dst); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"name": name,
		"url":  services.GetUploadURL(name),
	})
}
