package api

import (
	"github.com/gofiber/fiber/v2"

	"git.entraide.dev/community/pkg/internal/http/exts"
	"git.entraide.dev/community/pkg/internal/services"
)

func listTargetRatings(c *fiber.Ctx, targetType string, param string) error {
	id, _ := c.ParamsInt(param, 0)
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	summary, err := services.GetRatingSummary(targetType, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	items, err := services.ListRating(targetType, uint(id), take, offset)
	if err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(fiber.Map{
		"count":   summary.Count,
		"average": summary.Average,
		"data":    items,
	})
}

func rateTarget(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data struct {
		TargetType string `json:"target_type" validate:"required,oneof=user event"`
		TargetID   uint   `json:"target_id" validate:"required"`
		Score      int    `json:"score" validate:"required,min=1,max=5"`
		Comment    string `json:"comment" validate:"max=2048"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	rating, err := services.RateTarget(user, services.RatingSubmission{
		TargetType: data.TargetType,
		TargetID:   data.TargetID,
		Score:      data.Score,
		Comment:    data.Comment,
	})
	if err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(rating)
}

func deleteRating(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("ratingId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	rating, err := services.GetRating(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}
	if !services.CanManage(user, rating.RaterID) {
		return fiber.NewError(fiber.StatusForbidden, "you are not allowed to delete this rating")
	}

	if err := services.DeleteRating(rating); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
