package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"git.entraide.dev/community/pkg/internal/services"
)

func getFeed(c *fiber.Ctx) error {
	limit := c.QueryInt("take", 20)

	var cursor *time.Time
	if raw := c.Query("cursor"); len(raw) > 0 {
		if value, err := time.Parse(time.RFC3339Nano, raw); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "cursor must be a RFC3339 timestamp")
		} else {
			cursor = &value
		}
	}

	entries, err := services.GetFeed(limit, cursor)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(entries)
}
