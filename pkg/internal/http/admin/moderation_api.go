package admin

import (
	"github.com/gofiber/fiber/v2"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/http/exts"
	"git.entraide.dev/community/pkg/internal/services"
)

func deleteBlogPost(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("postId", 0)

	item, err := services.GetBlogPost(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if err := services.DeleteBlogPost(item); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func deleteForum(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("forumId", 0)

	item, err := services.GetForum(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if err := services.DeleteForum(item); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func deleteForumResponse(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("responseId", 0)

	item, err := services.GetForumResponse(0, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if err := services.DeleteForumResponse(item); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func lockForum(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("forumId", 0)

	item, err := services.GetForum(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	locked, err := services.LockForum(item)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"is_locked": locked,
	})
}

func pinForum(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("forumId", 0)

	item, err := services.GetForum(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	pinned, err := services.PinForum(item)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"is_pinned": pinned,
	})
}

func deleteEvent(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("eventId", 0)

	item, err := services.GetEvent(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if err := services.DeleteEvent(item); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func deleteRating(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("ratingId", 0)

	rating, err := services.GetRating(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if err := services.DeleteRating(rating); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func listReports(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)
	openOnly := c.QueryBool("open", true)

	count, err := services.CountReport(services.FilterReport(database.C, openOnly))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	reports, err := services.ListReport(services.FilterReport(database.C, openOnly), take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  reports,
	})
}

func resolveReport(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("reportId", 0)
	user, _ := exts.GetCurrentUser(c)

	report, err := services.GetReport(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if report, err = services.ResolveReport(report, user); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(report)
}
