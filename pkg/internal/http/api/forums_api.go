package api

import (
	"github.com/gofiber/fiber/v2"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/http/exts"
	"git.entraide.dev/community/pkg/internal/models"
	"git.entraide.dev/community/pkg/internal/services"
)

type forumForm struct {
	Title    string `json:"title" validate:"required,max=255"`
	Content  string `json:"content" validate:"required"`
	Category *uint  `json:"category"`
}

func listForums(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	filter := services.ForumFilter{
		Probe:    c.Query("probe"),
		Category: c.Query("category"),
		AuthorID: uint(c.QueryInt("author", 0)),
	}

	count, err := services.CountForum(services.FilterForum(database.C, filter))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListForum(services.FilterForum(database.C, filter), take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func getForum(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("forumId", 0)

	item, err := services.GetForum(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(item)
}

func createForum(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data forumForm
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if data.Category != nil {
		if _, err := services.GetCategoryWithID(*data.Category); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "category not found")
		}
	}

	item, err := services.NewForum(user, models.Forum{
		Title:      data.Title,
		Content:    data.Content,
		CategoryID: data.Category,
	})
	if err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(item)
}

func editForum(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("forumId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data forumForm
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.GetForum(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}
	if item.AuthorID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "only the author can edit this forum")
	}
	if data.Category != nil {
		if _, err := services.GetCategoryWithID(*data.Category); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "category not found")
		}
	}

	item.Title = data.Title
	item.Content = data.Content
	item.CategoryID = data.Category

	if item, err = services.EditForum(item); err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(item)
}

func deleteForum(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("forumId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	item, err := services.GetForum(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}
	if !services.CanManage(user, item.AuthorID) {
		return fiber.NewError(fiber.StatusForbidden, "you are not allowed to delete this forum")
	}

	if err := services.DeleteForum(item); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func listForumResponses(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("forumId", 0)
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	forum, err := services.GetForum(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	count, items, err := services.ListForumResponse(forum, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func createForumResponse(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("forumId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data struct {
		Content string `json:"content" validate:"required,max=16384"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	forum, err := services.GetForum(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	item, err := services.NewForumResponse(user, forum, data.Content)
	if err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(item)
}

func editForumResponse(c *fiber.Ctx) error {
	forumId, _ := c.ParamsInt("forumId", 0)
	id, _ := c.ParamsInt("responseId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data struct {
		Content string `json:"content" validate:"required,max=16384"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.GetForumResponse(uint(forumId), uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}
	if item.AuthorID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "only the author can edit this response")
	}

	if item, err = services.EditForumResponse(item, data.Content); err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(item)
}

func deleteForumResponse(c *fiber.Ctx) error {
	forumId, _ := c.ParamsInt("forumId", 0)
	id, _ := c.ParamsInt("responseId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	item, err := services.GetForumResponse(uint(forumId), uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}
	if !services.CanManage(user, item.AuthorID) {
		return fiber.NewError(fiber.StatusForbidden, "you are not allowed to delete this response")
	}

	if err := services.DeleteForumResponse(item); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
