package api

import (
	"github.com/gofiber/fiber/v2"

	"git.entraide.dev/community/pkg/internal/http/exts"
	"git.entraide.dev/community/pkg/internal/services"
)

func listSkills(c *fiber.Ctx) error {
	take := c.QueryInt("take", 10)

	skills, err := services.SearchSkills(take, c.Query("probe"))
	if err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(skills)
}

func listCategories(c *fiber.Ctx) error {
	categories, err := services.ListCategory()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(categories)
}

func getCategory(c *fiber.Ctx) error {
	category, err := services.GetCategory(c.Params("alias"))
	if err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(category)
}
