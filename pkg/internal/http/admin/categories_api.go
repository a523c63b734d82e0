package admin

import (
	"github.com/gofiber/fiber/v2"

	"git.entraide.dev/community/pkg/internal/http/exts"
	"git.entraide.dev/community/pkg/internal/services"
)

type categoryForm struct {
	Alias       string `json:"alias" validate:"omitempty,max=64,lowercase"`
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description" validate:"max=1024"`
}

func createCategory(c *fiber.Ctx) error {
	var data categoryForm
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	category, err := services.NewCategory(data.Alias, data.Name, data.Description)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(category)
}

func editCategory(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("categoryId", 0)

	var data categoryForm
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	category, err := services.GetCategoryWithID(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if category, err = services.EditCategory(category, data.Alias, data.Name, data.Description); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(category)
}

func deleteCategory(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("categoryId", 0)

	category, err := services.GetCategoryWithID(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	usage, err := services.CountCategoryUsage(category)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := services.DeleteCategory(category); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"category": category,
		"detached": usage,
	})
}
