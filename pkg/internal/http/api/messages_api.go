package api

import (
	"github.com/gofiber/fiber/v2"

	"git.entraide.dev/community/pkg/internal/http/exts"
	"git.entraide.dev/community/pkg/internal/services"
)

func listConversations(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	conversations, err := services.ListConversation(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(conversations)
}

func countUnreadMessages(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	count, err := services.CountUnreadMessage(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
	})
}

func listConversationMessages(c *fiber.Ctx) error {
	partnerId, _ := c.ParamsInt("partnerId", 0)
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	partner, err := services.GetUser(uint(partnerId))
	if err != nil {
		return exts.NewServiceError(err)
	}

	count, messages, err := services.ListConversationMessage(user, partner.ID, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count":   count,
		"partner": partner.Public(),
		"data":    messages,
	})
}

func sendMessage(c *fiber.Ctx) error {
	partnerId, _ := c.ParamsInt("partnerId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data struct {
		Content string `json:"content" validate:"required,max=4096"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	partner, err := services.GetUser(uint(partnerId))
	if err != nil {
		return exts.NewServiceError(err)
	}

	message, err := services.SendMessage(user, partner, data.Content)
	if err != nil {
		return exts.NewServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

func deleteConversation(c *fiber.Ctx) error {
	partnerId, _ := c.ParamsInt("partnerId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	partner, err := services.GetUser(uint(partnerId))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if err := services.DeleteConversation(user, partner.ID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
