package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/http/exts"
	"git.entraide.dev/community/pkg/internal/models"
	"git.entraide.dev/community/pkg/internal/services"
)

func getStats(c *fiber.Ctx) error {
	stats, err := services.GetPlatformStats()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(stats)
}

func listUsers(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	filter := services.UserFilter{
		Probe:          c.Query("probe"),
		OnlyBanned:     c.QueryBool("banned", false),
		WithAnonymized: c.QueryBool("anonymized", false),
	}

	count, err := services.CountUser(services.FilterUser(database.C, filter))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	users, err := services.ListUser(services.FilterUser(database.C, filter), take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data": lo.Map(users, func(item models.User, _ int) models.Profile {
			return item.Profile()
		}),
	})
}

func getTargetUser(c *fiber.Ctx) (models.User, error) {
	id, _ := c.ParamsInt("userId", 0)

	user, err := services.GetUser(uint(id))
	if err != nil {
		return user, exts.NewServiceError(err)
	}
	return user, nil
}

func banUser(c *fiber.Ctx) error {
	user, err := getTargetUser(c)
	if err != nil {
		return err
	}

	if user, err = services.BanUser(user); err != nil {
		return exts.NewServiceError(err)
	}
	log.Info().Uint("user", user.ID).Msg("Banned user.")

	return c.JSON(user.Profile())
}

func unbanUser(c *fiber.Ctx) error {
	user, err := getTargetUser(c)
	if err != nil {
		return err
	}

	if user, err = services.UnbanUser(user); err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(user.Profile())
}

func setUserAdmin(c *fiber.Ctx) error {
	var data struct {
		Admin bool `json:"admin"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, err := getTargetUser(c)
	if err != nil {
		return err
	}

	if user, err = services.SetUserAdmin(user, data.Admin); err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(user.Profile())
}

func anonymizeUser(c *fiber.Ctx) error {
	user, err := getTargetUser(c)
	if err != nil {
		return err
	}

	if user, err = services.AnonymizeUser(user); err != nil {
		return exts.NewServiceError(err)
	}
	log.Info().Uint("user", user.ID).Msg("Anonymized user on administrator request.")

	return c.JSON(user.Profile())
}
