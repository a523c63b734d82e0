package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"git.entraide.dev/community/pkg/internal/http/exts"
	"git.entraide.dev/community/pkg/internal/models"
	"git.entraide.dev/community/pkg/internal/services"
)

func registerUser(c *fiber.Ctx) error {
	var data struct {
		Email     string `json:"email" validate:"required,email,max=180"`
		Password  string `json:"password" validate:"required,min=8,max=72"`
		FirstName string `json:"first_name" validate:"required,max=64"`
		LastName  string `json:"last_name" validate:"required,max=64"`
		City      string `json:"city" validate:"max=128"`
		Bio       string `json:"bio" validate:"max=4096"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, err := services.RegisterUser(services.UserRegistration{
		Email:     data.Email,
		Password:  data.Password,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		City:      data.City,
		Bio:       data.Bio,
	})
	if err != nil {
		return exts.NewServiceError(err)
	}

	token, err := services.NewUserToken(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user.Profile(),
		"token": token,
	})
}

func loginUser(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, err := services.AuthenticateUser(data.Email, data.Password)
	if err != nil {
		return exts.NewServiceError(err)
	}

	token, err := services.NewUserToken(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"user":  user.Profile(),
		"token": token,
	})
}

func getMe(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	return c.JSON(user.Profile())
}

func updateMe(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data struct {
		FirstName          string `json:"first_name" validate:"required,max=64"`
		LastName           string `json:"last_name" validate:"required,max=64"`
		City               string `json:"city" validate:"max=128"`
		Bio                string `json:"bio" validate:"max=4096"`
		EmailNotifications *bool  `json:"email_notifications"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, err := services.EditUserProfile(user, services.UserProfileUpdate{
		FirstName:          data.FirstName,
		LastName:           data.LastName,
		City:               data.City,
		Bio:                data.Bio,
		EmailNotifications: lo.FromPtrOr(data.EmailNotifications, user.EmailNotifications),
	})
	if err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(user.Profile())
}

func changeMyPassword(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data struct {
		Current  string `json:"current_password" validate:"required"`
		Password string `json:"password" validate:"required,min=8,max=72"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.ChangeUserPassword(user, data.Current, data.Password); err != nil {
		return exts.NewServiceError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func uploadMyAvatar(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	name, dst, err := services.NewUploadName(file, "avatars")
	if err != nil {
		return exts.NewServiceError(err)
	}
	if err := c.SaveFile(file, dst); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	user, err = services.SetUserAvatar(user, name)
	if err != nil {
		services.RemoveUpload(name)
		return exts.NewServiceError(err)
	}

	return c.JSON(user.Profile())
}

func setMySkills(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data struct {
		Skills []string `json:"skills" validate:"max=32,dive,required,max=64"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, err := services.SetUserSkills(user, data.Skills)
	if err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(user.Profile())
}

func deleteMe(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data struct {
		Password string `json:"password" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if !services.CheckPassword(user.Password, data.Password) {
		return exts.NewServiceError(services.ErrInvalidCredentials)
	}

	if _, err := services.AnonymizeUser(user); err != nil {
		return exts.NewServiceError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func getUser(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("userId", 0)

	user, err := services.GetUser(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	out, err := services.CompleteUserRating(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(out[0])
}

func listUserRatings(c *fiber.Ctx) error {
	return listTargetRatings(c, models.RatingTargetUser, "userId")
}

func searchUsers(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	count, users, err := services.SearchUsersBySkill(services.SkillSearchQuery{
		Skill:    c.Query("skill"),
		Category: c.Query("category"),
		City:     c.Query("city"),
	}, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.CompleteUserRating(users...)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}
