package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/http/exts"
	"git.entraide.dev/community/pkg/internal/models"
	"git.entraide.dev/community/pkg/internal/services"
)

type eventForm struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description" validate:"required"`
	Location    string    `json:"location" validate:"required,max=255"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
	Capacity    int       `json:"capacity" validate:"required,min=1,max=10000"`
	Image       *string   `json:"image"`
	Category    *uint     `json:"category"`
}

func (v eventForm) apply(user models.User, item models.Event) (models.Event, error) {
	image, err := resolveFormImage(user, item.Image, v.Image)
	if err != nil {
		return item, err
	}
	if v.Category != nil {
		if _, err := services.GetCategoryWithID(*v.Category); err != nil {
			return item, fiber.NewError(fiber.StatusBadRequest, "category not found")
		}
	}

	item.Title = v.Title
	item.Description = v.Description
	item.Location = v.Location
	item.StartsAt = v.StartsAt
	item.EndsAt = v.EndsAt
	item.Capacity = v.Capacity
	item.Image = image
	item.CategoryID = v.Category
	return item, nil
}

func listEvents(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	filter := services.EventFilter{
		Probe:            c.Query("probe"),
		Category:         c.Query("category"),
		OrganizerID:      uint(c.QueryInt("organizer", 0)),
		AttendeeID:       uint(c.QueryInt("attendee", 0)),
		Past:             c.QueryBool("past", false),
		IncludeCancelled: c.QueryBool("cancelled", false),
	}

	count, err := services.CountEvent(services.FilterEvent(database.C, filter))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	order := "starts_at ASC"
	if filter.Past {
		order = "starts_at DESC"
	}
	items, err := services.ListEvent(services.FilterEvent(database.C, filter), take, offset, order)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func listFeaturedEvents(c *fiber.Ctx) error {
	items, err := services.GetFeaturedEvents(c.QueryInt("take", 5))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(items)
}

func getEvent(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("eventId", 0)

	item, err := services.GetEvent(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if user, ok := exts.GetCurrentUser(c); ok && services.CanManage(user, item.OrganizerID) {
		if item.Attendees, err = services.ListEventAttendee(item); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(item)
}

func createEvent(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data eventForm
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := data.apply(user, models.Event{})
	if err != nil {
		return err
	}

	if item, err = services.NewEvent(user, item); err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(item)
}

func editEvent(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("eventId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data eventForm
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.GetEvent(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}
	if item.OrganizerID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "only the organizer can edit this event")
	}
	if item.IsCancelled() {
		return exts.NewServiceError(services.ErrEventCancelled)
	}

	previousImage := item.Image
	if item, err = data.apply(user, item); err != nil {
		return err
	}

	if item, err = services.EditEvent(item); err != nil {
		return exts.NewServiceError(err)
	}
	if previousImage != nil && (item.Image == nil || *item.Image != *previousImage) {
		services.RemoveUpload(*previousImage)
	}

	return c.JSON(item)
}

func cancelEvent(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("eventId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	item, err := services.GetEvent(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}
	if !services.CanManage(user, item.OrganizerID) {
		return fiber.NewError(fiber.StatusForbidden, "only the organizer can cancel this event")
	}

	if item, err = services.CancelEvent(item); err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(item)
}

func deleteEvent(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("eventId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	item, err := services.GetEvent(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}
	if !services.CanManage(user, item.OrganizerID) {
		return fiber.NewError(fiber.StatusForbidden, "you are not allowed to delete this event")
	}

	if err := services.DeleteEvent(item); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func registerToEvent(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("eventId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	item, err := services.GetEvent(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if item, err = services.RegisterToEvent(user, item); err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(item)
}

func unregisterFromEvent(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("eventId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	item, err := services.GetEvent(uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	if item, err = services.UnregisterFromEvent(user, item); err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(item)
}

func listEventRatings(c *fiber.Ctx) error {
	return listTargetRatings(c, models.RatingTargetEvent, "eventId")
}
