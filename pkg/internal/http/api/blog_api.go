package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/http/exts"
	"git.entraide.dev/community/pkg/internal/models"
	"git.entraide.dev/community/pkg/internal/services"
)

type blogPostForm struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Content     string     `json:"content" validate:"required"`
	Image       *string    `json:"image"`
	Tags        []string   `json:"tags" validate:"max=16,dive,max=32"`
	Category    *uint      `json:"category"`
	IsDraft     bool       `json:"is_draft"`
	PublishedAt *time.Time `json:"published_at"`
}

func (v blogPostForm) apply(user models.User, item models.BlogPost) (models.BlogPost, error) {
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
	item.Content = v.Content
	item.Image = image
	item.Tags = v.Tags
	item.CategoryID = v.Category
	item.IsDraft = v.IsDraft
	if v.PublishedAt != nil {
		item.PublishedAt = v.PublishedAt
	}
	return item, nil
}

func listBlogPosts(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	tx := services.FilterBlogPost(database.C, services.BlogPostFilter{
		Probe:    c.Query("probe"),
		Category: c.Query("category"),
		AuthorID: uint(c.QueryInt("author", 0)),
		Tag:      c.Query("tag"),
	})

	countTx := tx
	count, err := services.CountBlogPost(countTx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListBlogPost(tx, take, offset, "published_at DESC")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if c.QueryBool("truncate", true) {
		for idx := range items {
			items[idx].Content = ""
		}
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func listDraftBlogPosts(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	tx := services.FilterBlogPostWithAuthorDraft(database.C, user.ID)

	count, err := services.CountBlogPost(tx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListBlogPost(
		services.FilterBlogPostWithAuthorDraft(database.C, user.ID),
		take, offset, "updated_at DESC",
	)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func getBlogPost(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("postId", 0)

	item, err := services.GetBlogPost(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}

	user, authenticated := exts.GetCurrentUser(c)
	if item.IsDraft || (item.PublishedAt != nil && item.PublishedAt.After(services.Clock.Now())) {
		if !authenticated || !services.CanManage(user, item.AuthorID) {
			return fiber.NewError(fiber.StatusNotFound, "blog post not found")
		}
	}

	if authenticated {
		services.AddBlogPostView(item, user.ID)
	}

	return c.JSON(item)
}

func createBlogPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data blogPostForm
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := data.apply(user, models.BlogPost{})
	if err != nil {
		return err
	}

	item, err = services.NewBlogPost(user, item)
	if err != nil {
		return exts.NewServiceError(err)
	}

	return c.JSON(item)
}

func editBlogPost(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("postId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	var data blogPostForm
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.GetBlogPost(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}
	if item.AuthorID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "only the author can edit this blog post")
	}

	previousImage := item.Image
	if item, err = data.apply(user, item); err != nil {
		return err
	}

	if item, err = services.EditBlogPost(item); err != nil {
		return exts.NewServiceError(err)
	}
	if previousImage != nil && (item.Image == nil || *item.Image != *previousImage) {
		services.RemoveUpload(*previousImage)
	}

	return c.JSON(item)
}

func deleteBlogPost(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("postId", 0)
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.GetCurrentUser(c)

	item, err := services.GetBlogPost(database.C, uint(id))
	if err != nil {
		return exts.NewServiceError(err)
	}
	if !services.CanManage(user, item.AuthorID) {
		return fiber.NewError(fiber.StatusForbidden, "you are not allowed to delete this blog post")
	}

	if err := services.DeleteBlogPost(item); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
