package admin

import (
	"github.com/gofiber/fiber/v2"

	"git.entraide.dev/community/pkg/internal/http/exts"
)

func MapControllers(app *fiber.App, baseURL string) {
	admin := app.Group(baseURL, func(c *fiber.Ctx) error {
		if err := exts.EnsureAdmin(c); err != nil {
			return err
		}
		return c.Next()
	})
	{
		admin.Get("/stats", getStats)

		admin.Get("/users", listUsers)
		admin.Post("/users/:userId/ban", banUser)
		admin.Delete("/users/:userId/ban", unbanUser)
		admin.Put("/users/:userId/admin", setUserAdmin)
		admin.Delete("/users/:userId", anonymizeUser)

		admin.Post("/categories", createCategory)
		admin.Put("/categories/:categoryId", editCategory)
		admin.Delete("/categories/:categoryId", deleteCategory)

		admin.Delete("/blog/:postId", deleteBlogPost)
		admin.Delete("/forums/responses/:responseId", deleteForumResponse)
		admin.Delete("/forums/:forumId", deleteForum)
		admin.Post("/forums/:forumId/lock", lockForum)
		admin.Post("/forums/:forumId/pin", pinForum)
		admin.Delete("/events/:eventId", deleteEvent)
		admin.Delete("/ratings/:ratingId", deleteRating)

		admin.Get("/reports", listReports)
		admin.Post("/reports/:reportId/resolve", resolveReport)
	}
}
