package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/spf13/viper"
)

func newAuthLimiter() fiber.Handler {
	limit := viper.GetInt("ratelimit.auth_max")
	if limit <= 0 {
		limit = 10
	}
	window := viper.GetDuration("ratelimit.auth_window")
	if window <= 0 {
		window = time.Minute
	}

	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many attempts, try again later")
		},
	})
}

func MapControllers(app *fiber.App, baseURL string) {
	api := app.Group(baseURL)
	{
		auth := api.Group("/auth", newAuthLimiter())
		{
			auth.Post("/register", registerUser)
			auth.Post("/login", loginUser)
		}

		users := api.Group("/users")
		{
			users.Get("/me", getMe)
			users.Put("/me", updateMe)
			users.Put("/me/password", changeMyPassword)
			users.Post("/me/avatar", uploadMyAvatar)
			users.Put("/me/skills", setMySkills)
			users.Delete("/me", deleteMe)

			users.Get("/search", searchUsers)
			users.Get("/:userId", getUser)
			users.Get("/:userId/ratings", listUserRatings)
		}

		api.Get("/skills", listSkills)

		categories := api.Group("/categories")
		{
			categories.Get("/", listCategories)
			categories.Get("/:alias", getCategory)
		}

		blog := api.Group("/blog")
		{
			blog.Get("/", listBlogPosts)
			blog.Get("/drafts", listDraftBlogPosts)
			blog.Get("/:postId", getBlogPost)
			blog.Post("/", createBlogPost)
			blog.Put("/:postId", editBlogPost)
			blog.Delete("/:postId", deleteBlogPost)
		}

		forums := api.Group("/forums")
		{
			forums.Get("/", listForums)
			forums.Get("/:forumId", getForum)
			forums.Post("/", createForum)
			forums.Put("/:forumId", editForum)
			forums.Delete("/:forumId", deleteForum)

			forums.Get("/:forumId/responses", listForumResponses)
			forums.Post("/:forumId/responses", createForumResponse)
			forums.Put("/:forumId/responses/:responseId", editForumResponse)
			forums.Delete("/:forumId/responses/:responseId", deleteForumResponse)
		}

		events := api.Group("/events")
		{
			events.Get("/", listEvents)
			events.Get("/featured", listFeaturedEvents)
			events.Get("/:eventId", getEvent)
			events.Post("/", createEvent)
			events.Put("/:eventId", editEvent)
			events.Post("/:eventId/cancel", cancelEvent)
			events.Delete("/:eventId", deleteEvent)

			events.Post("/:eventId/attendance", registerToEvent)
			events.Delete("/:eventId/attendance", unregisterFromEvent)
			events.Get("/:eventId/ratings", listEventRatings)
		}

		ratings := api.Group("/ratings")
		{
			ratings.Post("/", rateTarget)
			ratings.Delete("/:ratingId", deleteRating)
		}

		messages := api.Group("/messages")
		{
			messages.Get("/", listConversations)
			messages.Get("/unread", countUnreadMessages)
			messages.Get("/:partnerId", listConversationMessages)
			messages.Post("/:partnerId", sendMessage)
			messages.Delete("/:partnerId", deleteConversation)
		}

		api.Post("/uploads", uploadImage)
		api.Post("/reports", createReport)
		api.Get("/feed", getFeed)
	}
}
