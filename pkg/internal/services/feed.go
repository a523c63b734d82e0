package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

const (
	FeedEntryBlogPost = "blog_post"
	FeedEntryForum    = "forum"
	FeedEntryEvent    = "event"
)

type FeedEntry struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// GetFeed merges the latest blog posts, active forums and newly announced events.
// Each source gets an equal share of the limit, the cursor pages backwards in time.
func GetFeed(limit int, cursor *time.Time) ([]FeedEntry, error) {
	if limit > 100 || limit <= 0 {
		limit = 20
	}
	share := max(limit/3, 1)

	var feed []FeedEntry

	blogTx := FilterBlogPost(database.C, BlogPostFilter{})
	if cursor != nil {
		blogTx = blogTx.Where("published_at < ?", *cursor)
	}
	posts, err := ListBlogPost(blogTx, share, 0, "published_at DESC")
	if err != nil {
		return nil, fmt.Errorf("unable to load blog posts: %v", err)
	}
	feed = append(feed, lo.Map(posts, func(item models.BlogPost, _ int) FeedEntry {
		item.Content = ""
		return FeedEntry{
			Type:      FeedEntryBlogPost,
			Data:      item,
			CreatedAt: lo.FromPtrOr(item.PublishedAt, item.CreatedAt),
		}
	})...)

	forumTx := database.C
	if cursor != nil {
		forumTx = forumTx.Where("last_activity_at < ?", *cursor)
	}
	var forums []models.Forum
	if err := forumTx.
		Preload("Author").
		Preload("Category").
		Limit(share).
		Order("last_activity_at DESC").
		Find(&forums).Error; err != nil {
		return feed, fmt.Errorf("unable to load forums: %v", err)
	}
	feed = append(feed, lo.Map(forums, func(item models.Forum, _ int) FeedEntry {
		item.Content = TruncateContent(ExtractText(item.Content), TruncateContentThreshold)
		return FeedEntry{
			Type:      FeedEntryForum,
			Data:      item,
			CreatedAt: item.LastActivityAt,
		}
	})...)

	eventTx := FilterEvent(database.C, EventFilter{})
	if cursor != nil {
		eventTx = eventTx.Where("created_at < ?", *cursor)
	}
	events, err := ListEvent(eventTx, share, 0, "created_at DESC")
	if err != nil {
		return feed, fmt.Errorf("unable to load events: %v", err)
	}
	feed = append(feed, lo.Map(events, func(item models.Event, _ int) FeedEntry {
		return FeedEntry{
			Type:      FeedEntryEvent,
			Data:      item,
			CreatedAt: item.CreatedAt,
		}
	})...)

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})

	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}
