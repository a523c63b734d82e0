package services

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm/clause"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

var (
	blogViewQueue []models.BlogPostView
	blogViewLock  sync.Mutex
)

func AddBlogPostView(post models.BlogPost, account uint) {
	blogViewLock.Lock()
	defer blogViewLock.Unlock()
	blogViewQueue = append(blogViewQueue, models.BlogPostView{
		AccountID: account,
		PostID:    post.ID,
	})
}

// FlushBlogPostViews persists the queued views and refreshes the unique view counters.
func FlushBlogPostViews() {
	blogViewLock.Lock()
	if len(blogViewQueue) == 0 {
		blogViewLock.Unlock()
		return
	}
	workingQueue := lo.UniqBy(blogViewQueue, func(item models.BlogPostView) [2]uint {
		return [2]uint{item.AccountID, item.PostID}
	})
	blogViewQueue = nil
	blogViewLock.Unlock()

	updateRequiredPost := make(map[uint]bool)
	for _, item := range workingQueue {
		updateRequiredPost[item.PostID] = true
	}

	if err := database.C.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(workingQueue, 1000).Error; err != nil {
		log.Error().Err(err).Msg("An error occurred when saving blog post views...")
		return
	}

	for k := range updateRequiredPost {
		var count int64
		if err := database.C.Model(&models.BlogPostView{}).Where("post_id = ?", k).Count(&count).Error; err != nil {
			continue
		}
		database.C.Model(&models.BlogPost{}).Where("id = ?", k).Update("total_views", count)
	}

	log.Debug().Int("views", len(workingQueue)).Int("posts", len(updateRequiredPost)).Msg("Flushed blog post views.")
}
