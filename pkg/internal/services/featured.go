package services

import (
	"time"

	"github.com/samber/lo"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

// GetFeaturedEvents returns the best rated events that ended within the last 30 days.
// Events are ranked by their average score, then by how many ratings they received.
func GetFeaturedEvents(count int) ([]models.Event, error) {
	now := Clock.Now()
	deadline := now.Add(-30 * 24 * time.Hour)

	var ranking []ratingAggregate
	if err := database.C.Raw(`
		SELECT r.event_id AS target_id, AVG(r.score) AS average, COUNT(r.id) AS count
		FROM ratings r
		JOIN events e ON e.id = r.event_id
		WHERE r.target_type = ? AND r.deleted_at IS NULL
		  AND e.deleted_at IS NULL AND e.cancelled_at IS NULL
		  AND e.ends_at >= ? AND e.ends_at <= ?
		GROUP BY r.event_id
		ORDER BY average DESC, count DESC
		LIMIT ?
	`, models.RatingTargetEvent, deadline, now, count).Scan(&ranking).Error; err != nil {
		return nil, err
	}

	if len(ranking) == 0 {
		return []models.Event{}, nil
	}

	idx := lo.Map(ranking, func(item ratingAggregate, _ int) uint {
		return item.TargetID
	})
	events, err := ListEvent(database.C.Where("id IN ?", idx), len(idx), 0, "id")
	if err != nil {
		return events, err
	}

	mapping := lo.SliceToMap(events, func(item models.Event) (uint, models.Event) {
		return item.ID, item
	})
	return lo.FilterMap(idx, func(id uint, _ int) (models.Event, bool) {
		item, ok := mapping[id]
		return item, ok
	}), nil
}
