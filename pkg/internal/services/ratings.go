package services

import (
	"context"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/metrics"
	"git.entraide.dev/community/pkg/internal/models"
)

const (
	RatingMinScore = 1
	RatingMaxScore = 5
)

type RatingSubmission struct {
	TargetType string
	TargetID   uint
	Score      int
	Comment    string
}

func getRatingSummaryCacheKey(targetType string, id uint) string {
	return fmt.Sprintf("rating-summary#%s#%d", targetType, id)
}

func invalidateRatingSummary(targetType string, id uint) {
	if err := getCacheMarshaler().Delete(context.Background(), getRatingSummaryCacheKey(targetType, id)); err != nil {
		log.Warn().Err(err).Str("target", targetType).Uint("id", id).Msg("An error occurred when invalidating rating summary...")
	}
}

func filterRatingTarget(tx *gorm.DB, targetType string, id uint) (*gorm.DB, error) {
	switch targetType {
	case models.RatingTargetUser:
		return tx.Where("target_type = ? AND rated_user_id = ?", targetType, id), nil
	case models.RatingTargetEvent:
		return tx.Where("target_type = ? AND event_id = ?", targetType, id), nil
	default:
		return tx, ErrInvalidRatingTarget
	}
}

// validateRatingTarget enforces who may rate what, returning the rating prepared for storage.
func validateRatingTarget(rater models.User, form RatingSubmission) (models.Rating, error) {
	rating := models.Rating{
		Score:      form.Score,
		Comment:    form.Comment,
		RaterID:    rater.ID,
		TargetType: form.TargetType,
	}

	if form.Score < RatingMinScore || form.Score > RatingMaxScore {
		return rating, ErrInvalidScore
	}

	switch form.TargetType {
	case models.RatingTargetUser:
		if form.TargetID == rater.ID {
			return rating, ErrRateSelf
		}
		target, err := GetUser(form.TargetID)
		if err != nil {
			return rating, err
		} else if target.IsAnonymized() {
			return rating, ErrUserAnonymized
		}
		rating.RatedUserID = &target.ID
	case models.RatingTargetEvent:
		var event models.Event
		if err := database.C.Where("id = ?", form.TargetID).First(&event).Error; err != nil {
			return rating, err
		}
		switch {
		case event.OrganizerID == rater.ID:
			return rating, ErrRateOwnEvent
		case event.IsCancelled():
			return rating, ErrEventCancelled
		case !event.HasEnded(Clock.Now()):
			return rating, ErrEventNotEnded
		}
		if attended, err := IsEventAttendee(database.C, event, rater); err != nil {
			return rating, err
		} else if !attended {
			return rating, ErrNotAttended
		}
		rating.EventID = &event.ID
	default:
		return rating, ErrInvalidRatingTarget
	}

	return rating, nil
}

// RateTarget stores the rater's opinion, a second submission on the same target replaces the first one.
func RateTarget(rater models.User, form RatingSubmission) (models.Rating, error) {
	rating, err := validateRatingTarget(rater, form)
	if err != nil {
		return rating, err
	}

	column := rating.TargetColumn()
	if err := database.C.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "rater_id"}, {Name: column}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: column + " IS NOT NULL AND deleted_at IS NULL"},
		}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "comment", "updated_at"}),
	}).Create(&rating).Error; err != nil {
		return rating, fmt.Errorf("unable to save your rating: %v", err)
	}

	tx, _ := filterRatingTarget(database.C, rating.TargetType, rating.TargetID())
	var stored models.Rating
	if err := tx.Where("rater_id = ?", rater.ID).First(&stored).Error; err != nil {
		return rating, err
	}

	stored.Rater = rater
	metrics.RatingsSubmitted.WithLabelValues(stored.TargetType).Inc()
	invalidateRatingSummary(stored.TargetType, stored.TargetID())

	return stored, nil
}

func GetRating(id uint) (models.Rating, error) {
	var rating models.Rating
	if err := database.C.Preload("Rater").Where("id = ?", id).First(&rating).Error; err != nil {
		return rating, err
	}
	return rating, nil
}

func CountRating(targetType string, id uint) (int64, error) {
	tx, err := filterRatingTarget(database.C.Model(&models.Rating{}), targetType, id)
	if err != nil {
		return 0, err
	}

	var count int64
	err = tx.Count(&count).Error
	return count, err
}

func ListRating(targetType string, id uint, take, offset int) ([]models.Rating, error) {
	if take > 100 || take <= 0 {
		take = 100
	}

	tx, err := filterRatingTarget(database.C, targetType, id)
	if err != nil {
		return nil, err
	}

	var ratings []models.Rating
	err = tx.Preload("Rater").
		Limit(take).Offset(offset).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}

func DeleteRating(rating models.Rating) error {
	if err := database.C.Delete(&rating).Error; err != nil {
		return err
	}
	invalidateRatingSummary(rating.TargetType, rating.TargetID())
	return nil
}

func GetRatingSummary(targetType string, id uint) (models.RatingSummary, error) {
	ctx := context.Background()
	marshal := getCacheMarshaler()
	key := getRatingSummaryCacheKey(targetType, id)

	if cached, err := marshal.Get(ctx, key, new(models.RatingSummary)); err == nil {
		return *cached.(*models.RatingSummary), nil
	}

	summaries, err := ListRatingSummary(targetType, []uint{id})
	if err != nil {
		return models.RatingSummary{}, err
	}
	summary := summaries[id]

	_ = marshal.Set(ctx, key, summary, store.WithExpiration(10*time.Minute))

	return summary, nil
}

type ratingAggregate struct {
	TargetID uint
	Average  float64
	Count    int64
}

// ListRatingSummary aggregates the ratings of many targets in one query. Missing targets have a zero summary.
func ListRatingSummary(targetType string, idx []uint) (map[uint]models.RatingSummary, error) {
	var column string
	switch targetType {
	case models.RatingTargetUser:
		column = "rated_user_id"
	case models.RatingTargetEvent:
		column = "event_id"
	default:
		return nil, ErrInvalidRatingTarget
	}

	out := make(map[uint]models.RatingSummary, len(idx))
	if len(idx) == 0 {
		return out, nil
	}

	var aggregates []ratingAggregate
	if err := database.C.Model(&models.Rating{}).
		Select(fmt.Sprintf("%s AS target_id, AVG(score) AS average, COUNT(id) AS count", column)).
		Where("target_type = ?", targetType).
		Where(fmt.Sprintf("%s IN ?", column), idx).
		Group(column).
		Scan(&aggregates).Error; err != nil {
		return out, err
	}

	for _, item := range aggregates {
		out[item.TargetID] = models.RatingSummary{
			Average: item.Average,
			Count:   item.Count,
		}
	}
	return out, nil
}

// CompleteUserRating turns users into public profiles carrying their rating summary.
func CompleteUserRating(users ...models.User) ([]models.PublicUser, error) {
	idx := lo.Map(users, func(item models.User, _ int) uint {
		return item.ID
	})
	summaries, err := ListRatingSummary(models.RatingTargetUser, idx)
	if err != nil {
		return nil, err
	}

	return lo.Map(users, func(item models.User, _ int) models.PublicUser {
		public := item.Public()
		public.Rating = summaries[item.ID]
		return public
	}), nil
}
