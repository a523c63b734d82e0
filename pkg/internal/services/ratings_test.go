package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

func TestRateUser(t *testing.T) {
	setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	_, err := RateTarget(alice, RatingSubmission{TargetType: models.RatingTargetUser, TargetID: alice.ID, Score: 5})
	assert.ErrorIs(t, err, ErrRateSelf)

	_, err = RateTarget(alice, RatingSubmission{TargetType: models.RatingTargetUser, TargetID: bob.ID, Score: 6})
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, err = RateTarget(alice, RatingSubmission{TargetType: "forum", TargetID: bob.ID, Score: 3})
	assert.ErrorIs(t, err, ErrInvalidRatingTarget)

	first, err := RateTarget(alice, RatingSubmission{TargetType: models.RatingTargetUser, TargetID: bob.ID, Score: 2, Comment: "Late"})
	require.NoError(t, err)
	require.NotNil(t, first.RatedUserID)
	assert.Equal(t, bob.ID, *first.RatedUserID)
	assert.Nil(t, first.EventID)

	second, err := RateTarget(alice, RatingSubmission{TargetType: models.RatingTargetUser, TargetID: bob.ID, Score: 4, Comment: "Great help"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, second.Score)

	carol := newTestUser(t, "carol")
	_, err = RateTarget(carol, RatingSubmission{TargetType: models.RatingTargetUser, TargetID: bob.ID, Score: 5})
	require.NoError(t, err)

	count, err := CountRating(models.RatingTargetUser, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	summary, err := GetRatingSummary(models.RatingTargetUser, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.Count)
	assert.InDelta(t, 4.5, summary.Average, 0.001)

	ratings, err := ListRating(models.RatingTargetUser, bob.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, ratings, 2)
}

func TestRateEvent(t *testing.T) {
	clock := setupTest(t)
	organizer := newTestUser(t, "alice")
	attendee := newTestUser(t, "bob")
	stranger := newTestUser(t, "carol")
	event := newTestEvent(t, organizer, 5)

	_, err := RegisterToEvent(attendee, event)
	require.NoError(t, err)

	form := RatingSubmission{TargetType: models.RatingTargetEvent, TargetID: event.ID, Score: 5}

	_, err = RateTarget(attendee, form)
	assert.ErrorIs(t, err, ErrEventNotEnded)

	clock.Advance(28 * time.Hour)

	_, err = RateTarget(organizer, form)
	assert.ErrorIs(t, err, ErrRateOwnEvent)

	_, err = RateTarget(stranger, form)
	assert.ErrorIs(t, err, ErrNotAttended)

	rating, err := RateTarget(attendee, form)
	require.NoError(t, err)
	require.NotNil(t, rating.EventID)
	assert.Equal(t, event.ID, *rating.EventID)

	reloaded, err := GetEvent(event.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, reloaded.Metric.Rating.Count)
	assert.InDelta(t, 5.0, reloaded.Metric.Rating.Average, 0.001)

	require.NoError(t, DeleteRating(rating))
	summaries, err := ListRatingSummary(models.RatingTargetEvent, []uint{event.ID})
	require.NoError(t, err)
	assert.Zero(t, summaries[event.ID].Count)
}

func TestRateUnknownTarget(t *testing.T) {
	setupTest(t)
	alice := newTestUser(t, "alice")

	_, err := RateTarget(alice, RatingSubmission{TargetType: models.RatingTargetEvent, TargetID: 404, Score: 3})
	assert.Error(t, err)

	_, err = RateTarget(alice, RatingSubmission{TargetType: models.RatingTargetUser, TargetID: 404, Score: 3})
	assert.Error(t, err)
}

func TestRatingUniquePerRater(t *testing.T) {
	setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	first, err := RateTarget(alice, RatingSubmission{TargetType: models.RatingTargetUser, TargetID: bob.ID, Score: 3})
	require.NoError(t, err)

	assert.True(t, database.C.Migrator().HasIndex(&models.Rating{}, "idx_rating_rated_user"))
	assert.True(t, database.C.Migrator().HasIndex(&models.Rating{}, "idx_rating_event"))

	// A second row for the same rater and target is refused by the storage itself.
	duplicate := models.Rating{
		Score:       1,
		RaterID:     alice.ID,
		TargetType:  models.RatingTargetUser,
		RatedUserID: &bob.ID,
	}
	assert.Error(t, database.C.Create(&duplicate).Error)

	require.NoError(t, DeleteRating(first))

	again, err := RateTarget(alice, RatingSubmission{TargetType: models.RatingTargetUser, TargetID: bob.ID, Score: 5, Comment: "Much better"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, again.ID)
	assert.Equal(t, 5, again.Score)
	assert.Equal(t, "Much better", again.Comment)

	count, err := CountRating(models.RatingTargetUser, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
