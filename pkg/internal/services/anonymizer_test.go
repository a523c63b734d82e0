package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

func TestAnonymizeUser(t *testing.T) {
	clock := setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")
	carol := newTestUser(t, "carol")

	alice, err := SetUserSkills(alice, []string{"Plumbing"})
	require.NoError(t, err)
	alice, err = SetUserAvatar(alice, "avatars/alice.png")
	require.NoError(t, err)

	// An event alice organizes, an event she attends and one she attended already.
	organized := newTestEvent(t, alice, 5)
	_, err = RegisterToEvent(bob, organized)
	require.NoError(t, err)
	attending := newTestEvent(t, bob, 5)
	_, err = RegisterToEvent(alice, attending)
	require.NoError(t, err)

	post, err := NewBlogPost(alice, models.BlogPost{Title: "My garden", Content: "<p>Tomatoes everywhere</p>"})
	require.NoError(t, err)

	_, err = RateTarget(bob, RatingSubmission{TargetType: models.RatingTargetUser, TargetID: alice.ID, Score: 4})
	require.NoError(t, err)
	given, err := RateTarget(alice, RatingSubmission{TargetType: models.RatingTargetUser, TargetID: carol.ID, Score: 5})
	require.NoError(t, err)

	_, err = SendMessage(carol, alice, "Thanks for the help!")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	require.NoError(t, DeleteConversation(alice, carol.ID))

	anonymized, err := AnonymizeUser(alice)
	require.NoError(t, err)

	assert.True(t, anonymized.IsAnonymized())
	assert.Equal(t, AnonymizedFirstName, anonymized.FirstName)
	assert.Equal(t, AnonymizedLastName, anonymized.LastName)
	assert.True(t, strings.HasSuffix(anonymized.Email, "@"+AnonymizedEmailDomain))
	assert.NotContains(t, anonymized.Email, "alice")
	assert.Empty(t, anonymized.Password)
	assert.Empty(t, anonymized.City)
	assert.Nil(t, anonymized.Avatar)
	assert.Empty(t, anonymized.Roles)
	assert.Empty(t, anonymized.Skills)

	_, err = AuthenticateUser("alice@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	organized, err = GetEvent(organized.ID)
	require.NoError(t, err)
	assert.True(t, organized.IsCancelled())

	stillAttending, err := IsEventAttendee(database.C, attending, alice)
	require.NoError(t, err)
	assert.False(t, stillAttending)

	received, err := CountRating(models.RatingTargetUser, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, received)

	kept, err := GetRating(given.ID)
	require.NoError(t, err)
	assert.Equal(t, anonymized.ID, kept.RaterID)

	stillPublished, err := GetBlogPost(database.C, post.ID)
	require.NoError(t, err)
	assert.Equal(t, AnonymizedFirstName, stillPublished.Author.FirstName)

	var deletions int64
	require.NoError(t, database.C.Model(&models.ConversationDeletion{}).Where("user_id = ?", alice.ID).Count(&deletions).Error)
	assert.Zero(t, deletions)

	_, err = AnonymizeUser(anonymized)
	assert.ErrorIs(t, err, ErrUserAnonymized)
}

func TestAnonymizeUserKeepsPastEvents(t *testing.T) {
	clock := setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	past := newTestEvent(t, bob, 5)
	_, err := RegisterToEvent(alice, past)
	require.NoError(t, err)
	clock.Advance(48 * time.Hour)

	_, err = AnonymizeUser(alice)
	require.NoError(t, err)

	attended, err := IsEventAttendee(database.C, past, alice)
	require.NoError(t, err)
	assert.True(t, attended)
}

func TestAnonymizeLastAdmin(t *testing.T) {
	setupTest(t)
	admin := newTestAdmin(t, "root")

	_, err := AnonymizeUser(admin)
	assert.ErrorIs(t, err, ErrLastAdmin)

	reloaded, err := GetUser(admin.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsAnonymized())
	assert.Equal(t, "root@example.com", reloaded.Email)

	newTestAdmin(t, "deputy")
	_, err = AnonymizeUser(admin)
	assert.NoError(t, err)
}
