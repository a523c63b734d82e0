package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

func TestSendMessageRules(t *testing.T) {
	setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	_, err := SendMessage(alice, alice, "Hello me")
	assert.ErrorIs(t, err, ErrMessageSelf)

	bob, err = BanUser(bob)
	require.NoError(t, err)
	_, err = SendMessage(alice, bob, "Hello")
	assert.ErrorIs(t, err, ErrRecipientInactive)

	carol, err := AnonymizeUser(newTestUser(t, "carol"))
	require.NoError(t, err)
	_, err = SendMessage(alice, carol, "Hello")
	assert.ErrorIs(t, err, ErrRecipientInactive)
}

func TestConversations(t *testing.T) {
	clock := setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")
	carol := newTestUser(t, "carol")

	_, err := SendMessage(alice, bob, "Can you help me move on Saturday?")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = SendMessage(bob, alice, "Sure, what time?")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = SendMessage(bob, alice, "I have a van")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	last, err := SendMessage(carol, alice, "Is the bike still available?")
	require.NoError(t, err)

	conversations, err := ListConversation(alice)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, carol.ID, conversations[0].Partner.ID)
	assert.Equal(t, last.ID, conversations[0].LastMessage.ID)
	assert.EqualValues(t, 1, conversations[0].UnreadCount)
	assert.Equal(t, bob.ID, conversations[1].Partner.ID)
	assert.Equal(t, "I have a van", conversations[1].LastMessage.Content)
	assert.EqualValues(t, 2, conversations[1].UnreadCount)

	unread, err := CountUnreadMessage(alice)
	require.NoError(t, err)
	assert.EqualValues(t, 3, unread)

	count, messages, err := ListConversationMessage(alice, bob.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	require.Len(t, messages, 3)
	assert.Equal(t, "Can you help me move on Saturday?", messages[0].Content)
	assert.Nil(t, messages[0].ReadAt)
	assert.NotNil(t, messages[2].ReadAt)

	unread, err = CountUnreadMessage(alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)
}

func TestDeleteConversationIsOneSided(t *testing.T) {
	clock := setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	_, err := SendMessage(alice, bob, "First")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = SendMessage(bob, alice, "Second")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	require.NoError(t, DeleteConversation(alice, bob.ID))

	conversations, err := ListConversation(alice)
	require.NoError(t, err)
	assert.Empty(t, conversations)

	unread, err := CountUnreadMessage(alice)
	require.NoError(t, err)
	assert.Zero(t, unread)

	count, _, err := ListConversationMessage(bob, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	clock.Advance(time.Minute)
	_, err = SendMessage(bob, alice, "Third")
	require.NoError(t, err)

	count, messages, err := ListConversationMessage(alice, bob.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, messages, 1)
	assert.Equal(t, "Third", messages[0].Content)

	// Deleting again moves the cleared mark forward instead of adding a row.
	clock.Advance(time.Minute)
	require.NoError(t, DeleteConversation(alice, bob.ID))

	var deletions int64
	require.NoError(t, database.C.Model(&models.ConversationDeletion{}).Count(&deletions).Error)
	assert.EqualValues(t, 1, deletions)

	count, _, err = ListConversationMessage(alice, bob.ID, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPurgeHiddenMessages(t *testing.T) {
	clock := setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	_, err := SendMessage(alice, bob, "Old news")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	require.NoError(t, DeleteConversation(alice, bob.ID))

	purged, err := PurgeHiddenMessages()
	require.NoError(t, err)
	assert.Zero(t, purged)

	clock.Advance(time.Minute)
	_, err = SendMessage(bob, alice, "Fresh news")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	require.NoError(t, DeleteConversation(bob, alice.ID))

	purged, err = PurgeHiddenMessages()
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	count, _, err := ListConversationMessage(bob, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteConversationHidesSameInstant(t *testing.T) {
	clock := setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	_, err := SendMessage(alice, bob, "Sent in the same second")
	require.NoError(t, err)
	require.NoError(t, DeleteConversation(bob, alice.ID))

	count, messages, err := ListConversationMessage(bob, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, messages)

	unread, err := CountUnreadMessage(bob)
	require.NoError(t, err)
	assert.Zero(t, unread)

	conversations, err := ListConversation(bob)
	require.NoError(t, err)
	assert.Empty(t, conversations)

	count, _, err = ListConversationMessage(alice, bob.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	clock.Advance(time.Second)
	_, err = SendMessage(alice, bob, "One second later")
	require.NoError(t, err)
	count, messages, err = ListConversationMessage(bob, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, messages, 1)
	assert.Equal(t, "One second later", messages[0].Content)
}

func TestListConversationMessageFailsClosed(t *testing.T) {
	setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")
	carol := newTestUser(t, "carol")

	_, err := SendMessage(alice, bob, "Private")
	require.NoError(t, err)
	_, err = SendMessage(carol, bob, "Also private")
	require.NoError(t, err)

	// Without the deletion marks the visible range cannot be resolved.
	require.NoError(t, database.C.Migrator().DropTable(&models.ConversationDeletion{}))

	count, messages, err := ListConversationMessage(alice, carol.ID, 10, 0)
	assert.Error(t, err)
	assert.Zero(t, count)
	assert.Empty(t, messages)

	var read int64
	require.NoError(t, database.C.Model(&models.Message{}).Where("read_at IS NOT NULL").Count(&read).Error)
	assert.Zero(t, read)
}
