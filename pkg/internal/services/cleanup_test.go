package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

func TestDoAutoDatabaseCleanup(t *testing.T) {
	clock := setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	forum := newTestForum(t, alice, "Old topic")
	kept := newTestForum(t, alice, "Live topic")
	require.NoError(t, DeleteForum(forum))

	_, err := SendMessage(alice, bob, "Hello")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	require.NoError(t, DeleteConversation(alice, bob.ID))

	DoAutoDatabaseCleanup()

	var count int64
	require.NoError(t, database.C.Unscoped().Model(&models.Forum{}).Count(&count).Error)
	assert.EqualValues(t, 2, count, "soft deleted rows are kept during the retention period")
	require.NoError(t, database.C.Unscoped().Model(&models.Message{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "messages visible to one participant are kept")

	clock.Advance(SoftDeletionRetention + 24*time.Hour)
	require.NoError(t, DeleteConversation(bob, alice.ID))
	DoAutoDatabaseCleanup()

	require.NoError(t, database.C.Unscoped().Model(&models.Forum{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	_, err = GetForum(kept.ID)
	assert.NoError(t, err)
	require.NoError(t, database.C.Unscoped().Model(&models.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}
