package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.entraide.dev/community/pkg/internal/models"
)

func TestGetPlatformStats(t *testing.T) {
	setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")
	carol := newTestUser(t, "carol")
	newTestAdmin(t, "root")

	_, err := BanUser(bob)
	require.NoError(t, err)
	_, err = AnonymizeUser(carol)
	require.NoError(t, err)

	forum := newTestForum(t, alice, "Topic")
	newTestEvent(t, alice, 3)
	_, err = NewBlogPost(alice, models.BlogPost{Title: "Post", Content: "Hello"})
	require.NoError(t, err)
	_, err = NewReport(alice, models.ReportTargetForum, forum.ID, "Test")
	require.NoError(t, err)

	stats, err := GetPlatformStats()
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Users)
	assert.EqualValues(t, 1, stats.BannedUsers)
	assert.EqualValues(t, 1, stats.BlogPosts)
	assert.EqualValues(t, 1, stats.Forums)
	assert.EqualValues(t, 1, stats.Events)
	assert.Zero(t, stats.Messages)
	assert.EqualValues(t, 1, stats.OpenReports)
}
