package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

func newTestForum(t *testing.T, author models.User, title string) models.Forum {
	t.Helper()

	forum, err := NewForum(author, models.Forum{
		Title:   "  " + title + "  ",
		Content: "<p>Quelqu'un sait réparer une fuite sous l'évier de la cuisine ?</p>",
	})
	require.NoError(t, err)
	return forum
}

func TestForumResponses(t *testing.T) {
	clock := setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	forum := newTestForum(t, alice, "Fuite d'eau")
	assert.Equal(t, "Fuite d'eau", forum.Title)
	assert.Equal(t, "fr", forum.Language)
	created := forum.LastActivityAt

	clock.Advance(time.Hour)
	response, err := NewForumResponse(bob, forum, "Coupe l'eau et change le joint.")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, response.AuthorID)

	forum, err = GetForum(forum.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, forum.ResponseCount)
	assert.True(t, forum.LastActivityAt.After(created))

	edited, err := EditForumResponse(response, "Coupe l'eau puis change le joint.")
	require.NoError(t, err)
	assert.NotNil(t, edited.EditedAt)

	count, responses, err := ListForumResponse(forum, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, responses, 1)
	assert.Equal(t, "Coupe l'eau puis change le joint.", responses[0].Content)
	assert.Equal(t, "bob", responses[0].Author.FirstName)

	_, err = GetForumResponse(forum.ID+1, response.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, DeleteForumResponse(responses[0]))
	forum, err = GetForum(forum.ID)
	require.NoError(t, err)
	assert.Zero(t, forum.ResponseCount)
}

func TestLockForum(t *testing.T) {
	setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")
	forum := newTestForum(t, alice, "Fuite d'eau")

	locked, err := LockForum(forum)
	require.NoError(t, err)
	assert.True(t, locked)

	forum, err = GetForum(forum.ID)
	require.NoError(t, err)
	_, err = NewForumResponse(bob, forum, "Hello?")
	assert.ErrorIs(t, err, ErrForumLocked)

	locked, err = LockForum(forum)
	require.NoError(t, err)
	assert.False(t, locked)

	forum, err = GetForum(forum.ID)
	require.NoError(t, err)
	_, err = NewForumResponse(bob, forum, "Hello?")
	assert.NoError(t, err)
}

func TestListForumPinnedFirst(t *testing.T) {
	clock := setupTest(t)
	alice := newTestUser(t, "alice")

	older := newTestForum(t, alice, "Older")
	clock.Advance(time.Hour)
	newer := newTestForum(t, alice, "Newer")

	items, err := ListForum(database.C, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, newer.ID, items[0].ID)

	pinned, err := PinForum(older)
	require.NoError(t, err)
	assert.True(t, pinned)

	items, err = ListForum(database.C, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, older.ID, items[0].ID)

	items, err = ListForum(FilterForum(database.C, ForumFilter{Probe: "NEW"}), 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, newer.ID, items[0].ID)
}

func TestDeleteForum(t *testing.T) {
	setupTest(t)
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")
	forum := newTestForum(t, alice, "Fuite d'eau")

	response, err := NewForumResponse(bob, forum, "Appelle un plombier.")
	require.NoError(t, err)

	require.NoError(t, DeleteForum(forum))

	_, err = GetForum(forum.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = GetForumResponse(0, response.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
