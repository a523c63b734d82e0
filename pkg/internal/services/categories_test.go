package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

func TestNewCategoryAlias(t *testing.T) {
	assert.Equal(t, "bricolage-jardin", NewCategoryAlias("Bricolage & Jardin"))
	assert.Equal(t, "cours-de-langue", NewCategoryAlias("  Cours de langue! "))
}

func TestCategoryLifecycle(t *testing.T) {
	setupTest(t)
	user := newTestUser(t, "alice")

	category, err := NewCategory("", "Entraide numérique", "Computers and phones")
	require.NoError(t, err)
	assert.Equal(t, "entraide-num-rique", category.Alias)

	categories, err := ListCategory()
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	category, err = EditCategory(category, "numerique", "Numérique", "")
	require.NoError(t, err)

	found, err := GetCategory("numerique")
	require.NoError(t, err)
	assert.Equal(t, category.ID, found.ID)

	skill, err := GetSkillOrCreate("Smartphone", &category.ID)
	require.NoError(t, err)
	forum, err := NewForum(user, models.Forum{Title: "Help with my phone", Content: "It does not start", CategoryID: &category.ID})
	require.NoError(t, err)

	usage, err := CountCategoryUsage(category)
	require.NoError(t, err)
	assert.EqualValues(t, 1, usage.Skills)
	assert.EqualValues(t, 1, usage.Forums)

	require.NoError(t, DeleteCategory(category))

	_, err = GetCategoryWithID(category.ID)
	assert.Error(t, err)

	var reloadedSkill models.Skill
	require.NoError(t, database.C.First(&reloadedSkill, skill.ID).Error)
	assert.Nil(t, reloadedSkill.CategoryID)

	reloadedForum, err := GetForum(forum.ID)
	require.NoError(t, err)
	assert.Nil(t, reloadedForum.CategoryID)
}
