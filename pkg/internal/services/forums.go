package services

import (
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

type ForumFilter struct {
	Probe    string
	Category string
	AuthorID uint
}

func FilterForum(tx *gorm.DB, filter ForumFilter) *gorm.DB {
	if len(filter.Probe) > 0 {
		probe := "%" + strings.ToLower(filter.Probe) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", probe, probe)
	}
	if len(filter.Category) > 0 {
		tx = tx.Where(
			"category_id IN (?)",
			database.C.Model(&models.Category{}).Select("id").Where("alias IN ?", strings.Split(filter.Category, ",")),
		)
	}
	if filter.AuthorID > 0 {
		tx = tx.Where("author_id = ?", filter.AuthorID)
	}
	return tx
}

type forumResponseCount struct {
	ForumID uint
	Count   int64
}

func CountForum(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Forum{}).Count(&count).Error; err != nil {
		return count, err
	}
	return count, nil
}

func ListForum(tx *gorm.DB, take int, offset int) ([]models.Forum, error) {
	if take > 100 || take <= 0 {
		take = 100
	}

	var items []models.Forum
	if err := tx.
		Preload("Author").
		Preload("Category").
		Limit(take).Offset(offset).
		Order("pinned_at IS NULL, pinned_at DESC, last_activity_at DESC").
		Find(&items).Error; err != nil {
		return items, err
	}

	if len(items) == 0 {
		return items, nil
	}

	var counts []forumResponseCount
	idx := lo.Map(items, func(item models.Forum, _ int) uint {
		return item.ID
	})
	if err := database.C.Model(&models.ForumResponse{}).
		Select("forum_id, COUNT(id) AS count").
		Where("forum_id IN ?", idx).
		Group("forum_id").
		Scan(&counts).Error; err != nil {
		return items, err
	}
	mapping := lo.SliceToMap(counts, func(item forumResponseCount) (uint, int64) {
		return item.ForumID, item.Count
	})
	for i := range items {
		items[i].ResponseCount = mapping[items[i].ID]
	}

	return items, nil
}

func GetForum(id uint) (models.Forum, error) {
	var item models.Forum
	if err := database.C.
		Preload("Author").
		Preload("Category").
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return item, err
	}
	if err := database.C.Model(&models.ForumResponse{}).
		Where("forum_id = ?", item.ID).
		Count(&item.ResponseCount).Error; err != nil {
		return item, err
	}
	return item, nil
}

func NewForum(author models.User, item models.Forum) (models.Forum, error) {
	item.Title = strings.TrimSpace(item.Title)
	item.Language = DetectLanguage(ExtractText(item.Content))
	item.AuthorID = author.ID
	item.LastActivityAt = Clock.Now()

	if err := database.C.Create(&item).Error; err != nil {
		return item, err
	}
	item.Author = author

	return item, nil
}

func EditForum(item models.Forum) (models.Forum, error) {
	item.Title = strings.TrimSpace(item.Title)
	item.Language = DetectLanguage(ExtractText(item.Content))

	err := database.C.Omit("Author", "Category", "Responses").Save(&item).Error
	return item, err
}

func DeleteForum(item models.Forum) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("forum_id = ?", item.ID).Delete(&models.ForumResponse{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
}

func LockForum(item models.Forum) (bool, error) {
	if item.LockedAt != nil {
		item.LockedAt = nil
	} else {
		item.LockedAt = lo.ToPtr(Clock.Now())
	}

	if err := database.C.Model(&item).Update("locked_at", item.LockedAt).Error; err != nil {
		return item.LockedAt != nil, err
	}
	return item.LockedAt != nil, nil
}

func PinForum(item models.Forum) (bool, error) {
	if item.PinnedAt != nil {
		item.PinnedAt = nil
	} else {
		item.PinnedAt = lo.ToPtr(Clock.Now())
	}

	if err := database.C.Model(&item).Update("pinned_at", item.PinnedAt).Error; err != nil {
		return item.PinnedAt != nil, err
	}
	return item.PinnedAt != nil, nil
}

func ListForumResponse(forum models.Forum, take int, offset int) (int64, []models.ForumResponse, error) {
	if take > 100 || take <= 0 {
		take = 100
	}

	tx := database.C.Where("forum_id = ?", forum.ID)

	var count int64
	if err := tx.Model(&models.ForumResponse{}).Count(&count).Error; err != nil {
		return count, nil, err
	}

	var items []models.ForumResponse
	err := database.C.Where("forum_id = ?", forum.ID).
		Preload("Author").
		Limit(take).Offset(offset).
		Order("created_at ASC").
		Find(&items).Error
	return count, items, err
}

func GetForumResponse(forumID, id uint) (models.ForumResponse, error) {
	var item models.ForumResponse
	tx := database.C.Preload("Author").Where("id = ?", id)
	if forumID > 0 {
		tx = tx.Where("forum_id = ?", forumID)
	}
	if err := tx.First(&item).Error; err != nil {
		return item, err
	}
	return item, nil
}

func NewForumResponse(author models.User, forum models.Forum, content string) (models.ForumResponse, error) {
	if forum.LockedAt != nil {
		return models.ForumResponse{}, ErrForumLocked
	}

	item := models.ForumResponse{
		Content:  content,
		ForumID:  forum.ID,
		AuthorID: author.ID,
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return tx.Model(&forum).Update("last_activity_at", Clock.Now()).Error
	})
	if err != nil {
		return item, err
	}
	item.Author = author

	if forum.Author.ID != 0 && forum.AuthorID != author.ID {
		NotifyUser(
			forum.Author,
			"New answer on your topic",
			author.DisplayName()+" answered your topic \""+forum.Title+"\":\n\n"+TruncateContent(ExtractText(content), TruncateContentThreshold),
		)
	}

	return item, nil
}

func EditForumResponse(item models.ForumResponse, content string) (models.ForumResponse, error) {
	item.Content = content
	item.EditedAt = lo.ToPtr(Clock.Now())

	err := database.C.Model(&item).Updates(map[string]any{
		"content":   item.Content,
		"edited_at": item.EditedAt,
	}).Error
	return item, err
}

func DeleteForumResponse(item models.ForumResponse) error {
	return database.C.Delete(&item).Error
}
