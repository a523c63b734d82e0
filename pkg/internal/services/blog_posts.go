package services

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

type BlogPostFilter struct {
	Probe    string
	Category string
	AuthorID uint
	Tag      string
}

func FilterBlogPostPublished(tx *gorm.DB, date time.Time) *gorm.DB {
	return tx.
		Where("is_draft = ? OR is_draft IS NULL", false).
		Where("published_at <= ? OR published_at IS NULL", date)
}

func FilterBlogPostWithAuthorDraft(tx *gorm.DB, uid uint) *gorm.DB {
	return tx.Where("author_id = ? AND is_draft = ?", uid, true)
}

func FilterBlogPostWithCategory(tx *gorm.DB, alias string) *gorm.DB {
	return tx.Where(
		"category_id IN (?)",
		database.C.Model(&models.Category{}).Select("id").Where("alias IN ?", strings.Split(alias, ",")),
	)
}

func FilterBlogPostWithFuzzySearch(tx *gorm.DB, probe string) *gorm.DB {
	if len(probe) == 0 {
		return tx
	}

	probe = "%" + strings.ToLower(probe) + "%"
	return tx.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", probe, probe)
}

func FilterBlogPost(tx *gorm.DB, filter BlogPostFilter) *gorm.DB {
	tx = FilterBlogPostPublished(tx, Clock.Now())
	tx = FilterBlogPostWithFuzzySearch(tx, filter.Probe)
	if len(filter.Category) > 0 {
		tx = FilterBlogPostWithCategory(tx, filter.Category)
	}
	if filter.AuthorID > 0 {
		tx = tx.Where("author_id = ?", filter.AuthorID)
	}
	if len(filter.Tag) > 0 {
		tx = tx.Where("LOWER(tags) LIKE ?", "%\""+strings.ToLower(filter.Tag)+"\"%")
	}
	return tx
}

func CountBlogPost(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.BlogPost{}).Count(&count).Error; err != nil {
		return count, err
	}
	return count, nil
}

func ListBlogPost(tx *gorm.DB, take int, offset int, order any) ([]models.BlogPost, error) {
	if take > 100 || take <= 0 {
		take = 100
	}

	var items []models.BlogPost
	if err := tx.
		Preload("Author").
		Preload("Category").
		Limit(take).Offset(offset).
		Order(order).
		Find(&items).Error; err != nil {
		return items, err
	}

	return items, nil
}

func GetBlogPost(tx *gorm.DB, id uint) (models.BlogPost, error) {
	var item models.BlogPost
	if err := tx.
		Preload("Author").
		Preload("Category").
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return item, err
	}
	return item, nil
}

func prepareBlogPost(item models.BlogPost) models.BlogPost {
	item.Title = strings.TrimSpace(item.Title)
	item.Excerpt = NewExcerpt(item.Content)
	item.Language = DetectLanguage(item.Excerpt)
	item.Tags = lo.Uniq(lo.FilterMap(item.Tags, func(tag string, _ int) (string, bool) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		return tag, len(tag) > 0
	}))
	return item
}

func NewBlogPost(author models.User, item models.BlogPost) (models.BlogPost, error) {
	item = prepareBlogPost(item)
	item.AuthorID = author.ID
	if !item.IsDraft && item.PublishedAt == nil {
		item.PublishedAt = lo.ToPtr(Clock.Now())
	}

	log.Debug().Uint("author", author.ID).Str("title", item.Title).Msg("Saving blog post...")
	if err := database.C.Create(&item).Error; err != nil {
		return item, err
	}
	item.Author = author

	return item, nil
}

func EditBlogPost(item models.BlogPost) (models.BlogPost, error) {
	wasPublished := item.PublishedAt != nil
	item = prepareBlogPost(item)

	if !item.IsDraft {
		if wasPublished {
			item.EditedAt = lo.ToPtr(Clock.Now())
		} else {
			item.PublishedAt = lo.ToPtr(Clock.Now())
		}
	}

	err := database.C.Omit("Author", "Category").Save(&item).Error
	return item, err
}

func DeleteBlogPost(item models.BlogPost) error {
	if err := database.C.Delete(&item).Error; err != nil {
		return err
	}
	if item.Image != nil {
		RemoveUpload(*item.Image)
	}
	return nil
}

func CanManage(user models.User, ownerID uint) bool {
	return user.ID == ownerID || user.IsAdmin()
}
