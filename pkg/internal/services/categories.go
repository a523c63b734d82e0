package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	localCache "git.entraide.dev/community/pkg/internal/cache"
	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

const categoryListCacheKey = "category-list"

var categoryAliasPattern = regexp.MustCompile(`[^a-z0-9]+`)

// NewCategoryAlias turns a display name into a url-safe alias, "Bricolage & Jardin" → "bricolage-jardin".
func NewCategoryAlias(name string) string {
	alias := categoryAliasPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(alias, "-")
}

func getCacheMarshaler() *marshaler.Marshaler {
	return marshaler.New(cache.New[any](localCache.S))
}

func ListCategory() ([]models.Category, error) {
	ctx := context.Background()
	marshal := getCacheMarshaler()

	if cached, err := marshal.Get(ctx, categoryListCacheKey, new([]models.Category)); err == nil {
		return *cached.(*[]models.Category), nil
	}

	var categories []models.Category
	if err := database.C.Order("name ASC").Find(&categories).Error; err != nil {
		return categories, err
	}

	_ = marshal.Set(ctx, categoryListCacheKey, categories, store.WithExpiration(30*time.Minute))

	return categories, nil
}

func invalidateCategoryCache() {
	if err := getCacheMarshaler().Delete(context.Background(), categoryListCacheKey); err != nil {
		log.Warn().Err(err).Msg("An error occurred when invalidating category cache...")
	}
}

func GetCategory(alias string) (models.Category, error) {
	var category models.Category
	if err := database.C.Where(models.Category{Alias: alias}).First(&category).Error; err != nil {
		return category, err
	}
	return category, nil
}

func GetCategoryWithID(id uint) (models.Category, error) {
	var category models.Category
	if err := database.C.Where("id = ?", id).First(&category).Error; err != nil {
		return category, err
	}
	return category, nil
}

func NewCategory(alias, name, description string) (models.Category, error) {
	if len(alias) == 0 {
		alias = NewCategoryAlias(name)
	}

	category := models.Category{
		Alias:       alias,
		Name:        strings.TrimSpace(name),
		Description: description,
	}

	err := database.C.Save(&category).Error
	if err == nil {
		invalidateCategoryCache()
	}

	return category, err
}

func EditCategory(category models.Category, alias, name, description string) (models.Category, error) {
	if len(alias) == 0 {
		alias = NewCategoryAlias(name)
	}

	category.Alias = alias
	category.Name = strings.TrimSpace(name)
	category.Description = description

	err := database.C.Save(&category).Error
	if err == nil {
		invalidateCategoryCache()
	}

	return category, err
}

// DeleteCategory detaches every record using the category before removing it.
func DeleteCategory(category models.Category) error {
	err := database.C.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Skill{}, &models.BlogPost{}, &models.Forum{}, &models.Event{}} {
			if err := tx.Unscoped().Model(model).
				Where("category_id = ?", category.ID).
				Update("category_id", nil).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&category).Error
	})
	if err == nil {
		invalidateCategoryCache()
	}
	return err
}

type CategoryUsage struct {
	Skills    int64 `json:"skills"`
	BlogPosts int64 `json:"blog_posts"`
	Forums    int64 `json:"forums"`
	Events    int64 `json:"events"`
}

func CountCategoryUsage(category models.Category) (CategoryUsage, error) {
	var usage CategoryUsage
	targets := map[*int64]any{
		&usage.Skills:    &models.Skill{},
		&usage.BlogPosts: &models.BlogPost{},
		&usage.Forums:    &models.Forum{},
		&usage.Events:    &models.Event{},
	}
	for out, model := range targets {
		if err := database.C.Model(model).Where("category_id = ?", category.ID).Count(out).Error; err != nil {
			return usage, err
		}
	}
	return usage, nil
}
