package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

// NormalizeSkillName collapses inner whitespace so "  Web   design " and "web design" meet.
func NormalizeSkillName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func SearchSkills(take int, probe string) ([]models.Skill, error) {
	if take > 50 || take <= 0 {
		take = 50
	}

	tx := database.C.Preload("Category")
	if len(probe) > 0 {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(probe)+"%")
	}

	var skills []models.Skill
	err := tx.Limit(take).Order("name ASC").Find(&skills).Error
	return skills, err
}

func GetSkillOrCreate(name string, categoryID *uint) (models.Skill, error) {
	name = NormalizeSkillName(name)
	if len(name) == 0 {
		return models.Skill{}, fmt.Errorf("skill name cannot be empty")
	}

	var skill models.Skill
	if err := database.C.Where("LOWER(name) = ?", strings.ToLower(name)).First(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			skill = models.Skill{
				Name:       name,
				CategoryID: categoryID,
			}
			err := database.C.Save(&skill).Error
			return skill, err
		}
		return skill, err
	}
	return skill, nil
}

// SetUserSkills replaces the skill set of the user with the given names.
func SetUserSkills(user models.User, names []string) (models.User, error) {
	names = lo.UniqBy(lo.Filter(lo.Map(names, func(item string, _ int) string {
		return NormalizeSkillName(item)
	}), func(item string, _ int) bool {
		return len(item) > 0
	}), strings.ToLower)

	skills := make([]models.Skill, 0, len(names))
	for _, name := range names {
		skill, err := GetSkillOrCreate(name, nil)
		if err != nil {
			return user, err
		}
		skills = append(skills, skill)
	}

	if err := database.C.Model(&user).Association("Skills").Replace(skills); err != nil {
		return user, fmt.Errorf("unable to update skills: %v", err)
	}
	user.Skills = skills

	return user, nil
}

func AddUserSkill(user models.User, name string, categoryID *uint) (models.Skill, error) {
	skill, err := GetSkillOrCreate(name, categoryID)
	if err != nil {
		return skill, err
	}
	err = database.C.Model(&user).Association("Skills").Append(&skill)
	return skill, err
}

func RemoveUserSkill(user models.User, skill models.Skill) error {
	return database.C.Model(&user).Association("Skills").Delete(&skill)
}

type SkillSearchQuery struct {
	Skill    string
	Category string
	City     string
}

// FilterUserBySkill restricts tx to active members offering a skill matching the query.
func FilterUserBySkill(tx *gorm.DB, query SkillSearchQuery) *gorm.DB {
	tx = tx.Model(&models.User{}).
		Where("users.banned_at IS NULL AND users.anonymized_at IS NULL")

	if len(query.Skill) > 0 || len(query.Category) > 0 {
		sub := database.C.Model(&models.Skill{}).
			Select("user_skills.user_id").
			Joins("JOIN user_skills ON user_skills.skill_id = skills.id")
		if len(query.Skill) > 0 {
			sub = sub.Where("LOWER(skills.name) LIKE ?", "%"+strings.ToLower(query.Skill)+"%")
		}
		if len(query.Category) > 0 {
			sub = sub.Joins("JOIN categories ON categories.id = skills.category_id").
				Where("categories.alias IN ?", strings.Split(query.Category, ","))
		}
		tx = tx.Where("users.id IN (?)", sub)
	}

	if len(query.City) > 0 {
		tx = tx.Where("LOWER(users.city) LIKE ?", "%"+strings.ToLower(query.City)+"%")
	}

	return tx
}

func SearchUsersBySkill(query SkillSearchQuery, take, offset int) (int64, []models.User, error) {
	tx := FilterUserBySkill(database.C, query)

	count, err := CountUser(tx)
	if err != nil {
		return 0, nil, err
	}

	users, err := ListUser(FilterUserBySkill(database.C, query), take, offset)
	return count, users, err
}
