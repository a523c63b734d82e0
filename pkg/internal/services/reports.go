package services

import (
	"errors"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

var reportTargetModels = map[string]any{
	models.ReportTargetBlogPost:      &models.BlogPost{},
	models.ReportTargetForum:         &models.Forum{},
	models.ReportTargetForumResponse: &models.ForumResponse{},
	models.ReportTargetEvent:         &models.Event{},
	models.ReportTargetUser:          &models.User{},
}

func NewReport(reporter models.User, targetType string, targetID uint, reason string) (models.Report, error) {
	model, ok := reportTargetModels[targetType]
	if !ok {
		return models.Report{}, ErrReportTarget
	}

	var count int64
	if err := database.C.Model(model).Where("id = ?", targetID).Count(&count).Error; err != nil {
		return models.Report{}, err
	} else if count == 0 {
		return models.Report{}, gorm.ErrRecordNotFound
	}

	var current models.Report
	if err := database.C.
		Where("reporter_id = ? AND target_type = ? AND target_id = ? AND resolved_at IS NULL", reporter.ID, targetType, targetID).
		First(&current).Error; err == nil {
		return current, ErrReportExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return current, err
	}

	report := models.Report{
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		ReporterID: reporter.ID,
	}
	if err := database.C.Create(&report).Error; err != nil {
		return report, err
	}
	report.Reporter = reporter

	return report, nil
}

func GetReport(id uint) (models.Report, error) {
	var report models.Report
	if err := database.C.Preload("Reporter").Where("id = ?", id).First(&report).Error; err != nil {
		return report, err
	}
	return report, nil
}

func FilterReport(tx *gorm.DB, openOnly bool) *gorm.DB {
	if openOnly {
		return tx.Where("resolved_at IS NULL")
	}
	return tx
}

func CountReport(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Report{}).Count(&count).Error; err != nil {
		return count, err
	}
	return count, nil
}

func ListReport(tx *gorm.DB, take int, offset int) ([]models.Report, error) {
	if take > 100 || take <= 0 {
		take = 100
	}

	var reports []models.Report
	err := tx.Preload("Reporter").
		Limit(take).Offset(offset).
		Order("created_at ASC").
		Find(&reports).Error
	return reports, err
}

// ResolveReport closes the report and every other open report about the same target.
func ResolveReport(report models.Report, resolver models.User) (models.Report, error) {
	now := Clock.Now()
	if err := database.C.Model(&models.Report{}).
		Where("target_type = ? AND target_id = ? AND resolved_at IS NULL", report.TargetType, report.TargetID).
		Updates(map[string]any{
			"resolved_at": now,
			"resolver_id": resolver.ID,
		}).Error; err != nil {
		return report, err
	}

	report.ResolvedAt = &now
	report.ResolverID = lo.ToPtr(resolver.ID)
	return report, nil
}
