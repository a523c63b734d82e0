package exts

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"git.entraide.dev/community/pkg/internal/services"
)

var serviceErrorStatus = map[error]int{
	services.ErrInvalidCredentials: fiber.StatusUnauthorized,
	services.ErrUserBanned:         fiber.StatusForbidden,
	services.ErrPermissionDenied:   fiber.StatusForbidden,
	services.ErrEmailTaken:         fiber.StatusConflict,
	services.ErrAlreadyRegistered:  fiber.StatusConflict,
	services.ErrReportExists:       fiber.StatusConflict,
	services.ErrEventFull:          fiber.StatusConflict,
	services.ErrForumLocked:        fiber.StatusForbidden,
	services.ErrUserAnonymized:     fiber.StatusGone,
	services.ErrUploadTooLarge:     fiber.StatusRequestEntityTooLarge,
	services.ErrUnsupportedUpload:  fiber.StatusUnsupportedMediaType,
}

// NewServiceError converts an error returned by the services into an http error.
// Business rule violations default to 400, storage failures to 500.
func NewServiceError(err error) *fiber.Error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	for target, status := range serviceErrorStatus {
		if errors.Is(err, target) {
			return fiber.NewError(status, err.Error())
		}
	}
	if isBusinessError(err) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

func isBusinessError(err error) bool {
	for _, target := range []error{
		services.ErrLastAdmin,
		services.ErrEventStarted,
		services.ErrEventCancelled,
		services.ErrEventOrganizer,
		services.ErrNotRegistered,
		services.ErrCapacityBelowCount,
		services.ErrInvalidSchedule,
		services.ErrInvalidRatingTarget,
		services.ErrRateSelf,
		services.ErrEventNotEnded,
		services.ErrNotAttended,
		services.ErrRateOwnEvent,
		services.ErrInvalidScore,
		services.ErrMessageSelf,
		services.ErrRecipientInactive,
		services.ErrReportTarget,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
