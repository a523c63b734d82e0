package exts

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"git.entraide.dev/community/pkg/internal/services"
)

func TestNewServiceError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{gorm.ErrRecordNotFound, fiber.StatusNotFound},
		{fmt.Errorf("loading event: %w", gorm.ErrRecordNotFound), fiber.StatusNotFound},
		{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{services.ErrPermissionDenied, fiber.StatusForbidden},
		{services.ErrForumLocked, fiber.StatusForbidden},
		{services.ErrEmailTaken, fiber.StatusConflict},
		{services.ErrEventFull, fiber.StatusConflict},
		{services.ErrUserAnonymized, fiber.StatusGone},
		{services.ErrUploadTooLarge, fiber.StatusRequestEntityTooLarge},
		{services.ErrUnsupportedUpload, fiber.StatusUnsupportedMediaType},
		{services.ErrEventStarted, fiber.StatusBadRequest},
		{services.ErrInvalidScore, fiber.StatusBadRequest},
		{services.ErrLastAdmin, fiber.StatusBadRequest},
		{fmt.Errorf("disk on fire"), fiber.StatusInternalServerError},
	}

	for _, c := range cases {
		fe := NewServiceError(c.err)
		assert.Equal(t, c.status, fe.Code, c.err.Error())
		assert.Equal(t, c.err.Error(), fe.Message)
	}
}
