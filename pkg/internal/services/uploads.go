package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var uploadExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func GetUploadDir() string {
	if dir := viper.GetString("uploads.path"); len(dir) > 0 {
		return dir
	}
	return "uploads"
}

func getUploadMaxSize() int64 {
	if size := viper.GetInt64("uploads.max_size"); size > 0 {
		return size
	}
	return 4 << 20
}

// NewUploadName validates the uploaded file and returns the public name and the local path to store it at.
// The image type is detected from the file content, the declared content type is ignored.
func NewUploadName(file *multipart.FileHeader, kind string) (string, string, error) {
	if file.Size > getUploadMaxSize() {
		return "", "", ErrUploadTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("unable to read upload: %v", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return "", "", fmt.Errorf("unable to detect upload type: %v", err)
	}
	ext, ok := uploadExtensions[detected.String()]
	if !ok {
		return "", "", ErrUnsupportedUpload
	}

	name := kind + "/" + uuid.NewString() + ext
	dst := filepath.Join(GetUploadDir(), filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", "", err
	}

	return name, dst, nil
}

func RemoveUpload(name string) {
	if len(name) == 0 || strings.Contains(name, "..") {
		return
	}
	path := filepath.Join(GetUploadDir(), filepath.FromSlash(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("An error occurred when removing upload...")
	}
}

func GetUserUploadKind(user uint) string {
	return fmt.Sprintf("images/%d", user)
}

// IsOwnedUpload reports whether the upload was stored by the user through the image endpoint.
func IsOwnedUpload(name string, user uint) bool {
	return strings.HasPrefix(name, GetUserUploadKind(user)+"/") && !strings.Contains(name, "..")
}

func GetUploadURL(name string) string {
	base := viper.GetString("uploads.base_url")
	if len(base) == 0 {
		base = "/uploads"
	}
	return strings.TrimSuffix(base, "/") + "/" + name
}
