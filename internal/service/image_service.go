package service

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"flock/internal/config"
	"flock/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // register WebP decoder

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const (
	DefaultImageUploadDir       = "/tmp/flock/uploads/images"
	DefaultImageMaxUploadSizeMB = 10
	WebPQuality                 = 80
)

// ImageService stores uploaded images for image posts. Every upload is
// re-encoded to WebP so the served file never contains the original bytes.
type ImageService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

// NewImageService returns an ImageService configured from cfg, falling back
// to defaults when unset.
func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultImageUploadDir
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB

	if cfg != nil {
		if cfg.ImageUploadDir != "" {
			uploadDir = cfg.ImageUploadDir
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
	}

	return &ImageService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Save validates and stores an uploaded image, returning the filename to
// reference from an image post.
func (s *ImageService) Save(content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxUploadSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(content)
	if !isAllowedImageMIME(detectedType) {
		return "", models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, decoded, &webp.Options{Quality: WebPQuality}); err != nil {
		return "", models.NewInternalError(err)
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", models.NewInternalError(err)
	}
	name := uuid.NewString() + ".webp"
	if err := os.WriteFile(filepath.Join(s.uploadDir, name), buf.Bytes(), 0o644); err != nil {
		return "", models.NewInternalError(err)
	}
	return name, nil
}

// Load reads a stored image back. The name must be one produced by Save;
// anything with a path separator is rejected.
func (s *ImageService) Load(name string) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return nil, models.NewValidationError("Invalid image name")
	}
	data, err := os.ReadFile(filepath.Join(s.uploadDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NewNotFoundError("image", name)
		}
		return nil, models.NewInternalError(err)
	}
	return data, nil
}

func isAllowedImageMIME(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
