package service

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/wisnuvb/calmsey/internal/db"
	"golang.org/x/image/draw"
	"gorm.io/gorm"
)

var (
	ErrMediaNotFound    = errors.New("media not found")
	ErrMediaUnsupported = errors.New("unsupported media type")
)

// 缩略图最长边，保持纵横比缩放。
const thumbMaxEdge = 320

var allowedMediaTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/svg+xml":   ".svg",
	"application/pdf": ".pdf",
}

// MediaService stores uploads on disk and tracks them in the database.
type MediaService struct {
	db        *gorm.DB
	uploadDir string
	urlPath   string
}

// NewMediaService creates a MediaService writing files under uploadDir and
// serving them from urlPath.
func NewMediaService(gdb *gorm.DB, uploadDir, urlPath string) *MediaService {
	return &MediaService{
		db:        gdb,
		uploadDir: uploadDir,
		urlPath:   strings.TrimSuffix(urlPath, "/"),
	}
}

// List returns uploads newest first.
func (s *MediaService) List(page, pageSize int) ([]db.Media, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 24
	}

	var total int64
	if err := s.db.Model(&db.Media{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var media []db.Media
	err := s.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&media).Error
	if err != nil {
		return nil, 0, err
	}
	return media, total, nil
}

// Get fetches one upload record.
func (s *MediaService) Get(id uint) (*db.Media, error) {
	var media db.Media
	if err := s.db.First(&media, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return &media, nil
}

// Save writes an upload to disk under a fresh UUID name, generates a
// thumbnail for raster images, and records the result.
func (s *MediaService) Save(r io.Reader, originalName, mimeType string, uploaderID uint) (*db.Media, error) {
	ext, ok := allowedMediaTypes[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMediaUnsupported, mimeType)
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	fileName := uuid.NewString() + ext
	fullPath := filepath.Join(s.uploadDir, fileName)

	out, err := os.Create(fullPath)
	if err != nil {
		return nil, err
	}
	size, err := io.Copy(out, r)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(fullPath)
		return nil, err
	}

	media := db.Media{
		FileName:     fileName,
		OriginalName: originalName,
		MimeType:     mimeType,
		SizeBytes:    size,
		URL:          s.urlPath + "/" + fileName,
		UploaderID:   uploaderID,
	}

	if mimeType == "image/jpeg" || mimeType == "image/png" {
		thumbName, err := s.writeThumbnail(fullPath, fileName, mimeType)
		if err == nil {
			media.ThumbURL = s.urlPath + "/" + thumbName
		}
		// 缩略图失败不阻断上传，原图仍然可用。
	}

	if err := s.db.Create(&media).Error; err != nil {
		os.Remove(fullPath)
		return nil, err
	}
	return &media, nil
}

// Delete removes the record and best-effort unlinks the files.
func (s *MediaService) Delete(id uint) error {
	media, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(media).Error; err != nil {
		return err
	}

	os.Remove(filepath.Join(s.uploadDir, media.FileName))
	if media.ThumbURL != "" {
		os.Remove(filepath.Join(s.uploadDir, "thumb_"+media.FileName))
	}
	return nil
}

func (s *MediaService) writeThumbnail(fullPath, fileName, mimeType string) (string, error) {
	in, err := os.Open(fullPath)
	if err != nil {
		return "", err
	}
	defer in.Close()

	src, _, err := image.Decode(in)
	if err != nil {
		return "", err
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= thumbMaxEdge && height <= thumbMaxEdge {
		return "", errors.New("image already within thumbnail bounds")
	}

	if width >= height {
		height = height * thumbMaxEdge / width
		width = thumbMaxEdge
	} else {
		width = width * thumbMaxEdge / height
		height = thumbMaxEdge
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	thumbName := "thumb_" + fileName
	out, err := os.Create(filepath.Join(s.uploadDir, thumbName))
	if err != nil {
		return "", err
	}
	defer out.Close()

	switch mimeType {
	case "image/png":
		err = png.Encode(out, dst)
	default:
		err = jpeg.Encode(out, dst, &jpeg.Options{Quality: 82})
	}
	if err != nil {
		return "", err
	}
	return thumbName, nil
}
