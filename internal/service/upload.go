package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/phongtro/phongtro/internal/domain"
)

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// UploadService uploads listing photos from disk
type UploadService struct {
	repo   domain.UploadRepository
	logger *slog.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(repo domain.UploadRepository, logger *slog.Logger) *UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadService{repo: repo, logger: logger}
}

// Upload reads the image files at paths and returns their public URLs
func (s *UploadService) Upload(ctx context.Context, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	files := make([]domain.ImageFile, 0, len(paths))
	for _, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		if !imageExtensions[ext] {
			closeAll(files)
			return nil, fmt.Errorf("%w: %s is not a supported image", domain.ErrInvalidInput, filepath.Base(path))
		}

		f, err := os.Open(path)
		if err != nil {
			closeAll(files)
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		files = append(files, domain.ImageFile{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(ext),
			Body:        f,
		})
	}
	defer closeAll(files)

	urls, err := s.repo.UploadImages(ctx, files)
	if err != nil {
		s.logger.Error("failed to upload images", "error", err, "count", len(files))
		return nil, err
	}
	s.logger.Info("uploaded images", "count", len(urls))
	return urls, nil
}

func closeAll(files []domain.ImageFile) {
	for _, f := range files {
		if c, ok := f.Body.(*os.File); ok {
			c.Close()
		}
	}
}
