package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"codetrek/internal/common"
	"codetrek/internal/domain/model"
	"codetrek/internal/domain/repository"
	"codetrek/internal/platform/logger"
	"codetrek/internal/platform/storage"

	"github.com/google/uuid"
)

const (
	defaultContentType = "application/octet-stream"
	maxFileNameLength  = 255
	maxFileTypeLength  = 100
)

type UploadService struct {
	files   repository.FileRepository
	backend storage.Backend
	log     *logger.Logger
	now     func() time.Time
}

func NewUploadService(files repository.FileRepository, backend storage.Backend, log *logger.Logger) *UploadService {
	if log == nil {
		log = logger.Nop()
	}
	return &UploadService{
		files:   files,
		backend: backend,
		log:     log.With("service", "UploadService"),
		now:     time.Now,
	}
}

type UploadInput struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// Upload stores the bytes and records their metadata. The returned FileURL
// comes from the backend and may be relative to the serving host.
func (s *UploadService) Upload(ctx context.Context, userID string, in *UploadInput) (*model.UploadedFile, error) {
	if in == nil || in.Body == nil {
		return nil, common.NewError(common.ErrBadRequest, "No file provided")
	}
	contentType := strings.TrimSpace(in.ContentType)
	if contentType == "" {
		contentType = defaultContentType
	}
	v := &common.ValidationError{}
	if utf8.RuneCountInString(in.FileName) > maxFileNameLength {
		v.Add("file", fmt.Sprintf("Ensure this filename has at most %d characters.", maxFileNameLength))
	}
	if utf8.RuneCountInString(contentType) > maxFileTypeLength {
		v.Add("file", fmt.Sprintf("Ensure the content type has at most %d characters.", maxFileTypeLength))
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	obj, err := s.backend.Save(ctx, storage.UploadKey(in.FileName), contentType, in.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	f := &model.UploadedFile{
		ID:         uuid.NewString(),
		UserID:     userID,
		File:       obj.Key,
		FileName:   in.FileName,
		FileType:   contentType,
		UploadedAt: s.now().UTC().Truncate(time.Microsecond),
		FileURL:    obj.URL,
	}
	if err := s.files.Create(ctx, f); err != nil {
		if delErr := s.backend.Delete(context.WithoutCancel(ctx), obj.Key); delErr != nil {
			s.log.Error("Failed to remove unrecorded upload", "key", obj.Key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}
	s.log.Info("File uploaded", "user_id", userID, "key", obj.Key, "type", contentType)
	return f, nil
}
