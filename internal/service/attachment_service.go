package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
)

// MaxAttachmentSize caps a single uploaded file.
const MaxAttachmentSize = 12 << 20

type AttachmentService struct {
	attachments *repository.AttachmentRepo
	reports     *WorkReportService
	blobs       BlobStore
}

// NewAttachmentService wires file storage. With a nil blobs every operation
// reports the store as unavailable.
func NewAttachmentService(attachments *repository.AttachmentRepo, reports *WorkReportService, blobs BlobStore) *AttachmentService {
	return &AttachmentService{attachments: attachments, reports: reports, blobs: blobs}
}

func (s *AttachmentService) ready() error {
	if s.blobs == nil {
		return errs.Unavailable("attachment storage is not configured")
	}
	return nil
}

func (s *AttachmentService) Upload(ctx context.Context, claims *auth.Claims, reportID uint, fileName string, data []byte, contentType string) (*models.Attachment, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if _, err := s.reports.Visible(ctx, claims, reportID); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errs.Invalid("file data is empty")
	}
	if len(data) > MaxAttachmentSize {
		return nil, errs.Invalidf("file exceeds %d MB", MaxAttachmentSize>>20)
	}
	fileName = filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if fileName == "." || fileName == "/" || fileName == "" {
		return nil, errs.Invalid("file name is required")
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = detectContentType(fileName)
	}

	blobKey := fmt.Sprintf("%s_%s", uuid.New().String(), fileName)
	if err := s.blobs.Put(ctx, blobKey, data, contentType); err != nil {
		return nil, errs.Wrap(err, "upload blob")
	}

	a := &models.Attachment{
		WorkReportID: reportID,
		FileName:     fileName,
		ContentType:  contentType,
		Size:         int64(len(data)),
		BlobKey:      blobKey,
		UploadedBy:   claims.UserID,
	}
	if err := s.attachments.Create(ctx, a); err != nil {
		if derr := s.blobs.Delete(ctx, blobKey); derr != nil {
			zerolog.Ctx(ctx).Warn().Err(derr).Str("blob_key", blobKey).Msg("orphaned attachment blob")
		}
		return nil, err
	}
	return a, nil
}

func (s *AttachmentService) Download(ctx context.Context, claims *auth.Claims, id uint) ([]byte, *models.Attachment, error) {
	if err := s.ready(); err != nil {
		return nil, nil, err
	}
	a, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.reports.Visible(ctx, claims, a.WorkReportID); err != nil {
		return nil, nil, err
	}
	data, err := s.blobs.Get(ctx, a.BlobKey)
	if err != nil {
		return nil, nil, errs.Wrap(err, "download blob")
	}
	return data, a, nil
}

func (s *AttachmentService) Delete(ctx context.Context, claims *auth.Claims, id uint) error {
	if err := s.ready(); err != nil {
		return err
	}
	a, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if a.UploadedBy != claims.UserID && claims.Role != models.RoleAdmin {
		return errs.Forbidden("only the uploader or an admin can delete an attachment")
	}
	if err := s.attachments.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, a.BlobKey); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("blob_key", a.BlobKey).Msg("orphaned attachment blob")
	}
	return nil
}

func detectContentType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	types := map[string]string{
		".pdf":  "application/pdf",
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".gif":  "image/gif",
		".webp": "image/webp",
		".heic": "image/heic",
		".mp4":  "video/mp4",
		".doc":  "application/msword",
		".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		".xls":  "application/vnd.ms-excel",
		".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		".csv":  "text/csv",
		".txt":  "text/plain",
		".log":  "text/plain",
	}
	if ct, ok := types[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
