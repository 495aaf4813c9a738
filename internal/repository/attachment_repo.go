package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
)

type AttachmentRepo struct {
	db *gorm.DB
}

func NewAttachmentRepo(db *gorm.DB) *AttachmentRepo {
	return &AttachmentRepo{db: db}
}

func (r *AttachmentRepo) Create(ctx context.Context, a *models.Attachment) error {
	return translate(r.db.WithContext(ctx).Create(a).Error, "attachment")
}

func (r *AttachmentRepo) FindByID(ctx context.Context, id uint) (*models.Attachment, error) {
	var a models.Attachment
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err, "attachment")
	}
	return &a, nil
}

func (r *AttachmentRepo) FindByWorkReport(ctx context.Context, reportID uint) ([]models.Attachment, error) {
	rows := []models.Attachment{}
	err := r.db.WithContext(ctx).Where("work_report_id = ?", reportID).Order("id").Find(&rows).Error
	return rows, errs.Wrap(err, "load attachments")
}

func (r *AttachmentRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Attachment{}, id)
	if res.Error != nil {
		return errs.Wrap(res.Error, "delete attachment")
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("attachment")
	}
	return nil
}
