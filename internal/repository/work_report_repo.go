package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
)

type WorkReportRepo struct {
	db *gorm.DB
}

func NewWorkReportRepo(db *gorm.DB) *WorkReportRepo {
	return &WorkReportRepo{db: db}
}

// Create stores the report and, when complaint is non-nil, the complaint it
// raised, linked to the new report. Both land or neither does.
func (r *WorkReportRepo) Create(ctx context.Context, report *models.WorkReport, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return translate(err, "work report")
		}
		if complaint == nil {
			return nil
		}
		complaint.WorkReportID = &report.ID
		return insertComplaint(tx, complaint)
	})
}

func (r *WorkReportRepo) FindByID(ctx context.Context, id uint) (*models.WorkReport, error) {
	var w models.WorkReport
	if err := r.db.WithContext(ctx).First(&w, id).Error; err != nil {
		return nil, translate(err, "work report")
	}
	return &w, nil
}

func (r *WorkReportRepo) Update(ctx context.Context, w *models.WorkReport) error {
	return translate(r.db.WithContext(ctx).Save(w).Error, "work report")
}

// Delete removes the report and its attachment rows. Complaints raised by
// the report keep living with the link cleared.
func (r *WorkReportRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.WorkReport{}, id)
		if res.Error != nil {
			return errs.Wrap(res.Error, "delete work report")
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("work report")
		}
		if err := tx.Where("work_report_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return errs.Wrap(err, "delete attachments")
		}
		return errs.Wrap(tx.Model(&models.Complaint{}).Where("work_report_id = ?", id).
			Update("work_report_id", nil).Error, "unlink complaints")
	})
}

func (r *WorkReportRepo) filtered(ctx context.Context, q ListQuery) (*gorm.DB, error) {
	tx := scoped(r.db.WithContext(ctx).Model(&models.WorkReport{}), "author_id", q)
	if q.Month != "" {
		start, end, err := ParseMonth(q.Month, q.Location)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("date >= ? AND date < ?", start.Format(models.DateLayout), end.Format(models.DateLayout))
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	return search(tx, q.Search, "station", "section", "author_name", "gear_id", "failure_gear_id", "activities"), nil
}

func (r *WorkReportRepo) List(ctx context.Context, q ListQuery) ([]models.WorkReport, int64, error) {
	q.Normalize()
	tx, err := r.filtered(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return list[models.WorkReport](tx, q, "date DESC, id DESC")
}

// FailureCandidates returns failure reports by author at station dated on
// date, newest first. They are the pool a complaint without a stored link
// is matched against.
func (r *WorkReportRepo) FailureCandidates(ctx context.Context, authorID uint, station, date string) ([]models.WorkReport, error) {
	var rows []models.WorkReport
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND station = ? AND date = ? AND failure_occurred = ?", authorID, station, date, true).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, errs.Wrap(err, "load failure reports")
}

type WorkReportCounts struct {
	Total         int64 `json:"total"`
	ThisMonth     int64 `json:"thisMonth"`
	PendingReview int64 `json:"pendingReview"`
}

func (r *WorkReportRepo) Counts(ctx context.Context, q ListQuery, now time.Time) (WorkReportCounts, error) {
	var c WorkReportCounts
	base := func() *gorm.DB {
		return scoped(r.db.WithContext(ctx).Model(&models.WorkReport{}), "author_id", q)
	}
	if err := base().Count(&c.Total).Error; err != nil {
		return c, errs.Wrap(err, "count work reports")
	}
	if q.Location != nil {
		now = now.In(q.Location)
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := base().Where("date >= ? AND date < ?", start.Format(models.DateLayout),
		start.AddDate(0, 1, 0).Format(models.DateLayout)).Count(&c.ThisMonth).Error; err != nil {
		return c, errs.Wrap(err, "count work reports this month")
	}
	if err := base().Where("status = ?", models.ReportSubmitted).Count(&c.PendingReview).Error; err != nil {
		return c, errs.Wrap(err, "count pending work reports")
	}
	return c, nil
}
