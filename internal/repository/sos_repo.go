package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
)

type SOSRepo struct {
	db *gorm.DB
}

func NewSOSRepo(db *gorm.DB) *SOSRepo {
	return &SOSRepo{db: db}
}

func (r *SOSRepo) Create(ctx context.Context, a *models.SOSAlert) error {
	return translate(r.db.WithContext(ctx).Create(a).Error, "sos alert")
}

func (r *SOSRepo) FindByID(ctx context.Context, id uint) (*models.SOSAlert, error) {
	var a models.SOSAlert
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err, "sos alert")
	}
	return &a, nil
}

func (r *SOSRepo) Update(ctx context.Context, a *models.SOSAlert) error {
	return translate(r.db.WithContext(ctx).Save(a).Error, "sos alert")
}

func (r *SOSRepo) List(ctx context.Context, q ListQuery) ([]models.SOSAlert, int64, error) {
	q.Normalize()
	tx := scoped(r.db.WithContext(ctx).Model(&models.SOSAlert{}), "raised_by", q)
	if q.Month != "" {
		start, end, err := ParseMonth(q.Month, q.Location)
		if err != nil {
			return nil, 0, err
		}
		tx = tx.Where("created_at >= ? AND created_at < ?", start.UTC(), end.UTC())
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	tx = search(tx, q.Search, "raised_by_name", "station", "message")
	return list[models.SOSAlert](tx, q, "created_at DESC, id DESC")
}

func (r *SOSRepo) CountActive(ctx context.Context, q ListQuery) (int64, error) {
	var n int64
	err := scoped(r.db.WithContext(ctx).Model(&models.SOSAlert{}), "raised_by", q).
		Where("status = ?", models.SOSActive).
		Count(&n).Error
	return n, errs.Wrap(err, "count active sos alerts")
}
