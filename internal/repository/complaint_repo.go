package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
)

type ComplaintRepo struct {
	db *gorm.DB
}

func NewComplaintRepo(db *gorm.DB) *ComplaintRepo {
	return &ComplaintRepo{db: db}
}

// insertComplaint creates c and stamps its number, which depends on the id.
func insertComplaint(tx *gorm.DB, c *models.Complaint) error {
	if c.Status == "" {
		c.Status = models.ComplaintOpen
	}
	if err := tx.Create(c).Error; err != nil {
		return translate(err, "complaint")
	}
	c.AssignNumber()
	return errs.Wrap(tx.Model(c).Update("complaint_no", c.ComplaintNo).Error, "number complaint")
}

func (r *ComplaintRepo) Create(ctx context.Context, c *models.Complaint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertComplaint(tx, c)
	})
}

func (r *ComplaintRepo) FindByID(ctx context.Context, id uint) (*models.Complaint, error) {
	var c models.Complaint
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err, "complaint")
	}
	return &c, nil
}

func (r *ComplaintRepo) Update(ctx context.Context, c *models.Complaint) error {
	return translate(r.db.WithContext(ctx).Save(c).Error, "complaint")
}

func (r *ComplaintRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Complaint{}, id)
	if res.Error != nil {
		return errs.Wrap(res.Error, "delete complaint")
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("complaint")
	}
	return nil
}

func (r *ComplaintRepo) List(ctx context.Context, q ListQuery) ([]models.Complaint, int64, error) {
	q.Normalize()
	tx := scoped(r.db.WithContext(ctx).Model(&models.Complaint{}), "author_id", q)
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
	tx = search(tx, q.Search, "complaint_no", "station", "author_name", "gear_id", "description")
	return list[models.Complaint](tx, q, "created_at DESC, id DESC")
}

type ComplaintCounts struct {
	Open       int64 `json:"open"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
}

func (r *ComplaintRepo) Counts(ctx context.Context, q ListQuery) (ComplaintCounts, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := scoped(r.db.WithContext(ctx).Model(&models.Complaint{}), "author_id", q).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return ComplaintCounts{}, errs.Wrap(err, "count complaints")
	}
	var c ComplaintCounts
	for _, row := range rows {
		switch row.Status {
		case models.ComplaintOpen:
			c.Open = row.N
		case models.ComplaintInProgress:
			c.InProgress = row.N
		case models.ComplaintResolved:
			c.Resolved = row.N
		}
	}
	return c, nil
}
