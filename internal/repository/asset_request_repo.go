package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
)

type AssetRequestRepo struct {
	db *gorm.DB
}

func NewAssetRequestRepo(db *gorm.DB) *AssetRequestRepo {
	return &AssetRequestRepo{db: db}
}

func (r *AssetRequestRepo) Create(ctx context.Context, req *models.AssetRequest) error {
	return translate(r.db.WithContext(ctx).Create(req).Error, "asset request")
}

func (r *AssetRequestRepo) FindByID(ctx context.Context, id uint) (*models.AssetRequest, error) {
	var req models.AssetRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, translate(err, "asset request")
	}
	return &req, nil
}

// Decide moves a pending request to its final status. It fails with a
// conflict when another decision got there first.
func (r *AssetRequestRepo) Decide(ctx context.Context, req *models.AssetRequest) error {
	res := r.db.WithContext(ctx).Model(&models.AssetRequest{}).
		Where("id = ? AND status = ?", req.ID, models.RequestPending).
		Updates(map[string]any{
			"status":           req.Status,
			"asset_id":         req.AssetID,
			"decided_by":       req.DecidedBy,
			"decided_by_name":  req.DecidedByName,
			"decided_at":       req.DecidedAt,
			"decision_remarks": req.DecisionRemarks,
		})
	if res.Error != nil {
		return errs.Wrap(res.Error, "decide asset request")
	}
	if res.RowsAffected == 0 {
		return errs.Conflict("asset request is no longer pending")
	}
	return nil
}

func (r *AssetRequestRepo) List(ctx context.Context, q ListQuery, kind models.AssetKind) ([]models.AssetRequest, int64, error) {
	q.Normalize()
	tx := scoped(r.db.WithContext(ctx).Model(&models.AssetRequest{}), "requested_by", q)
	if kind != "" {
		tx = tx.Where("kind = ?", kind)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	tx = search(tx, q.Search, "requested_by_name", "reason")
	return list[models.AssetRequest](tx, q, "created_at DESC, id DESC")
}

func (r *AssetRequestRepo) CountPending(ctx context.Context, q ListQuery) (int64, error) {
	var n int64
	err := scoped(r.db.WithContext(ctx).Model(&models.AssetRequest{}), "requested_by", q).
		Where("status = ?", models.RequestPending).
		Count(&n).Error
	return n, errs.Wrap(err, "count pending asset requests")
}
