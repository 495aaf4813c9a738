package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
)

// AssetModel is satisfied by pointers to the five registry types.
type AssetModel[T any] interface {
	*T
	Kind() models.AssetKind
	Base() *models.AssetBase
	Validate() error
}

type AssetQuery struct {
	Search  string
	Station string
	Status  string
	Page    int
	Limit   int
}

// AssetRepo stores one registry. The (station, identifier) pair is checked
// before writes and also enforced by a unique index.
type AssetRepo[T any, P AssetModel[T]] struct {
	db *gorm.DB
}

func NewAssetRepo[T any, P AssetModel[T]](db *gorm.DB) *AssetRepo[T, P] {
	return &AssetRepo[T, P]{db: db}
}

func (r *AssetRepo[T, P]) what() string {
	var zero T
	return "asset " + string(P(&zero).Kind())
}

func (r *AssetRepo[T, P]) ensureUnique(tx *gorm.DB, a P) error {
	b := a.Base()
	var n int64
	q := tx.Model(new(T)).Where("station = ? AND identifier = ?", b.Station, b.Identifier)
	if b.ID != 0 {
		q = q.Where("id <> ?", b.ID)
	}
	if err := q.Count(&n).Error; err != nil {
		return errs.Wrap(err, "check duplicate asset")
	}
	if n > 0 {
		return errs.Conflict(b.Identifier + " already exists at " + b.Station)
	}
	return nil
}

func (r *AssetRepo[T, P]) Create(ctx context.Context, a P) error {
	tx := r.db.WithContext(ctx)
	if err := r.ensureUnique(tx, a); err != nil {
		return err
	}
	return translate(tx.Create(a).Error, r.what())
}

func (r *AssetRepo[T, P]) FindByID(ctx context.Context, id uint) (P, error) {
	a := P(new(T))
	if err := r.db.WithContext(ctx).First(a, id).Error; err != nil {
		return nil, translate(err, r.what())
	}
	return a, nil
}

func (r *AssetRepo[T, P]) Update(ctx context.Context, a P) error {
	tx := r.db.WithContext(ctx)
	if err := r.ensureUnique(tx, a); err != nil {
		return err
	}
	return translate(tx.Save(a).Error, r.what())
}

func (r *AssetRepo[T, P]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return errs.Wrap(res.Error, "delete "+r.what())
	}
	if res.RowsAffected == 0 {
		return errs.NotFound(r.what())
	}
	return nil
}

func (r *AssetRepo[T, P]) List(ctx context.Context, aq AssetQuery) ([]T, int64, error) {
	q := ListQuery{Unrestricted: true, Page: aq.Page, Limit: aq.Limit}
	q.Normalize()
	tx := r.db.WithContext(ctx).Model(new(T))
	if aq.Station != "" {
		tx = tx.Where("station = ?", aq.Station)
	}
	if aq.Status != "" {
		tx = tx.Where("status = ?", aq.Status)
	}
	tx = search(tx, aq.Search, "identifier", "station", "section", "make", "model", "serial_no")
	return list[T](tx, q, "station ASC, identifier ASC")
}

func (r *AssetRepo[T, P]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(new(T)).Count(&n).Error
	return n, errs.Wrap(err, "count "+r.what())
}
