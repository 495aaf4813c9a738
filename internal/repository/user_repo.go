package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error, "user")
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, errs.Wrap(err, "count users by email")
	}
	return n > 0, nil
}

func (r *UserRepo) Update(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Save(u).Error, "user")
}

func (r *UserRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return errs.Wrap(res.Error, "delete user")
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("user")
		}
		// Direct reports move up to nobody rather than pointing at a ghost.
		return errs.Wrap(tx.Model(&models.User{}).Where("supervisor_id = ?", id).
			Update("supervisor_id", nil).Error, "detach reports")
	})
}

// List pages through the users in q's scope, matched by id not author.
func (r *UserRepo) List(ctx context.Context, q ListQuery) ([]models.User, int64, error) {
	q.Normalize()
	tx := scoped(r.db.WithContext(ctx).Model(&models.User{}), "id", q)
	tx = search(tx, q.Search, "name", "email", "station", "designation")
	return list[models.User](tx, q, "id ASC")
}

// ReportIDs returns the ids of users whose supervisor is one of supervisorIDs.
func (r *UserRepo) ReportIDs(ctx context.Context, supervisorIDs []uint) ([]uint, error) {
	if len(supervisorIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("supervisor_id IN ?", supervisorIDs).
		Order("id").
		Pluck("id", &ids).Error
	return ids, errs.Wrap(err, "load direct reports")
}

func (r *UserRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&users).Error
	return users, errs.Wrap(err, "load users")
}

// FindActiveByRoles lists active users holding any of roles, seniors first.
func (r *UserRepo) FindActiveByRoles(ctx context.Context, roles []models.Role) ([]models.User, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role IN ? AND active = ?", roles, true).
		Order("name").
		Find(&users).Error
	return users, errs.Wrap(err, "load users by role")
}
