package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
)

// Asset is any registry record.
type Asset interface {
	Kind() models.AssetKind
	Base() *models.AssetBase
}

// AssetRegistry is one asset kind's operations with the concrete type
// erased, so handlers and approvals can work on any kind by name.
type AssetRegistry interface {
	Kind() models.AssetKind
	List(ctx context.Context, q repository.AssetQuery) (any, error)
	Get(ctx context.Context, id uint) (Asset, error)
	Create(ctx context.Context, claims *auth.Claims, raw json.RawMessage) (Asset, error)
	Update(ctx context.Context, claims *auth.Claims, id uint, raw json.RawMessage) (Asset, error)
	Delete(ctx context.Context, id uint) error
	Validate(raw json.RawMessage) error
	Count(ctx context.Context) (int64, error)
}

type AssetService[T any, P repository.AssetModel[T]] struct {
	repo *repository.AssetRepo[T, P]
}

func NewAssetService[T any, P repository.AssetModel[T]](repo *repository.AssetRepo[T, P]) *AssetService[T, P] {
	return &AssetService[T, P]{repo: repo}
}

func (s *AssetService[T, P]) Kind() models.AssetKind {
	var zero T
	return P(&zero).Kind()
}

func (s *AssetService[T, P]) decode(raw json.RawMessage) (P, error) {
	a := P(new(T))
	if len(raw) == 0 {
		return nil, errs.Invalid("asset body is required")
	}
	if err := json.Unmarshal(raw, a); err != nil {
		return nil, errs.Invalid("invalid asset body")
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssetService[T, P]) Validate(raw json.RawMessage) error {
	_, err := s.decode(raw)
	return err
}

func (s *AssetService[T, P]) List(ctx context.Context, q repository.AssetQuery) (any, error) {
	q.Page, q.Limit = repository.NormalizePage(q.Page, q.Limit)
	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return models.NewPage(rows, total, q.Page, q.Limit), nil
}

func (s *AssetService[T, P]) Get(ctx context.Context, id uint) (Asset, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssetService[T, P]) Create(ctx context.Context, claims *auth.Claims, raw json.RawMessage) (Asset, error) {
	a, err := s.decode(raw)
	if err != nil {
		return nil, err
	}
	b := a.Base()
	b.ID = 0
	b.CreatedBy = claims.UserID
	b.CreatedAt, b.UpdatedAt = time.Time{}, time.Time{}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces every editable field of asset id.
func (s *AssetService[T, P]) Update(ctx context.Context, claims *auth.Claims, id uint, raw json.RawMessage) (Asset, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a, err := s.decode(raw)
	if err != nil {
		return nil, err
	}
	b, old := a.Base(), existing.Base()
	b.ID = old.ID
	b.CreatedBy = old.CreatedBy
	b.CreatedAt = old.CreatedAt
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssetService[T, P]) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *AssetService[T, P]) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// AssetCatalog looks registries up by the kind segment of the URL.
type AssetCatalog struct {
	byKind map[models.AssetKind]AssetRegistry
}

func NewAssetCatalog(registries ...AssetRegistry) *AssetCatalog {
	c := &AssetCatalog{byKind: make(map[models.AssetKind]AssetRegistry, len(registries))}
	for _, r := range registries {
		c.byKind[r.Kind()] = r
	}
	return c
}

func (c *AssetCatalog) Get(kind models.AssetKind) (AssetRegistry, error) {
	r, ok := c.byKind[kind]
	if !ok {
		return nil, errs.NotFound("asset kind " + string(kind))
	}
	return r, nil
}

// Kinds returns the registered kinds in a stable order.
func (c *AssetCatalog) Kinds() []models.AssetKind {
	kinds := make([]models.AssetKind, 0, len(c.byKind))
	for k := range c.byKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
