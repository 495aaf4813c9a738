package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
)

type AssetRequestService struct {
	requests *repository.AssetRequestRepo
	catalog  *AssetCatalog
	users    *UserService
	now      func() time.Time
}

func NewAssetRequestService(requests *repository.AssetRequestRepo, catalog *AssetCatalog, users *UserService) *AssetRequestService {
	return &AssetRequestService{requests: requests, catalog: catalog, users: users, now: time.Now}
}

type AssetRequestInput struct {
	Kind    models.AssetKind `json:"kind"`
	AssetID *uint            `json:"assetId"`
	Action  string           `json:"action"`
	Payload json.RawMessage  `json:"payload"`
	Reason  string           `json:"reason"`
}

func (s *AssetRequestService) Create(ctx context.Context, claims *auth.Claims, in AssetRequestInput) (*models.AssetRequest, error) {
	if !in.Kind.Valid() {
		return nil, errs.Invalidf("unknown asset kind %q", in.Kind)
	}
	reg, err := s.catalog.Get(in.Kind)
	if err != nil {
		return nil, err
	}
	switch in.Action {
	case models.RequestCreate, models.RequestUpdate, models.RequestDelete:
	default:
		return nil, errs.Invalidf("unknown action %q", in.Action)
	}

	if in.Action != models.RequestCreate {
		if in.AssetID == nil || *in.AssetID == 0 {
			return nil, errs.Invalid("assetId is required for " + in.Action)
		}
		if _, err := reg.Get(ctx, *in.AssetID); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return nil, errs.Invalidf("%s %d does not exist", in.Kind, *in.AssetID)
			}
			return nil, err
		}
	} else {
		in.AssetID = nil
	}

	var payload datatypes.JSON
	if in.Action != models.RequestDelete {
		if isEmptyJSON(in.Payload) {
			return nil, errs.Invalid("payload is required for " + in.Action)
		}
		if err := reg.Validate(in.Payload); err != nil {
			return nil, err
		}
		payload = datatypes.JSON(in.Payload)
	}

	req := &models.AssetRequest{
		Kind:            in.Kind,
		AssetID:         in.AssetID,
		Action:          in.Action,
		Payload:         payload,
		Reason:          strings.TrimSpace(in.Reason),
		RequestedBy:     claims.UserID,
		RequestedByName: claims.Name,
		Status:          models.RequestPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *AssetRequestService) List(ctx context.Context, claims *auth.Claims, f ListFilter, kind models.AssetKind) (models.Page[models.AssetRequest], error) {
	if kind != "" && !kind.Valid() {
		return models.Page[models.AssetRequest]{}, errs.Invalidf("unknown asset kind %q", kind)
	}
	q, err := s.users.ListQuery(ctx, claims, f)
	if err != nil {
		return models.Page[models.AssetRequest]{}, err
	}
	rows, total, err := s.requests.List(ctx, q, kind)
	if err != nil {
		return models.Page[models.AssetRequest]{}, err
	}
	return models.NewPage(rows, total, q.Page, q.Limit), nil
}

// decidable loads a pending request the caller may decide on: a supervisor
// with the requester in scope, never their own request unless admin.
func (s *AssetRequestService) decidable(ctx context.Context, claims *auth.Claims, id uint) (*models.AssetRequest, error) {
	if !claims.Role.IsSupervisor() {
		return nil, errs.Forbidden("only supervisors can decide asset requests")
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RequestedBy == claims.UserID && claims.Role != models.RoleAdmin {
		return nil, errs.Forbidden("you cannot decide your own request")
	}
	ok, err := s.users.CanSee(ctx, claims, req.RequestedBy)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Forbidden("requester is outside your reporting hierarchy")
	}
	if req.Status != models.RequestPending {
		return nil, errs.Conflict("asset request is already " + req.Status)
	}
	return req, nil
}

// Approve applies the requested change to the registry, then records the
// decision. A failed change leaves the request pending.
func (s *AssetRequestService) Approve(ctx context.Context, claims *auth.Claims, id uint, remarks string) (*models.AssetRequest, error) {
	req, err := s.decidable(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	reg, err := s.catalog.Get(req.Kind)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case models.RequestCreate:
		a, err := reg.Create(ctx, claims, json.RawMessage(req.Payload))
		if err != nil {
			return nil, err
		}
		assetID := a.Base().ID
		req.AssetID = &assetID
	case models.RequestUpdate:
		if _, err := reg.Update(ctx, claims, *req.AssetID, json.RawMessage(req.Payload)); err != nil {
			return nil, err
		}
	case models.RequestDelete:
		if err := reg.Delete(ctx, *req.AssetID); err != nil {
			return nil, err
		}
	}

	if err := s.decide(ctx, claims, req, models.RequestApproved, remarks); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().
		Uint("request_id", req.ID).
		Str("kind", string(req.Kind)).
		Str("action", req.Action).
		Msg("asset request applied")
	return req, nil
}

func (s *AssetRequestService) Reject(ctx context.Context, claims *auth.Claims, id uint, remarks string) (*models.AssetRequest, error) {
	req, err := s.decidable(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	if err := s.decide(ctx, claims, req, models.RequestRejected, remarks); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *AssetRequestService) decide(ctx context.Context, claims *auth.Claims, req *models.AssetRequest, status, remarks string) error {
	now := s.now().UTC()
	decider := claims.UserID
	req.Status = status
	req.DecidedBy = &decider
	req.DecidedByName = claims.Name
	req.DecidedAt = &now
	req.DecisionRemarks = strings.TrimSpace(remarks)
	return s.requests.Decide(ctx, req)
}

func isEmptyJSON(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "{}":
		return true
	}
	return false
}
