package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/notify"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
)

const (
	defaultSOSMessage = "Emergency assistance required"
	dispatchTimeout   = 15 * time.Second
)

type SOSService struct {
	alerts   *repository.SOSRepo
	userRepo *repository.UserRepo
	users    *UserService
	notifier notify.Notifier
	alwaysCC []string
	now      func() time.Time
}

// NewSOSService wires alert storage and dispatch. alwaysCC is appended to
// every alert's recipients.
func NewSOSService(alerts *repository.SOSRepo, userRepo *repository.UserRepo, users *UserService, notifier notify.Notifier, alwaysCC []string) *SOSService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &SOSService{
		alerts:   alerts,
		userRepo: userRepo,
		users:    users,
		notifier: notifier,
		alwaysCC: alwaysCC,
		now:      time.Now,
	}
}

type SOSInput struct {
	Message   string   `json:"message"`
	Station   string   `json:"station"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (in SOSInput) validate() error {
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return errs.Invalid("latitude and longitude go together")
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return errs.Invalid("latitude must be between -90 and 90")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return errs.Invalid("longitude must be between -180 and 180")
	}
	return nil
}

// Raise stores an alert and dispatches it. Dispatch problems are logged and
// leave the alert marked as not notified.
func (s *SOSService) Raise(ctx context.Context, claims *auth.Claims, in SOSInput) (*models.SOSAlert, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	raiser, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	alert := &models.SOSAlert{
		RaisedBy:     raiser.ID,
		RaisedByName: raiser.Name,
		Role:         raiser.Role,
		Phone:        raiser.Phone,
		Station:      strings.TrimSpace(in.Station),
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Message:      strings.TrimSpace(in.Message),
		Status:       models.SOSActive,
	}
	if alert.Station == "" {
		alert.Station = raiser.Station
	}
	if alert.Message == "" {
		alert.Message = defaultSOSMessage
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}

	log := zerolog.Ctx(ctx)
	recipients, err := s.Recipients(ctx, raiser)
	if err != nil {
		log.Error().Err(err).Uint("sos_id", alert.ID).Msg("resolve sos recipients")
		return alert, nil
	}
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()
	if err := s.notifier.NotifySOS(dctx, alert, recipients); err != nil {
		log.Error().Err(err).Uint("sos_id", alert.ID).Strs("recipients", recipients).Msg("sos dispatch failed")
		return alert, nil
	}
	alert.Notified = true
	alert.NotifiedEmails = strings.Join(recipients, ",")
	if err := s.alerts.Update(ctx, alert); err != nil {
		log.Error().Err(err).Uint("sos_id", alert.ID).Msg("record sos dispatch")
	}
	log.Warn().Uint("sos_id", alert.ID).Str("raised_by", alert.RaisedByName).Int("recipients", len(recipients)).Msg("sos raised")
	return alert, nil
}

// Recipients is the raiser's supervisor chain plus the always-copied list,
// deduplicated case-insensitively and without the raiser.
func (s *SOSService) Recipients(ctx context.Context, raiser *models.User) ([]string, error) {
	chain, err := s.users.SupervisorChain(ctx, raiser.ID)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{strings.ToLower(raiser.Email): true}
	var out []string
	add := func(email string) {
		email = strings.TrimSpace(email)
		key := strings.ToLower(email)
		if email == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, email)
	}
	for _, sup := range chain {
		if sup.Active {
			add(sup.Email)
		}
	}
	for _, e := range s.alwaysCC {
		add(e)
	}
	return out, nil
}

func (s *SOSService) List(ctx context.Context, claims *auth.Claims, f ListFilter) (models.Page[models.SOSAlert], error) {
	q, err := s.users.ListQuery(ctx, claims, f)
	if err != nil {
		return models.Page[models.SOSAlert]{}, err
	}
	rows, total, err := s.alerts.List(ctx, q)
	if err != nil {
		return models.Page[models.SOSAlert]{}, err
	}
	return models.NewPage(rows, total, q.Page, q.Limit), nil
}

func (s *SOSService) Acknowledge(ctx context.Context, claims *auth.Claims, id uint) (*models.SOSAlert, error) {
	alert, err := s.alerts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert.RaisedBy == claims.UserID && claims.Role != models.RoleAdmin {
		return nil, errs.Forbidden("you cannot acknowledge your own sos")
	}
	ok, err := s.users.CanSee(ctx, claims, alert.RaisedBy)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Forbidden("sos is outside your reporting hierarchy")
	}
	if alert.Status != models.SOSActive {
		return nil, errs.Conflict("sos has already been acknowledged")
	}
	now := s.now().UTC()
	by := claims.UserID
	alert.Status = models.SOSAcknowledged
	alert.AcknowledgedBy = &by
	alert.AcknowledgedByName = claims.Name
	alert.AcknowledgedAt = &now
	if err := s.alerts.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}
