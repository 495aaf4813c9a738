package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
)

type ComplaintService struct {
	complaints *repository.ComplaintRepo
	reports    *repository.WorkReportRepo
	users      *UserService
	now        func() time.Time
}

func NewComplaintService(complaints *repository.ComplaintRepo, reports *repository.WorkReportRepo, users *UserService) *ComplaintService {
	return &ComplaintService{complaints: complaints, reports: reports, users: users, now: time.Now}
}

type ComplaintInput struct {
	Station     string     `json:"station"`
	GearType    string     `json:"gearType"`
	GearID      string     `json:"gearId"`
	Description string     `json:"description"`
	FailureAt   *time.Time `json:"failureAt"`
}

// ComplaintDetail is a complaint with the work report it came from. Matched
// is set when the report was found by heuristic rather than a stored link.
type ComplaintDetail struct {
	models.ComplaintView
	WorkReport *models.WorkReport `json:"workReport"`
	Matched    bool               `json:"matched"`
}

func (s *ComplaintService) List(ctx context.Context, claims *auth.Claims, f ListFilter) (models.Page[models.ComplaintView], error) {
	if f.Status != "" && !validComplaintStatus(f.Status) {
		return models.Page[models.ComplaintView]{}, errs.Invalidf("invalid complaint status %q", f.Status)
	}
	q, err := s.users.ListQuery(ctx, claims, f)
	if err != nil {
		return models.Page[models.ComplaintView]{}, err
	}
	rows, total, err := s.complaints.List(ctx, q)
	if err != nil {
		return models.Page[models.ComplaintView]{}, err
	}
	now := s.now()
	views := make([]models.ComplaintView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].View(now))
	}
	return models.NewPage(views, total, q.Page, q.Limit), nil
}

func (s *ComplaintService) Create(ctx context.Context, claims *auth.Claims, in ComplaintInput) (*models.ComplaintView, error) {
	in.Station = strings.TrimSpace(in.Station)
	in.Description = strings.TrimSpace(in.Description)
	if in.Station == "" || in.Description == "" {
		return nil, errs.Invalid("station and description are required")
	}
	c := &models.Complaint{
		AuthorID:    claims.UserID,
		AuthorName:  claims.Name,
		Station:     in.Station,
		GearType:    strings.TrimSpace(in.GearType),
		GearID:      strings.TrimSpace(in.GearID),
		Description: in.Description,
		FailureAt:   in.FailureAt,
		Status:      models.ComplaintOpen,
	}
	if err := s.complaints.Create(ctx, c); err != nil {
		return nil, err
	}
	view := c.View(s.now())
	return &view, nil
}

func (s *ComplaintService) visible(ctx context.Context, claims *auth.Claims, id uint) (*models.Complaint, error) {
	c, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.users.CanSee(ctx, claims, c.AuthorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Forbidden("complaint is outside your reporting hierarchy")
	}
	return c, nil
}

func (s *ComplaintService) Get(ctx context.Context, claims *auth.Claims, id uint) (*ComplaintDetail, error) {
	c, err := s.visible(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	detail := &ComplaintDetail{ComplaintView: c.View(s.now())}
	if c.WorkReportID != nil {
		w, err := s.reports.FindByID(ctx, *c.WorkReportID)
		switch {
		case err == nil:
			detail.WorkReport = w
			return detail, nil
		case !errors.Is(err, errs.ErrNotFound):
			return nil, err
		}
	}
	w, err := s.MatchReport(ctx, c)
	if err != nil {
		return nil, err
	}
	detail.WorkReport, detail.Matched = w, w != nil
	return detail, nil
}

// MatchReport finds the work report a complaint most likely came from: the
// same author and station, a failure logged on the day of the failure (or
// of the complaint) in the portal's time zone, preferring one naming the
// same gear. Newest wins.
func (s *ComplaintService) MatchReport(ctx context.Context, c *models.Complaint) (*models.WorkReport, error) {
	day := c.CreatedAt
	if c.FailureAt != nil {
		day = *c.FailureAt
	}
	candidates, err := s.reports.FailureCandidates(ctx, c.AuthorID, c.Station, day.In(s.users.Location()).Format(models.DateLayout))
	if err != nil || len(candidates) == 0 {
		return nil, err
	}
	if c.GearID != "" {
		for i := range candidates {
			if strings.EqualFold(candidates[i].FailureGearID, c.GearID) {
				return &candidates[i], nil
			}
		}
	}
	return &candidates[0], nil
}

// canHandle reports whether the caller may move or resolve c: a supervisor
// whose scope holds the author, which includes a supervisor's own complaints.
func (s *ComplaintService) canHandle(ctx context.Context, claims *auth.Claims, c *models.Complaint) error {
	if !claims.Role.IsSupervisor() {
		return errs.Forbidden("only supervisors can handle complaints")
	}
	ok, err := s.users.CanSee(ctx, claims, c.AuthorID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.Forbidden("complaint is outside your reporting hierarchy")
	}
	return nil
}

// SetStatus moves a complaint between open and in progress.
func (s *ComplaintService) SetStatus(ctx context.Context, claims *auth.Claims, id uint, status string) (*models.ComplaintView, error) {
	if status != models.ComplaintOpen && status != models.ComplaintInProgress {
		if status == models.ComplaintResolved {
			return nil, errs.Invalid("use the resolve action to resolve a complaint")
		}
		return nil, errs.Invalidf("invalid complaint status %q", status)
	}
	c, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.canHandle(ctx, claims, c); err != nil {
		return nil, err
	}
	if c.Status == models.ComplaintResolved {
		return nil, errs.Conflict("complaint is already resolved")
	}
	c.Status = status
	if err := s.complaints.Update(ctx, c); err != nil {
		return nil, err
	}
	view := c.View(s.now())
	return &view, nil
}

func (s *ComplaintService) Resolve(ctx context.Context, claims *auth.Claims, id uint, actionTaken, remarks string) (*models.ComplaintView, error) {
	actionTaken = strings.TrimSpace(actionTaken)
	if actionTaken == "" {
		return nil, errs.Invalid("actionTaken is required")
	}
	c, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.canHandle(ctx, claims, c); err != nil {
		return nil, err
	}
	if c.Status == models.ComplaintResolved {
		return nil, errs.Conflict("complaint is already resolved")
	}
	now := s.now().UTC()
	resolver := claims.UserID
	c.Status = models.ComplaintResolved
	c.ResolvedBy = &resolver
	c.ResolvedByName = claims.Name
	c.ResolvedAt = &now
	c.ActionTaken = actionTaken
	c.ResolutionRemarks = strings.TrimSpace(remarks)
	if err := s.complaints.Update(ctx, c); err != nil {
		return nil, err
	}
	view := c.View(s.now())
	return &view, nil
}

func (s *ComplaintService) Delete(ctx context.Context, claims *auth.Claims, id uint) error {
	if claims.Role != models.RoleAdmin {
		return errs.Forbidden("only an admin can delete complaints")
	}
	return s.complaints.Delete(ctx, id)
}

func validComplaintStatus(s string) bool {
	switch s {
	case models.ComplaintOpen, models.ComplaintInProgress, models.ComplaintResolved:
		return true
	}
	return false
}
