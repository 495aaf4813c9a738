package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
)

// BlobStore holds attachment bytes.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type WorkReportService struct {
	reports     *repository.WorkReportRepo
	attachments *repository.AttachmentRepo
	users       *UserService
	blobs       BlobStore
	now         func() time.Time
}

// NewWorkReportService wires the report store. blobs may be nil when no
// attachment store is configured.
func NewWorkReportService(reports *repository.WorkReportRepo, attachments *repository.AttachmentRepo, users *UserService, blobs BlobStore) *WorkReportService {
	return &WorkReportService{
		reports:     reports,
		attachments: attachments,
		users:       users,
		blobs:       blobs,
		now:         time.Now,
	}
}

// WorkReportInput is the editable part of a report, one block per form tab.
type WorkReportInput struct {
	Date    string `json:"date"`
	Shift   string `json:"shift"`
	Station string `json:"station"`
	Section string `json:"section"`

	MaintenanceType string `json:"maintenanceType"`
	GearType        string `json:"gearType"`
	GearID          string `json:"gearId"`
	Activities      string `json:"activities"`

	FailureOccurred       bool       `json:"failureOccurred"`
	FailureGearType       string     `json:"failureGearType"`
	FailureGearID         string     `json:"failureGearId"`
	FailureAt             *time.Time `json:"failureAt"`
	RectifiedAt           *time.Time `json:"rectifiedAt"`
	FailureCause          string     `json:"failureCause"`
	FailureClassification string     `json:"failureClassification"`
	FailureRemarks        string     `json:"failureRemarks"`

	Replacements []models.Replacement `json:"replacements"`
}

func (in *WorkReportInput) normalize() {
	for _, p := range []*string{&in.Date, &in.Shift, &in.Station, &in.Section, &in.MaintenanceType,
		&in.GearType, &in.GearID, &in.FailureGearType, &in.FailureGearID, &in.FailureClassification} {
		*p = strings.TrimSpace(*p)
	}
	in.Shift = strings.ToLower(in.Shift)
	in.MaintenanceType = strings.ToLower(in.MaintenanceType)
	in.FailureClassification = strings.ToLower(in.FailureClassification)
	if !in.FailureOccurred {
		in.FailureGearType, in.FailureGearID, in.FailureCause = "", "", ""
		in.FailureClassification, in.FailureRemarks = "", ""
		in.FailureAt, in.RectifiedAt = nil, nil
	}
}

func (in *WorkReportInput) validate() error {
	if _, err := time.Parse(models.DateLayout, in.Date); err != nil {
		return errs.Invalid("date must be YYYY-MM-DD")
	}
	if !slices.Contains([]string{models.ShiftMorning, models.ShiftEvening, models.ShiftNight}, in.Shift) {
		return errs.Invalid("shift must be morning, evening or night")
	}
	if in.Station == "" {
		return errs.Invalid("station is required")
	}
	if in.MaintenanceType != "" && !slices.Contains([]string{models.MaintenanceScheduled, models.MaintenanceUnscheduled, models.MaintenanceNone}, in.MaintenanceType) {
		return errs.Invalidf("invalid maintenance type %q", in.MaintenanceType)
	}
	if in.FailureOccurred {
		if in.FailureGearType == "" {
			return errs.Invalid("failureGearType is required when a failure occurred")
		}
		if in.FailureClassification == "" {
			return errs.Invalid("failureClassification is required when a failure occurred")
		}
		if !slices.Contains([]string{models.FailureRectified, models.FailurePending, models.FailureExternal}, in.FailureClassification) {
			return errs.Invalidf("invalid failure classification %q", in.FailureClassification)
		}
		if in.FailureAt != nil && in.RectifiedAt != nil && in.RectifiedAt.Before(*in.FailureAt) {
			return errs.Invalid("rectifiedAt cannot be before failureAt")
		}
	}
	for i, r := range in.Replacements {
		if strings.TrimSpace(r.Item) == "" {
			return errs.Invalidf("replacement %d: item is required", i+1)
		}
	}
	return nil
}

func (in *WorkReportInput) apply(w *models.WorkReport) {
	w.Date, w.Shift, w.Station, w.Section = in.Date, in.Shift, in.Station, in.Section
	w.MaintenanceType, w.GearType, w.GearID, w.Activities = in.MaintenanceType, in.GearType, in.GearID, in.Activities
	w.FailureOccurred = in.FailureOccurred
	w.FailureGearType, w.FailureGearID = in.FailureGearType, in.FailureGearID
	w.FailureAt, w.RectifiedAt = in.FailureAt, in.RectifiedAt
	w.FailureCause, w.FailureClassification, w.FailureRemarks = in.FailureCause, in.FailureClassification, in.FailureRemarks
	w.Replacements = in.Replacements
	if w.Replacements == nil {
		w.Replacements = []models.Replacement{}
	}
}

type CreateReportResult struct {
	Report    *models.WorkReport    `json:"report"`
	Complaint *models.ComplaintView `json:"complaint"`
}

type WorkReportDetail struct {
	*models.WorkReport
	Attachments []models.Attachment `json:"attachments"`
}

func (s *WorkReportService) List(ctx context.Context, claims *auth.Claims, f ListFilter) (models.Page[models.WorkReport], error) {
	q, err := s.users.ListQuery(ctx, claims, f)
	if err != nil {
		return models.Page[models.WorkReport]{}, err
	}
	rows, total, err := s.reports.List(ctx, q)
	if err != nil {
		return models.Page[models.WorkReport]{}, err
	}
	return models.NewPage(rows, total, q.Page, q.Limit), nil
}

func (s *WorkReportService) Create(ctx context.Context, claims *auth.Claims, in WorkReportInput) (*CreateReportResult, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	w := &models.WorkReport{
		AuthorID:   claims.UserID,
		AuthorName: claims.Name,
		AuthorRole: claims.Role,
		Status:     models.ReportSubmitted,
	}
	in.apply(w)

	var complaint *models.Complaint
	if w.RaisesComplaint() {
		complaint = complaintFromReport(w)
	}
	if err := s.reports.Create(ctx, w, complaint); err != nil {
		return nil, err
	}

	res := &CreateReportResult{Report: w}
	if complaint != nil {
		view := complaint.View(s.now())
		res.Complaint = &view
		zerolog.Ctx(ctx).Info().
			Uint("report_id", w.ID).
			Str("complaint_no", complaint.ComplaintNo).
			Msg("complaint raised from work report")
	}
	return res, nil
}

func complaintFromReport(w *models.WorkReport) *models.Complaint {
	desc := strings.TrimSpace(w.FailureCause)
	if desc == "" {
		desc = strings.TrimSpace(fmt.Sprintf("Failure of %s %s", w.FailureGearType, w.FailureGearID))
	}
	return &models.Complaint{
		AuthorID:       w.AuthorID,
		AuthorName:     w.AuthorName,
		Station:        w.Station,
		GearType:       w.FailureGearType,
		GearID:         w.FailureGearID,
		Description:    desc,
		Classification: w.FailureClassification,
		FailureAt:      w.FailureAt,
		Status:         models.ComplaintOpen,
	}
}

// Visible loads a report the caller is allowed to read.
func (s *WorkReportService) Visible(ctx context.Context, claims *auth.Claims, id uint) (*models.WorkReport, error) {
	w, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.users.CanSee(ctx, claims, w.AuthorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Forbidden("work report is outside your reporting hierarchy")
	}
	return w, nil
}

func (s *WorkReportService) Get(ctx context.Context, claims *auth.Claims, id uint) (*WorkReportDetail, error) {
	w, err := s.Visible(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	files, err := s.attachments.FindByWorkReport(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	return &WorkReportDetail{WorkReport: w, Attachments: files}, nil
}

// Update lets the author correct a report until it is reviewed. Edits never
// raise complaints.
func (s *WorkReportService) Update(ctx context.Context, claims *auth.Claims, id uint, in WorkReportInput) (*models.WorkReport, error) {
	w, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.AuthorID != claims.UserID {
		return nil, errs.Forbidden("only the author can edit a work report")
	}
	if w.Status != models.ReportSubmitted {
		return nil, errs.Conflict("work report has already been reviewed")
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	in.apply(w)
	if err := s.reports.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WorkReportService) Delete(ctx context.Context, claims *auth.Claims, id uint) error {
	w, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if claims.Role != models.RoleAdmin {
		if w.AuthorID != claims.UserID {
			return errs.Forbidden("only the author or an admin can delete a work report")
		}
		if w.Status != models.ReportSubmitted {
			return errs.Conflict("reviewed work reports cannot be deleted")
		}
	}
	files, err := s.attachments.FindByWorkReport(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reports.Delete(ctx, id); err != nil {
		return err
	}
	if s.blobs != nil {
		for _, f := range files {
			if err := s.blobs.Delete(ctx, f.BlobKey); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("blob_key", f.BlobKey).Msg("orphaned attachment blob")
			}
		}
	}
	return nil
}

// Review marks a subordinate's report as reviewed.
func (s *WorkReportService) Review(ctx context.Context, claims *auth.Claims, id uint, remarks string) (*models.WorkReport, error) {
	if !claims.Role.IsSupervisor() {
		return nil, errs.Forbidden("only supervisors can review work reports")
	}
	w, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.AuthorID == claims.UserID {
		return nil, errs.Forbidden("you cannot review your own work report")
	}
	if !claims.Role.SeesAll() {
		below, err := s.users.IsStrictSubordinate(ctx, claims, w.AuthorID)
		if err != nil {
			return nil, err
		}
		if !below {
			return nil, errs.Forbidden("work report author does not report to you")
		}
	}
	if w.Status == models.ReportReviewed {
		return nil, errs.Conflict("work report has already been reviewed")
	}
	now := s.now().UTC()
	reviewer := claims.UserID
	w.Status = models.ReportReviewed
	w.ReviewedBy = &reviewer
	w.ReviewedByName = claims.Name
	w.ReviewedAt = &now
	w.ReviewRemarks = strings.TrimSpace(remarks)
	if err := s.reports.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}
