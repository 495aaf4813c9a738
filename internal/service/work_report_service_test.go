package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

func shiftLog(date string) service.WorkReportInput {
	return service.WorkReportInput{
		Date:            date,
		Shift:           "Morning",
		Station:         "NDLS",
		MaintenanceType: models.MaintenanceScheduled,
		GearType:        "point",
		GearID:          "P-12A",
		Activities:      "greasing, detection test",
	}
}

func failureLog(date, classification string) service.WorkReportInput {
	in := shiftLog(date)
	at := time.Date(2026, 10, 5, 4, 10, 0, 0, time.UTC)
	in.FailureOccurred = true
	in.FailureGearType = "track_circuit"
	in.FailureGearID = "T-7"
	in.FailureAt = &at
	in.FailureCause = "rail joint shorted"
	in.FailureClassification = classification
	return in
}

func TestCreateWorkReportRaisesComplaint(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	res, err := e.reports.Create(ctx, claimsOf(o.tech), failureLog("2026-10-05", "Pending"))
	require.NoError(t, err)
	assert.Equal(t, models.ShiftMorning, res.Report.Shift)
	assert.Equal(t, o.tech.ID, res.Report.AuthorID)
	require.NotNil(t, res.Complaint)
	assert.Equal(t, models.ComplaintOpen, res.Complaint.Status)
	assert.Equal(t, "rail joint shorted", res.Complaint.Description)
	assert.Equal(t, "T-7", res.Complaint.GearID)
	assert.Equal(t, res.Report.ID, *res.Complaint.WorkReportID)
	assert.Equal(t, "Open", res.Complaint.Badge.Label)

	res, err = e.reports.Create(ctx, claimsOf(o.tech), failureLog("2026-10-05", models.FailureRectified))
	require.NoError(t, err)
	assert.Nil(t, res.Complaint)

	res, err = e.reports.Create(ctx, claimsOf(o.tech), shiftLog("2026-10-06"))
	require.NoError(t, err)
	assert.Nil(t, res.Complaint)
	assert.NotNil(t, res.Report.Replacements)
}

func TestCreateWorkReportValidation(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	cases := map[string]func(*service.WorkReportInput){
		"bad date":          func(in *service.WorkReportInput) { in.Date = "05/10/2026" },
		"bad shift":         func(in *service.WorkReportInput) { in.Shift = "graveyard" },
		"missing station":   func(in *service.WorkReportInput) { in.Station = " " },
		"bad maintenance":   func(in *service.WorkReportInput) { in.MaintenanceType = "weekly" },
		"missing gear type": func(in *service.WorkReportInput) { in.FailureGearType = "" },
		"missing class":     func(in *service.WorkReportInput) { in.FailureClassification = "" },
		"unknown class":     func(in *service.WorkReportInput) { in.FailureClassification = "mystery" },
		"replacement no item": func(in *service.WorkReportInput) {
			in.Replacements = []models.Replacement{{NewSerial: "X"}}
		},
		"rectified before failure": func(in *service.WorkReportInput) {
			before := in.FailureAt.Add(-time.Hour)
			in.RectifiedAt = &before
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := failureLog("2026-10-05", models.FailurePending)
			mutate(&in)
			_, err := e.reports.Create(ctx, claimsOf(o.tech), in)
			assert.ErrorIs(t, err, errs.ErrInvalid)
		})
	}
}

func TestWorkReportVisibility(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	for _, u := range []*models.User{o.tech, o.tech, o.tech2, o.je, o.loner} {
		_, err := e.reports.Create(ctx, claimsOf(u), shiftLog("2026-10-07"))
		require.NoError(t, err)
	}

	totals := map[*models.User]int64{
		o.tech:  2,
		o.je:    3,
		o.je2:   1,
		o.sse:   4,
		o.dste:  4,
		o.sr:    5,
		o.admin: 5,
		o.loner: 1,
	}
	for u, want := range totals {
		page, err := e.reports.List(ctx, claimsOf(u), service.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, want, page.Meta.Total, u.Name)
	}

	page, err := e.reports.List(ctx, claimsOf(o.sse), service.ListFilter{UserID: o.tech.ID, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Meta.Total)
	assert.Equal(t, 2, page.Meta.TotalPages)
	assert.Len(t, page.Data, 1)

	_, err = e.reports.List(ctx, claimsOf(o.je), service.ListFilter{UserID: o.tech2.ID})
	assert.ErrorIs(t, err, errs.ErrForbidden)

	page, err = e.reports.List(ctx, claimsOf(o.tech), service.ListFilter{Month: "2026-11"})
	require.NoError(t, err)
	assert.Zero(t, page.Meta.Total)
	assert.Equal(t, 0, page.Meta.TotalPages)
	assert.NotNil(t, page.Data)
}

func TestWorkReportGetUpdateDelete(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	res, err := e.reports.Create(ctx, claimsOf(o.tech), shiftLog("2026-10-07"))
	require.NoError(t, err)
	id := res.Report.ID

	_, err = e.reports.Get(ctx, claimsOf(o.je2), id)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = e.reports.Get(ctx, claimsOf(o.je), 9999)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	detail, err := e.reports.Get(ctx, claimsOf(o.je), id)
	require.NoError(t, err)
	assert.Empty(t, detail.Attachments)

	in := shiftLog("2026-10-07")
	in.Activities = "replaced lamp"
	_, err = e.reports.Update(ctx, claimsOf(o.je), id, in)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	// Edits do not raise complaints even when a failure is added.
	updated, err := e.reports.Update(ctx, claimsOf(o.tech), id, failureLog("2026-10-07", models.FailurePending))
	require.NoError(t, err)
	assert.True(t, updated.FailureOccurred)
	complaints, err := e.complaints.List(ctx, claimsOf(o.admin), service.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, complaints.Meta.Total)

	_, err = e.reports.Review(ctx, claimsOf(o.je), id, "ok")
	require.NoError(t, err)
	_, err = e.reports.Update(ctx, claimsOf(o.tech), id, in)
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.ErrorIs(t, e.reports.Delete(ctx, claimsOf(o.tech), id), errs.ErrConflict)

	require.NoError(t, e.reports.Delete(ctx, claimsOf(o.admin), id))
	_, err = e.reports.Get(ctx, claimsOf(o.admin), id)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestReview(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	mine, err := e.reports.Create(ctx, claimsOf(o.je), shiftLog("2026-10-07"))
	require.NoError(t, err)
	theirs, err := e.reports.Create(ctx, claimsOf(o.tech2), shiftLog("2026-10-07"))
	require.NoError(t, err)

	_, err = e.reports.Review(ctx, claimsOf(o.je), mine.Report.ID, "")
	assert.ErrorIs(t, err, errs.ErrForbidden, "own report")
	_, err = e.reports.Review(ctx, claimsOf(o.je), theirs.Report.ID, "")
	assert.ErrorIs(t, err, errs.ErrForbidden, "not a subordinate")
	_, err = e.reports.Review(ctx, claimsOf(o.tech), mine.Report.ID, "")
	assert.ErrorIs(t, err, errs.ErrForbidden, "technician")

	w, err := e.reports.Review(ctx, claimsOf(o.sse), theirs.Report.ID, " checked on site ")
	require.NoError(t, err)
	assert.Equal(t, models.ReportReviewed, w.Status)
	assert.Equal(t, "sse", w.ReviewedByName)
	assert.Equal(t, "checked on site", w.ReviewRemarks)
	require.NotNil(t, w.ReviewedAt)

	_, err = e.reports.Review(ctx, claimsOf(o.dste), theirs.Report.ID, "")
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = e.reports.Review(ctx, claimsOf(o.sr), mine.Report.ID, "")
	require.NoError(t, err)
}
