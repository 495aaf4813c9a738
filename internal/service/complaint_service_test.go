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

func TestResolveComplaint(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	res, err := e.reports.Create(ctx, claimsOf(o.tech), failureLog("2026-10-05", models.FailureExternal))
	require.NoError(t, err)
	id := res.Complaint.ID

	_, err = e.complaints.Resolve(ctx, claimsOf(o.tech), id, "fixed", "")
	assert.ErrorIs(t, err, errs.ErrForbidden, "technician cannot resolve")
	_, err = e.complaints.Resolve(ctx, claimsOf(o.je2), id, "fixed", "")
	assert.ErrorIs(t, err, errs.ErrForbidden, "outside scope")
	_, err = e.complaints.Resolve(ctx, claimsOf(o.je), id, "  ", "")
	assert.ErrorIs(t, err, errs.ErrInvalid)

	v, err := e.complaints.SetStatus(ctx, claimsOf(o.je), id, models.ComplaintInProgress)
	require.NoError(t, err)
	assert.Equal(t, "In Progress", v.Badge.Label)
	_, err = e.complaints.SetStatus(ctx, claimsOf(o.je), id, models.ComplaintResolved)
	assert.ErrorIs(t, err, errs.ErrInvalid)

	v, err = e.complaints.Resolve(ctx, claimsOf(o.je), id, "Rebonded rail joint", "tested ok")
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintResolved, v.Status)
	assert.Equal(t, "je", v.ResolvedByName)
	assert.Equal(t, o.je.ID, *v.ResolvedBy)
	assert.NotNil(t, v.ResolvedAt)
	assert.Equal(t, "Rebonded rail joint", v.ActionTaken)
	assert.Equal(t, "Resolved", v.Badge.Label)

	_, err = e.complaints.Resolve(ctx, claimsOf(o.sse), id, "again", "")
	assert.ErrorIs(t, err, errs.ErrConflict)
	_, err = e.complaints.SetStatus(ctx, claimsOf(o.sse), id, models.ComplaintOpen)
	assert.ErrorIs(t, err, errs.ErrConflict)

	page, err := e.complaints.List(ctx, claimsOf(o.tech), service.ListFilter{Status: models.ComplaintResolved})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Meta.Total)

	_, err = e.complaints.List(ctx, claimsOf(o.tech), service.ListFilter{Status: "closed"})
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

func TestSupervisorResolvesOwnComplaint(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	c, err := e.complaints.Create(ctx, claimsOf(o.je), service.ComplaintInput{Station: "NDLS", Description: "signal blank"})
	require.NoError(t, err)
	assert.Regexp(t, `^CMP-\d{6}-\d{6}$`, c.ComplaintNo)

	_, err = e.complaints.Resolve(ctx, claimsOf(o.je), c.ID, "lamp replaced", "")
	require.NoError(t, err)

	_, err = e.complaints.Create(ctx, claimsOf(o.je), service.ComplaintInput{Station: "NDLS"})
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

func TestComplaintOverdueBadge(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	c, err := e.complaints.Create(ctx, claimsOf(o.tech), service.ComplaintInput{Station: "NDLS", Description: "old"})
	require.NoError(t, err)
	require.NoError(t, e.gdb.Model(&models.Complaint{}).Where("id = ?", c.ID).
		Update("created_at", time.Now().UTC().Add(-48*time.Hour)).Error)

	page, err := e.complaints.List(ctx, claimsOf(o.tech), service.ListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Overdue", page.Data[0].Badge.Label)
	assert.Equal(t, "danger", page.Data[0].Badge.Tone)
}

func TestComplaintMatchesReport(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	// Two failure logs the same day; only the second names gear T-9.
	first, err := e.reports.Create(ctx, claimsOf(o.tech), failureLog("2026-10-05", models.FailureRectified))
	require.NoError(t, err)
	in := failureLog("2026-10-05", models.FailureRectified)
	in.FailureGearID = "T-9"
	second, err := e.reports.Create(ctx, claimsOf(o.tech), in)
	require.NoError(t, err)
	_, err = e.reports.Create(ctx, claimsOf(o.tech), shiftLog("2026-10-05"))
	require.NoError(t, err)

	at := time.Date(2026, 10, 5, 6, 0, 0, 0, time.UTC)
	byGear, err := e.complaints.Create(ctx, claimsOf(o.tech), service.ComplaintInput{Station: "NDLS", GearID: "t-9", Description: "d", FailureAt: &at})
	require.NoError(t, err)
	detail, err := e.complaints.Get(ctx, claimsOf(o.je), byGear.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.WorkReport)
	assert.True(t, detail.Matched)
	assert.Equal(t, second.Report.ID, detail.WorkReport.ID)

	other, err := e.complaints.Create(ctx, claimsOf(o.tech), service.ComplaintInput{Station: "NDLS", GearID: "T-1", Description: "d", FailureAt: &at})
	require.NoError(t, err)
	detail, err = e.complaints.Get(ctx, claimsOf(o.tech), other.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.WorkReport)
	assert.Equal(t, second.Report.ID, detail.WorkReport.ID, "latest wins without a gear match")
	assert.NotEqual(t, first.Report.ID, detail.WorkReport.ID)

	elsewhere, err := e.complaints.Create(ctx, claimsOf(o.tech), service.ComplaintInput{Station: "GZB", Description: "d", FailureAt: &at})
	require.NoError(t, err)
	detail, err = e.complaints.Get(ctx, claimsOf(o.tech), elsewhere.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.WorkReport)
	assert.False(t, detail.Matched)

	_, err = e.complaints.Get(ctx, claimsOf(o.tech2), elsewhere.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestComplaintMatchesLocalCalendarDay(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	in := failureLog("2026-10-05", models.FailureRectified)
	in.FailureGearID = "T-3"
	logged, err := e.reports.Create(ctx, claimsOf(o.tech), in)
	require.NoError(t, err)

	// 02:00 IST is still the 4th in UTC.
	at := time.Date(2026, 10, 5, 2, 0, 0, 0, ist)
	c, err := e.complaints.Create(ctx, claimsOf(o.tech), service.ComplaintInput{Station: "NDLS", GearID: "T-3", Description: "track circuit down", FailureAt: &at})
	require.NoError(t, err)

	detail, err := e.complaints.Get(ctx, claimsOf(o.tech), c.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.WorkReport)
	assert.True(t, detail.Matched)
	assert.Equal(t, logged.Report.ID, detail.WorkReport.ID)

	// 02:00 IST on the 6th is still the 5th in UTC.
	late := time.Date(2026, 10, 6, 2, 0, 0, 0, ist)
	c, err = e.complaints.Create(ctx, claimsOf(o.tech), service.ComplaintInput{Station: "NDLS", GearID: "T-3", Description: "d", FailureAt: &late})
	require.NoError(t, err)
	detail, err = e.complaints.Get(ctx, claimsOf(o.tech), c.ID)
	require.NoError(t, err)
	assert.False(t, detail.Matched)
}

func TestComplaintLinkedReport(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	res, err := e.reports.Create(ctx, claimsOf(o.tech), failureLog("2026-10-05", models.FailurePending))
	require.NoError(t, err)
	detail, err := e.complaints.Get(ctx, claimsOf(o.tech), res.Complaint.ID)
	require.NoError(t, err)
	assert.False(t, detail.Matched)
	assert.Equal(t, res.Report.ID, detail.WorkReport.ID)

	assert.ErrorIs(t, e.complaints.Delete(ctx, claimsOf(o.sr), res.Complaint.ID), errs.ErrForbidden)
	require.NoError(t, e.complaints.Delete(ctx, claimsOf(o.admin), res.Complaint.ID))
}
