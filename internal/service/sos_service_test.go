package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

func TestRaiseSOS(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	lat, lng := 28.64, 77.22
	alert, err := e.sos.Raise(ctx, claimsOf(o.tech), service.SOSInput{Latitude: &lat, Longitude: &lng})
	require.NoError(t, err)
	assert.Equal(t, models.SOSActive, alert.Status)
	assert.Equal(t, "Emergency assistance required", alert.Message)
	assert.Equal(t, "NDLS", alert.Station)
	assert.True(t, alert.Notified)

	assert.Equal(t, 1, e.notifier.calls)
	// Chain je → sse → dste → sr, then the always-copied list without the
	// second spelling of sse@rail.in.
	assert.Equal(t, []string{"je@rail.in", "sse@rail.in", "dste@rail.in", "sr@rail.in", "control@rail.in"}, e.notifier.recipients)
	assert.Equal(t, "je@rail.in,sse@rail.in,dste@rail.in,sr@rail.in,control@rail.in", alert.NotifiedEmails)

	_, err = e.sos.Raise(ctx, claimsOf(o.tech), service.SOSInput{Latitude: &lat})
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

func TestRaiseSOSDispatchFailure(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	e.notifier.err = errors.New("smtp unreachable")

	alert, err := e.sos.Raise(context.Background(), claimsOf(o.loner), service.SOSInput{Message: "fire near cabin"})
	require.NoError(t, err)
	assert.False(t, alert.Notified)
	assert.Empty(t, alert.NotifiedEmails)
	assert.NotZero(t, alert.ID)
	assert.Equal(t, []string{"control@rail.in", "SSE@rail.in"}, e.notifier.recipients)
}

func TestAcknowledgeSOS(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	alert, err := e.sos.Raise(ctx, claimsOf(o.tech), service.SOSInput{Message: "help"})
	require.NoError(t, err)

	_, err = e.sos.Acknowledge(ctx, claimsOf(o.tech), alert.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden, "own alert")
	_, err = e.sos.Acknowledge(ctx, claimsOf(o.je2), alert.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden, "outside scope")

	acked, err := e.sos.Acknowledge(ctx, claimsOf(o.je), alert.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SOSAcknowledged, acked.Status)
	assert.Equal(t, "je", acked.AcknowledgedByName)

	_, err = e.sos.Acknowledge(ctx, claimsOf(o.sse), alert.ID)
	assert.ErrorIs(t, err, errs.ErrConflict)

	page, err := e.sos.List(ctx, claimsOf(o.je), service.ListFilter{Status: models.SOSAcknowledged})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Meta.Total)
	page, err = e.sos.List(ctx, claimsOf(o.je2), service.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, page.Meta.Total)
}

func TestAttachments(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	res, err := e.reports.Create(ctx, claimsOf(o.tech), shiftLog("2026-10-07"))
	require.NoError(t, err)
	reportID := res.Report.ID

	a, err := e.attachments.Upload(ctx, claimsOf(o.tech), reportID, `C:\photos\relay.JPG`, []byte("jpegbytes"), "")
	require.NoError(t, err)
	assert.Equal(t, "relay.JPG", a.FileName)
	assert.Equal(t, "image/jpeg", a.ContentType)
	assert.EqualValues(t, 9, a.Size)
	assert.Equal(t, 1, e.blobs.len())

	_, err = e.attachments.Upload(ctx, claimsOf(o.tech2), reportID, "x.txt", []byte("x"), "")
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = e.attachments.Upload(ctx, claimsOf(o.tech), reportID, "x.txt", nil, "")
	assert.ErrorIs(t, err, errs.ErrInvalid)

	data, meta, err := e.attachments.Download(ctx, claimsOf(o.je), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))
	assert.Equal(t, a.ID, meta.ID)

	detail, err := e.reports.Get(ctx, claimsOf(o.tech), reportID)
	require.NoError(t, err)
	require.Len(t, detail.Attachments, 1)

	assert.ErrorIs(t, e.attachments.Delete(ctx, claimsOf(o.je), a.ID), errs.ErrForbidden)
	require.NoError(t, e.attachments.Delete(ctx, claimsOf(o.tech), a.ID))
	assert.Zero(t, e.blobs.len())

	// Deleting a report removes its blobs too.
	_, err = e.attachments.Upload(ctx, claimsOf(o.tech), reportID, "log.txt", []byte("log"), "text/plain")
	require.NoError(t, err)
	require.NoError(t, e.reports.Delete(ctx, claimsOf(o.tech), reportID))
	assert.Zero(t, e.blobs.len())
}

func TestAttachmentsUnavailable(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	svc := service.NewAttachmentService(nil, e.reports, nil)

	_, err := svc.Upload(context.Background(), claimsOf(o.tech), 1, "a.txt", []byte("a"), "")
	assert.ErrorIs(t, err, errs.ErrUnavailable)
	_, _, err = svc.Download(context.Background(), claimsOf(o.tech), 1)
	assert.ErrorIs(t, err, errs.ErrUnavailable)
	assert.ErrorIs(t, svc.Delete(context.Background(), claimsOf(o.tech), 1), errs.ErrUnavailable)
}

func TestStatsAndSearch(t *testing.T) {
	e := newEnv(t)
	o := e.org(t)
	ctx := context.Background()

	_, err := e.reports.Create(ctx, claimsOf(o.tech), failureLog("2026-10-05", models.FailurePending))
	require.NoError(t, err)
	_, err = e.reports.Create(ctx, claimsOf(o.tech2), shiftLog("2026-10-05"))
	require.NoError(t, err)
	_, err = e.sos.Raise(ctx, claimsOf(o.tech), service.SOSInput{})
	require.NoError(t, err)
	reg, _ := e.catalog.Get(models.KindTrackCircuit)
	_, err = reg.Create(ctx, claimsOf(o.je), []byte(`{"station":"NDLS","identifier":"T-7"}`))
	require.NoError(t, err)

	st, err := e.stats.Stats(ctx, claimsOf(o.je))
	require.NoError(t, err)
	assert.EqualValues(t, 1, st.WorkReports.Total)
	assert.EqualValues(t, 1, st.WorkReports.PendingReview)
	assert.EqualValues(t, 1, st.Complaints.Open)
	assert.EqualValues(t, 1, st.ActiveSOS)
	assert.EqualValues(t, 1, st.Assets[models.KindTrackCircuit])
	assert.Zero(t, st.Assets[models.KindSignal])

	st, err = e.stats.Stats(ctx, claimsOf(o.sr))
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.WorkReports.Total)

	res, err := e.search.Search(ctx, claimsOf(o.je), "t-7", 0)
	require.NoError(t, err)
	assert.Len(t, res.WorkReports, 1)
	assert.Len(t, res.Complaints, 1)
	tc := res.Assets[models.KindTrackCircuit].(models.Page[models.TrackCircuit])
	assert.Len(t, tc.Data, 1)

	_, err = e.search.Search(ctx, claimsOf(o.je), "  ", 5)
	assert.ErrorIs(t, err, errs.ErrInvalid)
}
