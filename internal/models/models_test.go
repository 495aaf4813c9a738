package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
)

func TestRoleOrdering(t *testing.T) {
	roles := Roles()
	for i := 1; i < len(roles); i++ {
		assert.True(t, roles[i].Outranks(roles[i-1]), "%s should outrank %s", roles[i], roles[i-1])
	}
	assert.False(t, Role("driver").Valid())
	assert.True(t, RoleSrDSTE.SeesAll())
	assert.False(t, RoleDSTE.SeesAll())
	assert.False(t, RoleTechnician.IsSupervisor())
	assert.True(t, RoleJE.IsSupervisor())
	assert.Equal(t, "Sr-DSTE", RoleSrDSTE.Label())
}

func TestComplaintBadge(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	c := &Complaint{Status: ComplaintOpen, CreatedAt: now.Add(-2 * time.Hour)}
	assert.Equal(t, Badge{Label: "Open", Tone: "warning"}, c.Badge(now))

	c.CreatedAt = now.Add(-25 * time.Hour)
	assert.Equal(t, "Overdue", c.Badge(now).Label)

	c.Status = ComplaintInProgress
	assert.Equal(t, "In Progress", c.Badge(now).Label)

	c.Status = ComplaintResolved
	assert.Equal(t, Badge{Label: "Resolved", Tone: "success"}, c.Badge(now))
}

func TestComplaintNumber(t *testing.T) {
	c := &Complaint{ID: 42, CreatedAt: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)}
	c.AssignNumber()
	assert.Equal(t, "CMP-202603-000042", c.ComplaintNo)
}

func TestRaisesComplaint(t *testing.T) {
	w := &WorkReport{}
	assert.False(t, w.RaisesComplaint())
	w.FailureOccurred = true
	w.FailureClassification = FailureRectified
	assert.False(t, w.RaisesComplaint())
	w.FailureClassification = FailurePending
	assert.True(t, w.RaisesComplaint())
	w.FailureClassification = FailureExternal
	assert.True(t, w.RaisesComplaint())
}

func TestPageMeta(t *testing.T) {
	assert.Equal(t, PageMeta{Total: 0, Page: 1, Limit: 10, TotalPages: 0}, NewPageMeta(0, 1, 10))
	assert.Equal(t, 3, NewPageMeta(21, 1, 10).TotalPages)
	assert.Equal(t, 2, NewPageMeta(20, 2, 10).TotalPages)

	p := NewPage[int](nil, 0, 1, 10)
	require.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
}

func TestAssetValidation(t *testing.T) {
	s := &Signal{AssetBase: AssetBase{Station: "NDLS", Identifier: "S12"}, SignalType: "home", Aspects: 3}
	require.NoError(t, s.Validate())
	assert.Equal(t, AssetWorking, s.Status, "empty status defaults to working")

	s.SignalType = "semaphore-ish"
	assert.True(t, errors.Is(s.Validate(), errs.ErrInvalid))

	pm := &PointMachine{}
	assert.True(t, errors.Is(pm.Validate(), errs.ErrInvalid))

	ei := &EIUnit{AssetBase: AssetBase{Station: "GZB", Identifier: "EI-1"}, CommissionedOn: "18/10/2026"}
	assert.True(t, errors.Is(ei.Validate(), errs.ErrInvalid))

	assert.True(t, KindAxleCounter.Valid())
	assert.False(t, AssetKind("bridges").Valid())
	assert.Len(t, AssetTables(), 5)
}
