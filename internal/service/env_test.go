package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/config"
	"github.com/Irenepaul17/new-log-sub000/internal/db"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

// ist is the portal's calendar zone in these tests.
var ist = time.FixedZone("IST", 5*3600+30*60)

// memBlobs is an in-memory BlobStore.
type memBlobs struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemBlobs() *memBlobs { return &memBlobs{data: map[string][]byte{}} }

func (m *memBlobs) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memBlobs) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	if !ok {
		return nil, errs.NotFound("file")
	}
	return d, nil
}

func (m *memBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memBlobs) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// fakeNotifier records dispatches and returns err.
type fakeNotifier struct {
	err        error
	calls      int
	recipients []string
}

func (f *fakeNotifier) NotifySOS(_ context.Context, _ *models.SOSAlert, recipients []string) error {
	f.calls++
	f.recipients = recipients
	return f.err
}

type env struct {
	gdb         *gorm.DB
	userRepo    *repository.UserRepo
	users       *service.UserService
	auth        *service.AuthService
	reports     *service.WorkReportService
	complaints  *service.ComplaintService
	catalog     *service.AssetCatalog
	requests    *service.AssetRequestService
	sos         *service.SOSService
	attachments *service.AttachmentService
	stats       *service.StatsService
	search      *service.SearchService
	blobs       *memBlobs
	notifier    *fakeNotifier
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gdb, err := db.Open(config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "svc.db")})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	e := &env{gdb: gdb, blobs: newMemBlobs(), notifier: &fakeNotifier{}}
	e.userRepo = repository.NewUserRepo(gdb)
	reportRepo := repository.NewWorkReportRepo(gdb)
	complaintRepo := repository.NewComplaintRepo(gdb)
	attachmentRepo := repository.NewAttachmentRepo(gdb)
	sosRepo := repository.NewSOSRepo(gdb)
	requestRepo := repository.NewAssetRequestRepo(gdb)

	e.users = service.NewUserService(e.userRepo, ist)
	e.auth = service.NewAuthService(e.userRepo, e.users, "test-secret", time.Hour)
	e.reports = service.NewWorkReportService(reportRepo, attachmentRepo, e.users, e.blobs)
	e.complaints = service.NewComplaintService(complaintRepo, reportRepo, e.users)
	e.catalog = service.NewAssetCatalog(
		service.NewAssetService(repository.NewAssetRepo[models.PointMachine](gdb)),
		service.NewAssetService(repository.NewAssetRepo[models.Signal](gdb)),
		service.NewAssetService(repository.NewAssetRepo[models.TrackCircuit](gdb)),
		service.NewAssetService(repository.NewAssetRepo[models.AxleCounter](gdb)),
		service.NewAssetService(repository.NewAssetRepo[models.EIUnit](gdb)),
	)
	e.requests = service.NewAssetRequestService(requestRepo, e.catalog, e.users)
	e.sos = service.NewSOSService(sosRepo, e.userRepo, e.users, e.notifier, []string{"control@rail.in", "SSE@rail.in"})
	e.attachments = service.NewAttachmentService(attachmentRepo, e.reports, e.blobs)
	e.stats = service.NewStatsService(reportRepo, complaintRepo, sosRepo, requestRepo, e.catalog, e.users)
	e.search = service.NewSearchService(e.reports, e.complaints, e.catalog)
	return e
}

func (e *env) user(t *testing.T, name string, role models.Role, sup *models.User) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@rail.in", PasswordHash: "x", Role: role, Station: "NDLS", Active: true}
	if sup != nil {
		u.SupervisorID = &sup.ID
	}
	require.NoError(t, e.userRepo.Create(context.Background(), u))
	return u
}

func claimsOf(u *models.User) *auth.Claims {
	return &auth.Claims{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// org is a small division:
//
//	sr ─ dste ─ sse ┬ je  ─ tech
//	                └ je2 ─ tech2
//	loner (technician, no supervisor)
type org struct {
	sr, dste, sse, je, je2, tech, tech2, loner, admin *models.User
}

func (e *env) org(t *testing.T) org {
	var o org
	o.admin = e.user(t, "admin", models.RoleAdmin, nil)
	o.sr = e.user(t, "sr", models.RoleSrDSTE, nil)
	o.dste = e.user(t, "dste", models.RoleDSTE, o.sr)
	o.sse = e.user(t, "sse", models.RoleSSE, o.dste)
	o.je = e.user(t, "je", models.RoleJE, o.sse)
	o.je2 = e.user(t, "je2", models.RoleJE, o.sse)
	o.tech = e.user(t, "tech", models.RoleTechnician, o.je)
	o.tech2 = e.user(t, "tech2", models.RoleTechnician, o.je2)
	o.loner = e.user(t, "loner", models.RoleTechnician, nil)
	return o
}
