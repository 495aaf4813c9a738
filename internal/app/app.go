// Package app assembles the portal from its configuration: storage, the
// optional attachment store and SOS dispatchers, services and the router.
package app

import (
	"context"
	"net/http"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Irenepaul17/new-log-sub000/internal/config"
	"github.com/Irenepaul17/new-log-sub000/internal/db"
	"github.com/Irenepaul17/new-log-sub000/internal/handler"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/notify"
	"github.com/Irenepaul17/new-log-sub000/internal/oxidb"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
	"github.com/Irenepaul17/new-log-sub000/internal/router"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

type App struct {
	Config  *config.Config
	DB      *gorm.DB
	Handler http.Handler
	Auth    *service.AuthService

	log  zerolog.Logger
	pool *oxidb.Pool
	nc   *nats.Conn
}

// Deps overrides the external collaborators New would otherwise build
// from configuration. Nil fields fall back to the configured ones.
type Deps struct {
	Blobs    service.BlobStore
	Notifier notify.Notifier
}

// New opens and migrates the database and wires every service. OxiDB,
// SMTP and NATS are only contacted when configured.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, deps Deps) (*App, error) {
	gdb, err := db.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, DB: gdb, log: log}
	if err := db.Migrate(gdb); err != nil {
		a.Close()
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		a.Close()
		return nil, err
	}

	checks := map[string]service.Pinger{
		"database": service.PingFunc(func(ctx context.Context) error { return db.Ping(ctx, gdb) }),
	}

	blobs := deps.Blobs
	if blobs == nil && cfg.OxiDB.Enabled() {
		a.pool, err = oxidb.NewPool(ctx, cfg.OxiDB.Host, cfg.OxiDB.Port, cfg.OxiDB.PoolSize, log,
			oxidb.WithKeepalive(cfg.OxiDB.Keepalive))
		if err != nil {
			a.Close()
			return nil, err
		}
		blobRepo := repository.NewBlobRepo(a.pool, cfg.OxiDB.Bucket)
		if err := blobRepo.EnsureBucket(ctx); err != nil {
			a.Close()
			return nil, err
		}
		checks["oxidb"] = blobRepo
		blobs = blobRepo
		log.Info().Str("host", cfg.OxiDB.Host).Int("port", cfg.OxiDB.Port).Int("pool_size", cfg.OxiDB.PoolSize).
			Str("bucket", cfg.OxiDB.Bucket).Msg("attachment store connected")
	} else if blobs == nil {
		log.Warn().Msg("oxidb not configured, attachments disabled")
	}

	notifier := deps.Notifier
	if notifier == nil {
		notifier, err = a.notifiers()
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	userRepo := repository.NewUserRepo(gdb)
	reportRepo := repository.NewWorkReportRepo(gdb)
	complaintRepo := repository.NewComplaintRepo(gdb)
	attachmentRepo := repository.NewAttachmentRepo(gdb)
	sosRepo := repository.NewSOSRepo(gdb)
	requestRepo := repository.NewAssetRequestRepo(gdb)

	users := service.NewUserService(userRepo, loc)
	a.Auth = service.NewAuthService(userRepo, users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	reports := service.NewWorkReportService(reportRepo, attachmentRepo, users, blobs)
	complaints := service.NewComplaintService(complaintRepo, reportRepo, users)
	catalog := service.NewAssetCatalog(
		service.NewAssetService(repository.NewAssetRepo[models.PointMachine](gdb)),
		service.NewAssetService(repository.NewAssetRepo[models.Signal](gdb)),
		service.NewAssetService(repository.NewAssetRepo[models.TrackCircuit](gdb)),
		service.NewAssetService(repository.NewAssetRepo[models.AxleCounter](gdb)),
		service.NewAssetService(repository.NewAssetRepo[models.EIUnit](gdb)),
	)
	requests := service.NewAssetRequestService(requestRepo, catalog, users)
	sos := service.NewSOSService(sosRepo, userRepo, users, notifier, cfg.Mail.SOSRecipients)
	attachments := service.NewAttachmentService(attachmentRepo, reports, blobs)
	stats := service.NewStatsService(reportRepo, complaintRepo, sosRepo, requestRepo, catalog, users)
	search := service.NewSearchService(reports, complaints, catalog)
	health := service.NewHealthService(checks)

	opts := router.Options{
		JWTSecret:   cfg.Auth.JWTSecret,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Users:       userRepo.FindByID,
	}
	a.Handler = router.New(log, opts, router.Handlers{
		Auth:          handler.NewAuthHandler(a.Auth, users),
		Users:         handler.NewUserHandler(users),
		WorkReports:   handler.NewWorkReportHandler(reports),
		Complaints:    handler.NewComplaintHandler(complaints),
		Assets:        handler.NewAssetHandler(catalog),
		AssetRequests: handler.NewAssetRequestHandler(requests),
		SOS:           handler.NewSOSHandler(sos),
		Attachments:   handler.NewAttachmentHandler(attachments),
		Dashboard:     handler.NewDashboardHandler(stats),
		Search:        handler.NewSearchHandler(search),
		Admin:         handler.NewAdminHandler(health),
	})
	return a, nil
}

func (a *App) notifiers() (notify.Notifier, error) {
	var out notify.Multi
	if a.Config.Mail.Enabled() {
		out = append(out, notify.NewMailer(a.Config.Mail))
		a.log.Info().Str("host", a.Config.Mail.Host).Msg("sos email enabled")
	}
	if a.Config.NATS.Enabled() {
		nc, err := notify.DialNATS(a.Config.NATS.URL)
		if err != nil {
			return nil, err
		}
		a.nc = nc
		out = append(out, notify.NewNATSPublisher(nc, a.Config.NATS.SOSSubject))
		a.log.Info().Str("url", a.Config.NATS.URL).Str("subject", a.Config.NATS.SOSSubject).Msg("sos events enabled")
	}
	if len(out) == 0 {
		a.log.Warn().Msg("no sos dispatcher configured, alerts are stored only")
		return notify.Nop{}, nil
	}
	return out, nil
}

// SeedAdmin creates the configured admin account when it is missing.
func (a *App) SeedAdmin(ctx context.Context) error {
	created, err := a.Auth.SeedAdmin(ctx, a.Config.Auth.AdminEmail, a.Config.Auth.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		a.log.Info().Str("email", a.Config.Auth.AdminEmail).Msg("admin account seeded")
	}
	return nil
}

func (a *App) Close() error {
	if a.nc != nil {
		a.nc.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
