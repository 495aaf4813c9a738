package service

import (
	"context"
	"time"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
)

// Stats are the sidebar counters, limited to the caller's scope except for
// asset counts, which are global.
type Stats struct {
	WorkReports          repository.WorkReportCounts `json:"workReports"`
	Complaints           repository.ComplaintCounts  `json:"complaints"`
	ActiveSOS            int64                       `json:"activeSOS"`
	PendingAssetRequests int64                       `json:"pendingAssetRequests"`
	Assets               map[models.AssetKind]int64  `json:"assets"`
}

type StatsService struct {
	reports    *repository.WorkReportRepo
	complaints *repository.ComplaintRepo
	alerts     *repository.SOSRepo
	requests   *repository.AssetRequestRepo
	catalog    *AssetCatalog
	users      *UserService
	now        func() time.Time
}

func NewStatsService(reports *repository.WorkReportRepo, complaints *repository.ComplaintRepo, alerts *repository.SOSRepo,
	requests *repository.AssetRequestRepo, catalog *AssetCatalog, users *UserService) *StatsService {
	return &StatsService{
		reports:    reports,
		complaints: complaints,
		alerts:     alerts,
		requests:   requests,
		catalog:    catalog,
		users:      users,
		now:        time.Now,
	}
}

func (s *StatsService) Stats(ctx context.Context, claims *auth.Claims) (*Stats, error) {
	scope, err := s.users.ScopeFor(ctx, claims)
	if err != nil {
		return nil, err
	}
	q := scope.Query(repository.ListQuery{Location: s.users.Location()})

	out := &Stats{Assets: make(map[models.AssetKind]int64)}
	if out.WorkReports, err = s.reports.Counts(ctx, q, s.now()); err != nil {
		return nil, err
	}
	if out.Complaints, err = s.complaints.Counts(ctx, q); err != nil {
		return nil, err
	}
	if out.ActiveSOS, err = s.alerts.CountActive(ctx, q); err != nil {
		return nil, err
	}
	if out.PendingAssetRequests, err = s.requests.CountPending(ctx, q); err != nil {
		return nil, err
	}
	for _, kind := range s.catalog.Kinds() {
		reg, _ := s.catalog.Get(kind)
		n, err := reg.Count(ctx)
		if err != nil {
			return nil, err
		}
		out.Assets[kind] = n
	}
	return out, nil
}
