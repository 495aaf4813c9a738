package service

import (
	"context"
	"strings"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
)

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 20
)

type SearchResult struct {
	Query       string                   `json:"query"`
	WorkReports []models.WorkReport      `json:"workReports"`
	Complaints  []models.ComplaintView   `json:"complaints"`
	Assets      map[models.AssetKind]any `json:"assets"`
}

// SearchService runs one term across the caller's reports and complaints
// and every asset registry.
type SearchService struct {
	reports    *WorkReportService
	complaints *ComplaintService
	catalog    *AssetCatalog
}

func NewSearchService(reports *WorkReportService, complaints *ComplaintService, catalog *AssetCatalog) *SearchService {
	return &SearchService{reports: reports, complaints: complaints, catalog: catalog}
}

func (s *SearchService) Search(ctx context.Context, claims *auth.Claims, term string, limit int) (*SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errs.Invalid("search query is required")
	}
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	f := ListFilter{Search: term, Page: 1, Limit: limit}

	reports, err := s.reports.List(ctx, claims, f)
	if err != nil {
		return nil, err
	}
	complaints, err := s.complaints.List(ctx, claims, f)
	if err != nil {
		return nil, err
	}
	out := &SearchResult{
		Query:       term,
		WorkReports: reports.Data,
		Complaints:  complaints.Data,
		Assets:      make(map[models.AssetKind]any),
	}
	for _, kind := range s.catalog.Kinds() {
		reg, _ := s.catalog.Get(kind)
		page, err := reg.List(ctx, repository.AssetQuery{Search: term, Page: 1, Limit: limit})
		if err != nil {
			return nil, err
		}
		out.Assets[kind] = page
	}
	return out, nil
}
