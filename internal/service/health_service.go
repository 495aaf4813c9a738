package service

import (
	"context"
	"time"
)

// Pinger is anything whose liveness can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (r *HealthReport) OK() bool { return r.Status == "ok" }

// HealthService probes the database and, when configured, the blob store.
type HealthService struct {
	checks map[string]Pinger
}

func NewHealthService(checks map[string]Pinger) *HealthService {
	return &HealthService{checks: checks}
}

func (s *HealthService) Check(ctx context.Context) *HealthReport {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rep := &HealthReport{Status: "ok", Checks: make(map[string]string, len(s.checks))}
	for name, p := range s.checks {
		if err := p.Ping(ctx); err != nil {
			rep.Status = "degraded"
			rep.Checks[name] = err.Error()
			continue
		}
		rep.Checks[name] = "ok"
	}
	return rep
}
