package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	switch {
	case s.app.cache != nil:
		status.Components["cache"] = "ok"
	case s.app.Config.Cache.Enabled:
		status.Status = "degraded"
		status.Components["cache"] = "missing but enabled in config"
	default:
		status.Components["cache"] = "disabled"
	}

	if s.app.memory != nil {
		status.Components["memory_cache"] = fmt.Sprintf("ok (%d entries)", s.app.memory.Len())
	} else {
		status.Components["memory_cache"] = "disabled"
	}

	run := s.app.LastRun()
	switch {
	case run.At.IsZero():
		status.Components["last_run"] = "pending"
	case run.Err != nil:
		status.Status = "degraded"
		status.Components["last_run"] = fmt.Sprintf("failed: %v", run.Err)
	default:
		status.Components["last_run"] = fmt.Sprintf("ok (%d structs, %d functions)", run.Last.Stats.Structs, run.Last.Stats.Functions)
	}

	return status
}
