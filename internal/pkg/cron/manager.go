package cron

import (
	"Petrel/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine              *cron.Cron
	suspendedRefreshJob *job.SuspendedRefreshJob
}

func NewCronManager(suspendedRefreshJob *job.SuspendedRefreshJob) *Manager {
	return &Manager{
		engine:              cron.New(cron.WithSeconds()),
		suspendedRefreshJob: suspendedRefreshJob,
	}
}

func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("@every 4m", s.suspendedRefreshJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron engine started")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron engine stopped")
	s.engine.Stop()
}
