package service

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// SnapshotScheduler periodically persists a KPI snapshot so the dashboard has
// trend history that survives restarts.
type SnapshotScheduler struct {
	cron *cron.Cron
	svc  *Service
	spec string
}

func NewSnapshotScheduler(svc *Service, spec string) *SnapshotScheduler {
	return &SnapshotScheduler{cron: cron.New(), svc: svc, spec: spec}
}

// Start registers the job and starts the scheduler. One snapshot is taken
// immediately so a fresh deployment has a baseline without waiting a day.
func (s *SnapshotScheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() { s.take(ctx) })
	if err != nil {
		return eris.Wrapf(err, "scheduler: add snapshot job %q", s.spec)
	}
	s.cron.Start()
	zap.L().Info("snapshot scheduler started", zap.String("spec", s.spec))

	go s.take(ctx)
	return nil
}

// Stop halts the scheduler without interrupting a running snapshot.
func (s *SnapshotScheduler) Stop() {
	s.cron.Stop()
	zap.L().Info("snapshot scheduler stopped")
}

func (s *SnapshotScheduler) take(ctx context.Context) {
	snap, err := s.svc.TakeSnapshot(ctx)
	if err != nil {
		zap.L().Error("snapshot failed", zap.Error(err))
		return
	}
	zap.L().Info("snapshot taken",
		zap.String("id", snap.ID),
		zap.Int("deal_count", snap.Summary.DealCount))
}
