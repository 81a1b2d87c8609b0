package job

import (
	"Petrel/internal/cache"
	"Petrel/internal/pkg/logger"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// SuspendedRefreshJob repopulates the instance-wide suspended user set ahead
// of its TTL so timeline reads rarely hit the database for it.
type SuspendedRefreshJob struct {
	caches *cache.RelationshipCaches
}

func NewSuspendedRefreshJob(caches *cache.RelationshipCaches) *SuspendedRefreshJob {
	return &SuspendedRefreshJob{caches: caches}
}

func (s *SuspendedRefreshJob) Run() {
	traceID := "job-suspended-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	if err := s.caches.RefreshSuspended(ctx); err != nil {
		log.ErrorContext(ctx, "refresh suspended user set error", "err", err)
		return
	}

	log.InfoContext(ctx, "SuspendedRefreshJob finished")
}
