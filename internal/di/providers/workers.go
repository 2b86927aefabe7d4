package providers

import (
	"context"
	"sync"
	"time"

	"github.com/samber/do/v2"

	"github.com/elisereads/elisereads-server/internal/logger"
	"github.com/elisereads/elisereads-server/internal/service"
)

// sessionCleanupInterval is how often expired sessions are purged.
const sessionCleanupInterval = time.Hour

// sessionPurger is the part of SessionService the cleanup job needs.
type sessionPurger interface {
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Shutdown implements do.Shutdownable. It waits for the loop to exit.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	j.wg.Wait()
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	job := startSessionCleanup(sessionService, sessionCleanupInterval, log)
	log.Info("Session cleanup job started", "interval", sessionCleanupInterval)
	return job, nil
}

// startSessionCleanup purges once immediately and then on every tick until
// the job is shut down.
func startSessionCleanup(sessions sessionPurger, interval time.Duration, log *logger.Logger) *SessionCleanupJob {
	ctx, cancel := context.WithCancel(context.Background())
	job := &SessionCleanupJob{cancel: cancel}

	job.wg.Add(1)
	go func() {
		defer job.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		if count, err := sessions.DeleteExpiredSessions(ctx); err != nil {
			log.Warn("Initial session cleanup failed", "error", err)
		} else if count > 0 {
			log.Info("Initial session cleanup completed", "deleted", count)
		}

		for {
			select {
			case <-ticker.C:
				if count, err := sessions.DeleteExpiredSessions(ctx); err != nil {
					log.Warn("Session cleanup failed", "error", err)
				} else if count > 0 {
					log.Info("Session cleanup completed", "deleted", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return job
}
