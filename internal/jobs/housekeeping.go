// Package jobs runs the daily maintenance of clinic sessions.
package jobs

import (
	"context"
	"fmt"
	"time"

	"outpatient-registration/internal/domain/repository"
	"outpatient-registration/internal/service"
	"outpatient-registration/internal/usecase"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Housekeeping closes clinic sessions left open on earlier days and drops
// display caches computed for yesterday.
type Housekeeping struct {
	db           *gorm.DB
	log          *logrus.Logger
	clock        usecase.Clock
	progressRepo repository.ProgressMarkerRepository
	cache        *service.CollectionCache
}

func NewHousekeeping(
	db *gorm.DB,
	log *logrus.Logger,
	clock usecase.Clock,
	progressRepo repository.ProgressMarkerRepository,
	cache *service.CollectionCache,
) *Housekeeping {
	return &Housekeeping{
		db:           db,
		log:          log,
		clock:        clock,
		progressRepo: progressRepo,
		cache:        cache,
	}
}

func (h *Housekeeping) Run(ctx context.Context) error {
	today := h.clock.Today()

	db := h.db
	if db != nil {
		db = db.WithContext(ctx)
	}
	closed, err := h.progressRepo.DeleteOpenedBefore(db, today.In(time.UTC))
	if err != nil {
		return fmt.Errorf("close stale sessions: %w", err)
	}

	h.cache.Invalidate(ctx, service.CollectionCalendar, "")
	h.cache.Invalidate(ctx, service.CollectionDoctors, "")
	h.log.Infof("Housekeeping for %s closed %d stale clinic sessions", today, closed)
	return nil
}

// Scheduler triggers Housekeeping on a cron spec in the clinic time zone.
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Logger
}

func NewScheduler(log *logrus.Logger, loc *time.Location, spec string, job *Housekeeping) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := job.Run(ctx); err != nil {
			log.Warnf("Housekeeping failed: %+v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid housekeeping schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c, log: log}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Housekeeping scheduler started")
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Housekeeping scheduler stopped before the running job finished")
	}
}
