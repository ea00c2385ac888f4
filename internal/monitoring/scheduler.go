package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/wsquared-be/internal/services"
	"github.com/isdelr/wsquared-be/internal/storage"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const sweepTimeout = time.Minute

// Sweeper periodically drops client storage and events that have been idle
// longer than the retention window.
type Sweeper struct {
	store     storage.Store
	eventSvc  services.EventServiceProvider
	retention time.Duration
	cron      *cron.Cron
	now       func() time.Time
}

// NewSweeper creates a sweeper running on the given cron schedule
// (standard five fields or descriptors such as "@every 1h").
func NewSweeper(schedule string, retention time.Duration, store storage.Store, eventSvc services.EventServiceProvider) (*Sweeper, error) {
	s := &Sweeper{
		store:     store,
		eventSvc:  eventSvc,
		retention: retention,
		cron:      cron.New(),
		now:       time.Now,
	}
	if _, err := s.cron.AddFunc(schedule, s.sweepOnce); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Run starts the schedule in the background.
func (s *Sweeper) Run() {
	log.Info().Dur("retention", s.retention).Msg("Starting storage sweeper...")
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped storage sweeper.")
}

func (s *Sweeper) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if err := s.Sweep(ctx); err != nil {
		log.Error().Err(err).Msg("Sweeper: sweep failed")
	}
}

// Sweep removes idle client namespaces and old events once.
func (s *Sweeper) Sweep(ctx context.Context) error {
	cutoff := s.now().Add(-s.retention)

	items, err := s.store.PurgeIdle(ctx, cutoff)
	if err != nil {
		return err
	}

	var events int64
	if s.eventSvc != nil {
		if events, err = s.eventSvc.PurgeBefore(ctx, cutoff); err != nil {
			return err
		}
	}

	if items > 0 || events > 0 {
		log.Info().Int64("storage_items", items).Int64("events", events).Time("cutoff", cutoff).Msg("Sweeper: purged idle data")
	}
	return nil
}
