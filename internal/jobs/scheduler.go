// Package jobs runs the background flush that retries snapshot writes the
// store could not complete synchronously.
package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"crown-ledger/internal/store"
)

type Scheduler struct {
	cron  *cron.Cron
	store *store.Store
}

func NewScheduler(st *store.Store, flushSpec string) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{cron: c, store: st}
	if _, err := c.AddFunc(flushSpec, s.flush); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("flush scheduler started")
}

// Stop waits for a running flush to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("flush scheduler stopped")
}

func (s *Scheduler) flush() {
	if !s.store.Dirty() {
		return
	}
	if err := s.store.Flush(context.Background()); err != nil {
		log.Warn().Err(err).Msg("scheduled snapshot flush failed, will retry")
		return
	}
	log.Debug().Msg("scheduled snapshot flush succeeded")
}
