package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// JobTimeout bounds one scheduled run.
const JobTimeout = 10 * time.Minute

// Scheduler runs a job on a cron schedule, skipping a tick while the
// previous run is still going.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(spec string, job func(ctx context.Context) error) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), JobTimeout)
		defer cancel()
		start := time.Now()
		if err := job(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled collection failed")
			return
		}
		log.Info().Dur("took", time.Since(start)).Msg("scheduled collection finished")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
