// auction/scheduler/scheduler.go
package scheduler

import (
	"context"
	"errors"
	"log"

	"github.com/robfig/cron/v3"
)

// DueStarter starts every scheduled auction whose time has arrived and reports
// how many it started.
type DueStarter interface {
	StartDueAuctions(ctx context.Context) (int, error)
}

// Scheduler periodically sweeps for due scheduled auctions.
type Scheduler struct {
	cron *cron.Cron
}

// Start builds and starts the cron sweep with the given spec, for example
// "@every 30s". The returned Scheduler keeps sweeping until Stop is called.
func Start(spec string, starter DueStarter) (*Scheduler, error) {
	if starter == nil {
		return nil, errors.New("due starter is nil")
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		started, err := starter.StartDueAuctions(context.Background())
		if err != nil {
			log.Printf("ERROR: Scheduled auction sweep failed: %v", err)
			return
		}
		if started > 0 {
			log.Printf("INFO: Scheduled auction sweep started %d auction(s).", started)
		}
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("INFO: Auction scheduler sweeping %s.", spec)
	return &Scheduler{cron: c}, nil
}

// Stop halts the sweep and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
