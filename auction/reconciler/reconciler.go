// auction/reconciler/reconciler.go
package reconciler

import (
	"context"
	"log"
	"time"

	"github.com/cricketops/cricket-services/auction/store"
	"github.com/cricketops/cricket-services/auction/timer"
	"github.com/cricketops/cricket-services/shared/cluster"
	"github.com/cricketops/cricket-services/shared/models"
)

// TimerReconciler keeps this instance's in-memory countdowns aligned with
// cluster ownership. Countdowns live only in the process that armed them; when
// that process dies or ownership moves on the hash ring, the reconciler on the
// newly responsible instance rehosts the countdown from the persisted time
// remaining, and instances that lost ownership disarm theirs.
type TimerReconciler struct {
	interval          time.Duration
	auctionStore      *store.AuctionStore
	assignmentManager *cluster.ServiceAssignmentManager
	timers            *timer.Registry
	ctx               context.Context
	cancel            context.CancelFunc
}

// NewTimerReconciler creates a reconciler sweeping at the given interval.
func NewTimerReconciler(
	interval time.Duration,
	auctionStore *store.AuctionStore,
	assignmentManager *cluster.ServiceAssignmentManager,
	timers *timer.Registry,
) *TimerReconciler {
	ctx, cancel := context.WithCancel(context.Background())
	return &TimerReconciler{
		interval:          interval,
		auctionStore:      auctionStore,
		assignmentManager: assignmentManager,
		timers:            timers,
		ctx:               ctx,
		cancel:            cancel,
	}
}

// Start runs the reconcile loop. This should be run in a goroutine.
func (tr *TimerReconciler) Start() {
	log.Printf("INFO: Timer reconciler starting with interval %v.", tr.interval)
	ticker := time.NewTicker(tr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-tr.ctx.Done():
			log.Println("INFO: Timer reconciler shutting down.")
			return
		case <-ticker.C:
			tr.reconcile()
		}
	}
}

// Stop gracefully stops the reconcile loop.
func (tr *TimerReconciler) Stop() {
	tr.cancel()
}

// reconcile executes one ownership sweep over the active auctions.
func (tr *TimerReconciler) reconcile() {
	active, err := tr.auctionStore.ListAuctionsByStatus(tr.ctx, models.AuctionStatusActive)
	if err != nil {
		log.Printf("ERROR: Timer reconciler failed to list active auctions: %v", err)
		return
	}

	for _, auction := range active {
		responsible, err := tr.assignmentManager.IsResponsible(auction.ID)
		if err != nil {
			log.Printf("WARN: Timer reconciler failed to check responsibility for auction %s: %v", auction.ID, err)
			continue
		}

		_, hosted := tr.timers.GetTimerStatus(auction.ID)

		switch {
		case responsible && !hosted && auction.CurrentLot != nil:
			remaining := auction.CurrentLot.TimeRemaining
			if remaining <= 0 {
				remaining = 1 // already due, let the expiry path finalize it
			}
			tr.timers.StartTimer(auction.ID, remaining)
			log.Printf("INFO: Rehosted countdown for auction %s with %ds remaining.", auction.ID, remaining)

		case !responsible && hosted:
			tr.timers.StopTimer(auction.ID)
			log.Printf("INFO: Released countdown for auction %s; another instance is responsible.", auction.ID)
		}
	}
}
