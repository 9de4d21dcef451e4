// auction/timer/registry.go
package timer

import (
	"context"
	"log"
	"sync"
	"time"
)

// TickPersister writes the countdown's remaining seconds back to the auction
// document once per tick. The persisted value is a mirror for observers; the
// in-memory counter held here is authoritative for when advancement fires.
type TickPersister interface {
	UpdateLotTimeRemaining(ctx context.Context, auctionID string, remaining int64) error
}

// Advancer finalizes the current lot and activates the next one when a
// countdown reaches zero. Bound after construction to break the construction
// cycle between the registry and the auction service.
type Advancer interface {
	AdvanceExpired(ctx context.Context, auctionID string) error
}

// Status is a read-only snapshot of one countdown for diagnostics.
type Status struct {
	Remaining int64 `json:"remaining"`
	Duration  int64 `json:"duration"`
	Elapsed   int64 `json:"elapsed"`
	Running   bool  `json:"running"`
}

// Registry owns one independent countdown per auction key. It is constructed
// once at process start and injected wherever timers are needed; there is no
// process-wide timer state.
type Registry struct {
	tick      time.Duration
	persister TickPersister

	mu       sync.Mutex
	advancer Advancer
	timers   map[string]*entry
}

// entry fields are protected by Registry.mu. The identity of the entry pointer
// doubles as a registration generation: a tick whose entry is no longer in the
// map must take no further action.
type entry struct {
	duration  int64
	remaining int64
	running   bool
	stop      chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

func (e *entry) signalStop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

// NewRegistry creates an empty registry ticking at the given cadence
// (one second in production; tests shorten it).
func NewRegistry(tick time.Duration, persister TickPersister) *Registry {
	return &Registry{
		tick:      tick,
		persister: persister,
		timers:    make(map[string]*entry),
	}
}

// BindAdvancer sets the advancement callback. Must be called before any timer
// can expire meaningfully.
func (r *Registry) BindAdvancer(a Advancer) {
	r.mu.Lock()
	r.advancer = a
	r.mu.Unlock()
}

// StartTimer registers a fresh countdown for the key, replacing any existing
// one. The same key never has two concurrently ticking countdowns.
func (r *Registry) StartTimer(auctionID string, durationSeconds int64) {
	e := &entry{
		duration:  durationSeconds,
		remaining: durationSeconds,
		running:   true,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	r.mu.Lock()
	old := r.timers[auctionID]
	if old != nil {
		old.running = false
	}
	r.timers[auctionID] = e
	r.mu.Unlock()

	if old != nil {
		old.signalStop()
	}
	go r.run(auctionID, e)
}

// ResetTimer sets the remaining counter back to durationSeconds without
// restarting the ticking schedule. If no countdown is running for the key,
// one is started fresh. Called on every accepted bid.
func (r *Registry) ResetTimer(auctionID string, durationSeconds int64) {
	r.mu.Lock()
	e := r.timers[auctionID]
	if e != nil && e.running {
		e.duration = durationSeconds
		e.remaining = durationSeconds
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	r.StartTimer(auctionID, durationSeconds)
}

// PauseTimer stops the ticking schedule but retains the remaining counter so
// ResumeTimer continues from where the countdown left off.
func (r *Registry) PauseTimer(auctionID string) {
	r.mu.Lock()
	e := r.timers[auctionID]
	if e == nil || !e.running {
		r.mu.Unlock()
		return
	}
	e.running = false
	r.mu.Unlock()

	e.signalStop()
	<-e.done
}

// ResumeTimer restarts ticking from the retained remaining value. Returns
// false when no paused countdown is registered for the key, so the caller can
// decide to arm a fresh timer from persisted state instead.
func (r *Registry) ResumeTimer(auctionID string) bool {
	r.mu.Lock()
	e := r.timers[auctionID]
	if e == nil || e.running {
		r.mu.Unlock()
		return e != nil
	}
	resumed := &entry{
		duration:  e.duration,
		remaining: e.remaining,
		running:   true,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	r.timers[auctionID] = resumed
	r.mu.Unlock()

	go r.run(auctionID, resumed)
	return true
}

// StopTimer unconditionally cancels and discards the countdown for the key.
// Used when an auction completes or is deleted.
func (r *Registry) StopTimer(auctionID string) {
	r.mu.Lock()
	e := r.timers[auctionID]
	if e != nil {
		delete(r.timers, auctionID)
		e.running = false
	}
	r.mu.Unlock()

	if e != nil {
		e.signalStop()
	}
}

// StopAll cancels every registered countdown. Used on shutdown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	all := make([]*entry, 0, len(r.timers))
	for id, e := range r.timers {
		delete(r.timers, id)
		e.running = false
		all = append(all, e)
	}
	r.mu.Unlock()

	for _, e := range all {
		e.signalStop()
	}
}

// GetTimerStatus returns a snapshot for the key, or ok=false when no timer is
// registered.
func (r *Registry) GetTimerStatus(auctionID string) (Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.timers[auctionID]
	if e == nil {
		return Status{}, false
	}
	return Status{
		Remaining: e.remaining,
		Duration:  e.duration,
		Elapsed:   e.duration - e.remaining,
		Running:   e.running,
	}, true
}

func (r *Registry) run(auctionID string, e *entry) {
	defer close(e.done)

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			if r.handleTick(auctionID, e) {
				return
			}
		}
	}
}

// handleTick processes one tick and reports whether the loop must stop. Any
// persistence or advancement failure stops the countdown for this key rather
// than looping on an inconsistent auction; other keys are unaffected.
func (r *Registry) handleTick(auctionID string, e *entry) bool {
	r.mu.Lock()
	if r.timers[auctionID] != e || !e.running {
		// Cancelled or replaced while this tick was pending.
		r.mu.Unlock()
		return true
	}
	e.remaining--
	remaining := e.remaining
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if remaining > 0 {
		if err := r.persister.UpdateLotTimeRemaining(ctx, auctionID, remaining); err != nil {
			log.Printf("ERROR: Timer %s: failed to persist time remaining: %v. Stopping timer.", auctionID, err)
			r.discard(auctionID, e)
			return true
		}
		return false
	}

	// Reached zero: unregister before advancing so the advancement can arm a
	// fresh countdown for the next lot, and so this invocation never ticks
	// again regardless of what advancement does.
	if !r.discard(auctionID, e) {
		return true
	}

	r.mu.Lock()
	adv := r.advancer
	r.mu.Unlock()
	if adv == nil {
		log.Printf("WARN: Timer %s expired with no advancer bound.", auctionID)
		return true
	}
	if err := adv.AdvanceExpired(ctx, auctionID); err != nil {
		log.Printf("ERROR: Timer %s: advancement on expiry failed: %v", auctionID, err)
	}
	return true
}

// discard removes the entry if it is still the registered one for the key.
// Returns false when the entry had already been cancelled or replaced.
func (r *Registry) discard(auctionID string, e *entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timers[auctionID] != e {
		return false
	}
	delete(r.timers, auctionID)
	e.running = false
	return true
}
