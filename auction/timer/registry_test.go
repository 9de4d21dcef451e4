// auction/timer/registry_test.go
package timer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type memPersister struct {
	mu      sync.Mutex
	updates map[string][]int64
	err     error
}

func newMemPersister() *memPersister {
	return &memPersister{updates: make(map[string][]int64)}
}

func (p *memPersister) UpdateLotTimeRemaining(ctx context.Context, auctionID string, remaining int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.updates[auctionID] = append(p.updates[auctionID], remaining)
	return nil
}

func (p *memPersister) updatesFor(auctionID string) []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int64(nil), p.updates[auctionID]...)
}

type chanAdvancer struct {
	expired chan string
}

func newChanAdvancer() *chanAdvancer {
	return &chanAdvancer{expired: make(chan string, 16)}
}

func (a *chanAdvancer) AdvanceExpired(ctx context.Context, auctionID string) error {
	a.expired <- auctionID
	return nil
}

func waitExpired(t *testing.T, a *chanAdvancer, want string) {
	t.Helper()
	select {
	case got := <-a.expired:
		if got != want {
			t.Fatalf("advancement fired for %q, expected %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for advancement of %q", want)
	}
}

func assertNoExpiry(t *testing.T, a *chanAdvancer, within time.Duration) {
	t.Helper()
	select {
	case got := <-a.expired:
		t.Fatalf("unexpected advancement for %q", got)
	case <-time.After(within):
	}
}

func TestExpiryAdvancesExactlyOnce(t *testing.T) {
	persister := newMemPersister()
	advancer := newChanAdvancer()
	reg := NewRegistry(5*time.Millisecond, persister)
	reg.BindAdvancer(advancer)
	t.Cleanup(reg.StopAll)

	reg.StartTimer("a1", 3)

	waitExpired(t, advancer, "a1")
	assertNoExpiry(t, advancer, 50*time.Millisecond)

	if _, ok := reg.GetTimerStatus("a1"); ok {
		t.Fatal("expected the countdown to be unregistered after expiry")
	}

	// Each surviving tick persisted its remaining seconds.
	updates := persister.updatesFor("a1")
	if len(updates) != 2 || updates[0] != 2 || updates[1] != 1 {
		t.Fatalf("unexpected persisted updates: %v", updates)
	}
}

func TestResetSetsCounterWithoutUnregistering(t *testing.T) {
	reg := NewRegistry(time.Hour, newMemPersister())
	reg.BindAdvancer(newChanAdvancer())
	t.Cleanup(reg.StopAll)

	reg.StartTimer("a1", 30)
	reg.ResetTimer("a1", 45)

	status, ok := reg.GetTimerStatus("a1")
	if !ok || !status.Running {
		t.Fatalf("expected a running countdown, got ok=%v status=%+v", ok, status)
	}
	if status.Remaining != 45 || status.Duration != 45 {
		t.Fatalf("expected counter reset to 45, got %+v", status)
	}

	// Resetting an unregistered key arms a fresh countdown.
	reg.ResetTimer("a2", 10)
	if status, ok := reg.GetTimerStatus("a2"); !ok || status.Remaining != 10 {
		t.Fatalf("expected a fresh countdown for a2, got ok=%v status=%+v", ok, status)
	}
}

func TestPauseRetainsRemainingAndResumeContinues(t *testing.T) {
	reg := NewRegistry(time.Hour, newMemPersister())
	reg.BindAdvancer(newChanAdvancer())
	t.Cleanup(reg.StopAll)

	reg.StartTimer("a1", 30)
	reg.PauseTimer("a1")

	status, ok := reg.GetTimerStatus("a1")
	if !ok {
		t.Fatal("expected the paused countdown to stay registered")
	}
	if status.Running {
		t.Fatal("expected the paused countdown to not be running")
	}
	if status.Remaining != 30 {
		t.Fatalf("expected 30s retained, got %d", status.Remaining)
	}

	if !reg.ResumeTimer("a1") {
		t.Fatal("expected ResumeTimer to find the paused countdown")
	}
	status, _ = reg.GetTimerStatus("a1")
	if !status.Running || status.Remaining != 30 {
		t.Fatalf("expected a running countdown with 30s, got %+v", status)
	}
}

func TestResumeWithoutCountdown(t *testing.T) {
	reg := NewRegistry(time.Hour, newMemPersister())
	t.Cleanup(reg.StopAll)

	if reg.ResumeTimer("missing") {
		t.Fatal("expected ResumeTimer to report no countdown")
	}
}

func TestStopSilencesCountdown(t *testing.T) {
	advancer := newChanAdvancer()
	reg := NewRegistry(5*time.Millisecond, newMemPersister())
	reg.BindAdvancer(advancer)
	t.Cleanup(reg.StopAll)

	reg.StartTimer("a1", 2)
	reg.StopTimer("a1")

	if _, ok := reg.GetTimerStatus("a1"); ok {
		t.Fatal("expected the countdown to be unregistered after stop")
	}
	assertNoExpiry(t, advancer, 50*time.Millisecond)
}

func TestCountdownsAreIndependentPerKey(t *testing.T) {
	advancer := newChanAdvancer()
	reg := NewRegistry(5*time.Millisecond, newMemPersister())
	reg.BindAdvancer(advancer)
	t.Cleanup(reg.StopAll)

	reg.StartTimer("short", 2)
	reg.StartTimer("long", 1000)

	waitExpired(t, advancer, "short")

	status, ok := reg.GetTimerStatus("long")
	if !ok || !status.Running {
		t.Fatalf("expected the long countdown to keep running, got ok=%v status=%+v", ok, status)
	}
}

func TestStartReplacesExistingCountdown(t *testing.T) {
	reg := NewRegistry(time.Hour, newMemPersister())
	t.Cleanup(reg.StopAll)

	reg.StartTimer("a1", 30)
	reg.StartTimer("a1", 60)

	status, ok := reg.GetTimerStatus("a1")
	if !ok || status.Remaining != 60 || status.Duration != 60 {
		t.Fatalf("expected the replacement countdown, got ok=%v status=%+v", ok, status)
	}
}

func TestPersistFailureStopsCountdown(t *testing.T) {
	persister := newMemPersister()
	persister.err = errors.New("mongo unreachable")
	advancer := newChanAdvancer()
	reg := NewRegistry(5*time.Millisecond, persister)
	reg.BindAdvancer(advancer)
	t.Cleanup(reg.StopAll)

	reg.StartTimer("a1", 10)

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := reg.GetTimerStatus("a1"); !ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("countdown not stopped after persist failure")
		case <-time.After(10 * time.Millisecond):
		}
	}
	// No advancement for a countdown killed by persistence failure.
	assertNoExpiry(t, advancer, 50*time.Millisecond)
}
