package commands

import (
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

const (
	// persistInterval is the minimum gap between database writes of a
	// courier's position. Live readers get fresher data from the cache.
	persistInterval = 60 * time.Second

	// fanOutInterval deduplicates live broadcasts of a courier's position.
	fanOutInterval = time.Second
)

// locationThrottle tracks, per courier, when a position was last written to
// the database and last broadcast live. Checking is separate from marking so
// a report that later fails validation does not consume the window.
type locationThrottle struct {
	mu            sync.Mutex
	lastPersisted map[kernel.UUID]time.Time
	lastFannedOut map[kernel.UUID]time.Time
}

func newLocationThrottle() *locationThrottle {
	return &locationThrottle{
		lastPersisted: make(map[kernel.UUID]time.Time),
		lastFannedOut: make(map[kernel.UUID]time.Time),
	}
}

// persistDue reports whether enough time has passed since the courier's
// position was last written to the database.
func (t *locationThrottle) persistDue(courierID kernel.UUID, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, seen := t.lastPersisted[courierID]
	return !seen || now.Sub(last) >= persistInterval
}

// markPersisted records a database write of the courier's position.
func (t *locationThrottle) markPersisted(courierID kernel.UUID, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastPersisted[courierID] = now
}

// fanOutDue reports whether the courier's position may be broadcast live.
func (t *locationThrottle) fanOutDue(courierID kernel.UUID, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, seen := t.lastFannedOut[courierID]
	return !seen || now.Sub(last) >= fanOutInterval
}

// markFannedOut records a live broadcast of the courier's position.
func (t *locationThrottle) markFannedOut(courierID kernel.UUID, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastFannedOut[courierID] = now
}

// forget drops the courier's throttle state. Called when a courier
// disconnects so a reconnect starts with a fresh window.
func (t *locationThrottle) forget(courierID kernel.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.lastPersisted, courierID)
	delete(t.lastFannedOut, courierID)
}
