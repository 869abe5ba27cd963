package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dispatch/internal/core/domain/model/kernel"
)

func Test_LocationThrottle_PersistWindowIsPerCourier(t *testing.T) {
	throttle := newLocationThrottle()
	courierA := kernel.NewUUID()
	courierB := kernel.NewUUID()
	start := time.Now()

	assert.True(t, throttle.persistDue(courierA, start))
	throttle.markPersisted(courierA, start)

	assert.False(t, throttle.persistDue(courierA, start.Add(30*time.Second)))
	assert.True(t, throttle.persistDue(courierB, start.Add(30*time.Second)),
		"another courier has its own window")
	assert.True(t, throttle.persistDue(courierA, start.Add(60*time.Second)))
}

func Test_LocationThrottle_FanOutDedupesWithinOneSecond(t *testing.T) {
	throttle := newLocationThrottle()
	courierID := kernel.NewUUID()
	start := time.Now()

	assert.True(t, throttle.fanOutDue(courierID, start))
	throttle.markFannedOut(courierID, start)

	assert.False(t, throttle.fanOutDue(courierID, start.Add(400*time.Millisecond)))
	assert.True(t, throttle.fanOutDue(courierID, start.Add(time.Second)))
}

func Test_LocationThrottle_CheckWithoutMarkDoesNotConsumeWindow(t *testing.T) {
	throttle := newLocationThrottle()
	courierID := kernel.NewUUID()
	start := time.Now()

	assert.True(t, throttle.persistDue(courierID, start))
	assert.True(t, throttle.persistDue(courierID, start),
		"a dropped report must not block the next valid one")
}

func Test_LocationThrottle_ForgetResetsBothWindows(t *testing.T) {
	throttle := newLocationThrottle()
	courierID := kernel.NewUUID()
	start := time.Now()

	throttle.markPersisted(courierID, start)
	throttle.markFannedOut(courierID, start)
	throttle.forget(courierID)

	assert.True(t, throttle.persistDue(courierID, start.Add(time.Millisecond)))
	assert.True(t, throttle.fanOutDue(courierID, start.Add(time.Millisecond)))
}
