package draft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVirtualClockFiresDueTimersInOrder(t *testing.T) {
	clock := NewVirtualClock()
	var fired []string

	clock.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	clock.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	clock.AfterFunc(time.Minute, func() { fired = append(fired, "late") })

	clock.Advance(5 * time.Second)

	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, 1, clock.PendingTimers())
}

func TestVirtualClockStoppedTimerNeverFires(t *testing.T) {
	clock := NewVirtualClock()
	fired := false

	timer := clock.AfterFunc(time.Second, func() { fired = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	clock.Advance(time.Minute)

	assert.False(t, fired)
	assert.Equal(t, 0, clock.PendingTimers())
}

func TestVirtualClockHonorsTimersArmedByCallbacks(t *testing.T) {
	clock := NewVirtualClock()
	var fired []string

	clock.AfterFunc(time.Second, func() {
		fired = append(fired, "first")
		clock.AfterFunc(time.Second, func() { fired = append(fired, "chained") })
	})

	clock.Advance(3 * time.Second)

	assert.Equal(t, []string{"first", "chained"}, fired)
	assert.Equal(t, clock.Now(), time.Unix(0, 0).Add(3*time.Second))
}
