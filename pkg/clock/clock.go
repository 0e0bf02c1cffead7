package clock

import (
	"sync/atomic"
	"testing"
	"time"
)

// Clock is the only time source used by the helpers (timestamps of backups,
// progress estimates, collection modification times).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

var current atomic.Value // holds a clockHolder

type clockHolder struct{ Clock }

func init() {
	current.Store(clockHolder{systemClock{}})
}

// Now is the same as time.Now() but can be frozen in tests.
func Now() time.Time {
	return current.Load().(clockHolder).Now()
}

// Since is the same as time.Since() but relies on the current clock.
func Since(t time.Time) time.Duration {
	return Now().Sub(t)
}

// TestClock is a clock whose time only moves when asked to.
type TestClock struct {
	now time.Time
}

func (c *TestClock) Now() time.Time {
	return c.now
}

// FastForward moves the clock forward and returns the new current time.
func (c *TestClock) FastForward(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

// FreezeForTest stops the time at now until the end of the test.
func FreezeForTest(t testing.TB, now time.Time) *TestClock {
	testClock := &TestClock{now: now}
	current.Store(clockHolder{testClock})
	t.Cleanup(func() {
		current.Store(clockHolder{systemClock{}})
	})
	return testClock
}
