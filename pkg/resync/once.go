package resync

import (
	"sync"
	"sync/atomic"
)

// Once is like sync.Once but can be reset so that singletons can be
// reinitialized between tests.
type Once struct {
	done uint32
	m    sync.Mutex
}

// Do calls f if and only if Do is being called for the first time since
// the creation or the last Reset of this instance.
func (o *Once) Do(f func()) {
	if atomic.LoadUint32(&o.done) == 1 {
		return
	}
	o.m.Lock()
	defer o.m.Unlock()
	if o.done == 0 {
		defer atomic.StoreUint32(&o.done, 1)
		f()
	}
}

// Reset allows the next call to Do to execute its function again.
func (o *Once) Reset() {
	o.m.Lock()
	defer o.m.Unlock()
	atomic.StoreUint32(&o.done, 0)
}
