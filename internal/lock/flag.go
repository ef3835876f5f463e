// Package lock provides the in-process guard that keeps long-running
// operations such as a full refresh from overlapping.
package lock

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// ErrBusy is returned when the guarded operation is already running.
var ErrBusy = errors.New("operation already in progress")

// Flag is a non-blocking, process-local lock. It never waits: a second
// caller is told the operation is busy.
type Flag struct {
	name  string
	held  atomic.Bool
	since atomic.Int64 // unix nanoseconds of the current acquisition
}

// NewFlag creates a released flag with the given name.
func NewFlag(name string) *Flag {
	return &Flag{name: name}
}

// TryAcquire takes the flag. Returns false if it is already held.
func (f *Flag) TryAcquire() bool {
	if !f.held.CompareAndSwap(false, true) {
		return false
	}
	f.since.Store(time.Now().UnixNano())
	return true
}

// Release gives the flag back. Returns false if it was not held.
func (f *Flag) Release() bool {
	if !f.held.CompareAndSwap(true, false) {
		return false
	}
	f.since.Store(0)
	return true
}

// IsHeld returns true if the flag is currently held.
func (f *Flag) IsHeld() bool {
	return f.held.Load()
}

// HeldSince returns when the current holder acquired the flag, or the zero
// time when it is free.
func (f *Flag) HeldSince() time.Time {
	ns := f.since.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Name returns the name of the flag.
func (f *Flag) Name() string {
	return f.name
}

// WithLock runs fn while holding the flag and releases it afterwards, even
// if fn panics. Returns ErrBusy without running fn when the flag is held.
//
// Example:
//
//	err := refreshFlag.WithLock(func() error {
//	    return svc.RefreshAll(ctx, true)
//	})
//	if errors.Is(err, lock.ErrBusy) {
//	    log.Info("Refresh already running")
//	}
func (f *Flag) WithLock(fn func() error) error {
	if !f.TryAcquire() {
		return fmt.Errorf("%w: %s", ErrBusy, f.name)
	}
	defer f.Release()

	return fn()
}
