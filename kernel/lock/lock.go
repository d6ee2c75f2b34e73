// Package lock implements the kernel core's single mutual-exclusion
// primitive (§4.A). A Lock is embedded directly in the data structure it
// protects; ownership is tracked by PID rather than by goroutine, so that
// Verify can ask the multitasker facade whether the current owner is still
// a viable process and self-heal a lock left behind by a killed owner.
//
// This is the Go rendering of kernelLock.c: the original scans a process
// table on every contended Acquire to make sure the holder hasn't been
// killed out from under it. We keep the same shape (grant/verify/release)
// but replace the yield-loop-over-global-state with a facade callback.
package lock

import (
	"errors"
	"sync"
	"sync/atomic"

	"visopsys.dev/kernel/kernel/task"
)

var (
	// ErrBusy is returned by Acquire when called from interrupt context
	// and the lock is already held: interrupt handlers never block.
	ErrBusy = errors.New("lock: busy")
	// ErrNoLock is returned by Release when the caller does not hold the
	// lock.
	ErrNoLock = errors.New("lock: not held by caller")
)

// boostPriorityInversion records the original kernelLock.c's compiled-out
// priority-boost path (§9 design notes) as a constant only: this package
// has no boost code path and nothing reads the constant.
const boostPriorityInversion = false

// Lock guards an arbitrary resource. Zero value is an unlocked lock.
type Lock struct {
	mu    sync.Mutex // protects owner against torn reads/writes across goroutines
	owner int32       // task.PID of the current owner, 0 if free

	facade task.Facade

	waiting int32 // diagnostic counter, mirrors syncutil.RWMutexTracker's nwait*
}

// New creates a Lock that consults f to validate lock ownership. f may be
// nil, in which case Verify always treats a non-zero owner as viable
// (useful for tests that don't wire up a scheduler).
func New(f task.Facade) *Lock {
	return &Lock{facade: f}
}

// Bind attaches a facade to a zero-value Lock after the fact -- useful
// when a Lock is embedded in a struct created before the scheduler exists,
// matching how the original embeds a bare `lock` field in any data
// structure and initializes it lazily.
func (l *Lock) Bind(f task.Facade) {
	l.facade = f
}

func (l *Lock) owningPID() task.PID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return task.PID(l.owner)
}

// Verify reports whether the current owner is still a viable lock holder:
// it must exist and not be in a dead state (sleeping, stopped, finished,
// zombie -- task.State.Dead). A free lock is trivially "viable" (there is
// nothing to verify).
func (l *Lock) Verify() bool {
	l.mu.Lock()
	owner := task.PID(l.owner)
	l.mu.Unlock()
	if owner == 0 {
		return true
	}
	return l.verifyLocked(owner)
}

// Acquire obtains the lock for the facade's current process.
//
//   - If the lock is free, it is granted immediately.
//   - If the caller already owns it, Acquire is a no-op success
//     (re-entrant on the same PID).
//   - If the caller is running in interrupt context, Acquire never blocks:
//     it fails with ErrBusy immediately.
//   - Otherwise the caller repeatedly yields the CPU, re-checking Verify
//     on each iteration; a dead owner's lock is treated as free and is
//     taken on the next iteration. Fairness is best-effort only (§5): there
//     is no queueing beyond "keep retrying".
func (l *Lock) Acquire() error {
	current := l.currentPID()

	for {
		l.mu.Lock()
		owner := task.PID(l.owner)

		if owner == 0 || owner == current {
			l.owner = int32(current)
			l.mu.Unlock()
			return nil
		}

		// Owner is some other, possibly dead, process.
		if !l.verifyLocked(owner) {
			l.owner = int32(current)
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		if l.facade != nil && l.facade.InInterruptContext() {
			return ErrBusy
		}

		atomic.AddInt32(&l.waiting, 1)
		if l.facade != nil {
			l.facade.Yield()
		}
		atomic.AddInt32(&l.waiting, -1)
	}
}

// verifyLocked is Verify's body for an already-known owner, called with
// l.mu held.
func (l *Lock) verifyLocked(owner task.PID) bool {
	if l.facade == nil {
		return true
	}
	st, err := l.facade.State(owner)
	if err != nil {
		return false
	}
	return !st.Dead()
}

func (l *Lock) currentPID() task.PID {
	if l.facade == nil {
		return 0
	}
	return l.facade.CurrentPID()
}

// Release gives up the lock. It fails with ErrNoLock if the caller does
// not currently hold it.
func (l *Lock) Release() error {
	current := l.currentPID()

	l.mu.Lock()
	defer l.mu.Unlock()
	if task.PID(l.owner) != current {
		return ErrNoLock
	}
	l.owner = 0
	return nil
}

// Owner returns the PID currently holding the lock, or 0 if it is free.
func (l *Lock) Owner() task.PID {
	return l.owningPID()
}

// Waiting returns the number of goroutines currently spinning in Acquire.
// Diagnostic only, mirroring syncutil.RWMutexTracker's counters.
func (l *Lock) Waiting() int {
	return int(atomic.LoadInt32(&l.waiting))
}
