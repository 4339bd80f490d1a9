package afl

// PIMutex is a blocking mutex whose contended path delegates to the
// kernel's priority-inheritance futex operations (FUTEX_LOCK_PI /
// FUTEX_UNLOCK_PI), so that a high-priority waiter temporarily boosts a
// low-priority holder's scheduling priority instead of suffering
// unbounded priority inversion. The zero value is an unlocked PIMutex,
// ready to use.
//
// PIMutex uses the kernel's authoritative thread id rather than the fast
// cached identifier, because FUTEX_LOCK_PI requires that exact encoding
// to perform priority inheritance. As with every owner-tracked primitive
// in this package, the calling goroutine must not migrate OS threads
// between Lock and the matching Unlock; see the package doc comment.
type PIMutex struct {
	noCopy noCopy
	state  uint32
	_      [cacheLineSize - 4]byte
}

// Lock acquires the mutex. It returns ErrAlreadyOwned, without blocking
// or making a futex call, if the calling thread already holds the lock.
// Otherwise the fast path is a single CAS; on contention it blocks inside
// the kernel's FUTEX_LOCK_PI, which performs priority inheritance for the
// duration of the block.
func (m *PIMutex) Lock() error {
	tid := authoritativeTID()
	state := loadAcquire(&m.state)

	if state&tidMask == tid {
		debugf("pi mutex already owned by tid %d", tid)
		return ErrAlreadyOwned
	}

	if state == mutexUnlocked && casAcquire(&m.state, mutexUnlocked, tid) {
		return nil
	}

	futexLockPI(&m.state)
	return nil
}

// Unlock releases the mutex. It returns ErrNotOwner, without mutating
// state, if the calling thread does not hold the lock.
//
// The fast path CASes the word from the caller's TID back to unlocked.
// If that fails — because the kernel has participated in the lock (a
// waiter blocked, or PI bookkeeping requires it) — Unlock defers to
// FUTEX_UNLOCK_PI rather than clearing the word itself: "if the word is
// still mine, clear it; otherwise let the kernel handle it," not a
// transliteration of reusing an overwritten CAS-expected slot.
func (m *PIMutex) Unlock() error {
	tid := authoritativeTID()
	state := loadAcquire(&m.state)

	if state&tidMask != tid {
		debugf("pi mutex unlock by non-owner tid %d", tid)
		return ErrNotOwner
	}

	if casAcquire(&m.state, tid, mutexUnlocked) {
		return nil
	}

	futexUnlockPI(&m.state)
	return nil
}

// Destroy resets the mutex's state word. The caller must ensure no other
// goroutine still holds or awaits the lock.
func (m *PIMutex) Destroy() {
	storeRelease(&m.state, mutexUnlocked)
}
