package afl

// OwnerMutex is a blocking mutex that records the owning OS thread's fast
// identifier in place of a constant locked value, enabling self-deadlock
// detection and non-owner-unlock detection. The zero value is an
// unlocked OwnerMutex, ready to use.
//
// As with every owner-tracked primitive in this package, a goroutine
// holding an OwnerMutex must not migrate to a different OS thread for the
// duration it holds the lock; pin with runtime.LockOSThread if the Go
// scheduler might otherwise move it. See the package doc comment.
type OwnerMutex struct {
	noCopy noCopy
	state  uint32
	_      [cacheLineSize - 4]byte
}

// Lock acquires the mutex. It returns ErrAlreadyOwned, without blocking
// or mutating state, if the calling thread already holds the lock.
func (m *OwnerMutex) Lock() error {
	tid := fastTID()
	state := loadAcquire(&m.state)

	if state&tidMask == tid {
		debugf("mutex already owned by tid %d", tid)
		return ErrAlreadyOwned
	}

	if state&mutexWaiters != 0 {
		m.lockSlow(tid, state)
		return nil
	}

	if casAcquire(&m.state, mutexUnlocked, tid) {
		return nil
	}

	m.lockSlow(tid, loadAcquire(&m.state))
	return nil
}

func (m *OwnerMutex) lockSlow(tid uint32, state uint32) {
	if state&mutexWaiters == 0 {
		// If the holder released before the OR, the word is now just the
		// waiters bit, which no unlocker will wake anyone for: take it.
		if orFetch(&m.state, mutexWaiters) == mutexWaiters &&
			casAcquire(&m.state, mutexWaiters, tid|mutexWaiters) {
			return
		}
	}

	for {
		owner := loadAcquire(&m.state)
		futexWait(&m.state, owner|mutexWaiters)
		if casAcquire(&m.state, mutexUnlocked, tid|mutexWaiters) {
			return
		}
	}
}

// Unlock releases the mutex, waking one blocked waiter if any are
// present. It returns ErrNotOwner, without mutating state, if the
// calling thread does not hold the lock.
func (m *OwnerMutex) Unlock() error {
	tid := fastTID()
	state := loadAcquire(&m.state)

	if state&tidMask != tid {
		debugf("mutex unlock by non-owner tid %d", tid)
		return ErrNotOwner
	}

	if swapAcquire(&m.state, mutexUnlocked)&mutexWaiters != 0 {
		futexWake(&m.state, 1)
	}

	return nil
}

// Destroy resets the mutex's state word. The caller must ensure no other
// goroutine still holds or awaits the lock.
func (m *OwnerMutex) Destroy() {
	storeRelease(&m.state, mutexUnlocked)
}
