package afl

import "errors"

// Sentinel errors returned by the owner-tracked primitives. A nil error
// return is success; the state word is left exactly as found on entry
// whenever one of these is returned.
var (
	// ErrAlreadyOwned is returned by an owner-tracked Lock when the calling
	// thread already holds the lock; returning this instead of deadlocking
	// is the whole point of owner tracking.
	ErrAlreadyOwned = errors.New("afl: lock already owned by calling thread")

	// ErrNotOwner is returned by an owner-tracked Unlock when the calling
	// thread does not hold the lock.
	ErrNotOwner = errors.New("afl: unlock by thread that does not own the lock")

	// ErrTooManyReentries is returned by RecursiveMutex.Lock when the
	// reentry counter would wrap past its maximum value.
	ErrTooManyReentries = errors.New("afl: recursive mutex reentry count overflow")
)
