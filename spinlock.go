package afl

// Spinlock is a pure user-space busy-wait lock: one cache-line-aligned
// 32-bit word, zero means unlocked. Unlike Mutex, Spinlock never enters
// the kernel and never sleeps; a contended Lock call spins, retrying
// under pauseCPU, until it observes the unlocked value.
//
// There is no fairness guarantee: a spinning thread may be starved
// indefinitely by others repeatedly re-acquiring the lock. This is an
// explicit trade for the lowest possible uncontended cost; callers who
// need fairness should use Mutex instead.
//
// The zero value is an unlocked Spinlock, ready to use. Init exists only
// for API symmetry with the other primitives.
type Spinlock struct {
	noCopy noCopy
	state  uint32
	_      [cacheLineSize - 4]byte
}

const (
	spinUnlocked = 0
	spinLocked   = 1
)

// Init resets spinlock to the unlocked state. Provided for API symmetry
// with the other primitives; the zero value is already unlocked.
func (s *Spinlock) Init() {
	storeRelease(&s.state, spinUnlocked)
}

// Lock acquires the spinlock, busy-waiting if it is already held. It does
// not track an owner: any goroutine may call Unlock, including one other
// than the one that called Lock.
func (s *Spinlock) Lock() {
	if swapAcquire(&s.state, spinLocked) == spinUnlocked {
		return
	}
	for {
		pauseCPU()
		if swapAcquire(&s.state, spinLocked) == spinUnlocked {
			return
		}
	}
}

// Unlock releases the spinlock. Calling Unlock on a Spinlock that was
// never locked is unspecified behavior; it is not checked.
func (s *Spinlock) Unlock() {
	storeRelease(&s.state, spinUnlocked)
}

// Destroy resets the spinlock's state word. The caller must ensure no
// other goroutine still holds or awaits the lock; destroying a held or
// awaited Spinlock is undefined behavior.
func (s *Spinlock) Destroy() {
	storeRelease(&s.state, spinUnlocked)
}

// OwnerLock acquires the spinlock on behalf of the calling OS thread,
// recording its fast thread identifier in the state word. If the calling
// thread already holds the lock, it returns ErrAlreadyOwned immediately
// instead of spinning forever; any other caller spins exactly like Lock.
//
// As with every owner-tracked primitive in this package, the calling
// goroutine must not migrate to a different OS thread between OwnerLock
// and the matching OwnerUnlock; see the package doc comment.
func (s *Spinlock) OwnerLock() error {
	tid := fastTID()

	if loadAcquire(&s.state) == tid {
		debugf("spinlock already owned by tid %d", tid)
		return ErrAlreadyOwned
	}

	for {
		if casAcquire(&s.state, spinUnlocked, tid) {
			return nil
		}
		pauseCPU()
	}
}

// OwnerUnlock releases a spinlock acquired with OwnerLock. It returns
// ErrNotOwner, without mutating the state word, if the calling thread is
// not the current owner.
func (s *Spinlock) OwnerUnlock() error {
	tid := fastTID()

	if loadAcquire(&s.state) != tid {
		debugf("spinlock unlock by non-owner tid %d", tid)
		return ErrNotOwner
	}

	storeRelease(&s.state, spinUnlocked)
	return nil
}

// noCopy can be embedded to help vet's -copylocks check catch accidental
// copies of a primitive whose state word must not be duplicated.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
