package afl

import "math"

// Once is a run-exactly-once coordinator: the first caller to Do runs the
// initializer; concurrent callers block until it completes; later
// callers return immediately after a single relaxed load. The zero value
// is a pristine, uninitialized Once, ready to use.
type Once struct {
	noCopy noCopy
	state  uint32
	_      [cacheLineSize - 4]byte
}

const (
	onceUninitialized = 0
	onceInitializing  = 1
	onceCompleted     = 0x40000000
	onceWaiters       = waitersBit
)

// Do invokes init exactly once across all callers of this Once, no matter
// how many goroutines call Do concurrently. Every call to Do returns only
// after some call's init has returned; the completion is acquire/release
// ordered, so writes made by init happen-before every caller's return.
//
// If init panics, the Once's state word remains stuck in the
// initializing state and every subsequent caller — including ones that
// already started waiting — blocks forever. Recovering from a panicking
// initializer is out of scope; callers that need recovery must guard
// their own init function.
func (o *Once) Do(init func()) {
	if loadAcquire(&o.state)&onceCompleted != 0 {
		return
	}
	o.doSlow(init)
}

func (o *Once) doSlow(init func()) {
	for {
		if casAcquire(&o.state, onceUninitialized, onceInitializing) {
			init()

			if swapAcquire(&o.state, onceCompleted)&onceWaiters != 0 {
				futexWake(&o.state, math.MaxInt32)
			}
			return
		}

		state := loadAcquire(&o.state)
		if state&onceCompleted != 0 {
			return
		}

		if state == onceInitializing {
			orFetch(&o.state, onceWaiters)
		}

		futexWait(&o.state, onceInitializing|onceWaiters)

		if loadAcquire(&o.state)&onceCompleted != 0 {
			return
		}
	}
}
