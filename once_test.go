package afl

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestOnceExactness runs 100 goroutines concurrently calling Do with an
// initializer that increments a counter; the counter must end at exactly 1.
func TestOnceExactness(t *testing.T) {
	var once Once
	var counter int32
	var wg sync.WaitGroup

	const goroutines = 100

	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			once.Do(func() {
				atomic.AddInt32(&counter, 1)
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), counter)
	assert.NotEqual(t, uint32(0), loadAcquire(&once.state)&onceCompleted)
}

func TestOnceSecondCallIsNoop(t *testing.T) {
	var once Once
	var calls int

	once.Do(func() { calls++ })
	once.Do(func() { calls++ })

	assert.Equal(t, 1, calls)
}

func TestOnceWakesAllWaiters(t *testing.T) {
	var once Once
	release := make(chan struct{})
	var started sync.WaitGroup
	var finished sync.WaitGroup

	const waiters = 8
	started.Add(waiters)
	finished.Add(waiters)

	for i := 0; i < waiters; i++ {
		go func() {
			started.Done()
			once.Do(func() {
				<-release
			})
			finished.Done()
		}()
	}

	started.Wait()
	// Give every goroutine a chance to reach the futex wait path before
	// the initializer completes.
	for loadAcquire(&once.state)&onceWaiters == 0 && loadAcquire(&once.state)&onceCompleted == 0 {
		pauseCPU()
	}

	close(release)
	finished.Wait()
}
