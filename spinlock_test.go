package afl

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinlockMutualExclusion(t *testing.T) {
	var s Spinlock
	var counter int
	var wg sync.WaitGroup

	const goroutines = 32
	const iterations = 1000

	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				s.Lock()
				counter++
				s.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*iterations, counter)
}

func TestSpinlockRoundTripsToUnlocked(t *testing.T) {
	var s Spinlock
	s.Lock()
	s.Unlock()
	assert.Equal(t, uint32(spinUnlocked), s.state)
}

func TestSpinlockOwnerLockDetectsSelfDeadlock(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var s Spinlock
	assert.NoError(t, s.OwnerLock())
	err := s.OwnerLock()
	assert.ErrorIs(t, err, ErrAlreadyOwned)
	assert.NoError(t, s.OwnerUnlock())
}

func TestSpinlockOwnerUnlockByOwnerSucceeds(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var s Spinlock
	assert.NoError(t, s.OwnerLock())
	assert.NoError(t, s.OwnerUnlock())
	assert.Equal(t, uint32(spinUnlocked), s.state)
}

func TestSpinlockInitAndDestroyResetState(t *testing.T) {
	var s Spinlock
	assert.NoError(t, s.OwnerLock())
	s.Destroy()
	assert.Equal(t, uint32(spinUnlocked), s.state)

	s.Init()
	assert.Equal(t, uint32(spinUnlocked), s.state)
}
