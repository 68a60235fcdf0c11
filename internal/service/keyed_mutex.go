package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// KeyedMutex serializes work per key inside this process, e.g. one clinic
// session of one doctor. Unused entries are swept by a background goroutine.
// Call Stop() during graceful shutdown.
type KeyedMutex struct {
	log *logrus.Logger

	mu sync.Map // map[string]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

func NewKeyedMutex(log *logrus.Logger) *KeyedMutex {
	km := &KeyedMutex{
		log:      log,
		stopChan: make(chan struct{}),
	}

	km.wg.Add(1)
	go km.cleanupLoop(mutexCleanupInterval)

	return km
}

// Lock acquires the mutex of key and returns its release function.
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	mt := k.get(key)
	mt.mu.Lock()
	mt.lastUsed.Store(time.Now().Unix())
	return func() {
		mt.lastUsed.Store(time.Now().Unix())
		mt.mu.Unlock()
	}
}

// Stop gracefully shuts down the cleanup goroutine.
// Safe to call multiple times.
func (k *KeyedMutex) Stop() {
	if k.stopped.CompareAndSwap(false, true) {
		close(k.stopChan)
		k.wg.Wait()
		k.log.Info("KeyedMutex stopped")
	}
}

func (k *KeyedMutex) get(key string) *mutexWithTimestamp {
	mt, _ := k.mu.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (k *KeyedMutex) cleanupLoop(interval time.Duration) {
	defer k.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-k.stopChan:
			k.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			k.sweep(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// sweep removes mutexes unused since cutoff. TryLock skips mutexes in use;
// lastUsed is re-checked under the lock so a concurrent Lock is never lost.
func (k *KeyedMutex) sweep(cutoff time.Time) int {
	cutoffUnix := cutoff.Unix()
	var cleaned int

	k.mu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffUnix {
				k.mu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		k.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
	return cleaned
}

func (k *KeyedMutex) size() int {
	n := 0
	k.mu.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
