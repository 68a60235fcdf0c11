package service

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex(logrus.New())
	defer km.Stop()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("doctor:2025-01-20:morning")
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyedMutex_SweepRemovesOnlyStale(t *testing.T) {
	km := NewKeyedMutex(logrus.New())
	defer km.Stop()

	km.Lock("a")()
	unlockB := km.Lock("b")

	// "b" is held, so it survives even with a cutoff in the future.
	cleaned := km.sweep(time.Now().Add(time.Hour))
	assert.Equal(t, 1, cleaned)
	assert.Equal(t, 1, km.size())

	unlockB()
	assert.Equal(t, 0, km.sweep(time.Now().Add(-time.Hour)))
	assert.Equal(t, 1, km.sweep(time.Now().Add(time.Hour)))
	assert.Equal(t, 0, km.size())
}

func TestKeyedMutex_StopIsIdempotent(t *testing.T) {
	km := NewKeyedMutex(logrus.New())
	km.Stop()
	km.Stop()
}
