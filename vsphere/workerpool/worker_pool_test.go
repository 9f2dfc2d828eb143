package workerpool

import (
	"esxi-stats/app/cache"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cache.Setup()
	os.Exit(m.Run())
}

func TestAddTask(t *testing.T) {
	var n int32
	var wg sync.WaitGroup
	wg.Add(5)
	for i := 0; i < 5; i++ {
		require.NoError(t, AddTask("esx", WorkerTypeCommand, func() {
			defer wg.Done()
			atomic.AddInt32(&n, 1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int32(5), atomic.LoadInt32(&n))
	assert.Same(t, Get("esx", WorkerTypeCommand), Get("esx", WorkerTypeCommand))
	assert.Equal(t, defaultCommandWorkers, Get("esx", WorkerTypeCommand).Cap())
	Release("esx")
}

func TestPollPoolIsSerial(t *testing.T) {
	var running, peak int32
	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, AddTask("serial", WorkerTypePoll, func() {
			defer wg.Done()
			cur := atomic.AddInt32(&running, 1)
			if cur > atomic.LoadInt32(&peak) {
				atomic.StoreInt32(&peak, cur)
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
	Release("serial")
}

func TestUnknownWorkerType(t *testing.T) {
	assert.Error(t, AddTask("esx", WorkerType("deploy"), func() {}))
}
