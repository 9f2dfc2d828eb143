package workerpool

import (
	"esxi-stats/app/cache"
	"esxi-stats/app/logging"
	"esxi-stats/config"
	"fmt"
	"github.com/panjf2000/ants/v2"
	"sync"
)

type WorkerType string

const (
	WorkerTypePoll    = WorkerType("poll")
	WorkerTypeCommand = WorkerType("command")
)

const (
	defaultPollWorkers    = 1
	defaultCommandWorkers = 10
)

var (
	receiveTaskPool *ants.Pool
	m               sync.Mutex
)

func init() {
	receiveTaskPool, _ = ants.NewPool(10000,
		ants.WithNonblocking(false),
		ants.WithMaxBlockingTasks(0))
}

func Get(ID string, t WorkerType) *ants.Pool {
	k := poolKey(ID, t)
	p, exist := cache.INST.Get(k)
	if exist {
		return p.(*ants.Pool)
	}
	return newPool(ID, t)
}

// AddTask queues task on the pool of endpoint ID without blocking the caller.
func AddTask(ID string, t WorkerType, task func()) error {
	if _, err := size(t); err != nil {
		return err
	}
	return receiveTaskPool.Submit(func() {
		err := Get(ID, t).Submit(task)
		if err != nil {
			logging.L().Error("failed to add task: ", err)
		}
	})
}

func newPool(ID string, t WorkerType) *ants.Pool {
	m.Lock()
	defer m.Unlock()

	k := poolKey(ID, t)
	p, exist := cache.INST.Get(k)
	if exist {
		return p.(*ants.Pool)
	}

	n, err := size(t)
	if err != nil {
		logging.L().Panic("failed to create worker pool ", err)
		return nil
	}
	pool, err := ants.NewPool(n,
		ants.WithNonblocking(false),
		ants.WithMaxBlockingTasks(0))
	if err != nil {
		logging.L().Panic("failed to create worker pool ", err)
		return nil
	}
	cache.INST.Set(k, pool, -1)
	return pool
}

func size(t WorkerType) (int, error) {
	switch t {
	case WorkerTypePoll:
		if n := config.G.Esxi.RoutineCount.Poll; n > 0 {
			return n, nil
		}
		return defaultPollWorkers, nil
	case WorkerTypeCommand:
		if n := config.G.Esxi.RoutineCount.Command; n > 0 {
			return n, nil
		}
		return defaultCommandWorkers, nil
	}
	return 0, fmt.Errorf("unknown worker pool type [%s]", t)
}

// Release stops the pools of endpoint ID.
func Release(ID string) {
	m.Lock()
	defer m.Unlock()
	for _, t := range []WorkerType{WorkerTypePoll, WorkerTypeCommand} {
		k := poolKey(ID, t)
		if p, ok := cache.INST.Get(k); ok {
			p.(*ants.Pool).Release()
			cache.INST.Delete(k)
		}
	}
}

func poolKey(ID string, t WorkerType) string {
	return fmt.Sprintf("%s::%s", ID, t)
}
