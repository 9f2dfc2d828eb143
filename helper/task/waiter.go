package task

import (
	"context"
	"errors"
	"esxi-stats/app/logging"
	"fmt"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"time"
)

var ErrTimeout = errors.New("task did not complete in time")

const (
	DefaultTimeout  = 300 * time.Second
	DefaultInterval = 2 * time.Second
)

type State string

const (
	StateSuccess State = "success"
	StateError   State = "error"
	StateTimeout State = "timeout"
)

type Result struct {
	State   State
	Entity  string
	Message string
}

// Source reads the current info of one remote task.
type Source interface {
	Info(ctx context.Context) (*types.TaskInfo, error)
}

type remote struct {
	t *object.Task
}

// FromTask adapts a govmomi task.
func FromTask(t *object.Task) Source {
	return remote{t: t}
}

func (r remote) Info(ctx context.Context) (*types.TaskInfo, error) {
	var mt mo.Task
	if err := r.t.Properties(ctx, r.t.Reference(), []string{"info"}, &mt); err != nil {
		return nil, err
	}
	return &mt.Info, nil
}

type Waiter struct {
	Timeout  time.Duration
	Interval time.Duration
}

func NewWaiter(timeout, interval time.Duration) Waiter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return Waiter{Timeout: timeout, Interval: interval}
}

// Wait polls src until the task succeeds, fails or the timeout elapses.
// A timeout yields StateTimeout together with ErrTimeout; a task error is a result, not an error.
func (w Waiter) Wait(ctx context.Context, src Source) (Result, error) {
	w = NewWaiter(w.Timeout, w.Interval)
	deadline := time.NewTimer(w.Timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		info, err := src.Info(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("read task info: %w", err)
		}
		switch info.State {
		case types.TaskInfoStateSuccess:
			return Result{State: StateSuccess, Entity: info.EntityName}, nil
		case types.TaskInfoStateError:
			return Result{State: StateError, Entity: info.EntityName, Message: errorMessage(info)}, nil
		}
		if info.Progress != 0 {
			logging.L().Debugf("task %s progress %d%%", info.Key, info.Progress)
		}

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-deadline.C:
			return Result{State: StateTimeout, Entity: info.EntityName}, ErrTimeout
		case <-ticker.C:
		}
	}
}

func errorMessage(info *types.TaskInfo) string {
	if info.Error == nil {
		return "unknown error"
	}
	if info.Error.LocalizedMessage != "" {
		return info.Error.LocalizedMessage
	}
	if info.Error.Fault != nil {
		return fmt.Sprintf("%T", info.Error.Fault)
	}
	return "unknown error"
}
