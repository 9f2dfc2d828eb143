package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/vim25/types"
)

type fakeTask struct {
	calls  int32
	states []types.TaskInfoState
	fault  string
	err    error
}

func (f *fakeTask) Info(ctx context.Context) (*types.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	n := int(atomic.AddInt32(&f.calls, 1)) - 1
	if n >= len(f.states) {
		n = len(f.states) - 1
	}
	info := &types.TaskInfo{Key: "task-1", EntityName: "vm-a", State: f.states[n]}
	if info.State == types.TaskInfoStateError {
		info.Error = &types.LocalizedMethodFault{LocalizedMessage: f.fault}
	}
	return info, nil
}

func fastWaiter() Waiter {
	return Waiter{Timeout: 50 * time.Millisecond, Interval: time.Millisecond}
}

func TestWaitSuccess(t *testing.T) {
	f := &fakeTask{states: []types.TaskInfoState{types.TaskInfoStateQueued, types.TaskInfoStateRunning, types.TaskInfoStateSuccess}}
	res, err := fastWaiter().Wait(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, res.State)
	assert.Equal(t, "vm-a", res.Entity)
	assert.Equal(t, int32(3), atomic.LoadInt32(&f.calls))
}

func TestWaitError(t *testing.T) {
	f := &fakeTask{states: []types.TaskInfoState{types.TaskInfoStateRunning, types.TaskInfoStateError}, fault: "The attempted operation cannot be performed in the current state (Powered off)."}
	res, err := fastWaiter().Wait(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, StateError, res.State)
	assert.Equal(t, "The attempted operation cannot be performed in the current state (Powered off).", res.Message)
}

func TestWaitTimeout(t *testing.T) {
	f := &fakeTask{states: []types.TaskInfoState{types.TaskInfoStateRunning}}
	start := time.Now()
	res, err := fastWaiter().Wait(context.Background(), f)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, StateTimeout, res.State)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Greater(t, atomic.LoadInt32(&f.calls), int32(1))
}

func TestWaitCancelled(t *testing.T) {
	f := &fakeTask{states: []types.TaskInfoState{types.TaskInfoStateRunning}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Waiter{Timeout: time.Hour, Interval: time.Hour}.Wait(ctx, f)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitInfoError(t *testing.T) {
	boom := errors.New("session expired")
	_, err := fastWaiter().Wait(context.Background(), &fakeTask{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestNewWaiterDefaults(t *testing.T) {
	w := NewWaiter(0, 0)
	assert.Equal(t, DefaultTimeout, w.Timeout)
	assert.Equal(t, DefaultInterval, w.Interval)
}
