package notify

import (
	"context"
	"esxi-stats/app/logging"
	"esxi-stats/vsphere/protocol"
	"sync"
	"time"
)

// Sink delivers a notification to one destination.
type Sink interface {
	Name() string
	Send(ctx context.Context, n protocol.Notification) error
}

type Notifier interface {
	Notify(ctx context.Context, n protocol.Notification)
}

// Fanout sends every notification to all sinks. A failing sink is logged and skipped.
type Fanout struct {
	mu    sync.RWMutex
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Add(s Sink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinks = append(f.sinks, s)
}

func (f *Fanout) Sinks() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var names []string
	for _, s := range f.sinks {
		names = append(names, s.Name())
	}
	return names
}

func (f *Fanout) Notify(ctx context.Context, n protocol.Notification) {
	if n.Title == "" {
		n.Title = DefaultTitle
	}
	if n.Time.IsZero() {
		n.Time = time.Now()
	}
	f.mu.RLock()
	sinks := make([]Sink, len(f.sinks))
	copy(sinks, f.sinks)
	f.mu.RUnlock()

	for _, s := range sinks {
		if err := s.Send(ctx, n); err != nil {
			logging.L().Errorf("notification sink %s failed: %v", s.Name(), err)
		}
	}
}

type LogSink struct{}

func (LogSink) Name() string { return "log" }

func (LogSink) Send(_ context.Context, n protocol.Notification) error {
	logging.L().Infof("[%s] %s", n.Title, n.Message)
	return nil
}
