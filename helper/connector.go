package helper

import (
	"context"
	"errors"
	"esxi-stats/app/logging"
	"sync"
)

var ErrNotLeased = errors.New("session was not leased from this connector")

// Connector hands out sessions. Every Lease must be paired with a Release.
type Connector interface {
	Lease(ctx context.Context) (*API, error)
	Release(a *API)
}

func NewConnector(c Conn, reuse bool) Connector {
	if reuse {
		return NewPool(c)
	}
	return NewOneShot(c)
}

// OneShot opens a session per lease and logs out on release.
type OneShot struct {
	conn Conn

	mu     sync.Mutex
	leased map[*API]struct{}
}

func NewOneShot(c Conn) *OneShot {
	return &OneShot{conn: c, leased: make(map[*API]struct{})}
}

func (o *OneShot) Lease(ctx context.Context) (*API, error) {
	a, err := Connect(ctx, o.conn)
	if err != nil {
		return nil, err
	}
	o.mu.Lock()
	o.leased[a] = struct{}{}
	o.mu.Unlock()
	return a, nil
}

func (o *OneShot) Release(a *API) {
	o.mu.Lock()
	_, ok := o.leased[a]
	delete(o.leased, a)
	o.mu.Unlock()
	if !ok {
		logging.L().Warn(ErrNotLeased)
		return
	}
	a.Logout(context.Background())
}

// Pool keeps one logged-in session and hands it to every lease while it is still active.
type Pool struct {
	conn Conn

	mu  sync.Mutex
	api *API
}

func NewPool(c Conn) *Pool {
	return &Pool{conn: c}
}

func (p *Pool) Lease(ctx context.Context) (*API, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.api != nil && p.api.Alive(ctx) {
		logging.L().Debug("reusing session to ", p.conn.Address())
		return p.api, nil
	}
	if p.api != nil {
		logging.L().Info("session to ", p.conn.Address(), " expired, reconnecting")
		p.api.Logout(ctx)
		p.api = nil
	}
	a, err := Connect(ctx, p.conn)
	if err != nil {
		return nil, err
	}
	p.api = a
	return a, nil
}

func (p *Pool) Release(a *API) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if a != p.api {
		logging.L().Warn(ErrNotLeased)
	}
}

func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.api != nil {
		p.api.Logout(context.Background())
		p.api = nil
	}
}
