package vsphere

import (
	"context"
	"esxi-stats/app/logging"
	"esxi-stats/config"
	"esxi-stats/helper"
	"esxi-stats/helper/task"
	"esxi-stats/vsphere/cache"
	"esxi-stats/vsphere/entity"
	"esxi-stats/vsphere/notify"
	"esxi-stats/vsphere/protocol"
	"esxi-stats/vsphere/workerpool"
	"fmt"
	"time"
)

// Auth is what a client presents to get an API token.
type Auth struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username" valid:"Required"`
	Password string `json:"password" valid:"Required"`
}

func (a Auth) Conn() helper.Conn {
	return helper.Conn{
		Host:      a.Host,
		Port:      a.Port,
		Username:  a.Username,
		Password:  a.Password,
		VerifySSL: config.G.Esxi.VerifySSL,
	}
}

// Verify opens and closes a session with the credentials.
func (a Auth) Verify(ctx context.Context) error {
	api, err := helper.Connect(ctx, a.Conn())
	if err != nil {
		return err
	}
	api.Logout(ctx)
	return nil
}

// Publisher receives live events such as a finished poll.
type Publisher interface {
	Publish(typ string, data interface{})
}

// Esxi owns everything known about one endpoint.
type Esxi struct {
	ID             string
	Name           string
	Host           string
	Connector      helper.Connector
	Cache          *cache.EsxiCache
	Categories     []protocol.Category
	Notifier       notify.Notifier
	Publisher      Publisher
	Waiter         task.Waiter
	Operators      Operators
	EnforceLicense bool
	ScanInterval   time.Duration
	StateKeys      entity.StateKeys
}

// New builds the endpoint from config.G.
func New(n notify.Notifier, p Publisher) (*Esxi, error) {
	c := config.G.Esxi
	categories, err := protocol.ParseCategories(c.MonitoredConditions)
	if err != nil {
		return nil, fmt.Errorf("esxi.monitoredConditions: %w", err)
	}
	conn := helper.ConnFromConfig()
	s := &Esxi{
		ID:             conn.Address(),
		Name:           c.Name,
		Host:           c.Host,
		Connector:      helper.NewConnector(conn, c.ReuseSession),
		Cache:          &cache.EsxiCache{ID: conn.Address()},
		Categories:     categories,
		Notifier:       n,
		Publisher:      p,
		Waiter:         task.NewWaiter(time.Duration(c.Task.Timeout)*time.Second, time.Duration(c.Task.Interval)*time.Second),
		Operators:      DefaultOperators(),
		EnforceLicense: c.License.Enforce,
		ScanInterval:   time.Duration(c.ScanInterval) * time.Second,
		StateKeys: entity.StateKeys{
			Datastore: c.StateKeys.Datastore,
			Host:      c.StateKeys.Host,
			License:   c.StateKeys.License,
			VM:        c.StateKeys.VM,
		},
	}
	logging.L().Infof("monitoring %s (%s) for %v", s.Host, s.ID, s.Categories)
	return s, nil
}

func (s *Esxi) Inventory() protocol.Inventory {
	return s.Cache.Inventory()
}

func (s *Esxi) Entities() []entity.Entity {
	return entity.Build(s.Name, s.Host, s.Inventory(), s.Categories, s.StateKeys)
}

func (s *Esxi) Monitors(c protocol.Category) bool {
	for _, m := range s.Categories {
		if m == c {
			return true
		}
	}
	return false
}

func (s *Esxi) AddTask(t workerpool.WorkerType, f func()) error {
	return workerpool.AddTask(s.ID, t, f)
}

// Close releases the pools, a reused session and the cached tables.
func (s *Esxi) Close() {
	workerpool.Release(s.ID)
	s.Cache.CleanAll()
	if p, ok := s.Connector.(*helper.Pool); ok {
		p.Close()
	}
}

func (s *Esxi) notify(ctx context.Context, n protocol.Notification) {
	if s.Notifier == nil {
		logging.L().Infof("[%s] %s", n.Title, n.Message)
		return
	}
	s.Notifier.Notify(ctx, n)
}

func (s *Esxi) publish(typ string, data interface{}) {
	if s.Publisher != nil {
		s.Publisher.Publish(typ, data)
	}
}
