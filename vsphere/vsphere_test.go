package vsphere

import (
	"context"
	"errors"
	"esxi-stats/app/cache"
	"esxi-stats/helper"
	"esxi-stats/helper/task"
	vCache "esxi-stats/vsphere/cache"
	"esxi-stats/vsphere/entity"
	"esxi-stats/vsphere/protocol"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/simulator"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

func TestMain(m *testing.M) {
	cache.Setup()
	os.Exit(m.Run())
}

const (
	simUser     = "root"
	simPassword = "esxi-pass"
)

func startSimulator(t *testing.T, model *simulator.Model) helper.Conn {
	t.Helper()
	require.NoError(t, model.Create())
	t.Cleanup(model.Remove)
	model.Service.Listen = &url.URL{User: url.UserPassword(simUser, simPassword)}

	tlsSrv := httptest.NewTLSServer(nil)
	model.Service.TLS = tlsSrv.TLS
	tlsSrv.Close()
	s := model.Service.NewServer()
	t.Cleanup(s.Close)

	port, err := strconv.Atoi(s.URL.Port())
	require.NoError(t, err)
	return helper.Conn{Host: s.URL.Hostname(), Port: port, Username: simUser, Password: simPassword}
}

type recorder struct {
	mu     sync.Mutex
	notes  []protocol.Notification
	events []string
}

func (r *recorder) Notify(_ context.Context, n protocol.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) Publish(typ string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, typ)
}

func (r *recorder) Notes() []protocol.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]protocol.Notification(nil), r.notes...)
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func newTestEsxi(t *testing.T, model *simulator.Model) (*Esxi, *recorder) {
	t.Helper()
	return testEsxi(t, startSimulator(t, model))
}

func testEsxi(t *testing.T, conn helper.Conn) (*Esxi, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := &Esxi{
		ID:         conn.Address(),
		Name:       "ESXi",
		Host:       conn.Host,
		Connector:  helper.NewOneShot(conn),
		Cache:      &vCache.EsxiCache{ID: conn.Address()},
		Categories: []protocol.Category{protocol.Hosts, protocol.Datastores, protocol.Licenses, protocol.VMs},
		Notifier:   rec,
		Publisher:  rec,
		Waiter:     task.NewWaiter(2*time.Second, 10*time.Millisecond),
		Operators:  DefaultOperators(),
		StateKeys:  entity.DefaultStateKeys(),
	}
	t.Cleanup(s.Cache.CleanAll)
	return s, rec
}

// countingConnector never connects, it only counts leases.
type countingConnector struct {
	mu     sync.Mutex
	leases int
}

var errNoEndpoint = errors.New("no endpoint")

func (c *countingConnector) Lease(context.Context) (*helper.API, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leases++
	return nil, errNoEndpoint
}

func (c *countingConnector) Release(*helper.API) {}

func (c *countingConnector) Leases() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leases
}

type fakeTask struct {
	state types.TaskInfoState
	msg   string
}

func (f fakeTask) Info(context.Context) (*types.TaskInfo, error) {
	info := &types.TaskInfo{State: f.state}
	if f.msg != "" {
		info.Error = &types.LocalizedMethodFault{LocalizedMessage: f.msg}
	}
	return info, nil
}

type fakeOperator struct {
	mu    sync.Mutex
	calls []string
	src   task.Source
	err   error
}

func (f *fakeOperator) call(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeOperator) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeOperator) started(name string) (task.Source, error) {
	f.call(name)
	if f.err != nil {
		return nil, f.err
	}
	return f.src, nil
}

func (f *fakeOperator) PowerOn(context.Context) (task.Source, error)  { return f.started("power_on") }
func (f *fakeOperator) PowerOff(context.Context) (task.Source, error) { return f.started("power_off") }
func (f *fakeOperator) Suspend(context.Context) (task.Source, error)  { return f.started("suspend") }
func (f *fakeOperator) Reset(context.Context) (task.Source, error)    { return f.started("reset") }

func (f *fakeOperator) ShutdownGuest(context.Context) error {
	f.call("shutdown_guest")
	return f.err
}

func (f *fakeOperator) RebootGuest(context.Context) error {
	f.call("reboot_guest")
	return f.err
}

func (f *fakeOperator) CreateSnapshot(_ context.Context, spec protocol.SnapshotSpec) (task.Source, error) {
	return f.started("snapshot_create " + spec.Name)
}

func (f *fakeOperator) RemoveAllSnapshots(context.Context) (task.Source, error) {
	return f.started("snapshot_remove_all")
}

func (f *fakeOperator) RemoveSnapshot(_ context.Context, ref types.ManagedObjectReference) (task.Source, error) {
	return f.started("snapshot_remove " + ref.Value)
}

func (f *fakeOperator) Reboot(_ context.Context, force bool) (task.Source, error) {
	return f.started("host_reboot " + strconv.FormatBool(force))
}

func (f *fakeOperator) Shutdown(_ context.Context, force bool) (task.Source, error) {
	return f.started("host_shutdown " + strconv.FormatBool(force))
}

func (f *fakeOperator) SetPowerPolicy(_ context.Context, key int32) error {
	f.call("power_policy " + strconv.Itoa(int(key)))
	return f.err
}

func (f *fakeOperator) operators() Operators {
	return Operators{
		VM:   func(*helper.API, mo.VirtualMachine) VMOperator { return f },
		Host: func(*helper.API, mo.HostSystem) HostOperator { return f },
	}
}
