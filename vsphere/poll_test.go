package vsphere

import (
	"context"
	"esxi-stats/helper"
	"esxi-stats/helper/datastore"
	"esxi-stats/helper/hostsystem"
	"esxi-stats/helper/virtualmachine"
	vCache "esxi-stats/vsphere/cache"
	"esxi-stats/vsphere/notify"
	"esxi-stats/vsphere/protocol"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/simulator"
)

func TestPollBuildsTables(t *testing.T) {
	s, rec := newTestEsxi(t, simulator.ESX())
	ctx := context.Background()
	require.NoError(t, s.Poll(ctx, true))

	api, err := s.Connector.Lease(ctx)
	require.NoError(t, err)
	defer s.Connector.Release(api)
	hosts, err := hostsystem.Retrieve(ctx, api)
	require.NoError(t, err)
	dss, err := datastore.Retrieve(ctx, api)
	require.NoError(t, err)
	vms, err := virtualmachine.Retrieve(ctx, api)
	require.NoError(t, err)

	inv := s.Inventory()
	require.Len(t, inv.Hosts, len(hosts))
	for _, h := range hosts {
		assert.Contains(t, inv.Hosts, protocol.NormalizeKey(hostsystem.DisplayName(h)))
	}
	require.Len(t, inv.Datastores, len(dss))
	for _, d := range dss {
		assert.Contains(t, inv.Datastores, protocol.NormalizeKey(d.Summary.Name))
	}
	require.Len(t, inv.VMs, len(vms))
	for _, vm := range vms {
		r, ok := inv.VMs[protocol.NormalizeKey(vm.Summary.Config.Name)]
		require.True(t, ok)
		assert.Equal(t, virtualmachine.UUID(vm), r.UUID)
		assert.Equal(t, hostsystem.DisplayName(hosts[0]), r.HostName)
	}
	assert.Contains(t, inv.Licenses, "1")
	assert.Contains(t, rec.Events(), notify.EventState)
}

func TestPollReplacesTables(t *testing.T) {
	s, _ := newTestEsxi(t, simulator.ESX())
	s.Cache.SetVMs(map[string]protocol.VmRecord{"stale": {Name: "stale"}})
	s.Cache.SetDatastores(map[string]protocol.DatastoreRecord{"stale": {Name: "stale"}})

	require.NoError(t, s.Poll(context.Background(), true))
	inv := s.Inventory()
	assert.NotContains(t, inv.VMs, "stale")
	assert.NotContains(t, inv.Datastores, "stale")
	assert.NotEmpty(t, inv.VMs)
}

func TestPollOnlyMonitoredCategories(t *testing.T) {
	s, _ := newTestEsxi(t, simulator.ESX())
	s.Categories = []protocol.Category{protocol.Hosts}

	require.NoError(t, s.Poll(context.Background(), true))
	inv := s.Inventory()
	assert.NotEmpty(t, inv.Hosts)
	assert.Nil(t, inv.VMs)
	assert.Nil(t, inv.Datastores)
	assert.Nil(t, inv.Licenses)
}

func TestPollThrottle(t *testing.T) {
	s, _ := newTestEsxi(t, simulator.ESX())
	s.ScanInterval = time.Hour
	ctx := context.Background()

	require.NoError(t, s.Poll(ctx, false))
	assert.ErrorIs(t, s.Poll(ctx, false), ErrThrottled)
	assert.NoError(t, s.Poll(ctx, true))
	assert.ErrorIs(t, s.Poll(ctx, false), ErrThrottled)
}

func TestPollMalformedKeepsCategory(t *testing.T) {
	s, _ := newTestEsxi(t, simulator.ESX())
	seeded := map[string]protocol.DatastoreRecord{"seeded": {Name: "seeded", OriginalName: "Seeded"}}
	s.Cache.SetDatastores(seeded)
	s.Cache.SetVMs(map[string]protocol.VmRecord{"stale": {Name: "stale"}})

	dss := simulator.Map.All("Datastore")
	require.NotEmpty(t, dss)
	dss[0].(*simulator.Datastore).Summary.Name = ""

	err := s.Poll(context.Background(), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)

	inv := s.Inventory()
	assert.Equal(t, seeded, inv.Datastores)
	assert.NotContains(t, inv.VMs, "stale")
	assert.NotEmpty(t, inv.VMs)
	assert.NotEmpty(t, inv.Hosts)
}

func TestPollConnectFailureKeepsTables(t *testing.T) {
	s, _ := newTestEsxi(t, simulator.ESX())
	require.NoError(t, s.Poll(context.Background(), true))
	before := s.Inventory()

	conn := &countingConnector{}
	s.Connector = conn
	err := s.Poll(context.Background(), true)
	assert.ErrorIs(t, err, errNoEndpoint)
	assert.Equal(t, 1, conn.Leases())
	assert.Equal(t, before, s.Inventory())
}

func TestPollWithPool(t *testing.T) {
	conn := startSimulator(t, simulator.VPX())
	s, _ := testEsxi(t, conn)
	pool := helper.NewPool(conn)
	t.Cleanup(pool.Close)
	s.Connector = pool

	ctx := context.Background()
	require.NoError(t, s.Poll(ctx, true))
	require.NoError(t, s.Poll(ctx, true))
	assert.Len(t, s.Inventory().Hosts, 4)
}

func TestCloseDropsTables(t *testing.T) {
	s := &Esxi{ID: "close-test", Connector: &countingConnector{}, Cache: &vCache.EsxiCache{ID: "close-test"}}
	s.Cache.SetHosts(map[string]protocol.HostRecord{"esx01": {Name: "esx01"}})
	s.Cache.SetCommandsAllowed(true)
	require.True(t, s.Cache.Throttle(time.Hour))

	s.Close()
	inv := s.Inventory()
	assert.Nil(t, inv.Hosts)
	assert.False(t, inv.CommandsAllowed)
	assert.True(t, s.Cache.Throttle(time.Hour))
	s.Cache.CleanAll()
}
