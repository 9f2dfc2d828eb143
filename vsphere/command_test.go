package vsphere

import (
	"context"
	"esxi-stats/helper/task"
	"esxi-stats/helper/virtualmachine"
	vCache "esxi-stats/vsphere/cache"
	"esxi-stats/vsphere/entity"
	"esxi-stats/vsphere/notify"
	"esxi-stats/vsphere/protocol"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/simulator"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

func firstVM(t *testing.T, s *Esxi) mo.VirtualMachine {
	t.Helper()
	ctx := context.Background()
	api, err := s.Connector.Lease(ctx)
	require.NoError(t, err)
	defer s.Connector.Release(api)
	vms, err := virtualmachine.Retrieve(ctx, api)
	require.NoError(t, err)
	require.NotEmpty(t, vms)
	return vms[0]
}

func withFake(s *Esxi, src task.Source) *fakeOperator {
	f := &fakeOperator{src: src}
	s.Operators = f.operators()
	return f
}

func TestUnsupportedCommandNoLease(t *testing.T) {
	conn := &countingConnector{}
	s := &Esxi{ID: "unsupported", Connector: conn, Notifier: &recorder{}}
	ctx := context.Background()

	_, err := s.VMPower(ctx, []string{"uuid"}, "explode", true)
	assert.ErrorIs(t, err, protocol.ErrUnsupportedCommand)
	_, err = s.RemoveSnapshot(ctx, []string{"uuid"}, "middle", true)
	assert.ErrorIs(t, err, protocol.ErrUnsupportedCommand)
	_, err = s.HostPower(ctx, "", "power_on", false, true)
	assert.ErrorIs(t, err, protocol.ErrUnsupportedCommand)
	_, err = s.HostPowerPolicy(ctx, "", " ", true)
	assert.ErrorIs(t, err, protocol.ErrUnsupportedCommand)
	_, err = s.Execute(ctx, entity.Command{Kind: "vm_destroy", Target: "uuid"})
	assert.ErrorIs(t, err, protocol.ErrUnsupportedCommand)

	assert.Equal(t, 0, conn.Leases())
}

func TestCommandsDisabled(t *testing.T) {
	conn := &countingConnector{}
	s := &Esxi{ID: "disabled", Connector: conn, Cache: &vCache.EsxiCache{ID: "disabled"}, EnforceLicense: true}
	t.Cleanup(s.Cache.CleanAll)
	ctx := context.Background()

	_, err := s.VMPower(ctx, []string{"uuid"}, "on", true)
	assert.ErrorIs(t, err, ErrCommandsDisabled)
	assert.ErrorIs(t, s.ListHosts(ctx), ErrCommandsDisabled)
	assert.Equal(t, 0, conn.Leases())

	s.Cache.SetCommandsAllowed(true)
	_, err = s.VMPower(ctx, []string{"uuid"}, "on", true)
	assert.ErrorIs(t, err, errNoEndpoint)
	assert.Equal(t, 1, conn.Leases())

	s.Cache.SetCommandsAllowed(false)
	s.EnforceLicense = false
	_, err = s.VMPower(ctx, []string{"uuid"}, "on", true)
	assert.ErrorIs(t, err, errNoEndpoint)
}

func TestVMPowerUnknownUUID(t *testing.T) {
	s, rec := newTestEsxi(t, simulator.ESX())
	f := withFake(s, fakeTask{state: types.TaskInfoStateSuccess})

	results, err := s.VMPower(context.Background(), []string{"no-such-uuid"}, "off", true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, protocol.OutcomeNotFound, results[0].Outcome)
	assert.Equal(t, "no-such-uuid", results[0].Target)
	assert.Empty(t, f.Calls())
	assert.Empty(t, rec.Notes())
}

func TestVMPowerOff(t *testing.T) {
	s, rec := newTestEsxi(t, simulator.ESX())
	vm := firstVM(t, s)
	require.Equal(t, types.VirtualMachinePowerStatePoweredOn, vm.Summary.Runtime.PowerState)

	results, err := s.VMPower(context.Background(), []string{virtualmachine.UUID(vm)}, "off", true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, protocol.OutcomeSuccess, results[0].Outcome)

	notes := rec.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "Complete - vm_power off "+vm.Summary.Config.Name, notes[0].Message)

	require.NoError(t, s.Poll(context.Background(), true))
	r := s.Inventory().VMs[protocol.NormalizeKey(vm.Summary.Config.Name)]
	assert.Equal(t, protocol.VMStateOff, r.State)
}

func TestVMPowerAlreadyOnFails(t *testing.T) {
	s, rec := newTestEsxi(t, simulator.ESX())
	vm := firstVM(t, s)

	results, err := s.VMPower(context.Background(), []string{virtualmachine.UUID(vm)}, "on", false)
	require.NoError(t, err)
	assert.Equal(t, protocol.OutcomeFailed, results[0].Outcome)
	notes := rec.Notes()
	require.Len(t, notes, 1)
	assert.True(t, strings.HasPrefix(notes[0].Message, "Failed - vm_power on "))
}

func TestVMPowerTimeout(t *testing.T) {
	s, rec := newTestEsxi(t, simulator.ESX())
	s.Waiter = task.Waiter{Timeout: 50 * time.Millisecond, Interval: 5 * time.Millisecond}
	withFake(s, fakeTask{state: types.TaskInfoStateRunning})
	vm := firstVM(t, s)

	results, err := s.VMPower(context.Background(), []string{virtualmachine.UUID(vm)}, "off", false)
	require.NoError(t, err)
	assert.Equal(t, protocol.OutcomeTimeout, results[0].Outcome)

	notes := rec.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, protocol.OutcomeTimeout, notes[0].Outcome)
	assert.Contains(t, notes[0].Message, "Timeout - vm_power off")
}

func TestVMPowerTaskError(t *testing.T) {
	s, rec := newTestEsxi(t, simulator.ESX())
	withFake(s, fakeTask{state: types.TaskInfoStateError, msg: "The attempted operation cannot be performed"})
	vm := firstVM(t, s)

	results, err := s.VMPower(context.Background(), []string{virtualmachine.UUID(vm)}, "suspend", false)
	require.NoError(t, err)
	assert.Equal(t, protocol.OutcomeFailed, results[0].Outcome)
	assert.Equal(t, "The attempted operation cannot be performed", results[0].Message)
	notes := rec.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "Failed - vm_power suspend "+vm.Summary.Config.Name+"\n\nThe attempted operation cannot be performed", notes[0].Message)
}

func TestVMPowerQuietSuccess(t *testing.T) {
	s, rec := newTestEsxi(t, simulator.ESX())
	f := withFake(s, fakeTask{state: types.TaskInfoStateSuccess})
	vm := firstVM(t, s)

	results, err := s.VMPower(context.Background(), []string{virtualmachine.UUID(vm)}, "reset", false)
	require.NoError(t, err)
	assert.Equal(t, protocol.OutcomeSuccess, results[0].Outcome)
	assert.Equal(t, []string{"reset"}, f.Calls())
	assert.Empty(t, rec.Notes())
}

func TestVMGuestCommandsNoFeedback(t *testing.T) {
	s, rec := newTestEsxi(t, simulator.ESX())
	f := withFake(s, nil)
	uuid := virtualmachine.UUID(firstVM(t, s))

	for _, cmd := range []string{"shutdown", "reboot"} {
		results, err := s.VMPower(context.Background(), []string{uuid}, cmd, true)
		require.NoError(t, err)
		assert.Equal(t, protocol.OutcomeNoFeedback, results[0].Outcome)
		assert.Equal(t, "command does not provide feedback", results[0].Message)
	}
	assert.Equal(t, []string{"shutdown_guest", "reboot_guest"}, f.Calls())
	assert.Empty(t, rec.Notes())
}

func TestSnapshotDefaults(t *testing.T) {
	s, _ := newTestEsxi(t, simulator.ESX())
	f := withFake(s, fakeTask{state: types.TaskInfoStateSuccess})
	uuid := virtualmachine.UUID(firstVM(t, s))

	_, err := s.CreateSnapshot(context.Background(), []string{uuid}, protocol.SnapshotSpec{}, false)
	require.NoError(t, err)
	calls := f.Calls()
	require.Len(t, calls, 1)
	assert.True(t, strings.HasPrefix(calls[0], "snapshot_create HA_Snapshot_"))
}

func TestSnapshotLifecycle(t *testing.T) {
	s, _ := newTestEsxi(t, simulator.ESX())
	vm := firstVM(t, s)
	uuid := virtualmachine.UUID(vm)
	ctx := context.Background()

	results, err := s.RemoveSnapshot(ctx, []string{uuid}, "all", true)
	require.NoError(t, err)
	assert.Equal(t, protocol.OutcomeNoSnapshots, results[0].Outcome)
	assert.Equal(t, "No snapshots to remove", results[0].Message)

	results, err = s.CreateSnapshot(ctx, []string{uuid}, protocol.SnapshotSpec{Name: "before-upgrade"}, true)
	require.NoError(t, err)
	require.Equal(t, protocol.OutcomeSuccess, results[0].Outcome)

	require.NoError(t, s.Poll(ctx, true))
	assert.Equal(t, 1, s.Inventory().VMs[protocol.NormalizeKey(vm.Summary.Config.Name)].Snapshots)

	results, err = s.RemoveSnapshot(ctx, []string{uuid}, "last", true)
	require.NoError(t, err)
	assert.Equal(t, protocol.OutcomeSuccess, results[0].Outcome)

	require.NoError(t, s.Poll(ctx, true))
	assert.Equal(t, 0, s.Inventory().VMs[protocol.NormalizeKey(vm.Summary.Config.Name)].Snapshots)
}

func TestHostPower(t *testing.T) {
	s, rec := newTestEsxi(t, simulator.ESX())
	f := withFake(s, fakeTask{state: types.TaskInfoStateSuccess})

	r, err := s.HostPower(context.Background(), "", "reboot", false, true)
	require.NoError(t, err)
	assert.Equal(t, protocol.OutcomeSuccess, r.Outcome)
	assert.Equal(t, []string{"host_reboot false"}, f.Calls())
	notes := rec.Notes()
	require.Len(t, notes, 1)
	assert.True(t, strings.HasPrefix(notes[0].Message, "Complete - host_power reboot "))

	r, err = s.HostPower(context.Background(), r.Target, "shutdown", true, false)
	require.NoError(t, err)
	assert.Equal(t, protocol.OutcomeSuccess, r.Outcome)
	assert.Equal(t, "host_shutdown true", f.Calls()[1])
}

func TestHostPowerUnknownTarget(t *testing.T) {
	s, rec := newTestEsxi(t, simulator.ESX())
	f := withFake(s, fakeTask{state: types.TaskInfoStateSuccess})

	r, err := s.HostPower(context.Background(), "esx-missing", "reboot", true, true)
	require.NoError(t, err)
	assert.Equal(t, protocol.OutcomeNotFound, r.Outcome)
	assert.Empty(t, f.Calls())
	assert.Empty(t, rec.Notes())
}

func TestHostPowerTargetRequired(t *testing.T) {
	s, _ := newTestEsxi(t, simulator.VPX())
	f := withFake(s, fakeTask{state: types.TaskInfoStateSuccess})

	_, err := s.HostPower(context.Background(), "", "shutdown", true, true)
	assert.ErrorIs(t, err, ErrTargetRequired)
	assert.Empty(t, f.Calls())
}

func TestHostPowerPolicyUnknown(t *testing.T) {
	s, rec := newTestEsxi(t, simulator.ESX())
	f := withFake(s, nil)

	r, err := s.HostPowerPolicy(context.Background(), "", "turbo", true)
	require.NoError(t, err)
	assert.Equal(t, protocol.OutcomeFailed, r.Outcome)
	assert.Empty(t, f.Calls())
	notes := rec.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, protocol.OutcomeFailed, notes[0].Outcome)
}

func TestListHosts(t *testing.T) {
	s, rec := newTestEsxi(t, simulator.VPX())
	require.NoError(t, s.ListHosts(context.Background()))

	notes := rec.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.HostsListTitle, notes[0].Title)
	assert.Equal(t, protocol.NotificationInfo, notes[0].Kind)
	assert.Equal(t, 4, strings.Count(notes[0].Message, "Name: "))
}

func TestListPowerPolicies(t *testing.T) {
	s, rec := newTestEsxi(t, simulator.ESX())
	require.NoError(t, s.ListPowerPolicies(context.Background(), ""))

	notes := rec.Notes()
	require.Len(t, notes, 1)
	assert.Contains(t, []string{notify.PowerPoliciesTitle, notify.PoliciesUnsupported}, notes[0].Title)
}

func TestExecuteEntityCommand(t *testing.T) {
	s, _ := newTestEsxi(t, simulator.ESX())
	f := withFake(s, fakeTask{state: types.TaskInfoStateSuccess})
	require.NoError(t, s.Poll(context.Background(), true))

	var target entity.Entity
	for _, e := range s.Entities() {
		if e.Role == entity.RoleVMReboot {
			target = e
			break
		}
	}
	require.NotEmpty(t, target.UniqueID)

	cmd, err := entity.Resolve(target, entity.Press, "")
	require.NoError(t, err)
	results, err := s.Execute(context.Background(), cmd)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, target.Target, results[0].Target)
	assert.Len(t, f.Calls(), 1)
}
