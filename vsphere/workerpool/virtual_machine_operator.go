package workerpool

import (
	"context"
	"esxi-stats/app/logging"
	"esxi-stats/helper"
	"esxi-stats/helper/task"
	"esxi-stats/helper/virtualmachine"
	"esxi-stats/vsphere/protocol"
	"fmt"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

type VirtualMachineOperator struct {
	api     *helper.API
	oVM     *object.VirtualMachine
	display string
}

func NewVirtualMachineOperator(api *helper.API, vm mo.VirtualMachine) *VirtualMachineOperator {
	return &VirtualMachineOperator{
		api:     api,
		oVM:     virtualmachine.Object(api, vm),
		display: fmt.Sprintf("%s(%s)", vm.Summary.Config.Name, vm.Reference().Value),
	}
}

func (o VirtualMachineOperator) PowerOn(ctx context.Context) (task.Source, error) {
	logging.L().Infof("powering on vm %s", o.display)
	return started(o.oVM.PowerOn(ctx))
}

func (o VirtualMachineOperator) PowerOff(ctx context.Context) (task.Source, error) {
	logging.L().Infof("powering off vm %s", o.display)
	return started(o.oVM.PowerOff(ctx))
}

func (o VirtualMachineOperator) Suspend(ctx context.Context) (task.Source, error) {
	logging.L().Infof("suspending vm %s", o.display)
	return started(o.oVM.Suspend(ctx))
}

func (o VirtualMachineOperator) Reset(ctx context.Context) (task.Source, error) {
	logging.L().Infof("resetting vm %s", o.display)
	return started(o.oVM.Reset(ctx))
}

// ShutdownGuest asks the guest tools to shut down. The call returns no task.
func (o VirtualMachineOperator) ShutdownGuest(ctx context.Context) error {
	logging.L().Infof("shutting down guest of vm %s", o.display)
	return o.oVM.ShutdownGuest(ctx)
}

func (o VirtualMachineOperator) RebootGuest(ctx context.Context) error {
	logging.L().Infof("rebooting guest of vm %s", o.display)
	return o.oVM.RebootGuest(ctx)
}

func (o VirtualMachineOperator) CreateSnapshot(ctx context.Context, spec protocol.SnapshotSpec) (task.Source, error) {
	logging.L().Infof("creating snapshot %q of vm %s (memory: %t, quiesce: %t)", spec.Name, o.display, spec.Memory, spec.Quiesce)
	return started(o.oVM.CreateSnapshot(ctx, spec.Name, spec.Description, spec.Memory, spec.Quiesce))
}

func (o VirtualMachineOperator) RemoveAllSnapshots(ctx context.Context) (task.Source, error) {
	logging.L().Infof("removing all snapshots of vm %s", o.display)
	consolidate := true
	return started(o.oVM.RemoveAllSnapshot(ctx, &consolidate))
}

func (o VirtualMachineOperator) RemoveSnapshot(ctx context.Context, snapshot types.ManagedObjectReference) (task.Source, error) {
	logging.L().Infof("removing snapshot %s of vm %s", snapshot.Value, o.display)
	return started(virtualmachine.RemoveSnapshot(ctx, o.api, snapshot))
}

func started(t *object.Task, err error) (task.Source, error) {
	if err != nil {
		return nil, err
	}
	return task.FromTask(t), nil
}
