package vsphere

import (
	"context"
	"esxi-stats/helper"
	"esxi-stats/helper/task"
	"esxi-stats/vsphere/protocol"
	"esxi-stats/vsphere/workerpool"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// VMOperator runs the remote methods of one virtual machine.
type VMOperator interface {
	PowerOn(ctx context.Context) (task.Source, error)
	PowerOff(ctx context.Context) (task.Source, error)
	Suspend(ctx context.Context) (task.Source, error)
	Reset(ctx context.Context) (task.Source, error)
	ShutdownGuest(ctx context.Context) error
	RebootGuest(ctx context.Context) error
	CreateSnapshot(ctx context.Context, spec protocol.SnapshotSpec) (task.Source, error)
	RemoveAllSnapshots(ctx context.Context) (task.Source, error)
	RemoveSnapshot(ctx context.Context, snapshot types.ManagedObjectReference) (task.Source, error)
}

// HostOperator runs the remote methods of one host.
type HostOperator interface {
	Reboot(ctx context.Context, force bool) (task.Source, error)
	Shutdown(ctx context.Context, force bool) (task.Source, error)
	SetPowerPolicy(ctx context.Context, key int32) error
}

type Operators struct {
	VM   func(api *helper.API, vm mo.VirtualMachine) VMOperator
	Host func(api *helper.API, h mo.HostSystem) HostOperator
}

func DefaultOperators() Operators {
	return Operators{
		VM: func(api *helper.API, vm mo.VirtualMachine) VMOperator {
			return workerpool.NewVirtualMachineOperator(api, vm)
		},
		Host: func(api *helper.API, h mo.HostSystem) HostOperator {
			return workerpool.NewHostOperator(api, h)
		},
	}
}
