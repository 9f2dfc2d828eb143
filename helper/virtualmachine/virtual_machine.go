package virtualmachine

import (
	"context"
	"esxi-stats/app/logging"
	"esxi-stats/helper"
	"fmt"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/methods"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"strings"
)

const Type = "VirtualMachine"

var Props = []string{"name", "summary", "snapshot", "configStatus"}

func Retrieve(ctx context.Context, api *helper.API) ([]mo.VirtualMachine, error) {
	var vms []mo.VirtualMachine
	if err := helper.Retrieve(ctx, api, Type, Props, &vms); err != nil {
		return nil, err
	}
	logging.L().Debug(fmt.Sprintf("retrieved %d virtual machines", len(vms)))
	return vms, nil
}

func UUID(vm mo.VirtualMachine) string {
	return vm.Summary.Config.Uuid
}

func FindByUUID(vms []mo.VirtualMachine, uuid string) *mo.VirtualMachine {
	for i := range vms {
		if strings.EqualFold(UUID(vms[i]), uuid) {
			return &vms[i]
		}
	}
	return nil
}

func Object(api *helper.API, vm mo.VirtualMachine) *object.VirtualMachine {
	return object.NewVirtualMachine(api.Client.Client, vm.Reference())
}

// FlattenSnapshots walks the snapshot tree depth first, parents before children.
func FlattenSnapshots(tree []types.VirtualMachineSnapshotTree) []types.VirtualMachineSnapshotTree {
	var flat []types.VirtualMachineSnapshotTree
	for _, s := range tree {
		flat = append(flat, s)
		flat = append(flat, FlattenSnapshots(s.ChildSnapshotList)...)
	}
	return flat
}

func Snapshots(vm mo.VirtualMachine) []types.VirtualMachineSnapshotTree {
	if vm.Snapshot == nil {
		return nil
	}
	return FlattenSnapshots(vm.Snapshot.RootSnapshotList)
}

// RemoveSnapshot removes a single snapshot and keeps its children.
func RemoveSnapshot(ctx context.Context, api *helper.API, snapshot types.ManagedObjectReference) (*object.Task, error) {
	req := types.RemoveSnapshot_Task{This: snapshot, RemoveChildren: false}
	res, err := methods.RemoveSnapshot_Task(ctx, api.Client.Client, &req)
	if err != nil {
		return nil, err
	}
	return object.NewTask(api.Client.Client, res.Returnval), nil
}
