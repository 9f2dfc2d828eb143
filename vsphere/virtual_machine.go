package vsphere

import (
	"esxi-stats/app/logging"
	"esxi-stats/app/utils"
	"esxi-stats/helper/virtualmachine"
	"esxi-stats/vsphere/protocol"
	"fmt"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// VMTable maps every vm to its record. hosts resolves the owning host moref to its name.
func VMTable(vms []mo.VirtualMachine, hosts map[string]string) (map[string]protocol.VmRecord, error) {
	t := make(map[string]protocol.VmRecord, len(vms))
	for _, vm := range vms {
		r, err := buildVmRecord(vm, hosts)
		if err != nil {
			return nil, err
		}
		t[r.Name] = r
	}
	return t, nil
}

func buildVmRecord(vm mo.VirtualMachine, hosts map[string]string) (protocol.VmRecord, error) {
	s := vm.Summary
	name := s.Config.Name
	if name == "" {
		name = vm.Name
	}
	if name == "" {
		return protocol.VmRecord{}, fmt.Errorf("%w: vm %s has no config summary", ErrMalformed, vm.Reference().Value)
	}
	key := protocol.NormalizeKey(name)

	if vm.ConfigStatus == types.ManagedEntityStatusRed {
		logging.L().Debugf("vm %s has an invalid configuration", name)
		return protocol.VmRecord{Name: key, VMName: name, Status: protocol.VMStatusInvalid}, nil
	}

	r := protocol.VmRecord{
		Name:              key,
		VMName:            name,
		Status:            string(s.OverallStatus),
		State:             vmState(s.Runtime.PowerState),
		CPUCount:          int32Ptr(s.Config.NumCpu),
		MemoryAllocatedMB: int32Ptr(s.Config.MemorySizeMB),
		Snapshots:         len(virtualmachine.Snapshots(vm)),
		UUID:              s.Config.Uuid,
	}
	if s.Storage != nil {
		r.UsedSpaceGB = utils.Float(utils.Round(float64(s.Storage.Committed)/bytesPerGB, 2))
	}
	if s.Guest != nil {
		r.ToolsStatus = utils.String(string(s.Guest.ToolsStatus))
	}
	if s.Runtime.Host != nil {
		r.HostName = hosts[s.Runtime.Host.Value]
	}

	guestOS := s.Config.GuestFullName
	if r.Running() {
		q := s.QuickStats
		if q.OverallCpuUsage > 0 && s.Runtime.MaxCpuUsage > 0 {
			r.CPUUsePct = utils.Float(utils.Round(float64(q.OverallCpuUsage)/float64(s.Runtime.MaxCpuUsage)*100, 2))
		}
		if q.HostMemoryUsage > 0 {
			r.MemoryUsedMB = int32Ptr(q.HostMemoryUsage)
		}
		if q.GuestMemoryUsage > 0 {
			r.MemoryActiveMB = int32Ptr(q.GuestMemoryUsage)
		}
		if q.UptimeSeconds > 0 {
			r.UptimeHours = utils.Float(utils.Round(float64(q.UptimeSeconds)/3600, 1))
		}
		if s.Guest != nil {
			if s.Guest.IpAddress != "" {
				r.GuestIP = utils.String(s.Guest.IpAddress)
			}
			if s.Guest.GuestFullName != "" {
				guestOS = s.Guest.GuestFullName
			}
		}
	}
	if guestOS != "" {
		r.GuestOS = utils.String(guestOS)
	}
	return r, nil
}

func vmState(p types.VirtualMachinePowerState) string {
	switch p {
	case types.VirtualMachinePowerStatePoweredOn:
		return protocol.VMStateRunning
	case types.VirtualMachinePowerStatePoweredOff:
		return protocol.VMStateOff
	case types.VirtualMachinePowerStateSuspended:
		return protocol.VMStateSuspended
	}
	return string(p)
}

func int32Ptr(i int32) *int32 {
	return &i
}
