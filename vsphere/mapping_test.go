package vsphere

import (
	"esxi-stats/vsphere/protocol"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

func TestDatastoreRecord(t *testing.T) {
	ds := mo.Datastore{
		Summary: types.DatastoreSummary{Name: "Local Storage", Type: "VMFS", Capacity: 2 * bytesPerGB, FreeSpace: bytesPerGB},
		Host:    []types.DatastoreHostMount{{}},
		Vm:      []types.ManagedObjectReference{{}, {}},
	}
	table, err := DatastoreTable([]mo.Datastore{ds})
	require.NoError(t, err)
	require.Contains(t, table, "local_storage")

	r := table["local_storage"]
	assert.Equal(t, "Local Storage", r.OriginalName)
	assert.Equal(t, "vmfs", r.Type)
	assert.Equal(t, 1.0, r.FreeSpaceGB)
	assert.Equal(t, 2.0, r.TotalSpaceGB)
	assert.Equal(t, 1, r.ConnectedHosts)
	assert.Equal(t, 2, r.VirtualMachines)
}

func TestDatastoreMalformed(t *testing.T) {
	_, err := DatastoreTable([]mo.Datastore{{}})
	assert.ErrorIs(t, err, ErrMalformed)
}

func poweredOnHost() mo.HostSystem {
	h := mo.HostSystem{
		Summary: types.HostListSummary{
			Config: types.HostConfigSummary{
				Name:    "ESX 01",
				Product: &types.AboutInfo{Version: "7.0.3", Build: "19193900"},
			},
			Runtime: &types.HostRuntimeInfo{PowerState: types.HostSystemPowerStatePoweredOn},
			Hardware: &types.HostHardwareSummary{
				CpuMhz:      2000,
				NumCpuCores: 4,
				MemorySize:  16 * bytesPerGB,
			},
			QuickStats: types.HostListSummaryQuickStats{
				OverallCpuUsage:    1500,
				OverallMemoryUsage: 4096,
				Uptime:             7200,
			},
		},
		Capability: &types.HostCapability{ShutdownSupported: true},
		Config: &types.HostConfigInfo{
			PowerSystemCapability: &types.PowerSystemCapability{AvailablePolicy: []types.HostPowerPolicy{
				{Key: 2, ShortName: "dynamic"},
				{Key: 1, ShortName: "static"},
			}},
			PowerSystemInfo: &types.PowerSystemInfo{CurrentPolicy: types.HostPowerPolicy{Key: 2, ShortName: "dynamic"}},
		},
		Vm: []types.ManagedObjectReference{{}, {}, {}},
	}
	return h
}

func TestHostRecordPoweredOn(t *testing.T) {
	table, err := HostTable([]mo.HostSystem{poweredOnHost()})
	require.NoError(t, err)
	require.Contains(t, table, "esx_01")

	r := table["esx_01"]
	assert.Equal(t, "ESX 01", r.OriginalName)
	assert.Equal(t, "poweredOn", r.State)
	assert.Equal(t, "7.0.3", *r.Version)
	assert.Equal(t, 2.0, *r.UptimeHours)
	assert.Equal(t, 8.0, *r.CPUTotalGHz)
	assert.Equal(t, 1.5, *r.CPUUsageGHz)
	assert.Equal(t, 16.0, *r.MemTotalGB)
	assert.Equal(t, 4.0, *r.MemUsageGB)
	assert.True(t, *r.ShutdownSupported)
	assert.Equal(t, "dynamic", *r.PowerPolicy)
	assert.Equal(t, []string{"dynamic", "static"}, r.AvailablePowerPolicies)
	assert.Equal(t, 3, *r.VMs)
}

func TestHostRecordPoweredOff(t *testing.T) {
	h := poweredOnHost()
	h.Summary.Runtime.PowerState = types.HostSystemPowerStatePoweredOff
	h.Summary.Runtime.InMaintenanceMode = true
	h.Summary.Hardware = nil

	table, err := HostTable([]mo.HostSystem{h})
	require.NoError(t, err)
	r := table["esx_01"]
	assert.Equal(t, "poweredOff", r.State)
	assert.True(t, *r.MaintenanceMode)
	assert.True(t, *r.ShutdownSupported)
	assert.Nil(t, r.Version)
	assert.Nil(t, r.UptimeHours)
	assert.Nil(t, r.MemTotalGB)
	assert.Nil(t, r.PowerPolicy)
	assert.Nil(t, r.VMs)
	assert.Empty(t, r.AvailablePowerPolicies)
	assert.NotNil(t, r.AvailablePowerPolicies)
}

func TestHostMalformed(t *testing.T) {
	h := poweredOnHost()
	h.Summary.Runtime = nil
	_, err := HostTable([]mo.HostSystem{h})
	assert.ErrorIs(t, err, ErrMalformed)

	h = poweredOnHost()
	h.Summary.Hardware = nil
	_, err = HostTable([]mo.HostSystem{h})
	assert.ErrorIs(t, err, ErrMalformed)
}

func runningVM() mo.VirtualMachine {
	host := types.ManagedObjectReference{Type: "HostSystem", Value: "host-1"}
	vm := mo.VirtualMachine{
		Summary: types.VirtualMachineSummary{
			Config: types.VirtualMachineConfigSummary{
				Name:          "Web Server",
				Uuid:          "4211-aaaa",
				NumCpu:        2,
				MemorySizeMB:  4096,
				GuestFullName: "Other Linux",
			},
			Runtime: types.VirtualMachineRuntimeInfo{
				PowerState:  types.VirtualMachinePowerStatePoweredOn,
				Host:        &host,
				MaxCpuUsage: 4000,
			},
			QuickStats: types.VirtualMachineQuickStats{
				OverallCpuUsage:  1000,
				HostMemoryUsage:  2048,
				GuestMemoryUsage: 512,
				UptimeSeconds:    5400,
			},
			Storage:       &types.VirtualMachineStorageSummary{Committed: 3 * bytesPerGB},
			Guest:         &types.VirtualMachineGuestSummary{ToolsStatus: types.VirtualMachineToolsStatusToolsOk, IpAddress: "10.0.0.5", GuestFullName: "Ubuntu Linux (64-bit)"},
			OverallStatus: types.ManagedEntityStatusGreen,
		},
		Snapshot: &types.VirtualMachineSnapshotInfo{RootSnapshotList: []types.VirtualMachineSnapshotTree{
			{Name: "a", ChildSnapshotList: []types.VirtualMachineSnapshotTree{{Name: "b"}}},
		}},
	}
	vm.ConfigStatus = types.ManagedEntityStatusGreen
	return vm
}

func TestVmRecordRunning(t *testing.T) {
	table, err := VMTable([]mo.VirtualMachine{runningVM()}, map[string]string{"host-1": "esx01.lab"})
	require.NoError(t, err)
	require.Contains(t, table, "web_server")

	r := table["web_server"]
	assert.Equal(t, "Web Server", r.VMName)
	assert.Equal(t, protocol.VMStateRunning, r.State)
	assert.Equal(t, "green", r.Status)
	assert.Equal(t, 25.0, *r.CPUUsePct)
	assert.Equal(t, int32(2048), *r.MemoryUsedMB)
	assert.Equal(t, int32(512), *r.MemoryActiveMB)
	assert.Equal(t, 1.5, *r.UptimeHours)
	assert.Equal(t, 3.0, *r.UsedSpaceGB)
	assert.Equal(t, "toolsOk", *r.ToolsStatus)
	assert.Equal(t, "10.0.0.5", *r.GuestIP)
	assert.Equal(t, "Ubuntu Linux (64-bit)", *r.GuestOS)
	assert.Equal(t, 2, r.Snapshots)
	assert.Equal(t, "esx01.lab", r.HostName)
	assert.Equal(t, "4211-aaaa", r.UUID)
}

func TestVmRecordPoweredOff(t *testing.T) {
	vm := runningVM()
	vm.Summary.Runtime.PowerState = types.VirtualMachinePowerStatePoweredOff
	vm.Summary.Runtime.MaxCpuUsage = 0
	vm.Summary.Guest.ToolsStatus = types.VirtualMachineToolsStatusToolsNotRunning

	table, err := VMTable([]mo.VirtualMachine{vm}, nil)
	require.NoError(t, err)
	r := table["web_server"]
	assert.Equal(t, protocol.VMStateOff, r.State)
	require.NotNil(t, r.ToolsStatus)
	assert.Equal(t, "toolsNotRunning", *r.ToolsStatus)
	assert.Nil(t, r.CPUUsePct)
	assert.Nil(t, r.MemoryUsedMB)
	assert.Nil(t, r.UptimeHours)
	assert.Nil(t, r.GuestIP)
	assert.Equal(t, "Other Linux", *r.GuestOS)
	assert.Empty(t, r.HostName)
}

func TestVmRecordNoMaxCpu(t *testing.T) {
	vm := runningVM()
	vm.Summary.Runtime.MaxCpuUsage = 0
	table, err := VMTable([]mo.VirtualMachine{vm}, nil)
	require.NoError(t, err)
	assert.Nil(t, table["web_server"].CPUUsePct)
}

func TestVmRecordInvalid(t *testing.T) {
	vm := runningVM()
	vm.ConfigStatus = types.ManagedEntityStatusRed
	table, err := VMTable([]mo.VirtualMachine{vm}, nil)
	require.NoError(t, err)

	r := table["web_server"]
	assert.Equal(t, protocol.VMStatusInvalid, r.Status)
	assert.Empty(t, r.State)
	assert.Equal(t, map[string]interface{}{"name": "web_server", "status": "Invalid"}, protocol.Attributes(r))
}

func lic(name string, props ...types.KeyAnyValue) types.LicenseManagerLicenseInfo {
	return types.LicenseManagerLicenseInfo{Name: name, LicenseKey: name + "-key", Properties: props}
}

func TestLicenseTable(t *testing.T) {
	product := types.KeyAnyValue{Key: "ProductName", Value: "VMware ESX Server"}
	table := LicenseTable([]types.LicenseManagerLicenseInfo{
		lic("perpetual", product, types.KeyAnyValue{Key: "count_disabled", Value: "true"}),
		lic("soon", product, types.KeyAnyValue{Key: "expirationHours", Value: int32(240)}),
		lic("gone", product, types.KeyAnyValue{Key: "expirationHours", Value: int32(0)}),
		lic("long", product, types.KeyAnyValue{Key: "expirationHours", Value: int32(2400)}),
	}, "esx01")

	require.Len(t, table, 4)
	assert.Equal(t, "perpetual", table["1"].Name)
	assert.Equal(t, "never", table["1"].Expires)
	assert.Nil(t, table["1"].ExpirationDays)
	assert.Equal(t, protocol.LicenseOk, table["1"].Status)
	assert.Equal(t, "VMware ESX Server", table["1"].Product)
	assert.Equal(t, "esx01", table["1"].Host)
	assert.Equal(t, "perpetual-key", table["1"].LicenseKey)

	assert.Equal(t, 10, *table["2"].ExpirationDays)
	assert.Equal(t, protocol.LicenseExpiringSoon, table["2"].Status)
	assert.Equal(t, protocol.LicenseExpired, table["3"].Status)
	assert.Equal(t, 100, *table["4"].ExpirationDays)
	assert.Equal(t, protocol.LicenseOk, table["4"].Status)
}

func TestPolicyKey(t *testing.T) {
	available := []types.HostPowerPolicy{{Key: 1, ShortName: "static"}, {Key: 2, ShortName: "dynamic"}}
	k, ok := policyKey(available, "Dynamic")
	assert.True(t, ok)
	assert.Equal(t, int32(2), k)

	_, ok = policyKey(available, "low")
	assert.False(t, ok)
	assert.Equal(t, []string{"static", "dynamic"}, policyNames(available))
}

func TestResolveHost(t *testing.T) {
	host := func(name string) mo.HostSystem {
		h := mo.HostSystem{}
		h.Summary.Config.Name = name
		return h
	}

	_, err := resolveHost(nil, "")
	assert.ErrorIs(t, err, errHostNotFound)

	h, err := resolveHost([]mo.HostSystem{host("esx01")}, "")
	require.NoError(t, err)
	assert.Equal(t, "esx01", h.Summary.Config.Name)

	hosts := []mo.HostSystem{host("esx01"), host("esx02")}
	_, err = resolveHost(hosts, "")
	assert.ErrorIs(t, err, ErrTargetRequired)
	assert.Contains(t, err.Error(), "esx01, esx02")

	h, err = resolveHost(hosts, "ESX02")
	require.NoError(t, err)
	assert.Equal(t, "esx02", h.Summary.Config.Name)

	_, err = resolveHost(hosts, "esx03")
	assert.ErrorIs(t, err, errHostNotFound)
}
