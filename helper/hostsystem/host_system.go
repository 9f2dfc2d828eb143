package hostsystem

import (
	"context"
	"esxi-stats/app/logging"
	"esxi-stats/helper"
	"fmt"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/vim25/methods"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"strings"
)

const Type = "HostSystem"

var Props = []string{
	"name",
	"summary",
	"capability",
	"config.powerSystemCapability",
	"config.powerSystemInfo",
	"vm",
	"configManager.powerSystem",
}

func Retrieve(ctx context.Context, api *helper.API) ([]mo.HostSystem, error) {
	var hosts []mo.HostSystem
	if err := helper.Retrieve(ctx, api, Type, Props, &hosts); err != nil {
		return nil, err
	}
	logging.L().Debug(fmt.Sprintf("retrieved %d hosts", len(hosts)))
	return hosts, nil
}

// DisplayName prefers the summary name, which is what the user sees in the client.
func DisplayName(h mo.HostSystem) string {
	if h.Summary.Config.Name != "" {
		return h.Summary.Config.Name
	}
	return h.Name
}

func Matches(h mo.HostSystem, name string) bool {
	return strings.EqualFold(h.Summary.Config.Name, name) || strings.EqualFold(h.Name, name)
}

func Names(hosts []mo.HostSystem) []string {
	var names []string
	for _, h := range hosts {
		names = append(names, DisplayName(h))
	}
	return names
}

func PowerState(h mo.HostSystem) types.HostSystemPowerState {
	if h.Summary.Runtime == nil {
		return types.HostSystemPowerStateUnknown
	}
	return h.Summary.Runtime.PowerState
}

func InMaintenanceMode(h mo.HostSystem) bool {
	return h.Summary.Runtime != nil && h.Summary.Runtime.InMaintenanceMode
}

func ConnectionState(h mo.HostSystem) types.HostSystemConnectionState {
	if h.Summary.Runtime == nil {
		return ""
	}
	return h.Summary.Runtime.ConnectionState
}

// PowerPolicies returns the available policies and the current one, nil when the host has no power system capability.
func PowerPolicies(h mo.HostSystem) ([]types.HostPowerPolicy, *types.HostPowerPolicy) {
	if h.Config == nil || h.Config.PowerSystemCapability == nil {
		return nil, nil
	}
	var current *types.HostPowerPolicy
	if h.Config.PowerSystemInfo != nil {
		p := h.Config.PowerSystemInfo.CurrentPolicy
		current = &p
	}
	return h.Config.PowerSystemCapability.AvailablePolicy, current
}

func PoweredOnVMs(ctx context.Context, api *helper.API, h mo.HostSystem) (int, error) {
	if len(h.Vm) == 0 {
		return 0, nil
	}
	pctx, cancel := context.WithTimeout(ctx, helper.APITimeout)
	defer cancel()
	var vms []mo.VirtualMachine
	pc := property.DefaultCollector(api.Client.Client)
	if err := pc.Retrieve(pctx, h.Vm, []string{"runtime.powerState"}, &vms); err != nil {
		return 0, fmt.Errorf("retrieve vms of host %s: %w", DisplayName(h), err)
	}
	n := 0
	for _, vm := range vms {
		if vm.Runtime.PowerState == types.VirtualMachinePowerStatePoweredOn {
			n++
		}
	}
	return n, nil
}

func Reboot(ctx context.Context, api *helper.API, h mo.HostSystem, force bool) (*object.Task, error) {
	logging.L().Info(fmt.Sprintf("sending reboot to host %s (forced: %t)", DisplayName(h), force))
	req := types.RebootHost_Task{This: h.Reference(), Force: force}
	res, err := methods.RebootHost_Task(ctx, api.Client.Client, &req)
	if err != nil {
		return nil, err
	}
	return object.NewTask(api.Client.Client, res.Returnval), nil
}

func Shutdown(ctx context.Context, api *helper.API, h mo.HostSystem, force bool) (*object.Task, error) {
	logging.L().Info(fmt.Sprintf("sending shutdown to host %s (forced: %t)", DisplayName(h), force))
	req := types.ShutdownHost_Task{This: h.Reference(), Force: force}
	res, err := methods.ShutdownHost_Task(ctx, api.Client.Client, &req)
	if err != nil {
		return nil, err
	}
	return object.NewTask(api.Client.Client, res.Returnval), nil
}

func ConfigurePowerPolicy(ctx context.Context, api *helper.API, h mo.HostSystem, key int32) error {
	if h.ConfigManager.PowerSystem == nil {
		return fmt.Errorf("host %s has no power system", DisplayName(h))
	}
	req := types.ConfigurePowerPolicy{This: *h.ConfigManager.PowerSystem, Key: key}
	_, err := methods.ConfigurePowerPolicy(ctx, api.Client.Client, &req)
	return err
}
