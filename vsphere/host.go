package vsphere

import (
	"esxi-stats/app/logging"
	"esxi-stats/app/utils"
	"esxi-stats/helper/hostsystem"
	"esxi-stats/vsphere/protocol"
	"fmt"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"sort"
)

const bytesPerGB = 1073741824

// HostTable maps every host to its record. One malformed host fails the whole table.
func HostTable(hosts []mo.HostSystem) (map[string]protocol.HostRecord, error) {
	t := make(map[string]protocol.HostRecord, len(hosts))
	for _, h := range hosts {
		r, err := buildHostRecord(h)
		if err != nil {
			return nil, err
		}
		t[r.Name] = r
	}
	return t, nil
}

func buildHostRecord(h mo.HostSystem) (protocol.HostRecord, error) {
	s := h.Summary
	name := s.Config.Name
	if name == "" {
		name = h.Name
	}
	if name == "" || s.Runtime == nil {
		return protocol.HostRecord{}, fmt.Errorf("%w: host %s has no runtime summary", ErrMalformed, h.Reference().Value)
	}

	r := protocol.HostRecord{
		Name:                   protocol.NormalizeKey(name),
		OriginalName:           name,
		State:                  string(s.Runtime.PowerState),
		MaintenanceMode:        utils.Bool(s.Runtime.InMaintenanceMode),
		ShutdownSupported:      utils.Bool(h.Capability != nil && h.Capability.ShutdownSupported),
		AvailablePowerPolicies: []string{},
	}
	if s.Runtime.PowerState != types.HostSystemPowerStatePoweredOn {
		logging.L().Debugf("host %s is %s, no stats", name, r.State)
		return r, nil
	}
	if s.Hardware == nil {
		return protocol.HostRecord{}, fmt.Errorf("%w: host %s has no hardware summary", ErrMalformed, name)
	}

	if p := s.Config.Product; p != nil {
		r.Version = utils.String(p.Version)
		r.Build = utils.String(p.Build)
	}
	q := s.QuickStats
	r.UptimeHours = utils.Float(utils.Round(float64(q.Uptime)/3600, 1))
	r.CPUTotalGHz = utils.Float(utils.Round(float64(s.Hardware.CpuMhz)*float64(s.Hardware.NumCpuCores)/1000, 1))
	r.CPUUsageGHz = utils.Float(utils.Round(float64(q.OverallCpuUsage)/1000, 1))
	r.MemTotalGB = utils.Float(utils.Round(float64(s.Hardware.MemorySize)/bytesPerGB, 2))
	r.MemUsageGB = utils.Float(utils.Round(float64(q.OverallMemoryUsage)/1024, 2))
	r.VMs = utils.Int(len(h.Vm))

	available, current := hostsystem.PowerPolicies(h)
	if current != nil && current.ShortName != "" {
		r.PowerPolicy = utils.String(current.ShortName)
	}
	for _, p := range available {
		r.AvailablePowerPolicies = append(r.AvailablePowerPolicies, p.ShortName)
	}
	sort.Strings(r.AvailablePowerPolicies)
	return r, nil
}

// hostNames resolves host morefs to display names for vm and license records.
func hostNames(hosts []mo.HostSystem) map[string]string {
	m := make(map[string]string, len(hosts))
	for _, h := range hosts {
		m[h.Reference().Value] = hostsystem.DisplayName(h)
	}
	return m
}
