package protocol

import (
	"encoding/json"
	"strings"
)

// Record is one flattened inventory object.
type Record interface {
	RecordName() string
}

// Missing values are nil and render as null.
type HostRecord struct {
	Name                   string   `json:"name"`
	OriginalName           string   `json:"original_name"`
	State                  string   `json:"state"`
	Version                *string  `json:"version"`
	Build                  *string  `json:"build"`
	UptimeHours            *float64 `json:"uptime_hours"`
	CPUTotalGHz            *float64 `json:"cputotal_ghz"`
	CPUUsageGHz            *float64 `json:"cpuusage_ghz"`
	MemTotalGB             *float64 `json:"memtotal_gb"`
	MemUsageGB             *float64 `json:"memusage_gb"`
	MaintenanceMode        *bool    `json:"maintenance_mode"`
	ShutdownSupported      *bool    `json:"shutdown_supported"`
	PowerPolicy            *string  `json:"power_policy"`
	AvailablePowerPolicies []string `json:"available_power_policies"`
	VMs                    *int     `json:"vms"`
}

func (r HostRecord) RecordName() string { return r.OriginalName }

type DatastoreRecord struct {
	Name            string  `json:"name"`
	OriginalName    string  `json:"original_name"`
	Type            string  `json:"type"`
	FreeSpaceGB     float64 `json:"free_space_gb"`
	TotalSpaceGB    float64 `json:"total_space_gb"`
	ConnectedHosts  int     `json:"connected_hosts"`
	VirtualMachines int     `json:"virtual_machines"`
}

func (r DatastoreRecord) RecordName() string { return r.OriginalName }

type VmRecord struct {
	Name              string   `json:"name"`
	VMName            string   `json:"vm_name"`
	Status            string   `json:"status"`
	State             string   `json:"state"`
	UptimeHours       *float64 `json:"uptime_hours"`
	CPUCount          *int32   `json:"cpu_count"`
	CPUUsePct         *float64 `json:"cpu_use_pct"`
	MemoryAllocatedMB *int32   `json:"memory_allocated_mb"`
	MemoryUsedMB      *int32   `json:"memory_used_mb"`
	MemoryActiveMB    *int32   `json:"memory_active_mb"`
	UsedSpaceGB       *float64 `json:"used_space_gb"`
	ToolsStatus       *string  `json:"tools_status"`
	GuestOS           *string  `json:"guest_os"`
	GuestIP           *string  `json:"guest_ip"`
	Snapshots         int      `json:"snapshots"`
	UUID              string   `json:"uuid"`
	HostName          string   `json:"host_name"`
}

func (r VmRecord) RecordName() string {
	if r.VMName != "" {
		return r.VMName
	}
	return r.Name
}

func (r VmRecord) MarshalJSON() ([]byte, error) {
	if r.Status == VMStatusInvalid {
		return json.Marshal(struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		}{r.Name, r.Status})
	}
	type plain VmRecord
	return json.Marshal(plain(r))
}

// Running is false for invalid records, which carry no state.
func (r VmRecord) Running() bool {
	return r.State == VMStateRunning
}

const (
	VMStateRunning   = "running"
	VMStateOff       = "off"
	VMStateSuspended = "suspended"
	VMStatusInvalid  = "Invalid"
)

type LicenseRecord struct {
	Name           string `json:"name"`
	Status         string `json:"status"`
	Product        string `json:"product"`
	ExpirationDays *int   `json:"expiration_days"`
	Expires        string `json:"expires,omitempty"`
	Host           string `json:"host"`
	LicenseKey     string `json:"license_key"`
}

func (r LicenseRecord) RecordName() string { return r.Name }

const (
	LicenseOk           = "Ok"
	LicenseExpiringSoon = "Expiring Soon"
	LicenseExpired      = "expired"
)

// NormalizeKey turns a display name into a table key.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// Attributes flattens a record into the key/value bag shown on sensors.
func Attributes(r Record) map[string]interface{} {
	b, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}

type Inventory struct {
	Hosts           map[string]HostRecord      `json:"hosts"`
	Datastores      map[string]DatastoreRecord `json:"datastores"`
	Licenses        map[string]LicenseRecord   `json:"licenses"`
	VMs             map[string]VmRecord        `json:"vms"`
	CommandsAllowed bool                       `json:"commands_allowed"`
}

// Table returns the records of c, nil for a table that was never polled.
func (i Inventory) Table(c Category) map[string]Record {
	var t map[string]Record
	switch c {
	case Hosts:
		if i.Hosts == nil {
			return nil
		}
		t = make(map[string]Record, len(i.Hosts))
		for k, v := range i.Hosts {
			t[k] = v
		}
	case Datastores:
		if i.Datastores == nil {
			return nil
		}
		t = make(map[string]Record, len(i.Datastores))
		for k, v := range i.Datastores {
			t[k] = v
		}
	case Licenses:
		if i.Licenses == nil {
			return nil
		}
		t = make(map[string]Record, len(i.Licenses))
		for k, v := range i.Licenses {
			t[k] = v
		}
	case VMs:
		if i.VMs == nil {
			return nil
		}
		t = make(map[string]Record, len(i.VMs))
		for k, v := range i.VMs {
			t[k] = v
		}
	}
	return t
}
