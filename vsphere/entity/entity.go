package entity

import (
	"esxi-stats/vsphere/protocol"
	"fmt"
	"sort"
	"strings"
)

type Kind string

const (
	Sensor Kind = "sensor"
	Switch Kind = "switch"
	Button Kind = "button"
	Select Kind = "select"
)

const (
	Manufacturer = "VMware"
	ModelHost    = "ESXi Host"
	ModelVM      = "Virtual Machine"
)

type StateKeys struct {
	Datastore string `json:"datastore"`
	Host      string `json:"host"`
	License   string `json:"license"`
	VM        string `json:"vm"`
}

func DefaultStateKeys() StateKeys {
	return StateKeys{Datastore: "free_space_gb", Host: "vms", License: "status", VM: "state"}
}

func (k StateKeys) For(c protocol.Category) string {
	d := DefaultStateKeys()
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	switch c {
	case protocol.Hosts:
		return pick(k.Host, d.Host)
	case protocol.Datastores:
		return pick(k.Datastore, d.Datastore)
	case protocol.Licenses:
		return pick(k.License, d.License)
	case protocol.VMs:
		return pick(k.VM, d.VM)
	}
	return ""
}

type Device struct {
	Identifier   string `json:"identifier"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
}

type Entity struct {
	UniqueID   string                 `json:"unique_id"`
	Name       string                 `json:"name"`
	Kind       Kind                   `json:"kind"`
	Role       string                 `json:"role,omitempty"`
	Category   protocol.Category      `json:"category"`
	Key        string                 `json:"key,omitempty"`
	Target     string                 `json:"target,omitempty"`
	State      interface{}            `json:"state"`
	Unit       string                 `json:"unit,omitempty"`
	Available  bool                   `json:"available"`
	Options    []string               `json:"options,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Device     *Device                `json:"device,omitempty"`
}

// Roles tell actions apart for entities of the same kind.
const (
	RoleCategory       = "category"
	RoleRecord         = "record"
	RoleVMPower        = "vm_switch"
	RoleHostPower      = "host_switch"
	RoleHostReboot     = "host_reboot"
	RoleVMReboot       = "vm_reboot"
	RoleSnapshotCreate = "vm_snapshot_create"
	RoleSnapshotAll    = "vm_snapshot_remove_all"
	RoleSnapshotFirst  = "vm_snapshot_remove_first"
	RoleSnapshotLast   = "vm_snapshot_remove_last"
	RolePowerPolicy    = "select_power_policy"
)

// Build maps the tables of the monitored categories to entities, ordered by unique id.
func Build(name, host string, inv protocol.Inventory, categories []protocol.Category, keys StateKeys) []Entity {
	b := builder{name: name, prefix: strings.ReplaceAll(host, ".", "_")}
	for _, c := range categories {
		table := inv.Table(c)
		b.category(c, table)
		for _, k := range sortedKeys(table) {
			b.record(c, k, table[k], keys.For(c))
		}
		switch c {
		case protocol.Hosts:
			for _, k := range sortedKeys(table) {
				b.host(k, inv.Hosts[k])
			}
		case protocol.VMs:
			for _, k := range sortedKeys(table) {
				b.vm(k, inv.VMs[k])
			}
		}
	}
	sort.SliceStable(b.out, func(i, j int) bool { return b.out[i].UniqueID < b.out[j].UniqueID })
	return b.out
}

type builder struct {
	name   string
	prefix string
	out    []Entity
}

func (b *builder) id(parts ...string) string {
	return b.prefix + "_" + strings.Join(parts, "_")
}

func (b *builder) add(e Entity) {
	b.out = append(b.out, e)
}

func (b *builder) category(c protocol.Category, table map[string]protocol.Record) {
	attrs := make(map[string]interface{}, len(table))
	for k, r := range table {
		attrs[k] = protocol.Attributes(r)
	}
	b.add(Entity{
		UniqueID:   b.id(string(c)),
		Name:       fmt.Sprintf("%s %s", b.name, c),
		Kind:       Sensor,
		Role:       RoleCategory,
		Category:   c,
		State:      len(table),
		Unit:       c.Unit(),
		Available:  true,
		Attributes: attrs,
	})
}

func (b *builder) record(c protocol.Category, key string, r protocol.Record, stateKey string) {
	attrs := protocol.Attributes(r)
	e := Entity{
		UniqueID:   b.id(c.Singular(), "sensor", key),
		Name:       fmt.Sprintf("%s %s %s", b.name, c.Singular(), r.RecordName()),
		Kind:       Sensor,
		Role:       RoleRecord,
		Category:   c,
		Key:        key,
		State:      attrs[stateKey],
		Available:  true,
		Attributes: attrs,
	}
	switch c {
	case protocol.Hosts:
		e.Device = hostDevice(key)
	case protocol.VMs:
		e.Device = vmDevice(key, r.RecordName())
	}
	b.add(e)
}

func (b *builder) host(key string, h protocol.HostRecord) {
	on := h.State == "poweredOn"
	title := TitleName(key)
	dev := hostDevice(key)
	attrs := map[string]interface{}{"power_state": h.State, "maintenance_mode": h.MaintenanceMode}

	b.add(Entity{
		UniqueID: b.id("host_switch", key), Name: fmt.Sprintf("%s Host %s", b.name, title),
		Kind: Switch, Role: RoleHostPower, Category: protocol.Hosts, Key: key, Target: h.OriginalName,
		State: on, Available: true, Attributes: attrs, Device: dev,
	})
	b.add(Entity{
		UniqueID: b.id("host_reboot", key), Name: fmt.Sprintf("%s Reboot %s", b.name, title),
		Kind: Button, Role: RoleHostReboot, Category: protocol.Hosts, Key: key, Target: h.OriginalName,
		Available: on, Attributes: attrs, Device: dev,
	})

	options := append([]string(nil), h.AvailablePowerPolicies...)
	var current interface{}
	if h.PowerPolicy != nil {
		current = *h.PowerPolicy
	}
	b.add(Entity{
		UniqueID: b.id("select_power_policy", key), Name: fmt.Sprintf("%s %s Power Policy", b.name, title),
		Kind: Select, Role: RolePowerPolicy, Category: protocol.Hosts, Key: key, Target: h.OriginalName,
		State: current, Options: options, Available: on && len(options) > 0, Device: dev,
	})
}

func (b *builder) vm(key string, v protocol.VmRecord) {
	name := v.RecordName()
	dev := vmDevice(key, name)
	tools := ""
	if v.ToolsStatus != nil {
		tools = *v.ToolsStatus
	}
	attrs := map[string]interface{}{"power_state": v.State, "tools_status": tools, "snapshots": v.Snapshots}
	running := v.Running()
	hasState := v.State != ""
	hasSnapshots := v.Snapshots > 0

	b.add(Entity{
		UniqueID: b.id("vm_switch", key), Name: fmt.Sprintf("%s VM %s", b.name, name),
		Kind: Switch, Role: RoleVMPower, Category: protocol.VMs, Key: key, Target: v.UUID,
		State: running, Available: hasState, Attributes: attrs, Device: dev,
	})
	b.add(Entity{
		UniqueID: b.id("vm_reboot", key), Name: fmt.Sprintf("%s Reboot %s", b.name, name),
		Kind: Button, Role: RoleVMReboot, Category: protocol.VMs, Key: key, Target: v.UUID,
		Available: running, Attributes: attrs, Device: dev,
	})
	b.add(Entity{
		UniqueID: b.id("vm_snapshot_create", key), Name: fmt.Sprintf("%s Create Snapshot %s", b.name, name),
		Kind: Button, Role: RoleSnapshotCreate, Category: protocol.VMs, Key: key, Target: v.UUID,
		Available: hasState, Attributes: attrs, Device: dev,
	})
	for _, r := range []struct{ role, which string }{
		{RoleSnapshotAll, "All Snapshots"},
		{RoleSnapshotFirst, "First Snapshot"},
		{RoleSnapshotLast, "Last Snapshot"},
	} {
		b.add(Entity{
			UniqueID: b.id(r.role, key), Name: fmt.Sprintf("%s Remove %s %s", b.name, r.which, name),
			Kind: Button, Role: r.role, Category: protocol.VMs, Key: key, Target: v.UUID,
			Available: hasSnapshots, Attributes: attrs, Device: dev,
		})
	}
}

func hostDevice(key string) *Device {
	return &Device{Identifier: "host_" + key, Name: "ESXi Host " + TitleName(key), Manufacturer: Manufacturer, Model: ModelHost}
}

func vmDevice(key, name string) *Device {
	return &Device{Identifier: "vm_" + key, Name: "VM " + name, Manufacturer: Manufacturer, Model: ModelVM}
}

// TitleName turns a table key like "esx_01.lab" into "Esx 01.Lab".
func TitleName(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	var b strings.Builder
	upper := true
	for _, r := range w {
		if upper {
			b.WriteString(strings.ToUpper(string(r)))
		} else {
			b.WriteString(strings.ToLower(string(r)))
		}
		upper = !isLetter(r)
	}
	return b.String()
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func sortedKeys(t map[string]protocol.Record) []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Find returns the entity with uid.
func Find(entities []Entity, uid string) (Entity, bool) {
	for _, e := range entities {
		if e.UniqueID == uid {
			return e, true
		}
	}
	return Entity{}, false
}
