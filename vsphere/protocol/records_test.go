package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "local_storage", NormalizeKey("Local Storage"))
	assert.Equal(t, "esx-01.lab.local", NormalizeKey("ESX-01.lab.local"))
	for _, n := range []string{"Local Storage", "My  VM", "already_norm", "MiXeD Case Name"} {
		once := NormalizeKey(n)
		assert.Equal(t, once, NormalizeKey(once), n)
	}
}

func TestMissingValuesRenderNull(t *testing.T) {
	r := HostRecord{Name: "esx01", OriginalName: "ESX01", State: "poweredOff"}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Contains(t, m, "uptime_hours")
	assert.Nil(t, m["uptime_hours"])
	assert.Nil(t, m["vms"])
}

func TestAttributes(t *testing.T) {
	a := Attributes(DatastoreRecord{Name: "local_storage", Type: "vmfs", FreeSpaceGB: 1, TotalSpaceGB: 2})
	assert.Equal(t, "vmfs", a["type"])
	assert.Equal(t, 1.0, a["free_space_gb"])
}

func TestInventoryTable(t *testing.T) {
	i := Inventory{VMs: map[string]VmRecord{"web": {Name: "web", VMName: "Web", State: VMStateRunning}}}
	assert.Nil(t, i.Table(Hosts))
	tbl := i.Table(VMs)
	require.Len(t, tbl, 1)
	assert.Equal(t, "Web", tbl["web"].RecordName())
	assert.True(t, tbl["web"].(VmRecord).Running())
}

func TestParseCategories(t *testing.T) {
	cats, err := ParseCategories([]string{"hosts", "VMs", "hosts", " datastores "})
	require.NoError(t, err)
	assert.Equal(t, []Category{Hosts, VMs, Datastores}, cats)

	_, err = ParseCategories([]string{"networks"})
	assert.Error(t, err)
	assert.Equal(t, "virtual machine(s)", VMs.Unit())
}

func TestInvalidVmRecordJSON(t *testing.T) {
	b, err := json.Marshal(VmRecord{Name: "broken_vm", Status: VMStatusInvalid})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"broken_vm","status":"Invalid"}`, string(b))

	b, err = json.Marshal(VmRecord{Name: "web", VMName: "Web", Status: "green", State: VMStateOff})
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "off", m["state"])
	assert.Contains(t, m, "guest_ip")
	assert.Nil(t, m["guest_ip"])
}
