package vsphere

import (
	"esxi-stats/app/utils"
	"esxi-stats/vsphere/protocol"
	"fmt"
	"github.com/vmware/govmomi/vim25/mo"
	"strings"
)

func DatastoreTable(datastores []mo.Datastore) (map[string]protocol.DatastoreRecord, error) {
	t := make(map[string]protocol.DatastoreRecord, len(datastores))
	for _, ds := range datastores {
		r, err := buildDatastoreRecord(ds)
		if err != nil {
			return nil, err
		}
		t[r.Name] = r
	}
	return t, nil
}

func buildDatastoreRecord(ds mo.Datastore) (protocol.DatastoreRecord, error) {
	s := ds.Summary
	if s.Name == "" {
		return protocol.DatastoreRecord{}, fmt.Errorf("%w: datastore %s has no summary", ErrMalformed, ds.Reference().Value)
	}
	return protocol.DatastoreRecord{
		Name:            protocol.NormalizeKey(s.Name),
		OriginalName:    s.Name,
		Type:            strings.ToLower(s.Type),
		FreeSpaceGB:     utils.Round(float64(s.FreeSpace)/bytesPerGB, 2),
		TotalSpaceGB:    utils.Round(float64(s.Capacity)/bytesPerGB, 2),
		ConnectedHosts:  len(ds.Host),
		VirtualMachines: len(ds.Vm),
	}, nil
}
