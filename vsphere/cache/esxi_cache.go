package cache

import (
	"esxi-stats/app/cache"
	"esxi-stats/app/logging"
	"esxi-stats/vsphere/protocol"
	"fmt"
	"time"
)

const (
	lastPoll        = "LastPoll"
	commandsAllowed = "CommandsAllowed"
)

// EsxiCache keeps the latest tables of one endpoint in the process cache.
// Tables are never mutated in place, a poll stores a new map.
type EsxiCache struct {
	ID string
}

func (c EsxiCache) Get(k string) (interface{}, bool) {
	return cache.INST.Get(key(c.ID, k))
}

func (c EsxiCache) Set(k string, v interface{}) {
	cache.INST.Set(key(c.ID, k), v, -1)
}

func (c EsxiCache) SetHosts(t map[string]protocol.HostRecord) {
	c.Set(string(protocol.Hosts), t)
}

func (c EsxiCache) SetDatastores(t map[string]protocol.DatastoreRecord) {
	c.Set(string(protocol.Datastores), t)
}

func (c EsxiCache) SetLicenses(t map[string]protocol.LicenseRecord) {
	c.Set(string(protocol.Licenses), t)
}

func (c EsxiCache) SetVMs(t map[string]protocol.VmRecord) {
	c.Set(string(protocol.VMs), t)
}

func (c EsxiCache) SetCommandsAllowed(b bool) {
	c.Set(commandsAllowed, b)
}

// Inventory returns the tables as they were after the last poll of each category.
func (c EsxiCache) Inventory() protocol.Inventory {
	var inv protocol.Inventory
	if v, ok := c.Get(string(protocol.Hosts)); ok {
		inv.Hosts = v.(map[string]protocol.HostRecord)
	}
	if v, ok := c.Get(string(protocol.Datastores)); ok {
		inv.Datastores = v.(map[string]protocol.DatastoreRecord)
	}
	if v, ok := c.Get(string(protocol.Licenses)); ok {
		inv.Licenses = v.(map[string]protocol.LicenseRecord)
	}
	if v, ok := c.Get(string(protocol.VMs)); ok {
		inv.VMs = v.(map[string]protocol.VmRecord)
	}
	if v, ok := c.Get(commandsAllowed); ok {
		inv.CommandsAllowed = v.(bool)
	}
	return inv
}

// Throttle reports whether a poll may run now. An accepted poll blocks the next ones
// for a little less than interval, so a ticker at interval is never throttled by dispatch delay.
func (c EsxiCache) Throttle(interval time.Duration) bool {
	if interval <= 0 {
		return true
	}
	return cache.INST.Add(key(c.ID, lastPoll), time.Now(), window(interval)) == nil
}

// Touch marks a forced poll so the regular schedule restarts from now.
func (c EsxiCache) Touch(interval time.Duration) {
	if interval > 0 {
		cache.INST.Set(key(c.ID, lastPoll), time.Now(), window(interval))
	}
}

func window(interval time.Duration) time.Duration {
	return interval - interval/10
}

func (c EsxiCache) LastPoll() (time.Time, bool) {
	v, ok := c.Get(lastPoll)
	if !ok {
		return time.Time{}, false
	}
	return v.(time.Time), true
}

// CleanAll drops every table and throttle of the endpoint.
func (c EsxiCache) CleanAll() {
	n := cache.DeletePrefix(key(c.ID, ""))
	logging.L().Debugf("cleaned %d cache entries of %s", n, c.ID)
}

func key(ID, t string) string {
	return fmt.Sprintf("%s::%s", ID, t)
}
