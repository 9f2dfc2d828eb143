package vsphere

import (
	"context"
	"errors"
	"esxi-stats/app/logging"
	"esxi-stats/helper"
	"esxi-stats/helper/datastore"
	"esxi-stats/helper/hostsystem"
	"esxi-stats/helper/license"
	"esxi-stats/helper/virtualmachine"
	"esxi-stats/metrics"
	"esxi-stats/vsphere/notify"
	"esxi-stats/vsphere/protocol"
	"fmt"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"time"
)

var (
	ErrMalformed = errors.New("malformed inventory object")
	ErrThrottled = errors.New("poll throttled")
)

// Poll refreshes the tables of every monitored category.
// Within ScanInterval of the last accepted poll it returns ErrThrottled unless forced.
func (s *Esxi) Poll(ctx context.Context, force bool) error {
	if force {
		s.Cache.Touch(s.ScanInterval)
	} else if !s.Cache.Throttle(s.ScanInterval) {
		logging.L().Debugf("poll of %s throttled", s.ID)
		return ErrThrottled
	}

	start := time.Now()
	defer func() {
		metrics.ObservePollDuration(s.ID, time.Since(start).Seconds())
	}()

	api, err := s.Connector.Lease(ctx)
	if err != nil {
		metrics.IncreasePolls(s.ID, "error")
		logging.L().Errorf("poll of %s failed: %v", s.ID, err)
		return err
	}
	defer s.Connector.Release(api)

	hosts, err := hostsystem.Retrieve(ctx, api)
	if err != nil {
		metrics.IncreasePolls(s.ID, "error")
		logging.L().Errorf("poll of %s failed: %v", s.ID, err)
		return fmt.Errorf("list hosts: %w", err)
	}
	names := hostNames(hosts)

	var errs []error
	for _, c := range s.Categories {
		if err := s.pollCategory(ctx, api, c, hosts, names); err != nil {
			logging.L().Errorf("%s of %s not updated: %v", c, s.ID, err)
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
		}
	}
	if !s.Monitors(protocol.Licenses) {
		if err := s.checkLicenses(ctx, api, nil); err != nil {
			logging.L().Errorf("license check of %s failed: %v", s.ID, err)
			errs = append(errs, err)
		}
	}

	s.updateMetrics(hosts)
	result := "success"
	if len(errs) > 0 {
		result = "partial"
	}
	metrics.IncreasePolls(s.ID, result)
	s.publish(notify.EventState, s.Inventory())
	logging.L().Infof("polled %s in %s", s.ID, time.Since(start).Round(time.Millisecond))
	return errors.Join(errs...)
}

func (s *Esxi) pollCategory(ctx context.Context, api *helper.API, c protocol.Category, hosts []mo.HostSystem, names map[string]string) error {
	switch c {
	case protocol.Hosts:
		t, err := HostTable(hosts)
		if err != nil {
			return err
		}
		s.Cache.SetHosts(t)
	case protocol.Datastores:
		ds, err := datastore.Retrieve(ctx, api)
		if err != nil {
			return err
		}
		t, err := DatastoreTable(ds)
		if err != nil {
			return err
		}
		s.Cache.SetDatastores(t)
	case protocol.Licenses:
		return s.checkLicenses(ctx, api, names)
	case protocol.VMs:
		vms, err := virtualmachine.Retrieve(ctx, api)
		if err != nil {
			return err
		}
		t, err := VMTable(vms, names)
		if err != nil {
			return err
		}
		s.Cache.SetVMs(t)
	default:
		return fmt.Errorf("unknown category %q", c)
	}
	return nil
}

// checkLicenses updates the commands allowed flag, and the license table when names is set.
func (s *Esxi) checkLicenses(ctx context.Context, api *helper.API, names map[string]string) error {
	lics, err := license.List(ctx, api)
	if err != nil {
		return err
	}
	s.Cache.SetCommandsAllowed(license.CommandsAllowed(lics))
	if names != nil {
		s.Cache.SetLicenses(LicenseTable(lics, licenseHost(s, names)))
	}
	return nil
}

func (s *Esxi) updateMetrics(hosts []mo.HostSystem) {
	inv := s.Inventory()
	for _, c := range s.Categories {
		metrics.UpdateInventoryRecords(s.ID, string(c), len(inv.Table(c)))
	}
	metrics.ResetHosts()
	for _, h := range hosts {
		metrics.UpdateHostUp(s.ID, hostsystem.DisplayName(h), hostsystem.PowerState(h) == types.HostSystemPowerStatePoweredOn)
	}
	metrics.ResetDatastores()
	for _, d := range inv.Datastores {
		metrics.UpdateDatastoreFree(s.ID, d.OriginalName, d.FreeSpaceGB*bytesPerGB)
	}
	metrics.UpdateCommandsAllowed(s.ID, inv.CommandsAllowed)
}
