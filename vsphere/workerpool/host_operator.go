package workerpool

import (
	"context"
	"esxi-stats/app/logging"
	"esxi-stats/helper"
	"esxi-stats/helper/hostsystem"
	"esxi-stats/helper/task"
	"fmt"
	"github.com/vmware/govmomi/vim25/mo"
)

type HostOperator struct {
	api  *helper.API
	host mo.HostSystem
}

func NewHostOperator(api *helper.API, h mo.HostSystem) *HostOperator {
	return &HostOperator{api: api, host: h}
}

func (o HostOperator) Reboot(ctx context.Context, force bool) (task.Source, error) {
	return started(hostsystem.Reboot(ctx, o.api, o.host, force))
}

func (o HostOperator) Shutdown(ctx context.Context, force bool) (task.Source, error) {
	return started(hostsystem.Shutdown(ctx, o.api, o.host, force))
}

func (o HostOperator) SetPowerPolicy(ctx context.Context, key int32) error {
	logging.L().Infof("setting power policy %d on host %s", key, hostsystem.DisplayName(o.host))
	if err := hostsystem.ConfigurePowerPolicy(ctx, o.api, o.host, key); err != nil {
		return fmt.Errorf("configure power policy of %s: %w", hostsystem.DisplayName(o.host), err)
	}
	return nil
}
