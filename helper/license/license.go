package license

import (
	"context"
	"esxi-stats/app/logging"
	"esxi-stats/helper"
	"fmt"
	"github.com/vmware/govmomi/license"
	"github.com/vmware/govmomi/vim25/types"
)

const (
	ProductESX     = "VMware ESX Server"
	ProductVCenter = "VMware VirtualCenter Server"

	featureVimAPI = "vimapi"
)

func List(ctx context.Context, api *helper.API) ([]types.LicenseManagerLicenseInfo, error) {
	lctx, cancel := context.WithTimeout(ctx, helper.APITimeout)
	defer cancel()
	l, err := license.NewManager(api.Client.Client).List(lctx)
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	return l, nil
}

func Property(l types.LicenseManagerLicenseInfo, key string) (interface{}, bool) {
	for _, p := range l.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

func ProductName(l types.LicenseManagerLicenseInfo) string {
	v, ok := Property(l, "ProductName")
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// CommandsAllowed reports whether any license permits write access through the API.
// A vCenter license always does; an ESX license only with the vimapi feature.
func CommandsAllowed(licenses []types.LicenseManagerLicenseInfo) bool {
	for _, l := range licenses {
		switch ProductName(l) {
		case ProductVCenter:
			logging.L().Debug("found vCenter license")
			return true
		case ProductESX:
			if hasFeature(l, featureVimAPI) {
				logging.L().Debug("found ESX license with api feature")
				return true
			}
		}
	}
	logging.L().Warn("no license allows api commands")
	return false
}

func hasFeature(l types.LicenseManagerLicenseInfo, feature string) bool {
	for _, p := range l.Properties {
		if p.Key != "feature" {
			continue
		}
		switch v := p.Value.(type) {
		case types.KeyValue:
			if v.Key == feature {
				return true
			}
		case *types.KeyValue:
			if v != nil && v.Key == feature {
				return true
			}
		}
	}
	return false
}
