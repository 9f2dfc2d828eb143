package helper

import (
	"context"
	"esxi-stats/app/logging"
	"fmt"
	"github.com/vmware/govmomi/view"
)

// Retrieve lists every object of kind below the root folder into dst, a pointer to a slice of mo types.
func Retrieve(ctx context.Context, api *API, kind string, props []string, dst interface{}) error {
	m := view.NewManager(api.Client.Client)
	vctx, vcancel := context.WithTimeout(ctx, APITimeout)
	defer vcancel()

	v, err := m.CreateContainerView(vctx, api.Client.ServiceContent.RootFolder, []string{kind}, true)
	if err != nil {
		return fmt.Errorf("create %s view: %w", kind, err)
	}

	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), APITimeout)
		defer dcancel()
		if err := v.Destroy(dctx); err != nil {
			logging.L().Debug(fmt.Sprintf("destroy %s view: %v", kind, err))
		}
	}()

	if err := v.Retrieve(vctx, []string{kind}, props, dst); err != nil {
		return fmt.Errorf("retrieve %s: %w", kind, err)
	}
	return nil
}
