package datastore

import (
	"context"
	"esxi-stats/app/logging"
	"esxi-stats/helper"
	"fmt"
	"github.com/vmware/govmomi/vim25/mo"
)

const Type = "Datastore"

var Props = []string{"summary", "host", "vm"}

func Retrieve(ctx context.Context, api *helper.API) ([]mo.Datastore, error) {
	var datastores []mo.Datastore
	if err := helper.Retrieve(ctx, api, Type, Props, &datastores); err != nil {
		return nil, err
	}
	logging.L().Debug(fmt.Sprintf("retrieved %d datastores", len(datastores)))
	return datastores, nil
}
