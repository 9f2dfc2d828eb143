package startup

import (
	"context"
	"errors"
	"esxi-stats/app/logging"
	"esxi-stats/vsphere/notify"
	"esxi-stats/vsphere/protocol"
	"esxi-stats/vsphere/workerpool/taskreceiver"
)

func Run(n notify.Notifier) {
	interruptTaskCallback(n)
}

// interruptTaskCallback reports every journaled request that a restart cut off, then drops it.
func interruptTaskCallback(n notify.Notifier) {
	for requestID, r := range taskreceiver.Pending() {
		logging.L().Warnf("request [%s] %s was interrupted", requestID, r.Command)
		if n != nil {
			n.Notify(context.Background(), notify.Interrupted(r.Command))
		}
		cb := protocol.CallbackReq{}
		if r.Callback != nil {
			cb = *r.Callback
		}
		notify.NewCallbacker(cb).CallbackErr(requestID, nil, errors.New(notify.InterruptedReason))
		taskreceiver.Cancel(requestID, notify.InterruptedReason)
	}
}
