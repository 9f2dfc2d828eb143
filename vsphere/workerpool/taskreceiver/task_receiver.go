package taskreceiver

import (
	"encoding/json"
	"esxi-stats/app/logging"
	"esxi-stats/app/utils"
	"esxi-stats/db/badgerdb"
	"esxi-stats/vsphere/protocol"
	"esxi-stats/vsphere/workerpool"
	"fmt"
	"github.com/google/uuid"
	"time"
)

// Receipt is the journal entry of an accepted request.
type Receipt struct {
	Command  string                `json:"command"`
	Callback *protocol.CallbackReq `json:"callback,omitempty"`
	Request  interface{}           `json:"request,omitempty"`
	Received time.Time             `json:"received"`
}

func Receive(reqType workerpool.WorkerType, r Receipt) string {
	ID := generateReqID(reqType)
	if r.Received.IsZero() {
		r.Received = time.Now()
	}
	reqJson := utils.ToJson(r)
	logging.L().Debugf("received request, ID: %s, Req: %s", ID, reqJson)
	badgerdb.Set(ID, reqJson)
	return ID
}

func Done(ID string) {
	logging.L().Debug(fmt.Sprintf("request [%s] done", ID))
	_ = badgerdb.Del(ID)
}

func Cancel(ID string, reason string) {
	logging.L().Debug(fmt.Sprintf("request [%s] cancelled: %s", ID, reason))
	_ = badgerdb.Del(ID)
}

// Pending returns the requests that were received but never finished.
func Pending() map[string]Receipt {
	pending := make(map[string]Receipt)
	for ID, v := range badgerdb.GetAll() {
		var r Receipt
		if err := json.Unmarshal([]byte(v), &r); err != nil {
			logging.L().Errorf("unreadable request [%s]: %v", ID, err)
			r.Command = ID
		}
		pending[ID] = r
	}
	return pending
}

func generateReqID(reqType workerpool.WorkerType) string {
	return fmt.Sprintf("%s:%s", string(reqType), uuid.NewString())
}
