package v1

import (
	"context"
	"esxi-stats/api/e"
	"esxi-stats/app/logging"
	"esxi-stats/db/history"
	"esxi-stats/vsphere"
	"esxi-stats/vsphere/notify"
	"esxi-stats/vsphere/protocol"
	"esxi-stats/vsphere/workerpool"
	"esxi-stats/vsphere/workerpool/taskreceiver"
	"github.com/gin-gonic/gin"
	"net/http"
)

// Handler serves the v1 API of one endpoint.
type Handler struct {
	Esxi    *vsphere.Esxi
	Hub     *notify.Hub
	History *history.Store
}

func NewHandler(esxi *vsphere.Esxi, hub *notify.Hub, h *history.Store) *Handler {
	return &Handler{Esxi: esxi, Hub: hub, History: h}
}

type OperationRes struct {
	RequestID string `json:"requestId"`
}

type run func(ctx context.Context) (protocol.CommandResults, error)

// accept journals the request, answers 202 and runs f on the command pool.
// The results go to the request's callback, or to notify.callback when it has none.
func (h *Handler) accept(r e.Gin, command string, cb protocol.CallbackReq, req interface{}, f run) {
	res := OperationRes{}
	res.RequestID = taskreceiver.Receive(workerpool.WorkerTypeCommand, taskreceiver.Receipt{
		Command:  command,
		Callback: &cb,
		Request:  req,
	})
	err := h.Esxi.AddTask(workerpool.WorkerTypeCommand, func() {
		defer taskreceiver.Done(res.RequestID)
		results, err := f(context.Background())
		callback := notify.NewCallbacker(cb)
		if err != nil {
			logging.L().Errorf("%s failed: %v", command, err)
			callback.CallbackErr(res.RequestID, nil, err)
			return
		}
		if results == nil {
			callback.CallbackArr(res.RequestID, nil)
			return
		}
		callback.CallbackArr(res.RequestID, results)
	})
	if err != nil {
		logging.L().Error("failed to queue command: ", err)
		taskreceiver.Cancel(res.RequestID, "queueing failed")
		r.ResponseError(http.StatusServiceUnavailable, e.Unavailable, nil)
		return
	}
	r.ResponseOk(http.StatusAccepted, e.Accepted, res)
}

// allowed answers 403 when license gating blocks commands.
func (h *Handler) allowed(r e.Gin) bool {
	if err := h.Esxi.CheckAllowed(); err != nil {
		r.ResponseMessage(http.StatusForbidden, e.NotEnabled, err.Error(), nil)
		return false
	}
	return true
}

func bind(c *gin.Context, p interface{}) bool {
	r := e.Gin{C: c}
	if err := c.ShouldBind(p); err != nil {
		logging.L().Error("failed to parse request: ", err)
		r.ResponseError(http.StatusBadRequest, e.BadRequest, nil)
		return false
	}
	errs := e.ValidReqParam(p)
	if len(errs) > 0 {
		r.ResponseErrors(http.StatusBadRequest, errs, nil)
		return false
	}
	return true
}

func badCommand(r e.Gin, err error) {
	r.ResponseMessage(http.StatusBadRequest, e.BadRequest, err.Error(), nil)
}
