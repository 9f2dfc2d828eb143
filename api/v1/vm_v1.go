package v1

import (
	"context"
	"esxi-stats/api/e"
	"esxi-stats/vsphere/protocol"
	"github.com/gin-gonic/gin"
)

type VMPowerReq struct {
	UUIDs   []string `json:"uuids" valid:"Required;MinSize(1)"`
	Command string   `json:"command" valid:"Required"`
	Notify  bool     `json:"notify"`

	CallBack protocol.CallbackReq `json:"callback"`
}

type SnapshotCreateReq struct {
	UUIDs       []string `json:"uuids" valid:"Required;MinSize(1)"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Memory      bool     `json:"memory"`
	Quiesce     bool     `json:"quiesce"`
	Notify      bool     `json:"notify"`

	CallBack protocol.CallbackReq `json:"callback"`
}

type SnapshotRemoveReq struct {
	UUIDs   []string `json:"uuids" valid:"Required;MinSize(1)"`
	Command string   `json:"command" valid:"Required"`
	Notify  bool     `json:"notify"`

	CallBack protocol.CallbackReq `json:"callback"`
}

// VMPower
// @Summary      VM power
// @Description  on, off, reboot, reset, shutdown or suspend for every uuid
// @Tags         vms
// @Accept       json
// @Produce      json
// @Param        c    body      v1.VMPowerReq  true  "power command"
// @Success      202  {object}  e.Response{data=v1.OperationRes}
// @Failure      400  {string}  json  "{"code":"4000","message":"unsupported command"}"
// @Failure      403  {string}  json  "{"code":"4002","message":"commands are not enabled for this license"}"
// @Security     ApiKeyAuth
// @Router       /v1/vms/power [post]
func (h *Handler) VMPower(c *gin.Context) {
	r := e.Gin{C: c}
	p := VMPowerReq{}
	if !bind(c, &p) {
		return
	}
	if _, err := protocol.ParseVMPower(p.Command); err != nil {
		badCommand(r, err)
		return
	}
	if !h.allowed(r) {
		return
	}
	h.accept(r, string(protocol.KindVMPower)+" "+p.Command, p.CallBack, p, func(ctx context.Context) (protocol.CommandResults, error) {
		return h.Esxi.VMPower(ctx, p.UUIDs, p.Command, p.Notify)
	})
}

// CreateSnapshot
// @Summary      Create snapshots
// @Description  Snapshots every uuid. Name and description default when empty.
// @Tags         vms
// @Accept       json
// @Produce      json
// @Param        c    body      v1.SnapshotCreateReq  true  "snapshot"
// @Success      202  {object}  e.Response{data=v1.OperationRes}
// @Failure      400  {string}  json  "{"code":"4000","message":"bad request"}"
// @Failure      403  {string}  json  "{"code":"4002","message":"commands are not enabled for this license"}"
// @Security     ApiKeyAuth
// @Router       /v1/vms/snapshots [post]
func (h *Handler) CreateSnapshot(c *gin.Context) {
	r := e.Gin{C: c}
	p := SnapshotCreateReq{}
	if !bind(c, &p) {
		return
	}
	if !h.allowed(r) {
		return
	}
	spec := protocol.SnapshotSpec{Name: p.Name, Description: p.Description, Memory: p.Memory, Quiesce: p.Quiesce}
	h.accept(r, string(protocol.KindSnapshotCreate), p.CallBack, p, func(ctx context.Context) (protocol.CommandResults, error) {
		return h.Esxi.CreateSnapshot(ctx, p.UUIDs, spec, p.Notify)
	})
}

// RemoveSnapshot
// @Summary      Remove snapshots
// @Description  all, first or last snapshot of every uuid
// @Tags         vms
// @Accept       json
// @Produce      json
// @Param        c    body      v1.SnapshotRemoveReq  true  "removal"
// @Success      202  {object}  e.Response{data=v1.OperationRes}
// @Failure      400  {string}  json  "{"code":"4000","message":"unsupported command"}"
// @Failure      403  {string}  json  "{"code":"4002","message":"commands are not enabled for this license"}"
// @Security     ApiKeyAuth
// @Router       /v1/vms/snapshots [delete]
func (h *Handler) RemoveSnapshot(c *gin.Context) {
	r := e.Gin{C: c}
	p := SnapshotRemoveReq{}
	if !bind(c, &p) {
		return
	}
	if _, err := protocol.ParseSnapshotRemove(p.Command); err != nil {
		badCommand(r, err)
		return
	}
	if !h.allowed(r) {
		return
	}
	h.accept(r, string(protocol.KindSnapshotRemove)+" "+p.Command, p.CallBack, p, func(ctx context.Context) (protocol.CommandResults, error) {
		return h.Esxi.RemoveSnapshot(ctx, p.UUIDs, p.Command, p.Notify)
	})
}
