package v1

import (
	"context"
	"esxi-stats/api/e"
	"esxi-stats/vsphere/entity"
	"esxi-stats/vsphere/protocol"
	"github.com/gin-gonic/gin"
	"net/http"
)

type ActionReq struct {
	Option string `json:"option" form:"option"`

	CallBack protocol.CallbackReq `json:"callback"`
}

// GetEntities
// @Summary      Entities
// @Description  Sensors, switches, buttons and selects built from the last poll
// @Tags         entities
// @Produce      json
// @Success      200  {object}  e.Response{data=[]entity.Entity}
// @Security     ApiKeyAuth
// @Router       /v1/entities [get]
func (h *Handler) GetEntities(c *gin.Context) {
	r := e.Gin{C: c}
	entities := h.Esxi.Entities()
	if entities == nil {
		r.ResponseOk(http.StatusOK, e.Success, e.EmptyArray())
		return
	}
	r.ResponseOk(http.StatusOK, e.Success, entities)
}

// GetEntity
// @Summary      Entity
// @Tags         entities
// @Produce      json
// @Param        uniqueID  path      string  true  "unique id"
// @Success      200       {object}  e.Response{data=entity.Entity}
// @Failure      404       {string}  json  "{"code":"4040","message":"not found"}"
// @Security     ApiKeyAuth
// @Router       /v1/entities/{uniqueID} [get]
func (h *Handler) GetEntity(c *gin.Context) {
	r := e.Gin{C: c}
	ent, ok := entity.Find(h.Esxi.Entities(), c.Param("uniqueID"))
	if !ok {
		r.ResponseError(http.StatusNotFound, e.NotFound, nil)
		return
	}
	r.ResponseOk(http.StatusOK, e.Success, ent)
}

// EntityAction
// @Summary      Entity action
// @Description  press, turn_on, turn_off or select. The command runs asynchronously.
// @Tags         entities
// @Accept       json
// @Produce      json
// @Param        uniqueID  path      string        true   "unique id"
// @Param        action    path      string        true   "press, turn_on, turn_off or select"
// @Param        c         body      v1.ActionReq  false  "select option and callback"
// @Success      202       {object}  e.Response{data=v1.OperationRes}
// @Failure      400       {string}  json  "{"code":"4000","message":"unsupported command"}"
// @Failure      403       {string}  json  "{"code":"4002","message":"commands are not enabled for this license"}"
// @Failure      404       {string}  json  "{"code":"4040","message":"not found"}"
// @Security     ApiKeyAuth
// @Router       /v1/entities/{uniqueID}/{action} [post]
func (h *Handler) EntityAction(c *gin.Context) {
	r := e.Gin{C: c}
	ent, ok := entity.Find(h.Esxi.Entities(), c.Param("uniqueID"))
	if !ok {
		r.ResponseError(http.StatusNotFound, e.NotFound, nil)
		return
	}
	p := ActionReq{}
	if c.Request.ContentLength > 0 && !bind(c, &p) {
		return
	}
	cmd, err := entity.Resolve(ent, entity.Action(c.Param("action")), p.Option)
	if err != nil {
		badCommand(r, err)
		return
	}
	if !h.allowed(r) {
		return
	}
	h.accept(r, cmd.String(), p.CallBack, cmd, func(ctx context.Context) (protocol.CommandResults, error) {
		return h.Esxi.Execute(ctx, cmd)
	})
}
