package v1

import (
	"errors"
	"esxi-stats/api/e"
	"esxi-stats/helper"
	"esxi-stats/vsphere"
	"esxi-stats/vsphere/protocol"
	"github.com/gin-gonic/gin"
	"net/http"
	"time"
)

type RefreshRes struct {
	Refreshed bool       `json:"refreshed"`
	LastPoll  *time.Time `json:"lastPoll,omitempty"`
	Errors    []string   `json:"errors,omitempty"`
}

// GetInventory
// @Summary      Inventory
// @Description  All tables of the last poll
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  e.Response{data=protocol.Inventory}
// @Failure      401  {string}  json  "{"code":"401x","message":"token required"}"
// @Security     ApiKeyAuth
// @Router       /v1/inventory [get]
func (h *Handler) GetInventory(c *gin.Context) {
	r := e.Gin{C: c}
	r.ResponseOk(http.StatusOK, e.Success, h.Esxi.Inventory())
}

// GetCategory
// @Summary      Inventory table
// @Description  One table of the last poll, keyed by normalized name
// @Tags         inventory
// @Produce      json
// @Param        category  path      string  true  "hosts, datastores, licenses or vms"
// @Success      200       {object}  e.Response
// @Failure      400       {string}  json  "{"code":"4000","message":"unknown category"}"
// @Security     ApiKeyAuth
// @Router       /v1/inventory/{category} [get]
func (h *Handler) GetCategory(c *gin.Context) {
	r := e.Gin{C: c}
	cat, err := protocol.ParseCategory(c.Param("category"))
	if err != nil {
		badCommand(r, err)
		return
	}
	t := h.Esxi.Inventory().Table(cat)
	if t == nil {
		t = map[string]protocol.Record{}
	}
	r.ResponseOk(http.StatusOK, e.Success, t)
}

// GetRecord
// @Summary      Inventory record
// @Tags         inventory
// @Produce      json
// @Param        category  path      string  true  "hosts, datastores, licenses or vms"
// @Param        key       path      string  true  "record key"
// @Success      200       {object}  e.Response
// @Failure      404       {string}  json  "{"code":"4040","message":"not found"}"
// @Security     ApiKeyAuth
// @Router       /v1/inventory/{category}/{key} [get]
func (h *Handler) GetRecord(c *gin.Context) {
	r := e.Gin{C: c}
	cat, err := protocol.ParseCategory(c.Param("category"))
	if err != nil {
		badCommand(r, err)
		return
	}
	rec, ok := h.Esxi.Inventory().Table(cat)[protocol.NormalizeKey(c.Param("key"))]
	if !ok {
		r.ResponseError(http.StatusNotFound, e.NotFound, nil)
		return
	}
	r.ResponseOk(http.StatusOK, e.Success, rec)
}

// Refresh
// @Summary      Poll now
// @Description  Polls the endpoint synchronously. force=false honours the scan interval.
// @Tags         inventory
// @Produce      json
// @Param        force  query     bool  false  "bypass the throttle, default true"
// @Success      200    {object}  e.Response{data=v1.RefreshRes}
// @Failure      502    {string}  json  "{"code":"4001","message":"connect failed"}"
// @Security     ApiKeyAuth
// @Router       /v1/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	r := e.Gin{C: c}
	force := c.DefaultQuery("force", "true") != "false"
	err := h.Esxi.Poll(c.Request.Context(), force)

	res := RefreshRes{Refreshed: true}
	switch {
	case errors.Is(err, vsphere.ErrThrottled):
		res.Refreshed = false
	case errors.Is(err, helper.ErrConnect), errors.Is(err, helper.ErrUnsupportedVersion):
		r.ResponseMessage(http.StatusBadGateway, e.ConnectFailed, err.Error(), nil)
		return
	case err != nil:
		res.Errors = []string{err.Error()}
	}
	if t, ok := h.Esxi.Cache.LastPoll(); ok {
		res.LastPoll = &t
	}
	r.ResponseOk(http.StatusOK, e.Success, res)
}
