package v1

import (
	"context"
	"esxi-stats/api/e"
	"esxi-stats/vsphere"
	"esxi-stats/vsphere/protocol"
	"fmt"
	"github.com/gin-gonic/gin"
	"net/http"
	"sort"
	"strings"
)

type HostPowerReq struct {
	TargetHost string `json:"target_host"`
	Command    string `json:"command" valid:"Required"`
	Force      bool   `json:"force"`
	Notify     bool   `json:"notify"`

	CallBack protocol.CallbackReq `json:"callback"`
}

type PowerPolicyReq struct {
	TargetHost string `json:"target_host"`
	Policy     string `json:"policy" valid:"Required"`
	Notify     bool   `json:"notify"`

	CallBack protocol.CallbackReq `json:"callback"`
}

type HostListReq struct {
	TargetHost string `json:"target_host"`

	CallBack protocol.CallbackReq `json:"callback"`
}

// HostPower
// @Summary      Host power
// @Description  reboot or shutdown. target_host may be empty when the endpoint has one host.
// @Tags         hosts
// @Accept       json
// @Produce      json
// @Param        c    body      v1.HostPowerReq  true  "power command"
// @Success      202  {object}  e.Response{data=v1.OperationRes}
// @Failure      400  {string}  json  "{"code":"4000","message":"target host is required"}"
// @Failure      403  {string}  json  "{"code":"4002","message":"commands are not enabled for this license"}"
// @Security     ApiKeyAuth
// @Router       /v1/hosts/power [post]
func (h *Handler) HostPower(c *gin.Context) {
	r := e.Gin{C: c}
	p := HostPowerReq{}
	if !bind(c, &p) {
		return
	}
	if _, err := protocol.ParseHostPower(p.Command); err != nil {
		badCommand(r, err)
		return
	}
	if !h.allowed(r) || !h.targetKnown(r, p.TargetHost) {
		return
	}
	h.accept(r, string(protocol.KindHostPower)+" "+p.Command, p.CallBack, p, func(ctx context.Context) (protocol.CommandResults, error) {
		res, err := h.Esxi.HostPower(ctx, p.TargetHost, p.Command, p.Force, p.Notify)
		if err != nil {
			return nil, err
		}
		return protocol.CommandResults{res}, nil
	})
}

// HostPowerPolicy
// @Summary      Host power policy
// @Description  Switches the host to an available policy, by short name
// @Tags         hosts
// @Accept       json
// @Produce      json
// @Param        c    body      v1.PowerPolicyReq  true  "policy"
// @Success      202  {object}  e.Response{data=v1.OperationRes}
// @Failure      400  {string}  json  "{"code":"4000","message":"target host is required"}"
// @Failure      403  {string}  json  "{"code":"4002","message":"commands are not enabled for this license"}"
// @Security     ApiKeyAuth
// @Router       /v1/hosts/power_policy [post]
func (h *Handler) HostPowerPolicy(c *gin.Context) {
	r := e.Gin{C: c}
	p := PowerPolicyReq{}
	if !bind(c, &p) {
		return
	}
	if _, err := protocol.ParsePowerPolicy(p.Policy); err != nil {
		badCommand(r, err)
		return
	}
	if !h.allowed(r) || !h.targetKnown(r, p.TargetHost) {
		return
	}
	h.accept(r, string(protocol.KindHostPowerPolicy)+" "+p.Policy, p.CallBack, p, func(ctx context.Context) (protocol.CommandResults, error) {
		res, err := h.Esxi.HostPowerPolicy(ctx, p.TargetHost, p.Policy, p.Notify)
		if err != nil {
			return nil, err
		}
		return protocol.CommandResults{res}, nil
	})
}

// ListHosts
// @Summary      List hosts
// @Description  Sends a notification describing every host
// @Tags         hosts
// @Accept       json
// @Produce      json
// @Param        c    body      v1.HostListReq  false  "callback"
// @Success      202  {object}  e.Response{data=v1.OperationRes}
// @Security     ApiKeyAuth
// @Router       /v1/hosts/list [post]
func (h *Handler) ListHosts(c *gin.Context) {
	r := e.Gin{C: c}
	p := HostListReq{}
	if c.Request.ContentLength > 0 && !bind(c, &p) {
		return
	}
	if !h.allowed(r) {
		return
	}
	h.accept(r, string(protocol.KindListHosts), p.CallBack, p, func(ctx context.Context) (protocol.CommandResults, error) {
		return nil, h.Esxi.ListHosts(ctx)
	})
}

// ListPowerPolicies
// @Summary      List power policies
// @Description  Sends a notification with the power policies of one host
// @Tags         hosts
// @Accept       json
// @Produce      json
// @Param        c    body      v1.HostListReq  false  "target host and callback"
// @Success      202  {object}  e.Response{data=v1.OperationRes}
// @Failure      400  {string}  json  "{"code":"4000","message":"target host is required"}"
// @Security     ApiKeyAuth
// @Router       /v1/hosts/power_policies [post]
func (h *Handler) ListPowerPolicies(c *gin.Context) {
	r := e.Gin{C: c}
	p := HostListReq{}
	if c.Request.ContentLength > 0 && !bind(c, &p) {
		return
	}
	if !h.allowed(r) || !h.targetKnown(r, p.TargetHost) {
		return
	}
	h.accept(r, string(protocol.KindListPowerPolicies), p.CallBack, p, func(ctx context.Context) (protocol.CommandResults, error) {
		return nil, h.Esxi.ListPowerPolicies(ctx, p.TargetHost)
	})
}

// targetKnown rejects an empty target when the last poll saw several hosts.
func (h *Handler) targetKnown(r e.Gin, target string) bool {
	if target != "" {
		return true
	}
	hosts := h.Esxi.Inventory().Hosts
	if len(hosts) <= 1 {
		return true
	}
	names := make([]string, 0, len(hosts))
	for _, rec := range hosts {
		names = append(names, rec.OriginalName)
	}
	sort.Strings(names)
	err := fmt.Errorf("%w, available hosts: %s", vsphere.ErrTargetRequired, strings.Join(names, ", "))
	r.ResponseMessage(http.StatusBadRequest, e.BadRequest, err.Error(), nil)
	return false
}
