package router

import (
	"esxi-stats/api/e"
	"esxi-stats/api/security"
	v1 "esxi-stats/api/v1"
	"esxi-stats/config"
	"esxi-stats/db/history"
	_ "esxi-stats/docs"
	"esxi-stats/vsphere"
	"esxi-stats/vsphere/notify"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

func InitRouter(esxi *vsphere.Esxi, hub *notify.Hub) *gin.Engine {
	r := gin.Default()
	r.NoRoute(e.HandlerNotFound)
	r.HandleMethodNotAllowed = true
	r.NoMethod(e.HandlerMethodNotAllowed)
	r.Use(e.ErrHandler)

	r.GET("/", Index(esxi))
	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, map[string]string{"status": "on"})
	})
	if config.G.Metrics.Enable {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	r.POST("/api/token", security.GetToken)

	h := v1.NewHandler(esxi, hub, history.INST)
	apiV1 := r.Group("/api/v1")
	apiV1.Use(security.Verify())
	{
		apiV1.GET("/inventory", h.GetInventory)
		apiV1.GET("/inventory/:category", h.GetCategory)
		apiV1.GET("/inventory/:category/:key", h.GetRecord)
		apiV1.POST("/refresh", h.Refresh)

		apiV1.GET("/entities", h.GetEntities)
		apiV1.GET("/entities/:uniqueID", h.GetEntity)
		apiV1.POST("/entities/:uniqueID/:action", h.EntityAction)

		// vms
		apiV1.POST("/vms/power", h.VMPower)
		apiV1.POST("/vms/snapshots", h.CreateSnapshot)
		apiV1.DELETE("/vms/snapshots", h.RemoveSnapshot)

		// hosts
		apiV1.POST("/hosts/power", h.HostPower)
		apiV1.POST("/hosts/power_policy", h.HostPowerPolicy)
		apiV1.POST("/hosts/list", h.ListHosts)
		apiV1.POST("/hosts/power_policies", h.ListPowerPolicies)

		apiV1.GET("/notifications", h.GetNotifications)
		apiV1.GET("/stream", h.Stream)
	}
	return r
}
