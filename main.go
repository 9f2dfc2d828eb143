package main

import (
	"context"
	"errors"
	"esxi-stats/api/router"
	"esxi-stats/api/security"
	"esxi-stats/app/cache"
	"esxi-stats/app/logging"
	"esxi-stats/config"
	"esxi-stats/db"
	"esxi-stats/db/history"
	"esxi-stats/helper"
	"esxi-stats/startup"
	"esxi-stats/vsphere"
	"esxi-stats/vsphere/notify"
	"esxi-stats/vsphere/protocol"
	"esxi-stats/vsphere/workerpool"
	"fmt"
	"github.com/gin-gonic/gin"
	"time"
)

func init() {
	config.Setup()
	logging.Setup()
	security.Setup()
	helper.Setup()
	cache.Setup()
	db.Setup()
}

// @title        esxi-stats API
// @version      1.0
// @description  ESXi and vCenter inventory, entities and commands

// @host      localhost:8829
// @BasePath  /api

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        token
func main() {
	defer logging.Sync()
	defer db.Close()

	hub := notify.NewHub()
	defer hub.Close()
	fanout := notifier(hub)

	esxi, err := vsphere.New(fanout, hub)
	if err != nil {
		logging.L().Fatal("invalid esxi configuration: ", err)
	}
	defer esxi.Close()

	startup.Run(fanout)
	go pollLoop(esxi)

	gin.SetMode(config.G.Server.Mode)
	r := router.InitRouter(esxi, hub)
	initSwagger(r)
	_ = r.Run(fmt.Sprintf(":%d", config.G.Server.Port))
}

func notifier(hub *notify.Hub) *notify.Fanout {
	f := notify.NewFanout(notify.LogSink{}, hub)
	if cb := config.G.Notify.Callback; cb != nil && cb.HttpPost != nil {
		f.Add(notify.NewCallbacker(protocol.CallbackReq{}))
	}
	if tg := config.G.Notify.Telegram; tg != nil && tg.Token != "" {
		sink, err := notify.NewTelegramSink(tg.Token, tg.ChatID)
		if err != nil {
			logging.L().Error("telegram notifications disabled: ", err)
		} else {
			f.Add(sink)
		}
	}
	if history.INST != nil {
		f.Add(history.INST)
	}
	logging.L().Infof("notification sinks: %v", f.Sinks())
	return f
}

// pollLoop runs a forced poll right away, then one per scan interval on the poll pool.
func pollLoop(esxi *vsphere.Esxi) {
	poll := func(force bool) {
		err := esxi.AddTask(workerpool.WorkerTypePoll, func() {
			if err := esxi.Poll(context.Background(), force); err != nil && !errors.Is(err, vsphere.ErrThrottled) {
				logging.L().Warn("poll finished with errors: ", err)
			}
		})
		if err != nil {
			logging.L().Error("failed to queue poll: ", err)
		}
	}
	poll(true)

	interval := esxi.ScanInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		poll(false)
	}
}

var swagHandler gin.HandlerFunc

func initSwagger(r *gin.Engine) {
	if swagHandler != nil {
		r.GET("/swagger/*any", swagHandler)
	}
}
