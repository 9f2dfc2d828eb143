package v1

import (
	"esxi-stats/api/e"
	"esxi-stats/app/logging"
	"esxi-stats/db/history"
	"github.com/gin-gonic/gin"
	"net/http"
	"strconv"
)

// GetNotifications
// @Summary      Notification history
// @Description  Newest first
// @Tags         notifications
// @Produce      json
// @Param        limit  query     int  false  "max rows, default 50"
// @Success      200    {object}  e.Response{data=[]history.Notification}
// @Failure      404    {string}  json  "{"code":"4040","message":"notification history is disabled"}"
// @Security     ApiKeyAuth
// @Router       /v1/notifications [get]
func (h *Handler) GetNotifications(c *gin.Context) {
	r := e.Gin{C: c}
	if h.History == nil {
		r.ResponseMessage(http.StatusNotFound, e.NotFound, "notification history is disabled", nil)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(history.DefaultLimit)))
	if err != nil {
		r.ResponseMessage(http.StatusBadRequest, e.BadRequest, "limit must be a number", nil)
		return
	}
	rows, err := h.History.List(c.Request.Context(), limit)
	if err != nil {
		logging.L().Error("failed to read notification history: ", err)
		r.ResponseError(http.StatusInternalServerError, e.SystemError, nil)
		return
	}
	if len(rows) == 0 {
		r.ResponseOk(http.StatusOK, e.Success, e.EmptyArray())
		return
	}
	r.ResponseOk(http.StatusOK, e.Success, rows)
}

// Stream
// @Summary      Live events
// @Description  Websocket carrying "state" and "notification" events
// @Tags         notifications
// @Security     ApiKeyAuth
// @Router       /v1/stream [get]
func (h *Handler) Stream(c *gin.Context) {
	if h.Hub == nil {
		r := e.Gin{C: c}
		r.ResponseMessage(http.StatusNotFound, e.NotFound, "stream is disabled", nil)
		return
	}
	h.Hub.ServeHTTP(c.Writer, c.Request)
}
