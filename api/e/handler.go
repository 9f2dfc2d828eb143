package e

import (
	"esxi-stats/app/logging"
	"esxi-stats/app/utils/stringutils"
	"fmt"
	"github.com/gin-gonic/gin"
	"net/http"
	"runtime/debug"
)

func HandlerNotFound(c *gin.Context) {
	message := fmt.Sprintf("%s %s not found", c.Request.Method, c.Request.URL.String())
	c.JSON(http.StatusNotFound, Response{
		Code:    NotFound,
		Message: message,
		Data:    nil,
	})
}

func HandlerMethodNotAllowed(c *gin.Context) {
	message := fmt.Sprintf("%s is not allowed on %s", c.Request.Method, c.Request.URL.Path)
	c.JSON(http.StatusMethodNotAllowed, Response{
		Code:    BadRequest,
		Message: message,
	})
}

// ErrHandler turns a panic in a handler into a 500 response.
func ErrHandler(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			var code string
			var message string
			switch e := r.(type) {
			case error:
				code = SystemError
				message = GetMessage(e.Error())
			case string:
				code = SystemError
				message = stringutils.EPTThen(GetMessage(e), GetMessage(code))
			default:
				code = SystemError
				message = GetMessage(code)
			}
			logging.L().Errorf("panic serving %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, r, debug.Stack())
			c.JSON(http.StatusInternalServerError, Response{
				Code:    code,
				Message: message,
				Data:    nil,
			})
			c.Abort()
		}
	}()
	c.Next()
}
