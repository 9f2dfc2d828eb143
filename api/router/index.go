package router

import (
	"esxi-stats/api/e"
	"esxi-stats/vsphere"
	"esxi-stats/vsphere/workerpool/taskreceiver"
	"fmt"
	"github.com/gin-gonic/gin"
	"net/http"
	"sort"
	"strings"
	"time"
)

func Index(esxi *vsphere.Esxi) gin.HandlerFunc {
	return func(c *gin.Context) {
		r := e.Gin{C: c}
		var b strings.Builder
		fmt.Fprintf(&b, "esxi-stats for %s (%s)\n", esxi.Host, esxi.Name)
		if t, ok := esxi.Cache.LastPoll(); ok {
			fmt.Fprintf(&b, "last poll: %s\n", t.Format(time.RFC3339))
		}
		b.WriteString(requests())
		r.C.String(http.StatusOK, b.String())
	}
}

func requests() string {
	all := taskreceiver.Pending()
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	s := "\n request | command"
	for _, id := range ids {
		s += fmt.Sprintf("\n %s | %s", id, all[id].Command)
	}
	return s
}
