package cache

import (
	"github.com/patrickmn/go-cache"
	"strings"
	"time"
)

// INST holds worker pools, inventory tables and poll throttles, keyed by endpoint.
// Entries never expire unless set with a TTL.
var INST *cache.Cache

func Setup() {
	INST = cache.New(cache.NoExpiration, time.Minute)
}

// DeletePrefix removes every entry whose key starts with prefix and returns how many were removed.
func DeletePrefix(prefix string) int {
	n := 0
	for k := range INST.Items() {
		if strings.HasPrefix(k, prefix) {
			INST.Delete(k)
			n++
		}
	}
	return n
}
