package utils

import (
	"encoding/json"
	"esxi-stats/app/logging"
	"math"
	"reflect"
)

func ToJson(data interface{}) string {
	if data == nil {
		return ""
	}

	b, err := json.Marshal(data)
	if err != nil {
		logging.L().Errorf("failed to marshal [%v] to JSON: %v", data, err)
		return ""
	}
	return string(b)
}

func NilNext(t interface{}, others ...interface{}) interface{} {
	if IsNil(t) {
		for _, o := range others {
			if !IsNil(o) {
				return o
			}
		}
	} else {
		return t
	}
	return nil
}

func IsNil(i interface{}) bool {
	if i == nil {
		return true
	}
	vi := reflect.ValueOf(i)
	if vi.Kind() == reflect.Ptr {
		return vi.IsNil()
	}
	return false
}

// Round rounds half away from zero to the given number of decimals.
func Round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}

func Float(f float64) *float64 {
	return &f
}

func Int(i int) *int {
	return &i
}

func Bool(b bool) *bool {
	return &b
}

func String(s string) *string {
	return &s
}
