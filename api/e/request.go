package e

import (
	"encoding/json"
	"esxi-stats/app/logging"
	"github.com/astaxie/beego/validation"
	"reflect"
	"strings"
)

type ReqParamError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ValidReqParam runs the valid tags of obj. Keys name the JSON field and the failed rule, e.g. "uuids.MinSize".
func ValidReqParam(obj interface{}) []ReqParamError {
	if logging.IsDebug() {
		b, _ := json.Marshal(obj)
		logging.L().Debugf("request parameters: %s", string(b))
	}
	var errors []ReqParamError
	valid := validation.Validation{}
	ok, err := valid.Valid(obj)
	if err != nil {
		logging.L().Error("request validation failed: ", err)
		return []ReqParamError{{Key: "request", Message: err.Error()}}
	}
	if !ok {
		for _, err := range valid.Errors {
			key := jsonName(obj, err.Field) + "." + err.Name
			logging.L().Warnf("invalid request parameter %s: %s", key, err.Message)
			errors = append(errors, ReqParamError{
				Key:     key,
				Message: err.Message,
			})
		}
	}
	return errors
}

// jsonName returns the json tag name of field, or the field name when it has none.
func jsonName(obj interface{}, field string) string {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return field
	}
	f, ok := t.FieldByName(field)
	if !ok {
		return field
	}
	name := strings.Split(f.Tag.Get("json"), ",")[0]
	if name == "" || name == "-" {
		return field
	}
	return name
}
