package e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type powerReq struct {
	UUIDs   []string `json:"uuids" valid:"Required;MinSize(1)"`
	Command string   `json:"command,omitempty" valid:"Required"`
	Force   bool
}

func TestValidReqParamUsesJSONNames(t *testing.T) {
	errs := ValidReqParam(&powerReq{UUIDs: []string{}})
	require.NotEmpty(t, errs)
	keys := make([]string, 0, len(errs))
	for _, e := range errs {
		keys = append(keys, e.Key)
	}
	assert.Contains(t, keys, "command.Required")
	for _, k := range keys {
		assert.NotContains(t, k, "UUIDs")
	}

	assert.Empty(t, ValidReqParam(&powerReq{UUIDs: []string{"u1"}, Command: "on"}))
}

func TestJSONName(t *testing.T) {
	assert.Equal(t, "uuids", jsonName(&powerReq{}, "UUIDs"))
	assert.Equal(t, "command", jsonName(powerReq{}, "Command"))
	assert.Equal(t, "Force", jsonName(&powerReq{}, "Force"))
	assert.Equal(t, "Missing", jsonName(&powerReq{}, "Missing"))
	assert.Equal(t, "x", jsonName("not a struct", "x"))
}
