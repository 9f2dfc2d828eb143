package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 1.0, Round(1073741824/1073741824.0, 2))
	assert.Equal(t, 12.35, Round(12.345678, 2))
	assert.Equal(t, 3.3, Round(3.25, 1))
	assert.Equal(t, 0.0, Round(0, 1))
}

func TestNilNext(t *testing.T) {
	var a *string
	b := String("b")
	assert.Equal(t, b, NilNext(a, b))
	assert.Nil(t, NilNext(a, nil))
	c := String("c")
	assert.Equal(t, c, NilNext(c, b))
}

func TestToJson(t *testing.T) {
	assert.Equal(t, "", ToJson(nil))
	assert.Equal(t, `{"a":1}`, ToJson(map[string]int{"a": 1}))
}
