package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt32(t *testing.T) {
	assert.Equal(t, int32(20), toInt32("20"))
	// 0与非法输入透传为0，分页默认值由DAO层决定
	assert.Equal(t, int32(0), toInt32("0"))
	assert.Equal(t, int32(0), toInt32("-5"))
	assert.Equal(t, int32(0), toInt32("abc"))
	assert.Equal(t, int32(0), toInt32(""))
	assert.Equal(t, int32(0), toInt32("99999999999"))
}

func TestToInt64(t *testing.T) {
	assert.Equal(t, int64(42), toInt64("42"))
	assert.Equal(t, int64(0), toInt64("-1"))
	assert.Equal(t, int64(0), toInt64("x"))
}
