package util

import (
	"github.com/bytedance/sonic"
)

// JSONF 日志用的紧凑序列化，失败时返回空串
func JSONF(v any) string {
	data, err := sonic.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
