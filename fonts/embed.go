package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Load 返回内置字体的字节数据，name 可写为 "builtin:goregular" 或直接 "goregular"。
// 内置字体来自 Go 字体家族，作为没有外部字体文件时的兜底，也供测试使用。
func Load(name string) ([]byte, error) {
	switch strings.TrimPrefix(name, "builtin:") {
	case "goregular":
		return goregular.TTF, nil
	case "gobold":
		return gobold.TTF, nil
	case "gomono":
		return gomono.TTF, nil
	}
	return nil, fmt.Errorf("没有内置字体 %s", name)
}
