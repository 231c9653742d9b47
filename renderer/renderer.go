package renderer

import (
	"image"

	"github.com/zeskbest/teleprint/layout"
)

// Renderer 将排版结果画成最终的栅格图像（白底黑字），交给打印链路。
type Renderer interface {
	Render(result *layout.Result) (image.Image, error)
}
