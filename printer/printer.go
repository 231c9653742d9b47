// Package printer 把排版好的图像送到热敏打印机。
package printer

import (
	"errors"
	"fmt"
	"image"
	"io"

	"golang.org/x/image/draw"
)

// ErrNothingToPrint 表示文本和图片都为空。
var ErrNothingToPrint = errors.New("没有可打印的内容")

// Compiler 把文本编译成图像。canvas 渲染器满足该接口。
type Compiler interface {
	Compile(text string) (image.Image, error)
}

// Printer 把文本/图片消息变成打印任务。
type Printer struct {
	w        io.Writer
	compiler Compiler
	dots     int // 打印头横向点数
}

// New 创建打印机。w 通常是 OpenUSB 返回的设备。
func New(w io.Writer, compiler Compiler, dots int) *Printer {
	return &Printer{w: w, compiler: compiler, dots: dots}
}

// Print 打印一条消息：先图片后文本，每张图缩放到打印头宽度，
// 末尾加用户签名并切纸。text 与 img 至少要有一个。
func (p *Printer) Print(text string, img image.Image, user string) error {
	if text == "" && img == nil {
		return ErrNothingToPrint
	}

	var images []image.Image
	if img != nil {
		images = append(images, p.resize(img))
	}
	if text != "" {
		compiled, err := p.compiler.Compile(text)
		if err != nil {
			return fmt.Errorf("编译文本失败: %w", err)
		}
		images = append(images, p.resize(compiled))
	}

	e := &escpos{w: p.w}
	if err := e.init(); err != nil {
		return fmt.Errorf("初始化打印机失败: %w", err)
	}
	for _, im := range images {
		if err := e.image(im); err != nil {
			return fmt.Errorf("下发图像失败: %w", err)
		}
		if err := e.text("\n"); err != nil {
			return err
		}
	}
	if err := e.text(fmt.Sprintf("@%s\n", user)); err != nil {
		return err
	}
	if err := e.cut(); err != nil {
		return fmt.Errorf("切纸失败: %w", err)
	}
	return nil
}

// resize 等比缩放到打印头宽度。
func (p *Printer) resize(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() == p.dots {
		return img
	}
	height := b.Dy() * p.dots / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, p.dots, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
