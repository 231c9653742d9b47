package printer

import (
	"fmt"
	"image"
	"image/color"
	"io"
)

// escpos 把打印指令编成 ESC/POS 字节流写进任意 io.Writer。
// 只覆盖热敏小票机用到的子集：初始化、光栅图、文本、走纸、切纸。
type escpos struct {
	w io.Writer
}

// init 复位打印机状态（ESC @）。
func (e *escpos) init() error {
	_, err := e.w.Write([]byte{0x1B, '@'})
	return err
}

// image 以 GS v 0 光栅格式下发图像，每像素 1 位，亮度阈值二值化。
func (e *escpos) image(img image.Image) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("图像尺寸退化: %dx%d", width, height)
	}
	widthBytes := (width + 7) / 8

	data := make([]byte, 0, 8+widthBytes*height)
	data = append(data, 0x1D, 'v', '0', 0x00,
		byte(widthBytes), byte(widthBytes>>8),
		byte(height), byte(height>>8))

	for y := b.Min.Y; y < b.Max.Y; y++ {
		var cur byte
		bit := 7
		for x := b.Min.X; x < b.Max.X; x++ {
			if dark(img.At(x, y)) {
				cur |= 1 << bit
			}
			if bit == 0 {
				data = append(data, cur)
				cur, bit = 0, 7
			} else {
				bit--
			}
		}
		if bit != 7 {
			data = append(data, cur)
		}
	}

	_, err := e.w.Write(data)
	return err
}

// text 原样下发文本字节。
func (e *escpos) text(s string) error {
	_, err := io.WriteString(e.w, s)
	return err
}

// feed 走纸 n 行（ESC d n）。
func (e *escpos) feed(n byte) error {
	_, err := e.w.Write([]byte{0x1B, 'd', n})
	return err
}

// cut 走纸并切纸（GS V 65 0）。
func (e *escpos) cut() error {
	_, err := e.w.Write([]byte{0x1D, 'V', 65, 0})
	return err
}

// dark 按 Rec.601 亮度判定该像素是否落墨。
func dark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return (299*r+587*g+114*b)/1000 < 0x8000
}
