package printer

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestEscposInit(t *testing.T) {
	var buf bytes.Buffer
	e := &escpos{w: &buf}
	if err := e.init(); err != nil {
		t.Fatalf("init 失败: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0x1B, '@'}) {
		t.Fatalf("init 应产出 ESC @，得到 % X", buf.Bytes())
	}
}

func TestEscposCut(t *testing.T) {
	var buf bytes.Buffer
	e := &escpos{w: &buf}
	if err := e.cut(); err != nil {
		t.Fatalf("cut 失败: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0x1D, 'V', 65, 0}) {
		t.Fatalf("cut 应产出 GS V 65 0，得到 % X", buf.Bytes())
	}
}

func TestEscposImageHeader(t *testing.T) {
	// 10x3 的图：宽 10 像素要占 2 字节
	img := image.NewRGBA(image.Rect(0, 0, 10, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.White)
		}
	}
	img.Set(0, 0, color.Black)

	var buf bytes.Buffer
	e := &escpos{w: &buf}
	if err := e.image(img); err != nil {
		t.Fatalf("image 失败: %v", err)
	}

	got := buf.Bytes()
	wantHeader := []byte{0x1D, 'v', '0', 0x00, 2, 0, 3, 0}
	if !bytes.Equal(got[:8], wantHeader) {
		t.Fatalf("光栅头错误: got=% X want=% X", got[:8], wantHeader)
	}
	if len(got) != 8+2*3 {
		t.Fatalf("光栅数据长度错误: got=%d want=%d", len(got), 8+2*3)
	}
	// 左上角是黑像素，落在第一字节最高位
	if got[8]&0x80 == 0 {
		t.Fatalf("左上角黑像素未落墨: % X", got[8:])
	}
	// 第二行全白
	if got[10] != 0 || got[11] != 0 {
		t.Fatalf("白像素不应落墨: % X", got[10:12])
	}
}

func TestEscposImageDegenerate(t *testing.T) {
	var buf bytes.Buffer
	e := &escpos{w: &buf}
	if err := e.image(image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Fatalf("空图应报错")
	}
}
