package canvasrenderer

import (
	"fmt"
	"image"
	"unicode/utf8"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/zeskbest/teleprint/layout"
	"github.com/zeskbest/teleprint/renderer"
)

// Renderer 持有进程级字体组，完成 文本 → 行表 → 栅格图像 的整条管线。
// 字体组只读，Compile/Render 不共享可变状态，可并发调用。
type Renderer struct {
	fonts   []*Font
	width   float64 // 画布像素宽度：每行符号数 × 字号
	unknown layout.UnknownPolicy
}

var _ renderer.Renderer = (*Renderer)(nil)

// New 创建渲染器。width 为画布像素宽度。
func New(fonts []*Font, width float64, unknown layout.UnknownPolicy) *Renderer {
	return &Renderer{fonts: fonts, width: width, unknown: unknown}
}

// Compile 把文本编译成白底黑字的栅格图像，等价于 Layout + Render。
func (r *Renderer) Compile(text string) (image.Image, error) {
	res, err := r.Layout(text)
	if err != nil {
		return nil, err
	}
	return r.Render(res)
}

// Layout 只做排版，不画图；调试输出用。
func (r *Renderer) Layout(text string) (*layout.Result, error) {
	set := make([]layout.Font, len(r.fonts))
	for i, f := range r.fonts {
		set[i] = f
	}
	return layout.Compile(text, set, layout.Options{Width: r.width, Unknown: r.unknown})
}

// Render 把行表画到固定宽度的画布上。
// 游标从 (0,0) 开始：词画在游标处，x 前进 len(词)×平均字宽；
// 一行画完后 x 归零、y 前进一个行高。
func (r *Renderer) Render(res *layout.Result) (image.Image, error) {
	if res == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	height := res.Height()
	if height <= 0 {
		return nil, fmt.Errorf("画布高度退化: %g", height)
	}

	c := canvas.New(res.Width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使左上角为原点，与行表的书写顺序一致
	ctx.SetFillColor(canvas.White)
	ctx.DrawPath(0, 0, canvas.Rectangle(res.Width, height))

	y := 0.0
	for _, line := range res.Lines {
		x := 0.0
		for _, w := range line {
			f, ok := w.Font.(*Font)
			if !ok {
				return nil, fmt.Errorf("词 %q 的字体不是本渲染器加载的", w.Text)
			}
			// 基线 = 行顶 + 字体上升部
			baseline := y + f.face.Metrics().Ascent
			ctx.DrawText(x, baseline, canvas.NewTextLine(f.face, w.Text, canvas.Left))
			x += float64(utf8.RuneCountInString(w.Text)) * f.letterWidth
		}
		y += res.LineHeight
	}

	return rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace), nil
}
