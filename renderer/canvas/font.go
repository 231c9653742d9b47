package canvasrenderer

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/sfnt"

	"github.com/zeskbest/teleprint/fonts"
	"github.com/zeskbest/teleprint/layout"
)

// ErrFontLoad 标识字体构造阶段的致命错误：文件缺失、解析失败或示例串度量退化。
// 字体组在进程启动时构造一次，这类错误应当直接中止启动。
var ErrFontLoad = errors.New("字体加载失败")

// Spec 描述一个待加载的字体：来源与用于度量的示例串。
type Spec struct {
	Name   string
	Src    string // 文件路径或 builtin:<name>
	Sample string // 代表性示例串，派生度量的基准
}

// Font 包装一个已加载的字体：绘制句柄、字形覆盖表与两个派生度量。
// 构造后不可变，可被多个 goroutine 并发只读使用。
type Font struct {
	name string
	src  string

	face *canvas.FontFace // 绘制用
	sfnt *sfnt.Font       // cmap 覆盖查询用

	letterWidth  float64 // 平均字宽（像素），构造时由示例串测得
	letterHeight float64 // 示例串像素高度，构造时算好
}

var _ layout.Font = (*Font)(nil)

// LoadFont 按 spec 加载字体，并在 sizePx 像素字号下预计算度量。
func LoadFont(spec Spec, sizePx float64) (*Font, error) {
	sample := spec.Sample
	if strings.TrimSpace(sample) == "" {
		return nil, fmt.Errorf("%w: 字体 %s 缺少示例串", ErrFontLoad, spec.Name)
	}
	if sizePx <= 0 {
		return nil, fmt.Errorf("%w: 字体 %s 的字号必须为正，得到 %g", ErrFontLoad, spec.Name, sizePx)
	}

	data, err := loadBytes(spec.Src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontLoad, spec.Name, err)
	}
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: 解析 %s: %v", ErrFontLoad, spec.Name, err)
	}
	family := canvas.NewFontFamily(spec.Name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("%w: 载入 %s: %v", ErrFontLoad, spec.Name, err)
	}
	face := family.Face(sizePx*pxToPt, canvas.Black, canvas.FontRegular, canvas.FontNormal)

	f := &Font{name: spec.Name, src: spec.Src, face: face, sfnt: sf}
	n := utf8.RuneCountInString(sample)
	f.letterWidth = face.TextWidth(sample) / float64(n)
	metrics := face.Metrics()
	f.letterHeight = metrics.Ascent + metrics.Descent
	if f.letterWidth <= 0 || f.letterHeight <= 0 {
		return nil, fmt.Errorf("%w: %s 的示例串度量退化 (w=%g h=%g)",
			ErrFontLoad, spec.Name, f.letterWidth, f.letterHeight)
	}
	return f, nil
}

// BuildFontSet 依配置顺序加载全部字体；顺序即回退优先级，靠前覆盖靠后。
// 返回的字体组在进程生命周期内只读。
func BuildFontSet(specs []Spec, sizePx float64) ([]*Font, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: 配置中没有字体", ErrFontLoad)
	}
	set := make([]*Font, 0, len(specs))
	for _, spec := range specs {
		f, err := LoadFont(spec, sizePx)
		if err != nil {
			return nil, err
		}
		set = append(set, f)
	}
	return set, nil
}

// Name 返回配置里声明的字体名。
func (f *Font) Name() string { return f.name }

// HasGlyph 查询 cmap：glyph index 0 即 .notdef，视为不覆盖。
// sfnt 的查询在传 nil Buffer 时各调用独立分配，可安全并发。
func (f *Font) HasGlyph(r rune) bool {
	gi, err := f.sfnt.GlyphIndex(nil, r)
	return err == nil && gi != 0
}

// LetterWidth 返回构造时记下的平均字宽（像素）。
func (f *Font) LetterWidth() float64 { return f.letterWidth }

// LetterHeight 返回构造时记下的示例串像素高度。
func (f *Font) LetterHeight() float64 { return f.letterHeight }

func loadBytes(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("缺少 src")
	}
	if strings.HasPrefix(src, "builtin:") {
		return fonts.Load(src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}
	return data, nil
}
