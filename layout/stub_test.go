package layout

// 测试用的确定性字体：固定度量加一张码点覆盖表。
// fontA：宽 10、高 20，覆盖 ASCII 字母与空格；
// fontB：宽 15、高 25，只覆盖一个表情码点（smiley）。
type stubFont struct {
	name   string
	width  float64
	height float64
	covers func(rune) bool
}

func (f *stubFont) HasGlyph(r rune) bool  { return f.covers(r) }
func (f *stubFont) LetterWidth() float64  { return f.width }
func (f *stubFont) LetterHeight() float64 { return f.height }

const smiley = '\U0001F642'

const testWidth = 100.0

func newFontA() *stubFont {
	return &stubFont{
		name:   "A",
		width:  10,
		height: 20,
		covers: func(r rune) bool {
			return r == ' ' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		},
	}
}

func newFontB() *stubFont {
	return &stubFont{
		name:   "B",
		width:  15,
		height: 25,
		covers: func(r rune) bool { return r == smiley },
	}
}
