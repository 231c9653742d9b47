package layout

// 该文件定义排版核心的数据模型，供分段、聚词、换行与渲染共用。

// Font 以最小能力接口暴露一个已加载的字体：字形覆盖判断与两个派生度量。
// 字体组是按优先级排列的 Font 切片（靠前优先），构造后只读。
type Font interface {
	// HasGlyph 判断字体是否含有该码点的字形。
	HasGlyph(r rune) bool
	// LetterWidth 返回平均字宽（像素），由示例串测量得出，构造时算好。
	LetterWidth() float64
	// LetterHeight 返回示例串的像素高度，构造时算好。
	LetterHeight() float64
}

// Token 是分段器的输出：单个码点与为它解析到的字体。
type Token struct {
	Rune rune
	Font Font
}

// Word 是同一字体下连续的非空白字符串（或单独一个换行符）。
// 不变式：词内所有字符都解析到 Word.Font，词不会混用字体。
type Word struct {
	Text string
	Font Font
}

// Line 是一行内按绘制顺序排列的词。
type Line []Word

// Result 保存一次排版的行表与画布几何。
// 每次 Compile 重新生成，调用间不共享状态。
type Result struct {
	Lines      []Line
	Width      float64 // 画布固定宽度（像素）
	LineHeight float64 // 字体组内最大 LetterHeight（像素）
}

// Height 返回画布高度：行高 × 行数。
func (r *Result) Height() float64 {
	return r.LineHeight * float64(len(r.Lines))
}
