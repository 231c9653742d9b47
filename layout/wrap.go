package layout

import (
	"math"
	"unicode/utf8"
)

// wrapper 保存贪心换行的显式状态：行表与当前行剩余像素预算。
type wrapper struct {
	table     []Line
	width     float64
	remaining float64
}

func newWrapper(width float64) *wrapper {
	return &wrapper{table: []Line{nil}, width: width, remaining: width}
}

// newline 开新行；当前行为空时不动作（避免产出连续空行）。
func (w *wrapper) newline() {
	if len(w.table[len(w.table)-1]) == 0 {
		return
	}
	w.table = append(w.table, nil)
	w.remaining = w.width
}

// add 把词放进当前行并扣减预算。
func (w *wrapper) add(word Word, pixels int) {
	w.remaining -= float64(pixels)
	w.table[len(w.table)-1] = append(w.table[len(w.table)-1], word)
}

// wordPixels 返回词的像素长度：ceil(字符数 × 平均字宽) + 1。
// +1 是固定的词间/取整补白。
func wordPixels(word Word) int {
	n := utf8.RuneCountInString(word.Text)
	return int(math.Ceil(float64(n)*word.Font.LetterWidth())) + 1
}

// wordTable 贪心地把词装进固定像素宽度的行里。
// 词装不下当前行但装得下整行时换行；比整行还宽的词按固定字符数强切。
// 空输入产出只含一个空行的行表。
func wordTable(ws []Word, width float64) []Line {
	w := newWrapper(width)
	for _, word := range ws {
		if word.Text == "\n" {
			w.newline()
			continue
		}
		pixels := wordPixels(word)
		switch {
		case float64(pixels) <= w.remaining:
			w.add(word, pixels)
		case float64(pixels) <= width:
			w.newline()
			w.add(word, pixels)
		default:
			w.split(word, pixels)
		}
	}
	return w.table
}

// split 强切一个比整行还宽的词：行数 = ceil(像素长度/行宽)，
// 每段字符数 = floor(行宽/LetterHeight)。
// 注意这里用的是高度度量而不是宽度——沿用的历史行为，按位兼容保留；
// 超出 行数×每段字符数 的尾部字符会被此切法截掉。
func (w *wrapper) split(word Word, pixels int) {
	lines := int(math.Ceil(float64(pixels) / w.width))
	partLen := int(w.width / word.Font.LetterHeight())
	runes := []rune(word.Text)
	for i := 0; i < lines; i++ {
		w.newline()
		lo := min(i*partLen, len(runes))
		hi := min(lo+partLen, len(runes))
		part := Word{Text: string(runes[lo:hi]), Font: word.Font}
		w.add(part, wordPixels(part))
	}
}
