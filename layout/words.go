package layout

// joiner 聚合同字体的连续字符。
// 显式状态结构体替代了旧实现里捕获可变变量的闭包。
type joiner struct {
	words []Word
	buf   []rune
	font  Font
}

// close 把缓冲内容作为一个词收下（记在 f 上），空缓冲不产出词。
func (j *joiner) close(f Font) {
	if len(j.buf) == 0 {
		return
	}
	j.words = append(j.words, Word{Text: string(j.buf), Font: f})
	j.buf = j.buf[:0]
}

// words 把标记流聚合成词。
// 边界规则：空白结束当前词；换行在此之外还要产出一个单独的 "\n" 词，
// 记在触发标记的字体上；字体切换即使没有空白也强制分词。
func words(tokens []Token) []Word {
	if len(tokens) == 0 {
		return nil
	}
	j := joiner{font: tokens[0].Font}
	for _, tok := range tokens {
		switch {
		case tok.Rune == ' ' || tok.Rune == '\n':
			j.close(j.font)
			if tok.Rune == '\n' {
				j.buf = append(j.buf, '\n')
				j.close(tok.Font)
			}
		case tok.Font == j.font:
			j.buf = append(j.buf, tok.Rune)
		default:
			j.close(j.font)
			j.buf = append(j.buf, tok.Rune)
			j.font = tok.Font
		}
	}
	j.close(j.font)
	return j.words
}
