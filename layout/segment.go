package layout

import (
	"fmt"
	"strings"
)

const (
	// emojiSelector 是表情呈现选择符 U+FE0F；孤立出现时直接丢弃，
	// 避免渲染出单独的选择符标记。
	emojiSelector = '\uFE0F'
	// replacementRune 是 UnknownReplace 策略使用的替身字符。
	replacementRune = '\uFFFD'
)

// letters 把文本拆成 (码点, 字体) 标记序列。
// 先剥掉首尾的空格与换行，然后逐码点按优先级扫描字体组，取第一个覆盖该码点的字体。
// 没有字体覆盖时：换行始终保留并记在最高优先级字体上；U+FE0F 丢弃；
// 其余字符按 policy 处理（默认静默丢弃，这是刻意的有损策略，不是错误）。
func letters(text string, fonts []Font, policy UnknownPolicy) ([]Token, error) {
	text = strings.Trim(text, " \n")
	tokens := make([]Token, 0, len(text))
scan:
	for _, r := range text {
		for _, f := range fonts {
			if f.HasGlyph(r) {
				tokens = append(tokens, Token{Rune: r, Font: f})
				continue scan
			}
		}
		switch {
		case r == '\n':
			tokens = append(tokens, Token{Rune: r, Font: fonts[0]})
		case r == emojiSelector:
			// 丢弃
		default:
			switch policy {
			case UnknownReplace:
				for _, f := range fonts {
					if f.HasGlyph(replacementRune) {
						tokens = append(tokens, Token{Rune: replacementRune, Font: f})
						break
					}
				}
			case UnknownFail:
				return nil, fmt.Errorf("字体组不支持字符 %q (U+%04X)", r, r)
			default:
				// UnknownDrop：不产出标记，也不报错
			}
		}
	}
	return tokens, nil
}
