package layout

import "fmt"

// Compile 把文本排成行表：分段 → 聚词 → 换行。
// 对给定文本与字体组而言是纯函数：字体组构造后只读，
// 每次调用各自分配标记、词与行表，可以在多个 goroutine 里并发使用。
func Compile(text string, fonts []Font, opts Options) (*Result, error) {
	if len(fonts) == 0 {
		return nil, fmt.Errorf("layout: 字体组为空")
	}
	if opts.Width <= 0 {
		return nil, fmt.Errorf("layout: 画布宽度必须为正，得到 %g", opts.Width)
	}

	tokens, err := letters(text, fonts, opts.Unknown)
	if err != nil {
		return nil, err
	}
	table := wordTable(words(tokens), opts.Width)

	lineHeight := 0.0
	for _, f := range fonts {
		if h := f.LetterHeight(); h > lineHeight {
			lineHeight = h
		}
	}
	return &Result{Lines: table, Width: opts.Width, LineHeight: lineHeight}, nil
}
