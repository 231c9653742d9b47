package layout

import "testing"

func tok(r rune, f Font) Token { return Token{Rune: r, Font: f} }

func TestWordsWhitespaceBoundary(t *testing.T) {
	a := newFontA()
	got := words([]Token{tok('a', a), tok('b', a), tok(' ', a), tok('c', a), tok('d', a)})
	if len(got) != 2 {
		t.Fatalf("期望 2 个词，得到 %d: %+v", len(got), got)
	}
	if got[0].Text != "ab" || got[1].Text != "cd" {
		t.Fatalf("分词内容错误: %+v", got)
	}
	if got[0].Font != Font(a) || got[1].Font != Font(a) {
		t.Fatalf("词的字体错误: %+v", got)
	}
}

func TestWordsNewlineEmitsLoneWord(t *testing.T) {
	a := newFontA()
	got := words([]Token{tok('a', a), tok('\n', a), tok('b', a)})
	if len(got) != 3 {
		t.Fatalf("期望 3 个词，得到 %d: %+v", len(got), got)
	}
	if got[1].Text != "\n" {
		t.Fatalf("换行应产出单独的 \\n 词: %+v", got)
	}
}

func TestWordsFontChangeForcesBoundary(t *testing.T) {
	a, b := newFontA(), newFontB()
	// 没有空白，仅字体切换：hi🙂x → "hi"(A), "🙂"(B), "x"(A)
	got := words([]Token{tok('h', a), tok('i', a), tok(smiley, b), tok('x', a)})
	if len(got) != 3 {
		t.Fatalf("期望 3 个词，得到 %d: %+v", len(got), got)
	}
	if got[0].Text != "hi" || got[0].Font != Font(a) {
		t.Fatalf("词 0 错误: %+v", got[0])
	}
	if got[1].Text != string(smiley) || got[1].Font != Font(b) {
		t.Fatalf("词 1 错误: %+v", got[1])
	}
	if got[2].Text != "x" || got[2].Font != Font(a) {
		t.Fatalf("词 2 错误: %+v", got[2])
	}
}

func TestWordsNoEmptyWords(t *testing.T) {
	a := newFontA()
	// 连续空白不应产出空词
	got := words([]Token{tok('a', a), tok(' ', a), tok(' ', a), tok('b', a)})
	if len(got) != 2 {
		t.Fatalf("期望 2 个词，得到 %d: %+v", len(got), got)
	}
	for _, w := range got {
		if w.Text == "" {
			t.Fatalf("不应产出空词: %+v", got)
		}
	}
}

func TestWordsEmptyInput(t *testing.T) {
	if got := words(nil); len(got) != 0 {
		t.Fatalf("空输入应产出空词表: %+v", got)
	}
}
