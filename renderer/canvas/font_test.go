package canvasrenderer

import (
	"errors"
	"testing"
)

const testSample = "The quick brown fox"

func loadTestFont(t *testing.T, sizePx float64) *Font {
	t.Helper()
	f, err := LoadFont(Spec{Name: "go", Src: "builtin:goregular", Sample: testSample}, sizePx)
	if err != nil {
		t.Fatalf("加载内置字体失败: %v", err)
	}
	return f
}

func TestLoadFontMetrics(t *testing.T) {
	f := loadTestFont(t, 32)
	if f.LetterWidth() <= 0 || f.LetterHeight() <= 0 {
		t.Fatalf("度量应为正: w=%g h=%g", f.LetterWidth(), f.LetterHeight())
	}
	// 度量是构造时记下的纯值：同一配置重复构造结果必须一致
	again := loadTestFont(t, 32)
	if again.LetterWidth() != f.LetterWidth() || again.LetterHeight() != f.LetterHeight() {
		t.Fatalf("度量不幂等: (%g,%g) vs (%g,%g)",
			f.LetterWidth(), f.LetterHeight(), again.LetterWidth(), again.LetterHeight())
	}
}

func TestFontGlyphCoverage(t *testing.T) {
	f := loadTestFont(t, 32)
	if !f.HasGlyph('A') || !f.HasGlyph('z') {
		t.Fatalf("goregular 应覆盖拉丁字母")
	}
	// Go 字体不含表情字形
	if f.HasGlyph('\U0001F642') {
		t.Fatalf("goregular 不应覆盖表情码点")
	}
}

func TestLoadFontEmptySample(t *testing.T) {
	_, err := LoadFont(Spec{Name: "go", Src: "builtin:goregular", Sample: "  "}, 32)
	if !errors.Is(err, ErrFontLoad) {
		t.Fatalf("空示例串应报 ErrFontLoad，得到 %v", err)
	}
}

func TestLoadFontMissingFile(t *testing.T) {
	_, err := LoadFont(Spec{Name: "x", Src: "no/such/font.ttf", Sample: "abc"}, 32)
	if !errors.Is(err, ErrFontLoad) {
		t.Fatalf("文件缺失应报 ErrFontLoad，得到 %v", err)
	}
}

func TestBuildFontSetKeepsOrder(t *testing.T) {
	set, err := BuildFontSet([]Spec{
		{Name: "first", Src: "builtin:goregular", Sample: testSample},
		{Name: "second", Src: "builtin:gomono", Sample: testSample},
	}, 32)
	if err != nil {
		t.Fatalf("构建字体组失败: %v", err)
	}
	if len(set) != 2 || set[0].Name() != "first" || set[1].Name() != "second" {
		t.Fatalf("字体组顺序错误: %+v", set)
	}
}

func TestBuildFontSetEmpty(t *testing.T) {
	if _, err := BuildFontSet(nil, 32); !errors.Is(err, ErrFontLoad) {
		t.Fatalf("空配置应报 ErrFontLoad，得到 %v", err)
	}
}
