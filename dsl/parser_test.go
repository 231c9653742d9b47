package dsl_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeskbest/teleprint/dsl"
)

const sampleProfile = `
printer citizen v1 {
  page {
    symbols: 20
    font-size: 136
  }

  fonts {
    // 优先级按声明顺序
    font disket {
      src: "fonts/disket-mono.ttf"
      sample: "English Русский"
    }
    font emoji {
      src: "builtin:goregular"
      sample: "abc"
    }
  }

  device {
    product: "Citizen Thermal Printer"
    dots: 600
  }

  store {
    path: "bot.db"
    quota: 1
  }

  bot {
    token-file: "TOKEN"
    admin: 143185162
    handle: "@zeskbest"
  }

  replies {
    hello: "Привет, @${user}!"
    done: "Напечатано."
  }
}
`

func TestParseProfile(t *testing.T) {
	p, err := dsl.ParseString(sampleProfile)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if p.Name != "citizen" {
		t.Fatalf("expected profile name citizen, got %s", p.Name)
	}
	if p.Version != "v1" {
		t.Fatalf("expected version v1, got %s", p.Version)
	}
	if len(p.Sections) != 6 {
		t.Fatalf("expected 6 sections, got %d", len(p.Sections))
	}

	var fonts *dsl.FontsSection
	for _, sec := range p.Sections {
		if sec.Fonts != nil {
			fonts = sec.Fonts
		}
	}
	if fonts == nil || len(fonts.Fonts) != 2 {
		t.Fatalf("fonts section missing or incomplete: %+v", fonts)
	}
	if fonts.Fonts[0].Name != "disket" {
		t.Fatalf("expected first font disket, got %s", fonts.Fonts[0].Name)
	}
}

func TestResolveProfile(t *testing.T) {
	p, err := dsl.ParseString(sampleProfile)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	cfg, err := dsl.Resolve(p)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if cfg.Page.Symbols != 20 || cfg.Page.FontSize != 136 {
		t.Fatalf("page config mismatch: %+v", cfg.Page)
	}
	if got := cfg.Page.PixelWidth(); got != 2720 {
		t.Fatalf("expected pixel width 2720, got %g", got)
	}
	if len(cfg.Fonts) != 2 || cfg.Fonts[0].Sample != "English Русский" {
		t.Fatalf("fonts mismatch: %+v", cfg.Fonts)
	}
	if cfg.Device.Product != "Citizen Thermal Printer" || cfg.Device.Dots != 600 {
		t.Fatalf("device mismatch: %+v", cfg.Device)
	}
	if cfg.Store.Path != "bot.db" || cfg.Store.Quota != 1 {
		t.Fatalf("store mismatch: %+v", cfg.Store)
	}
	if cfg.Bot.TokenFile != "TOKEN" || cfg.Bot.Admin != 143185162 {
		t.Fatalf("bot mismatch: %+v", cfg.Bot)
	}
	if cfg.Bot.Handle != "zeskbest" {
		t.Fatalf("handle must be stored without @: %+v", cfg.Bot)
	}
	if cfg.Replies["done"] != "Напечатано." {
		t.Fatalf("replies mismatch: %+v", cfg.Replies)
	}
}

func TestResolveDefaults(t *testing.T) {
	p, err := dsl.ParseString(`
printer tiny v1 {
  fonts {
    font go { src: "builtin:goregular" sample: "abc" }
  }
}
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	cfg, err := dsl.Resolve(p)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.Page.Symbols != 20 || cfg.Page.FontSize != 136 {
		t.Fatalf("expected default page, got %+v", cfg.Page)
	}
	if cfg.Device.Dots != 600 {
		t.Fatalf("expected default dots 600, got %d", cfg.Device.Dots)
	}
	if cfg.Store.Path != "bot.db" || cfg.Store.Quota != 1 {
		t.Fatalf("expected default store, got %+v", cfg.Store)
	}
}

func TestResolveRejectsMissingFonts(t *testing.T) {
	p, err := dsl.ParseString(`printer empty v1 { page { symbols: 10 } }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := dsl.Resolve(p); err == nil {
		t.Fatalf("expected error for profile without fonts")
	}
}

func TestResolveRejectsUnknownKey(t *testing.T) {
	p, err := dsl.ParseString(`
printer bad v1 {
  fonts {
    font go { src: "builtin:goregular" sample: "abc" }
  }
  page { columns: 3 }
}
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = dsl.Resolve(p)
	if err == nil || !strings.Contains(err.Error(), "columns") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestResolveTypeMismatch(t *testing.T) {
	p, err := dsl.ParseString(`
printer bad v1 {
  fonts {
    font go { src: "builtin:goregular" sample: "abc" }
  }
  page { symbols: "twenty" }
}
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := dsl.Resolve(p); err == nil {
		t.Fatalf("expected error for string where number expected")
	}
}

func TestResolveRejectsUnknownReplyKey(t *testing.T) {
	p, err := dsl.ParseString(`
printer bad v1 {
  fonts {
    font go { src: "builtin:goregular" sample: "abc" }
  }
  replies { printed: "misspelled key" }
}
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = dsl.Resolve(p)
	if err == nil || !strings.Contains(err.Error(), "printed") {
		t.Fatalf("expected unknown reply key error, got %v", err)
	}
}

func TestLoadResolvesFontPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "printer.conf")
	if err := os.WriteFile(path, []byte(`
printer local v1 {
  fonts {
    font disk { src: "fonts/mono.ttf" sample: "abc" }
    font builtin { src: "builtin:goregular" sample: "abc" }
  }
}
`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := dsl.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if want := filepath.Join(dir, "fonts", "mono.ttf"); cfg.Fonts[0].Src != want {
		t.Fatalf("expected font path %s, got %s", want, cfg.Fonts[0].Src)
	}
	if cfg.Fonts[1].Src != "builtin:goregular" {
		t.Fatalf("builtin source must stay untouched, got %s", cfg.Fonts[1].Src)
	}
}

func TestParseComments(t *testing.T) {
	_, err := dsl.ParseString(`
# hash comment
printer c v1 {
  /* block
     comment */
  fonts {
    font go { src: "builtin:goregular" sample: "abc" } // trailing
  }
}
`)
	if err != nil {
		t.Fatalf("comments should be elided: %v", err)
	}
}
