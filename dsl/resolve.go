package dsl

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// 解析后的配置默认值
const (
	defaultSymbols  = 20
	defaultFontSize = 136
	defaultDots     = 600
	defaultQuota    = 1
	defaultDBPath   = "bot.db"
)

// Config 是解析并校验后的打印机档案。
type Config struct {
	Name    string
	Version string
	Page    PageConfig
	Fonts   []FontConfig
	Device  DeviceConfig
	Store   StoreConfig
	Bot     BotConfig
	Replies map[string]string
}

// PageConfig 描述版面：每行符号数与字号（像素）。
type PageConfig struct {
	Symbols  int
	FontSize float64
}

// PixelWidth 返回画布像素宽度。
func (p PageConfig) PixelWidth() float64 {
	return float64(p.Symbols) * p.FontSize
}

// FontConfig 描述一个字体：来源路径与用于测宽的示例串。
type FontConfig struct {
	Name   string
	Src    string
	Sample string
}

// DeviceConfig 描述 USB 打印设备。
type DeviceConfig struct {
	Product string
	Dots    int
}

// StoreConfig 描述持久层。
type StoreConfig struct {
	Path  string
	Quota int
}

// BotConfig 描述 telegram 前端。
type BotConfig struct {
	TokenFile string
	Admin     int64
	Handle    string // 管理员的 telegram 用户名，回复里引导用户联系
}

// Resolve 把 AST 转成带默认值的 Config，并做结构校验。
func Resolve(p *Profile) (*Config, error) {
	cfg := &Config{
		Name:    p.Name,
		Version: p.Version,
		Page:    PageConfig{Symbols: defaultSymbols, FontSize: defaultFontSize},
		Device:  DeviceConfig{Dots: defaultDots},
		Store:   StoreConfig{Path: defaultDBPath, Quota: defaultQuota},
		Replies: map[string]string{},
	}

	for _, sec := range p.Sections {
		var err error
		switch {
		case sec.Page != nil:
			err = resolvePage(sec.Page, &cfg.Page)
		case sec.Fonts != nil:
			err = resolveFonts(sec.Fonts, &cfg.Fonts)
		case sec.Device != nil:
			err = resolveDevice(sec.Device, &cfg.Device)
		case sec.Store != nil:
			err = resolveStore(sec.Store, &cfg.Store)
		case sec.Bot != nil:
			err = resolveBot(sec.Bot, &cfg.Bot)
		case sec.Replies != nil:
			err = resolveReplies(sec.Replies, cfg.Replies)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Page.Symbols <= 0 {
		return fmt.Errorf("page.symbols 必须为正，得到 %d", c.Page.Symbols)
	}
	if c.Page.FontSize <= 0 {
		return fmt.Errorf("page.font-size 必须为正，得到 %g", c.Page.FontSize)
	}
	if len(c.Fonts) == 0 {
		return fmt.Errorf("fonts 段至少要声明一个字体")
	}
	for _, f := range c.Fonts {
		if f.Src == "" {
			return fmt.Errorf("字体 %s 缺少 src", f.Name)
		}
		if strings.TrimSpace(f.Sample) == "" {
			return fmt.Errorf("字体 %s 缺少 sample", f.Name)
		}
	}
	if c.Device.Dots <= 0 {
		return fmt.Errorf("device.dots 必须为正，得到 %d", c.Device.Dots)
	}
	if c.Store.Quota < 0 {
		return fmt.Errorf("store.quota 不能为负，得到 %d", c.Store.Quota)
	}
	return nil
}

func resolvePage(b *Block, page *PageConfig) error {
	for _, a := range b.Assignments {
		switch a.Key {
		case "symbols":
			n, err := intValue(a)
			if err != nil {
				return err
			}
			page.Symbols = n
		case "font-size":
			f, err := floatValue(a)
			if err != nil {
				return err
			}
			page.FontSize = f
		default:
			return unknownKey("page", a)
		}
	}
	return nil
}

func resolveFonts(sec *FontsSection, out *[]FontConfig) error {
	for _, decl := range sec.Fonts {
		fc := FontConfig{Name: decl.Name}
		for _, a := range decl.Block.Assignments {
			switch a.Key {
			case "src":
				s, err := stringValue(a)
				if err != nil {
					return err
				}
				fc.Src = s
			case "sample":
				s, err := stringValue(a)
				if err != nil {
					return err
				}
				fc.Sample = s
			default:
				return unknownKey("font "+decl.Name, a)
			}
		}
		*out = append(*out, fc)
	}
	return nil
}

func resolveDevice(b *Block, dev *DeviceConfig) error {
	for _, a := range b.Assignments {
		switch a.Key {
		case "product":
			s, err := stringValue(a)
			if err != nil {
				return err
			}
			dev.Product = s
		case "dots":
			n, err := intValue(a)
			if err != nil {
				return err
			}
			dev.Dots = n
		default:
			return unknownKey("device", a)
		}
	}
	return nil
}

func resolveStore(b *Block, st *StoreConfig) error {
	for _, a := range b.Assignments {
		switch a.Key {
		case "path":
			s, err := stringValue(a)
			if err != nil {
				return err
			}
			st.Path = s
		case "quota":
			n, err := intValue(a)
			if err != nil {
				return err
			}
			st.Quota = n
		default:
			return unknownKey("store", a)
		}
	}
	return nil
}

func resolveBot(b *Block, bot *BotConfig) error {
	for _, a := range b.Assignments {
		switch a.Key {
		case "token-file":
			s, err := stringValue(a)
			if err != nil {
				return err
			}
			bot.TokenFile = s
		case "admin":
			n, err := intValue(a)
			if err != nil {
				return err
			}
			bot.Admin = int64(n)
		case "handle":
			s, err := stringValue(a)
			if err != nil {
				return err
			}
			bot.Handle = strings.TrimPrefix(s, "@")
		default:
			return unknownKey("bot", a)
		}
	}
	return nil
}

// replyKeys 是 bot 认识的回复模板键；别的键多半是笔误，直接报错。
var replyKeys = map[string]bool{
	"hello":   true,
	"help":    true,
	"done":    true,
	"empty":   true,
	"novice":  true,
	"granted": true,
}

func resolveReplies(b *Block, out map[string]string) error {
	for _, a := range b.Assignments {
		if !replyKeys[a.Key] {
			return unknownKey("replies", a)
		}
		s, err := stringValue(a)
		if err != nil {
			return err
		}
		out[a.Key] = s
	}
	return nil
}

func stringValue(a *Assignment) (string, error) {
	if a.Value == nil || a.Value.String == nil {
		return "", fmt.Errorf("%s: %s 需要字符串值", a.Pos, a.Key)
	}
	return string(*a.Value.String), nil
}

func intValue(a *Assignment) (int, error) {
	if a.Value == nil || a.Value.Number == nil {
		return 0, fmt.Errorf("%s: %s 需要数字值", a.Pos, a.Key)
	}
	n, err := strconv.Atoi(*a.Value.Number)
	if err != nil {
		return 0, fmt.Errorf("%s: %s 需要整数值: %w", a.Pos, a.Key, err)
	}
	return n, nil
}

func floatValue(a *Assignment) (float64, error) {
	if a.Value == nil || a.Value.Number == nil {
		return 0, fmt.Errorf("%s: %s 需要数字值", a.Pos, a.Key)
	}
	f, err := strconv.ParseFloat(*a.Value.Number, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %s 需要数字值: %w", a.Pos, a.Key, err)
	}
	return f, nil
}

func unknownKey(section string, a *Assignment) error {
	return fmt.Errorf("%s: %s 段不认识键 %s", a.Pos, section, a.Key)
}

// Load 读取并解析配置文件。相对的本地字体路径会被换算成
// 相对配置文件目录的绝对路径，builtin: 前缀的来源不动。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	profile, err := ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	cfg, err := Resolve(profile)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for i, f := range cfg.Fonts {
		if strings.HasPrefix(f.Src, "builtin:") || filepath.IsAbs(f.Src) {
			continue
		}
		cfg.Fonts[i].Src = filepath.Join(dir, f.Src)
	}
	return cfg, nil
}
