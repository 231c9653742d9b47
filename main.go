package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/zeskbest/teleprint/bot"
	"github.com/zeskbest/teleprint/dsl"
	"github.com/zeskbest/teleprint/layout"
	"github.com/zeskbest/teleprint/printer"
	canvasrenderer "github.com/zeskbest/teleprint/renderer/canvas"
	"github.com/zeskbest/teleprint/store"
)

func main() {
	configPath := flag.String("config", "printer.conf", "打印机档案路径")
	token := flag.String("token", "", "telegram token，覆盖配置里的 token-file")
	text := flag.String("text", "", "干跑模式：排版这段文本并写出 PNG，不连打印机")
	output := flag.String("out", "output/preview.png", "干跑模式的 PNG 输出路径")
	debugPath := flag.String("debug", "", "布局调试 JSON 输出路径")
	flag.Parse()

	cfg, err := dsl.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	r, err := buildRenderer(cfg)
	if err != nil {
		log.Fatalf("构建渲染器失败: %v", err)
	}

	if *text != "" {
		if err := dryRun(r, *text, *output, *debugPath); err != nil {
			log.Fatalf("干跑失败: %v", err)
		}
		fmt.Printf("已生成预览：%s\n", *output)
		return
	}

	if err := serve(cfg, r, *token); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot 退出: %v", err)
	}
}

// buildRenderer 按配置加载字体组并装配渲染器。
func buildRenderer(cfg *dsl.Config) (*canvasrenderer.Renderer, error) {
	specs := make([]canvasrenderer.Spec, len(cfg.Fonts))
	for i, f := range cfg.Fonts {
		specs[i] = canvasrenderer.Spec{Name: f.Name, Src: f.Src, Sample: f.Sample}
	}
	set, err := canvasrenderer.BuildFontSet(specs, cfg.Page.FontSize)
	if err != nil {
		return nil, err
	}
	return canvasrenderer.New(set, cfg.Page.PixelWidth(), layout.UnknownDrop), nil
}

// dryRun 不碰打印机和 telegram，把排版结果落成 PNG。
func dryRun(r *canvasrenderer.Renderer, text, output, debugPath string) error {
	res, err := r.Layout(text)
	if err != nil {
		return fmt.Errorf("排版失败: %w", err)
	}
	if debugPath != "" {
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(res, debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	img, err := r.Render(res)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	defer file.Close()
	return png.Encode(file, img)
}

// serve 装配全部部件并跑 telegram bot，收到信号后优雅退出。
func serve(cfg *dsl.Config, r *canvasrenderer.Renderer, tokenOverride string) error {
	token := tokenOverride
	if token == "" {
		data, err := os.ReadFile(cfg.Bot.TokenFile)
		if err != nil {
			return fmt.Errorf("读取 token 文件失败: %w", err)
		}
		token = strings.TrimRight(string(data), "\n")
	}

	st, err := store.Open(cfg.Store.Path, cfg.Store.Quota)
	if err != nil {
		return err
	}
	defer st.Close()

	dev, err := printer.OpenUSB(cfg.Device.Product)
	if err != nil {
		return err
	}
	defer dev.Close()

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return fmt.Errorf("连接 telegram 失败: %w", err)
	}
	log.Printf("已登录 telegram：%s", api.Self.UserName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := printer.New(dev, r, cfg.Device.Dots)
	return bot.New(api, st, p, cfg.Bot.Admin, cfg.Bot.Handle, cfg.Replies).Run(ctx)
}
