// Package bot 是 telegram 前端：收消息、查配额、喂给打印机、回执。
package bot

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/zeskbest/teleprint/binding"
	"github.com/zeskbest/teleprint/printer"
)

// API 是 bot 用到的 telegram 客户端子集，*tgbotapi.BotAPI 满足它。
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Storage 是 bot 需要的持久层子集，store.Store 满足它。
type Storage interface {
	CreateUser(ctx context.Context, name string) error
	MessageCount(ctx context.Context, name string) (int, error)
	DecreaseCount(ctx context.Context, name string) error
	SetCount(ctx context.Context, name string, count int) error
	SaveMessage(ctx context.Context, name, text string, img image.Image) error
}

// Printer 是 bot 需要的打印子集，printer.Printer 满足它。
type Printer interface {
	Print(text string, img image.Image, user string) error
}

// 配置里没写的回复按这套默认模板走。键名即 replies 配置段的契约。
var defaultReplies = map[string]string{
	"hello":   "Привет, @${user}!\nЗагляни в /help",
	"help":    "Отправь мне картинку с подписью!\nЯ умею печатать картинки и текст.\nБаланс: ${count} сообщений.",
	"done":    "Распечатал! 😃",
	"empty":   "Нечего печатать. 😔",
	"novice":  "У вас закончились попытки 😕, напишите @${admin}",
	"granted": "Выдал @${user} ${count} сообщений.",
}

// Bot 串起 telegram、持久层与打印机。
type Bot struct {
	api         API
	store       Storage
	printer     Printer
	admin       int64
	adminHandle string // 管理员的 telegram 用户名，回复模板里代替数字 id
	replies     map[string]string
	client      *http.Client
}

// New 创建 bot。handle 是管理员用户名（可为空，回退到数字 id）；
// replies 覆盖默认回复模板，可为 nil。
func New(api API, store Storage, p Printer, admin int64, handle string, replies map[string]string) *Bot {
	return &Bot{
		api:         api,
		store:       store,
		printer:     p,
		admin:       admin,
		adminHandle: handle,
		replies:     replies,
		client:      http.DefaultClient,
	}
}

// Run 长轮询处理更新，直到 ctx 取消。
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.handle(ctx, update); err != nil {
				log.Printf("处理更新失败: %v", err)
				b.notifyAdmin(fmt.Sprintf("处理更新失败: %v", err))
			}
		}
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil {
		// 编辑消息不重打
		if update.EditedMessage != nil {
			return nil
		}
		return nil
	}
	if msg.From == nil || msg.From.UserName == "" {
		return b.reply(msg, "empty", nil)
	}
	user := msg.From.UserName

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			if err := b.store.CreateUser(ctx, user); err != nil {
				return err
			}
			return b.reply(msg, "hello", map[string]any{"user": user})
		case "help":
			count, err := b.store.MessageCount(ctx, user)
			if err != nil {
				return err
			}
			return b.reply(msg, "help", map[string]any{"user": user, "count": count})
		case "grant":
			return b.grant(ctx, msg)
		default:
			// 不认识的命令也给帮助，但余额要查真的
			count, err := b.store.MessageCount(ctx, user)
			if err != nil {
				return err
			}
			return b.reply(msg, "help", map[string]any{"user": user, "count": count})
		}
	}

	return b.respond(ctx, msg)
}

// respond 打印一条普通消息并回执。
func (b *Bot) respond(ctx context.Context, msg *tgbotapi.Message) error {
	user := msg.From.UserName

	count, err := b.store.MessageCount(ctx, user)
	if err != nil {
		return err
	}
	if count <= 0 {
		return b.reply(msg, "novice", map[string]any{"user": user, "admin": b.adminContact()})
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	img, err := b.downloadPhoto(msg.Photo)
	if err != nil {
		return fmt.Errorf("下载用户 %s 的图片失败: %w", user, err)
	}

	if err := b.printer.Print(text, img, user); err != nil {
		if errors.Is(err, printer.ErrNothingToPrint) {
			return b.reply(msg, "empty", map[string]any{"user": user})
		}
		return fmt.Errorf("打印用户 %s 的消息失败: %w", user, err)
	}

	if err := b.store.DecreaseCount(ctx, user); err != nil {
		return err
	}
	if err := b.store.SaveMessage(ctx, user, text, img); err != nil {
		return err
	}
	return b.reply(msg, "done", map[string]any{"user": user})
}

// grant 管理员补额：/grant username 5
func (b *Bot) grant(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From.ID != b.admin {
		return b.reply(msg, "empty", nil)
	}
	name, count, err := parseGrant(msg.CommandArguments())
	if err != nil {
		return b.replyText(msg, err.Error())
	}
	if err := b.store.SetCount(ctx, name, count); err != nil {
		return err
	}
	return b.reply(msg, "granted", map[string]any{"user": name, "count": count})
}

// downloadPhoto 拉取最大尺寸的照片并解码。photo 为空时返回 nil。
func (b *Bot) downloadPhoto(photo []tgbotapi.PhotoSize) (image.Image, error) {
	target := largestPhoto(photo)
	if target == nil {
		return nil, nil
	}
	url, err := b.api.GetFileDirectURL(target.FileID)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("下载图片返回 %s", resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("解码图片失败: %w", err)
	}
	return img, nil
}

func (b *Bot) reply(msg *tgbotapi.Message, key string, data map[string]any) error {
	tpl, ok := b.replies[key]
	if !ok {
		tpl = defaultReplies[key]
	}
	return b.replyText(msg, binding.Interpolate(tpl, data))
}

func (b *Bot) replyText(msg *tgbotapi.Message, text string) error {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	_, err := b.api.Send(out)
	return err
}

// adminContact 返回可以 @ 的管理员联系方式：优先配置里的用户名。
func (b *Bot) adminContact() string {
	if b.adminHandle != "" {
		return b.adminHandle
	}
	return strconv.FormatInt(b.admin, 10)
}

func (b *Bot) notifyAdmin(text string) {
	if b.admin == 0 {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(b.admin, text)); err != nil {
		log.Printf("通知管理员失败: %v", err)
	}
}

// largestPhoto 选出面积最大的尺寸。telegram 按尺寸升序给出，
// 但这里不依赖顺序。
func largestPhoto(photo []tgbotapi.PhotoSize) *tgbotapi.PhotoSize {
	var best *tgbotapi.PhotoSize
	bestArea := -1
	for i := range photo {
		area := photo[i].Width * photo[i].Height
		if area > bestArea {
			best, bestArea = &photo[i], area
		}
	}
	return best
}

// parseGrant 解析 /grant 的参数：用户名（可带 @）与配额数。
func parseGrant(args string) (string, int, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("用法: /grant username count")
	}
	name := strings.TrimPrefix(fields[0], "@")
	if name == "" {
		return "", 0, fmt.Errorf("用法: /grant username count")
	}
	count, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, fmt.Errorf("配额要是整数: %w", err)
	}
	return name, count, nil
}
