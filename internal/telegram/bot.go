package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"go-dgpa-watcher/internal/models"
)

// sender is the part of tgbotapi.BotAPI the bot needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api     sender
	chatID  int64
	limiter *rate.Limiter
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//api.Debug = true

	return newBot(api, chatID), nil
}

func newBot(api sender, chatID int64) *Bot {
	return &Bot{
		api:    api,
		chatID: chatID,
		//1 message per second to avoid 429
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (b *Bot) send(ctx context.Context, text string) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML //use HTML for bold
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

// SendDigest sends the first limit postings as one message.
func (b *Bot) SendDigest(ctx context.Context, keyword string, postings []models.JobPosting, limit int) error {
	return b.send(ctx, FormatDigest(keyword, postings, limit))
}

func (b *Bot) SendStatus(ctx context.Context, message string) error {
	return b.send(ctx, "ℹ️ "+escape(message))
}

func (b *Bot) SendError(ctx context.Context, errReq error) error {
	return b.send(ctx, fmt.Sprintf("❌ 任務執行失敗：%s", escape(errReq.Error())))
}
