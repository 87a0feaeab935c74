// Package telegram serves the bot over Telegram long polling.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gamedex-io/gamedex/internal/connector"
)

// Config holds Telegram connector configuration.
type Config struct {
	Token     string       // Bot token from @BotFather
	AllowFrom []int64      // Allowed Telegram user IDs (empty = allow all)
	Voice     *VoiceConfig // Optional voice transcription settings
}

// Connector implements connector.Connector for Telegram.
type Connector struct {
	bot       *tgbotapi.BotAPI
	config    Config
	responder connector.Responder
	logger    *slog.Logger
	cancel    context.CancelFunc
}

// New creates a Telegram connector.
func New(cfg Config, responder connector.Responder, logger *slog.Logger) (*Connector, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: init bot: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("telegram bot authorized", "username", bot.Self.UserName)

	return &Connector{
		bot:       bot,
		config:    cfg,
		responder: responder,
		logger:    logger,
	}, nil
}

func (c *Connector) Name() string { return "telegram" }

// Start begins long-polling for updates. Blocks until ctx is cancelled.
func (c *Connector) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := c.bot.GetUpdatesChan(u)

	c.logger.Info("telegram connector started", "bot", c.bot.Self.UserName)

	for {
		select {
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			c.handleMessage(ctx, update.Message)

		case <-ctx.Done():
			c.bot.StopReceivingUpdates()
			c.logger.Info("telegram connector stopped")
			return ctx.Err()
		}
	}
}

// Stop gracefully shuts down the connector.
func (c *Connector) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

func (c *Connector) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if len(c.config.AllowFrom) > 0 && !allowed(c.config.AllowFrom, userID) {
		c.logger.Warn("unauthorized user", "user_id", userID, "username", msg.From.UserName)
		return
	}

	text := c.messageText(ctx, msg)
	if text == "" {
		return
	}

	// Typing indicator while the model works.
	c.bot.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))

	session := "telegram:" + strconv.FormatInt(chatID, 10)
	reply := c.responder.HandleMessage(ctx, session, text)

	if err := c.send(chatID, reply); err != nil {
		c.logger.Error("telegram send failed", "chat_id", chatID, "error", err)
	}
}

// messageText extracts what the user said: a command, plain text, a
// media caption, or a voice transcript.
func (c *Connector) messageText(ctx context.Context, msg *tgbotapi.Message) string {
	if msg.IsCommand() {
		text := "/" + msg.Command()
		if args := msg.CommandArguments(); args != "" {
			text += " " + args
		}
		return text
	}
	if msg.Text != "" {
		return msg.Text
	}
	if msg.Caption != "" {
		return msg.Caption
	}
	if msg.Voice != nil || msg.Audio != nil {
		return c.voiceText(ctx, msg)
	}
	return ""
}

func (c *Connector) voiceText(ctx context.Context, msg *tgbotapi.Message) string {
	if c.config.Voice == nil || c.config.Voice.APIKey == "" {
		return ""
	}
	text, err := c.transcribeVoice(ctx, msg)
	if err != nil {
		c.logger.Error("voice transcription failed", "chat_id", msg.Chat.ID, "error", err)
		c.bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Sorry, I couldn't make out that voice message."))
		return ""
	}
	c.logger.Info("voice message transcribed", "chat_id", msg.Chat.ID, "chars", len(text))
	return text
}

// send delivers a reply, converting model markdown to Telegram HTML
// with a plain-text fallback when Telegram rejects the markup.
func (c *Connector) send(chatID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	tgMsg := tgbotapi.NewMessage(chatID, MarkdownToHTML(text))
	tgMsg.ParseMode = "HTML"
	tgMsg.DisableWebPagePreview = true

	_, err := c.bot.Send(tgMsg)
	if err != nil {
		c.logger.Warn("HTML send failed, falling back to plain text",
			"chat_id", chatID,
			"error", err,
		)
		tgMsg.Text = StripMarkdown(text)
		tgMsg.ParseMode = ""
		_, err = c.bot.Send(tgMsg)
	}
	return err
}

func allowed(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
