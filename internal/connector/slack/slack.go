// Package slackconn serves the bot over Slack's Socket Mode.
package slackconn

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/gamedex-io/gamedex/internal/connector"
)

// Config holds Slack connector configuration.
type Config struct {
	BotToken string   // xoxb-... Bot User OAuth Token
	AppToken string   // xapp-... App-Level Token (for Socket Mode)
	Channels []string // Optional: only respond in these channels (empty = all)
}

// Connector implements connector.Connector for Slack via Socket Mode.
// Direct messages always get a reply; in channels the bot answers only
// when mentioned.
type Connector struct {
	api       *slack.Client
	socket    *socketmode.Client
	config    Config
	responder connector.Responder
	logger    *slog.Logger
	cancel    context.CancelFunc
	botID     string
}

// New creates a Slack connector.
func New(cfg Config, responder connector.Responder, logger *slog.Logger) (*Connector, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("slack: bot_token is required")
	}
	if cfg.AppToken == "" {
		return nil, fmt.Errorf("slack: app_token is required (Socket Mode)")
	}

	if logger == nil {
		logger = slog.Default()
	}

	api := slack.New(cfg.BotToken, slack.OptionAppLevelToken(cfg.AppToken))

	// Test auth and get bot user ID
	authResp, err := api.AuthTest()
	if err != nil {
		return nil, fmt.Errorf("slack: auth test: %w", err)
	}

	logger.Info("slack bot authorized", "user", authResp.User, "team", authResp.Team)

	return &Connector{
		api:       api,
		socket:    socketmode.New(api),
		config:    cfg,
		responder: responder,
		logger:    logger,
		botID:     authResp.UserID,
	}, nil
}

func (c *Connector) Name() string { return "slack" }

// Start begins listening for events via Socket Mode. Blocks until ctx
// is cancelled.
func (c *Connector) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go c.handleEvents(ctx)

	c.logger.Info("slack connector started (socket mode)")
	return c.socket.RunContext(ctx)
}

// Stop gracefully shuts down the connector.
func (c *Connector) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

func (c *Connector) handleEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-c.socket.Events:
			switch event.Type {
			case socketmode.EventTypeEventsAPI:
				c.handleEventsAPI(ctx, event)
			case socketmode.EventTypeSlashCommand:
				c.handleSlashCommand(ctx, event)
			}
		}
	}
}

func (c *Connector) handleEventsAPI(ctx context.Context, event socketmode.Event) {
	eventsAPIEvent, ok := event.Data.(slackevents.EventsAPIEvent)
	if !ok {
		return
	}

	c.socket.Ack(*event.Request)

	switch ev := eventsAPIEvent.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		c.handleMessage(ctx, ev)
	case *slackevents.AppMentionEvent:
		c.handleMention(ctx, ev)
	}
}

func (c *Connector) handleMessage(ctx context.Context, ev *slackevents.MessageEvent) {
	// Ignore bot messages (including our own)
	if ev.BotID != "" || ev.User == "" || ev.User == c.botID {
		return
	}
	// Ignore message subtypes (edits, deletes, etc.)
	if ev.SubType != "" {
		return
	}
	// Channel messages are handled by the mention event; answering
	// every message in a shared channel would be noise.
	if ev.ChannelType != "im" {
		return
	}
	if !c.isAllowedChannel(ev.Channel) {
		return
	}

	text := ev.Text
	if text == "" {
		return
	}

	c.respond(ctx, ev.Channel, ev.ThreadTimeStamp, ev.User, text)
}

func (c *Connector) handleMention(ctx context.Context, ev *slackevents.AppMentionEvent) {
	if ev.User == c.botID {
		return
	}
	if !c.isAllowedChannel(ev.Channel) {
		return
	}

	text := StripMention(ev.Text, c.botID)
	if text == "" {
		return
	}

	c.respond(ctx, ev.Channel, ev.ThreadTimeStamp, ev.User, text)
}

func (c *Connector) handleSlashCommand(ctx context.Context, event socketmode.Event) {
	cmd, ok := event.Data.(slack.SlashCommand)
	if !ok {
		return
	}

	c.socket.Ack(*event.Request)

	text := cmd.Text
	if text == "" {
		text = "/help"
	}

	c.respond(ctx, cmd.ChannelID, "", cmd.UserID, text)
}

// respond runs the message through the engine and posts the reply,
// threading it when the question was asked in a thread.
func (c *Connector) respond(ctx context.Context, channel, threadTS, user, text string) {
	reply := c.responder.HandleMessage(ctx, sessionID(channel, threadTS), text)
	if strings.TrimSpace(reply) == "" {
		return
	}

	opts := []slack.MsgOption{
		slack.MsgOptionText(MarkdownToMrkdwn(reply), false),
	}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}

	if _, _, err := c.api.PostMessage(channel, opts...); err != nil {
		c.logger.Error("slack send failed",
			"channel", channel,
			"user", user,
			"error", err,
		)
	}
}

// sessionID groups thread replies into one conversation; everything
// else shares the channel's session.
func sessionID(channel, threadTS string) string {
	if threadTS != "" {
		return "slack:" + channel + ":" + threadTS
	}
	return "slack:" + channel
}

func (c *Connector) isAllowedChannel(channel string) bool {
	if len(c.config.Channels) == 0 {
		return true
	}
	for _, ch := range c.config.Channels {
		if ch == channel {
			return true
		}
	}
	return false
}

// StripMention removes the <@BOTID> mention from message text.
func StripMention(text, botID string) string {
	mention := fmt.Sprintf("<@%s>", botID)
	text = strings.Replace(text, mention, "", 1)
	return strings.TrimSpace(text)
}

// MarkdownToMrkdwn converts standard Markdown to Slack's mrkdwn format.
func MarkdownToMrkdwn(md string) string {
	result := convertEmphasis(md)
	// Strikethrough: ~~text~~ becomes ~text~
	result = strings.ReplaceAll(result, "~~", "~")
	return convertLinks(result)
}

// convertEmphasis handles both bold (**text** to *text*) and italic
// (*text* to _text_) in a single pass, leaving code spans alone.
func convertEmphasis(s string) string {
	var b strings.Builder
	inCode := false
	i := 0
	for i < len(s) {
		ch := s[i]
		switch {
		case ch == '`':
			inCode = !inCode
			b.WriteByte(ch)
			i++
		case ch == '*' && !inCode:
			if i+1 < len(s) && s[i+1] == '*' {
				b.WriteByte('*')
				i += 2
			} else {
				b.WriteByte('_')
				i++
			}
		default:
			b.WriteByte(ch)
			i++
		}
	}
	return b.String()
}

// convertLinks converts [text](url) to <url|text>.
func convertLinks(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != '[' {
			b.WriteByte(s[i])
			i++
			continue
		}
		closeB := strings.Index(s[i:], "](")
		if closeB == -1 {
			b.WriteByte(s[i])
			i++
			continue
		}
		closeB += i
		closeP := strings.Index(s[closeB:], ")")
		if closeP == -1 {
			b.WriteByte(s[i])
			i++
			continue
		}
		closeP += closeB

		fmt.Fprintf(&b, "<%s|%s>", s[closeB+2:closeP], s[i+1:closeB])
		i = closeP + 1
	}
	return b.String()
}
