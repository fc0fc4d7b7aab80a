package notifiers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/newsline-hq/chinapress-sentinel/pkg/httpclient"
)

const (
	telegramDefaultTimeoutSeconds = 20
	telegramAPIBase               = "https://api.telegram.org"
)

// telegramNotifier posts messages to a chat via the Telegram bot API.
type telegramNotifier struct {
	id             string
	typ            string
	botToken       string
	chatID         string
	dryRun         bool
	disablePreview bool
	apiBase        string
	client         *resty.Client
	log            Logger
}

// telegramPayload is the sendMessage request body.
type telegramPayload struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

func newTelegramNotifier(cfg NotifierConfig, log Logger) (Notifier, error) {
	if cfg.Telegram == nil {
		return nil, fmt.Errorf("notifier %q missing telegram configuration", cfg.ID)
	}

	client := httpclient.NewRestyHTTPClient(time.Duration(cfg.Telegram.TimeoutSeconds) * time.Second)

	return &telegramNotifier{
		id:             cfg.ID,
		typ:            TypeTelegram,
		botToken:       cfg.Telegram.BotToken,
		chatID:         cfg.Telegram.ChatID,
		dryRun:         cfg.Telegram.DryRun,
		disablePreview: cfg.Telegram.DisablePreview,
		apiBase:        telegramAPIBase,
		client:         client,
		log:            ensureLogger(log),
	}, nil
}

func (t *telegramNotifier) ID() string   { return t.id }
func (t *telegramNotifier) Type() string { return t.typ }

// Notify delivers the formatted text to the configured chat. In dry-run mode
// the payload is logged instead of sent and delivery is reported successful.
func (t *telegramNotifier) Notify(ctx context.Context, msg Message) error {
	if t.dryRun {
		t.log.InfoObj("telegram dry-run, message not sent", "telegram_dry_run", map[string]any{
			"notifier_id": t.id,
			"chat_id":     t.chatID,
			"text":        msg.Text,
		})
		return nil
	}

	payload := telegramPayload{
		ChatID:                t.chatID,
		Text:                  msg.Text,
		ParseMode:             "HTML",
		DisableWebPagePreview: t.disablePreview,
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken))
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	if resp.IsError() {
		snippet := readBodySnippet(resp.Body())
		t.log.ErrorObj("telegram sendMessage failed", "telegram_error", map[string]any{
			"notifier_id": t.id,
			"status":      resp.StatusCode(),
			"body":        snippet,
		})
		return fmt.Errorf("telegram response status %d: %s", resp.StatusCode(), snippet)
	}
	return nil
}
