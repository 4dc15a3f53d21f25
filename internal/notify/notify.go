package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Notifier delivers a human readable status line to the operator. Delivery
// is best effort: implementations log failures and never return them.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Notifyf formats text before handing it to n.
func Notifyf(ctx context.Context, n Notifier, format string, args ...any) {
	n.Notify(ctx, fmt.Sprintf(format, args...))
}

// New returns a Telegram notifier when both token and chat id are set and a
// log notifier otherwise.
func New(token, chatID string, logger zerolog.Logger) Notifier {
	if token == "" || chatID == "" {
		return NewLogNotifier(logger)
	}
	return NewTelegramNotifier(token, chatID, logger)
}

type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, text string) {
	n.log.Info().Str("notification", text).Msg("notify")
}

const defaultTelegramURL = "https://api.telegram.org"

type TelegramNotifier struct {
	baseURL string
	token   string
	chatID  string
	client  *http.Client
	log     zerolog.Logger
}

func NewTelegramNotifier(token, chatID string, logger zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		baseURL: defaultTelegramURL,
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     logger,
	}
}

// WithBaseURL points the notifier at another Bot API host.
func (n *TelegramNotifier) WithBaseURL(baseURL string) *TelegramNotifier {
	n.baseURL = strings.TrimSuffix(baseURL, "/")
	return n
}

// Notify implements Notifier.
func (n *TelegramNotifier) Notify(ctx context.Context, text string) {
	params := url.Values{}
	params.Set("chat_id", n.chatID)
	params.Set("text", EscapeMarkdown(text))
	params.Set("parse_mode", "MarkdownV2")
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage?%s", n.baseURL, n.token, params.Encode())

	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, endpoint, nil)
	if err != nil {
		n.log.Error().Err(err).Msg("build telegram request")
		return
	}
	res, err := n.client.Do(req)
	if err != nil {
		// the error embeds the URL, which carries the bot token
		n.log.Error().Str("error", redact(err.Error(), n.token)).Msg("send telegram message")
		return
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		n.log.Error().Int("status", res.StatusCode).Msg("telegram rejected message")
	}
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***")
}

const (
	codeFence = "```"
	// markdownV2Reserved lists the characters Telegram requires to be escaped
	// in plain text, minus '*' which messages use for bold text.
	markdownV2Reserved = "\\_[]()~>#+-=|{}.!`"
	// inside pre blocks only these two need escaping.
	markdownV2CodeReserved = "\\`"
)

// EscapeMarkdown escapes text for Telegram's MarkdownV2 parse mode. Text
// between ``` fences is treated as a pre block.
func EscapeMarkdown(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i, part := range strings.Split(text, codeFence) {
		reserved := markdownV2Reserved
		if i > 0 {
			b.WriteString(codeFence)
		}
		if i%2 == 1 {
			reserved = markdownV2CodeReserved
		}
		for _, r := range part {
			if strings.ContainsRune(reserved, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
