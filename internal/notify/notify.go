// Package notify delivers task digests to people.
package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLen is Telegram's limit for a single text message.
const maxMessageLen = 4096

// Notifier sends a rendered digest somewhere.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Telegram posts digests to a single chat.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram authorizes the bot token against the Telegram API.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return newTelegram(api, chatID), nil
}

func newTelegram(api *tgbotapi.BotAPI, chatID int64) *Telegram {
	log.Printf("[info] telegram notifier authorized on account %s", api.Self.UserName)
	return &Telegram{api: api, chatID: chatID}
}

// Notify sends text as HTML, split into as many messages as needed.
func (t *Telegram) Notify(ctx context.Context, text string) error {
	for _, part := range split(text, maxMessageLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(t.chatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if _, err := t.api.Send(msg); err != nil {
			return fmt.Errorf("send digest to %d: %w", t.chatID, err)
		}
	}
	return nil
}

// Log writes digests to a standard logger. It is used when no Telegram
// token is configured.
type Log struct {
	logger *log.Logger
}

func NewLog(logger *log.Logger) *Log {
	if logger == nil {
		logger = log.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) Notify(_ context.Context, text string) error {
	l.logger.Printf("[info] digest:\n%s", text)
	return nil
}

// split breaks text into chunks of at most limit bytes, preferring line
// boundaries so HTML tags on a line stay intact.
func split(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if current.Len() > 0 {
				parts = append(parts, strings.TrimRight(current.String(), "\n"))
				current.Reset()
			}
			cut := runeBoundary(line, limit)
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if current.Len()+len(line) > limit {
			parts = append(parts, strings.TrimRight(current.String(), "\n"))
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		parts = append(parts, strings.TrimRight(current.String(), "\n"))
	}
	return parts
}

// runeBoundary returns the largest index <= limit that does not split a rune.
func runeBoundary(s string, limit int) int {
	for limit > 0 && limit < len(s) && !isRuneStart(s[limit]) {
		limit--
	}
	return limit
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
