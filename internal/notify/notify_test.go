package notify

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123:abc"

type sentMessage struct {
	chatID    string
	text      string
	parseMode string
}

func newTestTelegram(t *testing.T) (*Telegram, func() []sentMessage) {
	t.Helper()

	var mu sync.Mutex
	var sent []sentMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/bot" + testToken + "/getMe":
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"digest","username":"digest_bot"}}`)
		case "/bot" + testToken + "/sendMessage":
			mu.Lock()
			sent = append(sent, sentMessage{
				chatID:    r.PostForm.Get("chat_id"),
				text:      r.PostForm.Get("text"),
				parseMode: r.PostForm.Get("parse_mode"),
			})
			mu.Unlock()
			fmt.Fprint(w, `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
		}
	}))
	t.Cleanup(srv.Close)

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(testToken, srv.URL+"/bot%s/%s")
	require.NoError(t, err)

	return newTelegram(api, 42), func() []sentMessage {
		mu.Lock()
		defer mu.Unlock()
		return append([]sentMessage(nil), sent...)
	}
}

func TestTelegram_Notify(t *testing.T) {
	tg, sent := newTestTelegram(t)

	require.NoError(t, tg.Notify(context.Background(), "<b>Overdue tasks</b>"))

	msgs := sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, "42", msgs[0].chatID)
	assert.Equal(t, "<b>Overdue tasks</b>", msgs[0].text)
	assert.Equal(t, tgbotapi.ModeHTML, msgs[0].parseMode)
}

func TestTelegram_NotifySplitsLongDigests(t *testing.T) {
	tg, sent := newTestTelegram(t)

	line := strings.Repeat("x", 99) + "\n"
	text := strings.Repeat(line, 50)
	require.NoError(t, tg.Notify(context.Background(), text))

	msgs := sent()
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.LessOrEqual(t, len(m.text), maxMessageLen)
	}
}

func TestTelegram_NotifyCanceled(t *testing.T) {
	tg, sent := newTestTelegram(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, tg.Notify(ctx, "hello"), context.Canceled)
	assert.Empty(t, sent())
}

func TestLog_Notify(t *testing.T) {
	var buf bytes.Buffer
	n := NewLog(log.New(&buf, "", 0))

	require.NoError(t, n.Notify(context.Background(), "two overdue"))
	assert.Equal(t, "[info] digest:\ntwo overdue\n", buf.String())
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"short"}, split("short", 10))
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, split("aaaa\nbbbb\ncccc", 10))
	assert.Equal(t, []string{"abcde", "fghij", "k"}, split("abcdefghijk", 5))

	parts := split(strings.Repeat("é", 6), 5)
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 5)
		assert.True(t, strings.Count(p, "é")*2 == len(p), "rune split in %q", p)
	}
	assert.Equal(t, strings.Repeat("é", 6), strings.Join(parts, ""))
}
