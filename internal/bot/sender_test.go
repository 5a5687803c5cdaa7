package bot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTelegram отвечает на getMe и sendMessage и запоминает тексты.
type fakeTelegram struct {
	mu     sync.Mutex
	texts  []string
	failAt int // номер sendMessage с 1, на котором вернуть ошибку, 0 значит без ошибок
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"bot","username":"bot"}}`)
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		_ = r.ParseForm()
		f.mu.Lock()
		f.texts = append(f.texts, r.FormValue("text"))
		n := len(f.texts)
		f.mu.Unlock()
		if n == f.failAt {
			fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request"}`)
			return
		}
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":%d,"chat":{"id":-100}}}`, 500+n)
	default:
		http.NotFound(w, r)
	}
}

func newFakeSender(t *testing.T, f *fakeTelegram) *GroupSender {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	api, err := tgbotapi.NewBotAPIWithClient("token", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)
	return NewGroupSender(api)
}

func longOrderText() string {
	lines := make([]string, 0, 120)
	for i := 1; i <= 120; i++ {
		lines = append(lines, fmt.Sprintf("%d) Цемент марки М500 в мешках по 50 кг — 200 шт", i))
	}
	return strings.Join(lines, "\n")
}

func TestGroupSender_SplitsLongText(t *testing.T) {
	f := &fakeTelegram{}
	s := newFakeSender(t, f)
	text := longOrderText()
	require.Greater(t, utf8.RuneCountInString(text), maxMessageLen)

	id, err := s.SendToGroup(context.Background(), -100, text)
	require.NoError(t, err)
	assert.Equal(t, 501, id)

	require.Greater(t, len(f.texts), 1)
	for _, part := range f.texts {
		assert.LessOrEqual(t, utf8.RuneCountInString(part), maxMessageLen)
	}
	assert.Equal(t, text, strings.Join(f.texts, "\n"))
}

func TestGroupSender_ShortTextOneMessage(t *testing.T) {
	f := &fakeTelegram{}
	s := newFakeSender(t, f)

	id, err := s.SendToGroup(context.Background(), -100, "📦 НОВАЯ ЗАЯВКА")
	require.NoError(t, err)
	assert.Equal(t, 501, id)
	assert.Equal(t, []string{"📦 НОВАЯ ЗАЯВКА"}, f.texts)
}

func TestGroupSender_PartFailure(t *testing.T) {
	f := &fakeTelegram{failAt: 2}
	s := newFakeSender(t, f)

	id, err := s.SendToGroup(context.Background(), -100, longOrderText())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "part 2")
	assert.Equal(t, 501, id)
	assert.Len(t, f.texts, 2)
}
