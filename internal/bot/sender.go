package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// GroupSender публикует готовые заявки в Telegram-группу.
type GroupSender struct {
	api *tgbotapi.BotAPI
}

func NewGroupSender(api *tgbotapi.BotAPI) *GroupSender {
	return &GroupSender{api: api}
}

// SendToGroup возвращает message_id первой части. Длинная заявка уходит
// несколькими сообщениями, ошибка любой части считается ошибкой отправки.
func (s *GroupSender) SendToGroup(ctx context.Context, chatID int64, text string) (int, error) {
	first := 0
	for i, part := range splitText(text, maxMessageLen) {
		if err := ctx.Err(); err != nil {
			return first, err
		}
		msg, err := s.api.Send(tgbotapi.NewMessage(chatID, part))
		if err != nil {
			return first, fmt.Errorf("send to group %d (part %d): %w", chatID, i+1, err)
		}
		if i == 0 {
			first = msg.MessageID
		}
	}
	return first, nil
}
