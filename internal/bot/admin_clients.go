package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/order-bot/internal/domain/clients"
)

const dateLayout = "02.01.2006"

func (b *Bot) showClientList(ctx context.Context, chatID int64) {
	list, err := b.clients.List(ctx)
	if err != nil {
		b.logger(ctx).Error("list clients failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении списка клиентов"))
		return
	}
	if len(list) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "📋 Список клиентов пуст"))
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Список клиентов:\n\n")
	for i, c := range list {
		flag := ""
		if !c.Complete() {
			flag = " ⚠️ (неполные данные)"
		}
		fmt.Fprintf(&sb, "%d. %s%s\n", i+1, orDash(c.Name, "Не указано"), flag)
		fmt.Fprintf(&sb, "   📞 %s\n", orDash(c.Phone, "Не указан"))
		fmt.Fprintf(&sb, "   🆔 ID: %d\n", c.TelegramID)
		fmt.Fprintf(&sb, "   📅 Добавлен: %s\n\n", c.CreatedAt.In(b.loc).Format(dateLayout))
	}
	b.text(chatID, sb.String())
}

// showClientPicker — список клиентов с подсказкой, какую команду отправить.
func (b *Bot) showClientPicker(ctx context.Context, chatID int64, title, usage, example string) {
	list, err := b.clients.List(ctx)
	if err != nil {
		b.logger(ctx).Error("list clients failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении списка клиентов"))
		return
	}
	if len(list) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "📋 Список клиентов пуст"))
		return
	}

	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	for i, c := range list {
		fmt.Fprintf(&sb, "%d. %s (ID: %d)\n", i+1, orDash(c.Name, "Без имени"), c.TelegramID)
	}
	sb.WriteString("\nОтправьте команду:\n" + usage + "\n\nПример:\n" + example)
	for _, part := range splitText(sb.String(), maxMessageLen) {
		b.sendWithKeyboard(chatID, part, backAdminKeyboard())
	}
}

func (b *Bot) showPendingRequests(ctx context.Context, chatID int64) {
	reqs, err := b.clients.PendingRequests(ctx)
	if err != nil {
		b.logger(ctx).Error("list pending requests failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении списка запросов"))
		return
	}
	if len(reqs) == 0 {
		b.send(tgbotapi.NewMessage(chatID,
			"📋 Нет ожидающих запросов на регистрацию.\n\nКлиенты должны сначала написать боту /start"))
		return
	}

	// по сообщению на запрос, чтобы у каждого были свои кнопки
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("📋 Ожидающие запросы на регистрацию: %d", len(reqs))))
	for _, r := range reqs {
		m := tgbotapi.NewMessage(chatID,
			fmt.Sprintf("👤 %s\n🆔 ID: %d\n📱 @%s\n📅 %s",
				r.Name, r.TelegramID, orDash(r.Username, "не указан"),
				r.CreatedAt.In(b.loc).Format(dateLayout+" 15:04")))
		m.ReplyMarkup = registrationKeyboard(r.TelegramID)
		b.send(m)
	}
}

func (b *Bot) cmdAddClient(ctx context.Context, chatID, adminID int64, raw string) {
	a, err := parseClientArgs(b.validate, raw)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Неверный формат!\n\n"+
				"Используйте:\n"+
				"/addclient Telegram_ID | Имя | Телефон\n\n"+
				"Пример:\n"+
				"/addclient 123456789 | Алишер Иванов | +992901234567"))
		return
	}

	c, err := b.clients.Add(ctx, a.TelegramID, a.Name, a.Phone, adminID)
	if errors.Is(err, clients.ErrExists) {
		b.send(tgbotapi.NewMessage(chatID,
			fmt.Sprintf("⚠️ Клиент с ID %d уже существует: %s", c.TelegramID, orDash(c.Name, "Без имени"))))
		return
	}
	if err != nil {
		b.logger(ctx).Error("add client failed", "client_id", a.TelegramID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при добавлении клиента"))
		return
	}
	b.logger(ctx).Info("client added", "client_id", a.TelegramID, "admin_id", adminID)

	b.send(tgbotapi.NewMessage(chatID,
		"✅ Клиент добавлен!\n\n"+
			fmt.Sprintf("🆔 ID: %d\n👤 Имя: %s\n📞 Телефон: %s", a.TelegramID, a.Name, a.Phone)))
	b.send(tgbotapi.NewMessage(a.TelegramID,
		"✅ Администратор добавил вас в систему приема заявок!\n\nОтправьте /start для начала работы."))
}

func (b *Bot) cmdEditClient(ctx context.Context, chatID int64, raw string) {
	a, err := parseClientArgs(b.validate, raw)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Неверный формат!\n\n"+
				"Используйте:\n"+
				"/editclient ID | Имя | Телефон\n\n"+
				"Пример:\n"+
				"/editclient 123456789 | Алишер | +992901234567"))
		return
	}

	err = b.clients.Update(ctx, a.TelegramID, a.Name, a.Phone)
	if errors.Is(err, clients.ErrNotFound) {
		b.send(tgbotapi.NewMessage(chatID, "❌ Клиент не найден"))
		return
	}
	if err != nil {
		b.logger(ctx).Error("edit client failed", "client_id", a.TelegramID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при обновлении данных"))
		return
	}

	b.send(tgbotapi.NewMessage(chatID,
		"✅ Данные клиента обновлены!\n\n"+
			fmt.Sprintf("🆔 ID: %d\n👤 Новое имя: %s\n📞 Новый телефон: %s", a.TelegramID, a.Name, a.Phone)))
	b.send(tgbotapi.NewMessage(a.TelegramID,
		"✏️ Ваши данные были обновлены администратором.\n\n"+
			fmt.Sprintf("👤 Имя: %s\n📞 Телефон: %s", a.Name, a.Phone)))
}

func (b *Bot) cmdBlockClient(ctx context.Context, chatID int64, raw string) {
	id, err := parseIDArg(b.validate, raw)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "❌ Telegram ID должен быть числом\n\nПример: /blockclient 123456789"))
		return
	}

	err = b.clients.Block(ctx, id)
	if errors.Is(err, clients.ErrNotFound) {
		b.send(tgbotapi.NewMessage(chatID, "❌ Клиент не найден"))
		return
	}
	if err != nil {
		b.logger(ctx).Error("block client failed", "client_id", id, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при блокировке клиента"))
		return
	}
	b.logger(ctx).Info("client blocked", "client_id", id)

	b.send(tgbotapi.NewMessage(chatID, "🚫 Клиент заблокирован"))
	b.send(tgbotapi.NewMessage(id, "🚫 Ваш доступ к боту был заблокирован администратором."))
}
